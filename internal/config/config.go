// Copyright 2026 the AP2 authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads runtime settings from a config file and DPC_*
// environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the runtime settings of the presentation engine.
type Config struct {
	// UseMockedCredentials enables demo-credential seeding before each
	// acquisition.
	UseMockedCredentials bool `mapstructure:"use_mocked_credentials"`

	// UseNativeManager prefers the platform credential manager over the
	// local acquisition engine.
	UseNativeManager bool `mapstructure:"use_native_manager"`

	// MerchantName is the default merchant identity for built requests.
	MerchantName string `mapstructure:"merchant_name"`
}

// Load reads configuration from the given file (optional) and the
// environment. Environment variables use the DPC_ prefix, e.g.
// DPC_USE_MOCKED_CREDENTIALS=false.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("use_mocked_credentials", true)
	v.SetDefault("use_native_manager", true)
	v.SetDefault("merchant_name", "Test Demo Store")

	v.SetEnvPrefix("DPC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
