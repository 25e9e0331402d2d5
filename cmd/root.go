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

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/szijpeter/AP2/internal/config"
)

var (
	jsonOutput bool
	noColor    bool
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "dpc",
	Short: "Build, acquire, and inspect digital payment credential presentations",
	Long:  "A local-first CLI for the digital payment credential presentation flow: build OpenID4VP payment requests, run the holder-side acquisition with terminal consent, and manage the demo wallet.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
		if !verbose {
			log.SetOutput(io.Discard)
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (env: DPC_*)")
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
