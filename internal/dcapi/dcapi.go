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

// Package dcapi selects the digital-credential exchange channel: the
// platform's native credential manager when available, with the local
// acquisition engine as fallback.
package dcapi

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// Provider hands a presentation-request envelope to a credential source
// and returns the response envelope, both as JSON strings.
type Provider interface {
	GetDigitalCredential(ctx context.Context, requestJSON string) (string, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, requestJSON string) (string, error)

func (f ProviderFunc) GetDigitalCredential(ctx context.Context, requestJSON string) (string, error) {
	return f(ctx, requestJSON)
}

// ErrNativeUnavailable is returned by native providers on platforms
// without a credential manager.
var ErrNativeUnavailable = errors.New("dcapi: native credential manager unavailable")

// Selector prefers the native provider and falls back to the local one
// when the native path fails or is disabled.
type Selector struct {
	Native       Provider
	Local        Provider
	PreferNative bool
}

// GetDigitalCredential routes the request per the selector's policy.
// A cancelled context never triggers the fallback path.
func (s *Selector) GetDigitalCredential(ctx context.Context, requestJSON string) (string, error) {
	if s.PreferNative && s.Native != nil {
		resp, err := s.Native.GetDigitalCredential(ctx, requestJSON)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Printf("[DCAPI] Native credential manager failed, falling back: %v", err)
	}
	if s.Local == nil {
		return "", fmt.Errorf("dcapi: no local provider configured")
	}
	return s.Local.GetDigitalCredential(ctx, requestJSON)
}
