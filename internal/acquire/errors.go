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

package acquire

import "errors"

// Acquisition failure classes. Callers branch on these with errors.Is;
// anything not covered is wrapped in ErrInternal.
var (
	// ErrMalformedEnvelope means the inbound envelope had no parseable
	// request object.
	ErrMalformedEnvelope = errors.New("malformed request envelope")

	// ErrUnsupportedRequest means the request object decoded but does
	// not have the expected shape.
	ErrUnsupportedRequest = errors.New("unsupported presentation request")

	// ErrUserCancelled means the user declined the confirmation prompt.
	// It is an expected outcome, not a fault.
	ErrUserCancelled = errors.New("user cancelled the presentation")

	// ErrUnserializableResult means both the structured encoder and the
	// textual fallback failed to serialize the finalized response.
	ErrUnserializableResult = errors.New("response could not be serialized")

	// ErrInternal wraps unexpected failures.
	ErrInternal = errors.New("internal acquisition error")
)
