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

package dcql

// Query is a DCQL query.
type Query struct {
	Credentials []CredentialQuery `json:"credentials"`
}

// CredentialQuery defines a single credential request.
type CredentialQuery struct {
	ID     string          `json:"id"`
	Format string          `json:"format"`
	Meta   *CredentialMeta `json:"meta,omitempty"`
	Claims []ClaimQuery    `json:"claims"`
}

// CredentialMeta contains format-specific metadata.
type CredentialMeta struct {
	DoctypeValue string `json:"doctype_value,omitempty"`
}

// ClaimQuery defines a single claim request.
// Path elements are strings (object keys) or nil (array wildcard). For mdoc
// credentials the path is [namespace, element identifier].
type ClaimQuery struct {
	Path []any `json:"path"`
}
