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

// Package dcql models the credential query language used in presentation
// requests and generates queries from registered credential schemes.
package dcql

import (
	"strings"

	"github.com/szijpeter/AP2/internal/scheme"
)

// ForScheme generates a DCQL query requesting every claim of the given
// scheme as an mdoc claim path [namespace, claim].
func ForScheme(s scheme.CredentialScheme) *Query {
	id := sanitizeID(s.DocType)
	if id == "" {
		id = "credential_0"
	}

	claims := make([]ClaimQuery, 0, len(s.Claims))
	for _, name := range s.Claims {
		claims = append(claims, ClaimQuery{
			Path: []any{s.Namespace, name},
		})
	}

	cq := CredentialQuery{
		ID:     id,
		Format: scheme.FormatMsoMdoc,
		Claims: claims,
	}

	if s.DocType != "" {
		cq.Meta = &CredentialMeta{
			DoctypeValue: s.DocType,
		}
	}

	return &Query{Credentials: []CredentialQuery{cq}}
}

func sanitizeID(s string) string {
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, ".", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.TrimLeft(s, "_")
	if len(s) > 50 {
		s = s[:50]
	}
	return s
}
