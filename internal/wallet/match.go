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

package wallet

import (
	"log"

	"github.com/szijpeter/AP2/internal/dcql"
	"github.com/szijpeter/AP2/internal/scheme"
)

// CredentialMatch pairs a credential query with a stored credential that
// satisfies it, along with the claim keys the query selected.
type CredentialMatch struct {
	QueryID      string
	Credential   StoredCredential
	SelectedKeys []string
}

// MatchDCQL evaluates each credential query of a DCQL query against the
// store and returns all matches. A query with no claims matches any
// credential of the right format and doctype.
func (s *Store) MatchDCQL(query *dcql.Query) []CredentialMatch {
	if query == nil {
		return nil
	}

	credentials := s.GetCredentials()
	var matches []CredentialMatch

	for _, cq := range query.Credentials {
		for _, cred := range credentials {
			selected, ok := matchCredential(cq, cred)
			if !ok {
				continue
			}
			matches = append(matches, CredentialMatch{
				QueryID:      cq.ID,
				Credential:   cred,
				SelectedKeys: selected,
			})
		}
	}

	log.Printf("[Wallet] DCQL query: %d credential queries, %d matches", len(query.Credentials), len(matches))
	return matches
}

func matchCredential(cq dcql.CredentialQuery, cred StoredCredential) ([]string, bool) {
	if cq.Format != "" && cq.Format != cred.Format {
		return nil, false
	}
	if !matchesMeta(cq.Meta, cred) {
		return nil, false
	}

	var selected []string
	for _, claim := range cq.Claims {
		key, ok := claimKeyFromPath(claim.Path)
		if !ok {
			return nil, false
		}
		if _, present := cred.Claims[key]; !present {
			return nil, false
		}
		selected = append(selected, key)
	}
	return selected, true
}

func matchesMeta(meta *dcql.CredentialMeta, cred StoredCredential) bool {
	if meta == nil || meta.DoctypeValue == "" {
		return true
	}
	return meta.DoctypeValue == cred.DocType
}

// claimKeyFromPath converts an mdoc claim path [namespace, element] into
// the store's "namespace:element" index key.
func claimKeyFromPath(path []any) (string, bool) {
	if len(path) != 2 {
		return "", false
	}
	ns, ok1 := path[0].(string)
	elem, ok2 := path[1].(string)
	if !ok1 || !ok2 || ns == "" || elem == "" {
		return "", false
	}
	return ns + ":" + elem, true
}

// MatchScheme is a convenience wrapper matching the store against the
// generated query for a credential scheme.
func (s *Store) MatchScheme(cs scheme.CredentialScheme) []CredentialMatch {
	return s.MatchDCQL(dcql.ForScheme(cs))
}
