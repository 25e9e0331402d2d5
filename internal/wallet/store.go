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

// Package wallet holds the in-memory credential store of the holder side:
// issued payment credentials, DCQL matching against them, and the demo
// seeding path. Credentials live for the process lifetime only.
package wallet

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/szijpeter/AP2/internal/issuer"
	"github.com/szijpeter/AP2/internal/mdoc"
	"github.com/szijpeter/AP2/internal/scheme"
)

// StoredCredential is a credential held by the wallet. Claims are indexed
// as "namespace:element" for matching and display.
type StoredCredential struct {
	ID         string
	SchemeID   string
	DocType    string
	Format     string
	Raw        string
	Claims     map[string]any
	Expiry     time.Time
	IssuerName string
	NameSpaces map[string][]mdoc.IssuerSignedItem
}

// Store is the holder credential store. All accessors return snapshots.
type Store struct {
	mu          sync.RWMutex
	credentials []StoredCredential

	// seedMu serializes check-then-issue-then-store so concurrent seeding
	// cannot duplicate a credential.
	seedMu sync.Mutex
}

// NewStore creates an empty credential store.
func NewStore() *Store {
	return &Store{}
}

// Add parses and stores an issued credential, returning a copy of the
// stored entry. The raw mdoc is re-parsed rather than trusted so the
// indexed claims always reflect what was actually signed.
func (s *Store) Add(cred *issuer.IssuedCredential) (*StoredCredential, error) {
	doc, err := mdoc.Parse(cred.Raw)
	if err != nil {
		return nil, fmt.Errorf("parsing issued credential: %w", err)
	}

	claims := make(map[string]any)
	for ns, items := range doc.NameSpaces {
		for _, item := range items {
			claims[ns+":"+item.ElementIdentifier] = item.ElementValue
		}
	}

	stored := StoredCredential{
		ID:         cred.ID,
		SchemeID:   cred.Scheme.ID,
		DocType:    doc.DocType,
		Format:     scheme.FormatMsoMdoc,
		Raw:        cred.Raw,
		Claims:     claims,
		Expiry:     cred.Expiry,
		IssuerName: cred.IssuerName,
		NameSpaces: doc.NameSpaces,
	}

	s.mu.Lock()
	s.credentials = append(s.credentials, stored)
	s.mu.Unlock()

	log.Printf("[Wallet] Stored credential: scheme=%s docType=%s claims=%d", stored.SchemeID, stored.DocType, len(claims))
	return &stored, nil
}

// GetCredentials returns a snapshot of all credentials.
func (s *Store) GetCredentials() []StoredCredential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]StoredCredential, len(s.credentials))
	copy(out, s.credentials)
	return out
}

// GetCredential returns a credential by ID.
func (s *Store) GetCredential(id string) (StoredCredential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.credentials {
		if c.ID == id {
			return c, true
		}
	}
	return StoredCredential{}, false
}

// FirstCredential returns the first stored credential, if any.
func (s *Store) FirstCredential() (StoredCredential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.credentials) == 0 {
		return StoredCredential{}, false
	}
	return s.credentials[0], true
}

// HasScheme reports whether any stored credential was issued under the
// given scheme.
func (s *Store) HasScheme(schemeID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.credentials {
		if c.SchemeID == schemeID {
			return true
		}
	}
	return false
}

// RemoveCredential removes a credential by ID.
func (s *Store) RemoveCredential(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.credentials {
		if c.ID == id {
			s.credentials = append(s.credentials[:i], s.credentials[i+1:]...)
			return true
		}
	}
	return false
}

// DisplayInfo is the credential view shown in a consent prompt.
type DisplayInfo struct {
	Name   string
	Last4  string
	ArtURL string
}

// Display derives the consent-prompt view of a credential.
func (c StoredCredential) Display() DisplayInfo {
	info := DisplayInfo{Name: c.IssuerName}
	if info.Name == "" {
		info.Name = c.SchemeID
	}
	for key, value := range c.Claims {
		if strings.HasSuffix(key, ":"+scheme.ClaimCardNumber) {
			if num, ok := value.(string); ok {
				digits := strings.ReplaceAll(num, " ", "")
				if len(digits) >= 4 {
					info.Last4 = digits[len(digits)-4:]
				}
			}
		}
	}
	return info
}
