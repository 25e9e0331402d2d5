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
	"crypto/ecdsa"
	"fmt"
	"log"
	"time"

	"github.com/szijpeter/AP2/internal/issuer"
	"github.com/szijpeter/AP2/internal/scheme"
)

// Demo claim values used when seeding a payment credential for testing.
const (
	DemoCardNumber     = "4111111111111111"
	DemoCardholderName = "Erika Mustermann"
)

// SeedIfNeeded issues and stores a demo payment credential unless the
// store already holds one for the payment card scheme. It reports whether
// a credential was added. Concurrent calls are serialized, so at most one
// credential is ever seeded.
func (s *Store) SeedIfNeeded(iss issuer.Issuer, holderKey *ecdsa.PublicKey) (bool, error) {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	if s.HasScheme(scheme.PaymentCard.ID) {
		return false, nil
	}

	cred, err := iss.Issue(issuer.IssueRequest{
		Scheme: scheme.PaymentCard,
		Claims: map[string]any{
			scheme.ClaimCardNumber:     DemoCardNumber,
			scheme.ClaimCardholderName: DemoCardholderName,
		},
		SubjectKey: holderKey,
		Expiry:     time.Now().Add(365 * 24 * time.Hour),
		Subject: issuer.Subject{
			Name: DemoCardholderName,
		},
	})
	if err != nil {
		return false, fmt.Errorf("issuing demo credential: %w", err)
	}

	if _, err := s.Add(cred); err != nil {
		return false, fmt.Errorf("storing demo credential: %w", err)
	}

	log.Printf("[Wallet] Seeded demo payment credential (id=%s)", cred.ID)
	return true, nil
}
