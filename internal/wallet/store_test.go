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
	"testing"
	"time"

	"github.com/szijpeter/AP2/internal/dcql"
	"github.com/szijpeter/AP2/internal/issuer"
	"github.com/szijpeter/AP2/internal/scheme"
)

func newTestStore(t *testing.T) (*Store, issuer.Issuer) {
	t.Helper()
	key, err := issuer.GenerateKey()
	if err != nil {
		t.Fatalf("generating issuer key: %v", err)
	}
	return NewStore(), issuer.NewMdocIssuer("Test Bank", key)
}

func seedTestCredential(t *testing.T, store *Store, iss issuer.Issuer) StoredCredential {
	t.Helper()
	holderKey, err := issuer.GenerateKey()
	if err != nil {
		t.Fatalf("generating holder key: %v", err)
	}
	added, err := store.SeedIfNeeded(iss, &holderKey.PublicKey)
	if err != nil {
		t.Fatalf("seeding: %v", err)
	}
	if !added {
		t.Fatal("expected first seed to add a credential")
	}
	cred, ok := store.FirstCredential()
	if !ok {
		t.Fatal("store empty after seeding")
	}
	return cred
}

func TestSeedIfNeededIdempotent(t *testing.T) {
	store, iss := newTestStore(t)
	holderKey, err := issuer.GenerateKey()
	if err != nil {
		t.Fatalf("generating holder key: %v", err)
	}

	added, err := store.SeedIfNeeded(iss, &holderKey.PublicKey)
	if err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if !added {
		t.Error("first seed should report added=true")
	}

	added, err = store.SeedIfNeeded(iss, &holderKey.PublicKey)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if added {
		t.Error("second seed should report added=false")
	}

	if got := len(store.GetCredentials()); got != 1 {
		t.Errorf("expected exactly 1 credential after double seed, got %d", got)
	}
}

func TestStoredCredentialClaims(t *testing.T) {
	store, iss := newTestStore(t)
	cred := seedTestCredential(t, store, iss)

	if cred.DocType != scheme.PaymentCard.DocType {
		t.Errorf("docType = %q, want %q", cred.DocType, scheme.PaymentCard.DocType)
	}
	key := scheme.PaymentCard.Namespace + ":" + scheme.ClaimCardNumber
	if got := cred.Claims[key]; got != DemoCardNumber {
		t.Errorf("card number claim = %v, want %q", got, DemoCardNumber)
	}
	if cred.Expiry.Before(time.Now()) {
		t.Error("seeded credential already expired")
	}
}

func TestDisplayLast4(t *testing.T) {
	store, iss := newTestStore(t)
	cred := seedTestCredential(t, store, iss)

	info := cred.Display()
	if info.Last4 != "1111" {
		t.Errorf("last4 = %q, want %q", info.Last4, "1111")
	}
	if info.Name != "Test Bank" {
		t.Errorf("display name = %q, want issuer name", info.Name)
	}
}

func TestMatchDCQL(t *testing.T) {
	store, iss := newTestStore(t)
	seedTestCredential(t, store, iss)

	matches := store.MatchScheme(scheme.PaymentCard)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if len(matches[0].SelectedKeys) != len(scheme.PaymentCard.Claims) {
		t.Errorf("selected %d keys, want %d", len(matches[0].SelectedKeys), len(scheme.PaymentCard.Claims))
	}
}

func TestMatchDCQLWrongDoctype(t *testing.T) {
	store, iss := newTestStore(t)
	seedTestCredential(t, store, iss)

	query := &dcql.Query{Credentials: []dcql.CredentialQuery{{
		ID:     "other",
		Format: scheme.FormatMsoMdoc,
		Meta:   &dcql.CredentialMeta{DoctypeValue: "org.iso.18013.5.1.mDL"},
	}}}
	if matches := store.MatchDCQL(query); len(matches) != 0 {
		t.Errorf("expected no matches for foreign doctype, got %d", len(matches))
	}
}

func TestMatchDCQLUnknownClaim(t *testing.T) {
	store, iss := newTestStore(t)
	seedTestCredential(t, store, iss)

	query := &dcql.Query{Credentials: []dcql.CredentialQuery{{
		ID:     "pc",
		Format: scheme.FormatMsoMdoc,
		Claims: []dcql.ClaimQuery{{Path: []any{scheme.PaymentCard.Namespace, "birthdate"}}},
	}}}
	if matches := store.MatchDCQL(query); len(matches) != 0 {
		t.Errorf("expected no matches for undeclared claim, got %d", len(matches))
	}
}

func TestRemoveCredential(t *testing.T) {
	store, iss := newTestStore(t)
	cred := seedTestCredential(t, store, iss)

	if !store.RemoveCredential(cred.ID) {
		t.Fatal("remove reported false for existing credential")
	}
	if store.HasScheme(scheme.PaymentCard.ID) {
		t.Error("scheme still present after removal")
	}
	if store.RemoveCredential(cred.ID) {
		t.Error("second remove should report false")
	}
}
