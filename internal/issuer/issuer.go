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

// Package issuer creates signed payment credentials. The engine treats the
// signing side as an opaque capability; the one implementation here issues
// ISO mdoc credentials signed with COSE_Sign1.
package issuer

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/szijpeter/AP2/internal/scheme"
)

// Subject is the minimal user-identity record bound into an issued
// credential.
type Subject struct {
	Name  string
	Email string
}

// IssueRequest carries everything the issuer needs for one credential.
type IssueRequest struct {
	Scheme     scheme.CredentialScheme
	Claims     map[string]any
	SubjectKey *ecdsa.PublicKey
	Expiry     time.Time
	Subject    Subject
}

// IssuedCredential is a credential produced by an Issuer. Never mutated
// after creation.
type IssuedCredential struct {
	ID         string
	Scheme     scheme.CredentialScheme
	Claims     map[string]any
	SubjectKey *ecdsa.PublicKey
	Expiry     time.Time
	IssuerName string
	// Raw is the hex-encoded IssuerSigned structure.
	Raw string
}

// Issuer is the credential-creation capability.
type Issuer interface {
	Issue(req IssueRequest) (*IssuedCredential, error)
}

// GenerateKey creates an ephemeral P-256 private key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
}

// validateRequest enforces the scheme contract before signing: claim names
// must be a subset of the scheme's declared vocabulary.
func validateRequest(req IssueRequest) error {
	if req.Scheme.DocType == "" {
		return fmt.Errorf("issue request missing scheme")
	}
	if len(req.Claims) == 0 {
		return fmt.Errorf("issue request has no claims")
	}
	for name := range req.Claims {
		if !req.Scheme.HasClaim(name) {
			return fmt.Errorf("claim %q is not declared by scheme %s", name, req.Scheme.ID)
		}
	}
	return nil
}
