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

// Package scheme defines the static credential scheme descriptors the engine
// can issue and present. A scheme ties a credential type to its ISO mdoc
// document type, namespace, and claim vocabulary.
package scheme

// CredentialScheme describes one credential type. Instances are immutable
// and registered at init time.
type CredentialScheme struct {
	ID        string
	DocType   string
	Namespace string
	Claims    []string
	Formats   []string
}

// Claim names for the payment card scheme.
const (
	ClaimCardNumber     = "card_number"
	ClaimCardholderName = "cardholder_name"
)

// FormatMsoMdoc is the mobile-document credential family identifier used in
// DCQL queries and client metadata.
const FormatMsoMdoc = "mso_mdoc"

// PaymentCard is the digital-payment-credential scheme: an EMVCo-style
// payment card carried as an ISO mdoc.
var PaymentCard = CredentialScheme{
	ID:        "payment_card",
	DocType:   "com.emvco.payment_card.1",
	Namespace: "com.emvco.payment_card.1",
	Claims:    []string{ClaimCardNumber, ClaimCardholderName},
	Formats:   []string{FormatMsoMdoc},
}

var registry = map[string]CredentialScheme{
	PaymentCard.ID: PaymentCard,
}

// ByID looks up a registered scheme.
func ByID(id string) (CredentialScheme, bool) {
	s, ok := registry[id]
	return s, ok
}

// HasClaim reports whether name is part of the scheme's declared vocabulary.
func (s CredentialScheme) HasClaim(name string) bool {
	for _, c := range s.Claims {
		if c == name {
			return true
		}
	}
	return false
}

// SupportsFormat reports whether the scheme can be encoded as the given
// credential format.
func (s CredentialScheme) SupportsFormat(format string) bool {
	for _, f := range s.Formats {
		if f == format {
			return true
		}
	}
	return false
}
