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

package scheme

import "testing"

func TestByID(t *testing.T) {
	s, ok := ByID("payment_card")
	if !ok {
		t.Fatal("payment_card scheme not registered")
	}
	if s.DocType != "com.emvco.payment_card.1" {
		t.Errorf("DocType = %q", s.DocType)
	}
	if s.Namespace != s.DocType {
		t.Errorf("Namespace = %q, want same as DocType", s.Namespace)
	}

	if _, ok := ByID("drivers_license"); ok {
		t.Error("expected unknown scheme to be absent")
	}
}

func TestHasClaim(t *testing.T) {
	if !PaymentCard.HasClaim(ClaimCardNumber) {
		t.Error("expected card_number claim")
	}
	if !PaymentCard.HasClaim(ClaimCardholderName) {
		t.Error("expected cardholder_name claim")
	}
	if PaymentCard.HasClaim("birthdate") {
		t.Error("birthdate must not be part of the payment card scheme")
	}
}

func TestSupportsFormat(t *testing.T) {
	if !PaymentCard.SupportsFormat(FormatMsoMdoc) {
		t.Error("expected mso_mdoc support")
	}
	if PaymentCard.SupportsFormat("dc+sd-jwt") {
		t.Error("payment card is mdoc-only")
	}
}
