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

package txdata

import (
	"strings"
	"testing"
)

func TestEntryRoundTrip(t *testing.T) {
	e := Entry{
		Type:          TypePaymentCard,
		CredentialIDs: []string{"cred1"},
		HashAlgs:      []string{HashAlgSHA256},
		MerchantName:  "Test Demo Store",
		Amount:        "US $42.99",
	}

	encoded, err := e.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.ContainsRune(encoded, '=') {
		t.Errorf("encoded entry %q contains base64 padding", encoded)
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.MerchantName != e.MerchantName {
		t.Errorf("merchant = %q, want %q", decoded.MerchantName, e.MerchantName)
	}
	if decoded.Type != e.Type {
		t.Errorf("type = %q, want %q", decoded.Type, e.Type)
	}
	if decoded.Amount != e.Amount {
		t.Errorf("amount = %q, want %q", decoded.Amount, e.Amount)
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, err := Decode("!!!not-base64url!!!"); err == nil {
		t.Error("expected error for invalid base64url")
	}
	// Valid base64url but not JSON
	if _, err := Decode("aGVsbG8"); err == nil {
		t.Error("expected error for non-JSON payload")
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{5, "5.00"},
		{5.1, "5.10"},
		{5.123, "5.12"},
		{5.129, "5.12"}, // truncation, never rounding
		{42.99, "42.99"},
		{0, "0.00"},
		{100.5, "100.50"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	e := Entry{
		Type:          TypePaymentCard,
		CredentialIDs: []string{"cred1"},
		HashAlgs:      []string{HashAlgSHA256},
		MerchantName:  "Test Demo Store",
		Amount:        "US $42.99",
	}
	encoded, err := e.Encode()
	if err != nil {
		t.Fatal(err)
	}

	s, err := Summarize(encoded)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Payee != "Test Demo Store" {
		t.Errorf("payee = %q", s.Payee)
	}
	if s.Type != "payment_card" {
		t.Errorf("type = %q", s.Type)
	}
	if s.Amount != "42.99" {
		t.Errorf("amount = %q, want 42.99", s.Amount)
	}
	if s.Currency != "USD" {
		t.Errorf("currency = %q, want USD", s.Currency)
	}
}

func TestSummarize_FallbackKeys(t *testing.T) {
	encode := func(t *testing.T, fields map[string]any) string {
		t.Helper()
		e := mustEncodeJSON(t, fields)
		return e
	}

	// payee fallback when merchant_name absent
	s, err := Summarize(encode(t, map[string]any{"payee": "Fallback Payee", "amount": "1.00"}))
	if err != nil {
		t.Fatal(err)
	}
	if s.Payee != "Fallback Payee" {
		t.Errorf("payee = %q", s.Payee)
	}

	// custom_amount fallback when amount absent
	s, err = Summarize(encode(t, map[string]any{"merchant_name": "M", "custom_amount": "7.50"}))
	if err != nil {
		t.Fatal(err)
	}
	if s.Amount != "7.50" {
		t.Errorf("amount = %q, want 7.50", s.Amount)
	}

	// both amount keys absent: default 10.00 USD
	s, err = Summarize(encode(t, map[string]any{"merchant_name": "M"}))
	if err != nil {
		t.Fatal(err)
	}
	if s.Amount != "10.00" || s.Currency != "USD" {
		t.Errorf("defaults = %q %q, want 10.00 USD", s.Amount, s.Currency)
	}
}

func TestSplitAmount(t *testing.T) {
	amount, currency := splitAmount("US $19.90")
	if amount != "19.90" || currency != "USD" {
		t.Errorf("got %q %q", amount, currency)
	}

	amount, currency = splitAmount("19.90")
	if amount != "19.90" || currency != "USD" {
		t.Errorf("unmarked amount: got %q %q", amount, currency)
	}
}
