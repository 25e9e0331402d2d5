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

// Package txdata encodes and decodes the transaction-data entries bound into
// payment presentation requests. Each entry travels as a single base64url
// string (no padding) whose payload describes the transaction the credential
// presentation authorizes.
package txdata

import (
	"encoding/json"
	"fmt"

	"github.com/szijpeter/AP2/internal/format"
)

// TypePaymentCard is the transaction-data type tag for card payments.
const TypePaymentCard = "payment_card"

// HashAlgSHA256 is the only hash algorithm the engine offers for
// transaction-data binding.
const HashAlgSHA256 = "sha-256"

// Entry is one decoded transaction-data entry.
type Entry struct {
	Type           string   `json:"type"`
	CredentialIDs  []string `json:"credential_ids"`
	HashAlgs       []string `json:"transaction_data_hashes_alg"`
	MerchantName   string   `json:"merchant_name"`
	Amount         string   `json:"amount"`
	AdditionalInfo string   `json:"additional_info,omitempty"`
}

// Encode serializes the entry as base64url JSON without padding.
func (e Entry) Encode() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("marshaling transaction data: %w", err)
	}
	return format.EncodeBase64URL(data), nil
}

// Decode parses a base64url transaction-data string back into an Entry.
func Decode(s string) (Entry, error) {
	data, err := format.DecodeBase64URL(s)
	if err != nil {
		return Entry{}, fmt.Errorf("decoding transaction data: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, fmt.Errorf("parsing transaction data: %w", err)
	}
	return e, nil
}
