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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/szijpeter/AP2/internal/format"
)

// CurrencyMarkerUSD is the amount prefix the request builder emits.
const CurrencyMarkerUSD = "US $"

// Defaults applied when a transaction-data entry omits display fields.
// Verifiers in the wild are inconsistent here, so the summary path is
// deliberately tolerant rather than strict.
const (
	DefaultCurrency = "USD"
	DefaultAmount   = "10.00"
)

// Summary is the human-readable view of a transaction-data entry shown to
// the user before consent. Never persisted.
type Summary struct {
	Payee    string
	Type     string
	Amount   string
	Currency string
}

// Summarize decodes a base64url transaction-data string into a display
// summary. Unlike Decode it accepts any JSON object and applies fallback
// key names: merchant_name then payee, amount then custom_amount.
func Summarize(encoded string) (Summary, error) {
	data, err := format.DecodeBase64URL(encoded)
	if err != nil {
		return Summary{}, fmt.Errorf("decoding transaction data: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return Summary{}, fmt.Errorf("parsing transaction data: %w", err)
	}

	s := Summary{Currency: DefaultCurrency}

	if v, ok := fields["merchant_name"].(string); ok && v != "" {
		s.Payee = v
	} else if v, ok := fields["payee"].(string); ok {
		s.Payee = v
	}

	if v, ok := fields["type"].(string); ok {
		s.Type = v
	}

	raw := ""
	if v, ok := fields["amount"].(string); ok && v != "" {
		raw = v
	} else if v, ok := fields["custom_amount"].(string); ok {
		raw = v
	}
	if raw == "" {
		s.Amount = DefaultAmount
		return s, nil
	}

	s.Amount, s.Currency = splitAmount(raw)
	return s, nil
}

// splitAmount separates a currency marker from the numeric display amount.
func splitAmount(raw string) (amount, currency string) {
	if rest, ok := strings.CutPrefix(raw, CurrencyMarkerUSD); ok {
		return strings.TrimSpace(rest), "USD"
	}
	return strings.TrimSpace(raw), DefaultCurrency
}
