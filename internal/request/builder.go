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

package request

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/szijpeter/AP2/internal/dcql"
	"github.com/szijpeter/AP2/internal/scheme"
	"github.com/szijpeter/AP2/internal/txdata"
)

// Item is a single order line.
type Item struct {
	Name      string
	UnitPrice float64
}

// Order is the merchant-side input to the request builder: the cart
// being paid for and who is asking.
type Order struct {
	MerchantName string
	Total        float64
	Items        []Item
}

// syntheticCredentialID binds transaction data to the single credential
// query the builder emits.
const syntheticCredentialID = "payment-card-credential"

// responsePath is where the merchant origin receives the presentation.
const responsePath = "/dc-response"

// Build produces a presentation-request envelope for an order. The
// output is deterministic except for the nonce, which is fresh per call.
func Build(order Order) (*Envelope, error) {
	entry := txdata.Entry{
		Type:          txdata.TypePaymentCard,
		CredentialIDs: []string{syntheticCredentialID},
		HashAlgs:      []string{txdata.HashAlgSHA256},
		MerchantName:  order.MerchantName,
		Amount:        txdata.CurrencyMarkerUSD + txdata.FormatAmount(order.Total),
	}

	if info := displayTable(order.Items); info != "" {
		entry.AdditionalInfo = info
	}

	encoded, err := entry.Encode()
	if err != nil {
		return nil, fmt.Errorf("encoding transaction data: %w", err)
	}

	origin := "https://" + merchantSlug(order.MerchantName) + ".example"
	req := &Request{
		ClientID:     "web-origin:" + origin,
		RedirectURI:  origin + responsePath,
		ResponseType: "vp_token",
		ResponseMode: "dc_api",
		Nonce:        uuid.NewString(),
		DCQLQuery:    dcql.ForScheme(scheme.PaymentCard),
		TransactionData: []string{
			encoded,
		},
		ClientMetadata: &ClientMetadata{
			VPFormats: map[string]FormatAlgs{
				scheme.FormatMsoMdoc: {
					IssuerAuthAlgValues: []int{AlgES256},
					DeviceAuthAlgValues: []int{AlgES256},
				},
			},
		},
	}

	rawReq, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	return &Envelope{Protocol: ProtocolUnsignedOpenID4VP, Request: rawReq}, nil
}

// merchantSlug turns a merchant display name into a hostname label for
// the synthetic merchant origin.
func merchantSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "merchant"
	}
	return slug
}

// displayTable renders the order lines into the human-readable blob
// shown alongside the consent prompt. Quantity is fixed at one.
func displayTable(items []Item) string {
	if len(items) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(items)+1)
	rows = append(rows, []string{"Item", "Qty", "Unit Price", "Total"})
	for _, item := range items {
		price := txdata.FormatAmount(item.UnitPrice)
		rows = append(rows, []string{item.Name, "1", price, price})
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return ""
	}
	return string(raw)
}
