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

package mdoc

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/veraison/go-cose"
)

// buildTestIssuerSigned assembles a minimal IssuerSigned structure by hand,
// the same shape the issuer package emits.
func buildTestIssuerSigned(t *testing.T, docType, namespace string, claims map[string]any) string {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}

	var tag24Items []cbor.RawMessage
	valueDigests := make(map[uint64][]byte)
	var digestID uint64
	for name, value := range claims {
		random := make([]byte, 16)
		if _, err := rand.Read(random); err != nil {
			t.Fatalf("random: %v", err)
		}
		itemBytes, err := cbor.Marshal(map[string]any{
			"digestID":          digestID,
			"random":            random,
			"elementIdentifier": name,
			"elementValue":      value,
		})
		if err != nil {
			t.Fatalf("encoding item: %v", err)
		}
		tag24, err := cbor.Marshal(cbor.Tag{Number: 24, Content: itemBytes})
		if err != nil {
			t.Fatalf("encoding tag24: %v", err)
		}
		tag24Items = append(tag24Items, tag24)
		digest := sha256.Sum256(tag24)
		valueDigests[digestID] = digest[:]
		digestID++
	}

	msoBytes, err := cbor.Marshal(map[string]any{
		"version":         "1.0",
		"digestAlgorithm": "SHA-256",
		"docType":         docType,
		"valueDigests":    map[string]any{namespace: valueDigests},
	})
	if err != nil {
		t.Fatalf("encoding MSO: %v", err)
	}

	signer, err := cose.NewSigner(cose.AlgorithmES256, key)
	if err != nil {
		t.Fatalf("creating signer: %v", err)
	}
	msg := cose.NewSign1Message()
	msg.Headers.Protected.SetAlgorithm(cose.AlgorithmES256)
	msg.Payload = msoBytes
	if err := msg.Sign(rand.Reader, nil, signer); err != nil {
		t.Fatalf("signing: %v", err)
	}
	issuerAuth, err := msg.MarshalCBOR()
	if err != nil {
		t.Fatalf("encoding COSE_Sign1: %v", err)
	}

	issuerSigned, err := cbor.Marshal(map[string]any{
		"nameSpaces": map[string]any{namespace: tag24Items},
		"issuerAuth": cbor.RawMessage(issuerAuth),
	})
	if err != nil {
		t.Fatalf("encoding IssuerSigned: %v", err)
	}
	return hex.EncodeToString(issuerSigned)
}

func TestParse_IssuerSigned(t *testing.T) {
	raw := buildTestIssuerSigned(t, "com.emvco.payment_card.1", "com.emvco.payment_card.1", map[string]any{
		"card_number":     "4111111111111111",
		"cardholder_name": "Erika Mustermann",
	})

	doc, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if doc.IsDeviceResponse {
		t.Error("expected IssuerSigned, not DeviceResponse")
	}
	if doc.DocType != "com.emvco.payment_card.1" {
		t.Errorf("docType = %q", doc.DocType)
	}

	items := doc.NameSpaces["com.emvco.payment_card.1"]
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	for _, item := range items {
		if item.ElementIdentifier == "" {
			t.Error("expected element identifier")
		}
		if len(item.RawCBOR) == 0 {
			t.Error("expected raw Tag-24 bytes to be retained")
		}
	}
}

func TestParse_ItemDigestsMatchMSO(t *testing.T) {
	raw := buildTestIssuerSigned(t, "com.emvco.payment_card.1", "com.emvco.payment_card.1", map[string]any{
		"card_number": "4111111111111111",
	})

	doc, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.IssuerAuth == nil || doc.IssuerAuth.MSO == nil {
		t.Fatal("expected MSO")
	}

	digests := doc.IssuerAuth.MSO.ValueDigests["com.emvco.payment_card.1"]
	item := doc.NameSpaces["com.emvco.payment_card.1"][0]

	want, ok := digests[item.DigestID]
	if !ok {
		t.Fatalf("no digest for digestID %d", item.DigestID)
	}
	got := sha256.Sum256(item.RawCBOR)
	if string(got[:]) != string(want) {
		t.Error("item digest does not match MSO value digest")
	}
}

func TestParse_DeviceResponse(t *testing.T) {
	issuerSignedHex := buildTestIssuerSigned(t, "com.emvco.payment_card.1", "com.emvco.payment_card.1", map[string]any{
		"card_number": "4111111111111111",
	})
	issuerSignedBytes, err := hex.DecodeString(issuerSignedHex)
	if err != nil {
		t.Fatal(err)
	}
	var issuerSigned map[string]cbor.RawMessage
	if err := cbor.Unmarshal(issuerSignedBytes, &issuerSigned); err != nil {
		t.Fatalf("re-parsing IssuerSigned: %v", err)
	}

	deviceResponse, err := cbor.Marshal(map[string]any{
		"version": "1.0",
		"documents": []any{
			map[string]any{
				"docType": "com.emvco.payment_card.1",
				"issuerSigned": map[string]any{
					"nameSpaces": issuerSigned["nameSpaces"],
					"issuerAuth": issuerSigned["issuerAuth"],
				},
			},
		},
		"status": 0,
	})
	if err != nil {
		t.Fatalf("encoding DeviceResponse: %v", err)
	}

	doc, err := Parse(hex.EncodeToString(deviceResponse))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !doc.IsDeviceResponse {
		t.Error("expected DeviceResponse detection")
	}
	if doc.DocType != "com.emvco.payment_card.1" {
		t.Errorf("docType = %q", doc.DocType)
	}
	if len(doc.NameSpaces["com.emvco.payment_card.1"]) != 1 {
		t.Errorf("expected 1 item, got %d", len(doc.NameSpaces["com.emvco.payment_card.1"]))
	}
}

func TestParse_InvalidInput(t *testing.T) {
	if _, err := Parse("not a credential at all ~~~"); err == nil {
		t.Error("expected error for undecodable input")
	}
}
