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

package issuer

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/veraison/go-cose"
)

// MdocIssuer signs ISO mdoc credentials with an EC P-256 key.
type MdocIssuer struct {
	Name string
	Key  *ecdsa.PrivateKey
}

// NewMdocIssuer creates an issuer identified by name, signing with key.
func NewMdocIssuer(name string, key *ecdsa.PrivateKey) *MdocIssuer {
	return &MdocIssuer{Name: name, Key: key}
}

// Issue builds and signs an IssuerSigned mdoc for the request: Tag-24
// wrapped IssuerSignedItems with per-claim random salts, digest-indexed
// into an MSO, signed as COSE_Sign1.
func (i *MdocIssuer) Issue(req IssueRequest) (*IssuedCredential, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)

	var tag24Items []cbor.RawMessage
	valueDigests := make(map[uint64][]byte)

	var digestID uint64
	for name, value := range req.Claims {
		random := make([]byte, 16)
		if _, err := rand.Read(random); err != nil {
			return nil, fmt.Errorf("generating random: %w", err)
		}

		item := map[string]any{
			"digestID":          digestID,
			"random":            random,
			"elementIdentifier": name,
			"elementValue":      value,
		}

		itemBytes, err := cbor.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("encoding IssuerSignedItem: %w", err)
		}

		// Wrap in Tag 24 (embedded CBOR)
		tag24Bytes, err := cbor.Marshal(cbor.Tag{Number: 24, Content: itemBytes})
		if err != nil {
			return nil, fmt.Errorf("encoding Tag-24: %w", err)
		}

		tag24Items = append(tag24Items, tag24Bytes)

		digest := sha256.Sum256(tag24Bytes)
		valueDigests[digestID] = digest[:]
		digestID++
	}

	mso := map[string]any{
		"version":         "1.0",
		"digestAlgorithm": "SHA-256",
		"docType":         req.Scheme.DocType,
		"valueDigests": map[string]any{
			req.Scheme.Namespace: valueDigests,
		},
		"validityInfo": map[string]any{
			"signed":     cbor.Tag{Number: 0, Content: now.Format(time.RFC3339)},
			"validFrom":  cbor.Tag{Number: 0, Content: now.Format(time.RFC3339)},
			"validUntil": cbor.Tag{Number: 0, Content: req.Expiry.UTC().Format(time.RFC3339)},
		},
	}

	if req.SubjectKey != nil {
		mso["deviceKeyInfo"] = map[string]any{
			"deviceKey": coseKeyFromEC(req.SubjectKey),
		}
	}

	msoBytes, err := cbor.Marshal(mso)
	if err != nil {
		return nil, fmt.Errorf("encoding MSO: %w", err)
	}

	signer, err := cose.NewSigner(cose.AlgorithmES256, i.Key)
	if err != nil {
		return nil, fmt.Errorf("creating COSE signer: %w", err)
	}

	msg := cose.NewSign1Message()
	msg.Headers.Protected.SetAlgorithm(cose.AlgorithmES256)
	msg.Payload = msoBytes

	if err := msg.Sign(rand.Reader, nil, signer); err != nil {
		return nil, fmt.Errorf("COSE signing: %w", err)
	}

	issuerAuthBytes, err := msg.MarshalCBOR()
	if err != nil {
		return nil, fmt.Errorf("encoding COSE_Sign1: %w", err)
	}

	issuerSigned := map[string]any{
		"nameSpaces": map[string]any{
			req.Scheme.Namespace: tag24Items,
		},
		"issuerAuth": cbor.RawMessage(issuerAuthBytes),
	}

	issuerSignedBytes, err := cbor.Marshal(issuerSigned)
	if err != nil {
		return nil, fmt.Errorf("encoding IssuerSigned: %w", err)
	}

	return &IssuedCredential{
		ID:         uuid.New().String(),
		Scheme:     req.Scheme,
		Claims:     req.Claims,
		SubjectKey: req.SubjectKey,
		Expiry:     req.Expiry,
		IssuerName: i.Name,
		Raw:        hex.EncodeToString(issuerSignedBytes),
	}, nil
}

// coseKeyFromEC renders an EC public key as a COSE_Key map
// (kty=2 EC2, crv=1 P-256).
func coseKeyFromEC(key *ecdsa.PublicKey) map[int]any {
	size := (key.Curve.Params().BitSize + 7) / 8
	x := make([]byte, size)
	y := make([]byte, size)
	key.X.FillBytes(x)
	key.Y.FillBytes(y)
	return map[int]any{
		1:  2,
		-1: 1,
		-2: x,
		-3: y,
	}
}
