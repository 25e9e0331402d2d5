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

package acquire

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/veraison/go-cose"

	"github.com/szijpeter/AP2/internal/format"
	"github.com/szijpeter/AP2/internal/scheme"
	"github.com/szijpeter/AP2/internal/wallet"
)

// presentationParams carries the request fields that bind a presentation
// to its verifier.
type presentationParams struct {
	Nonce       string
	ClientID    string
	ResponseURI string
}

// createMDocPresentation builds an mdoc DeviceResponse containing only the
// selected data elements of the matched credential, base64url-encoded.
func createMDocPresentation(match wallet.CredentialMatch, holderKey *ecdsa.PrivateKey, params presentationParams) (string, error) {
	cred := match.Credential

	selected := make(map[string]bool, len(match.SelectedKeys))
	for _, k := range match.SelectedKeys {
		selected[k] = true
	}

	rawBytes, err := format.DecodeHexOrBase64URL(cred.Raw)
	if err != nil {
		return "", fmt.Errorf("decoding mdoc: %w", err)
	}
	var issuerSigned map[string]cbor.RawMessage
	if err := cbor.Unmarshal(rawBytes, &issuerSigned); err != nil {
		return "", fmt.Errorf("parsing IssuerSigned CBOR: %w", err)
	}

	// Re-emit the retained Tag-24 encodings of the selected items so the
	// issuer's MSO digests stay verifiable. The parser may skip items the
	// issuer structure carries, so positions in the raw namespace arrays
	// cannot be trusted.
	filteredNS := make(map[string][]cbor.RawMessage)
	for ns, items := range cred.NameSpaces {
		var filtered []cbor.RawMessage
		for _, item := range items {
			if len(selected) > 0 && !selected[ns+":"+item.ElementIdentifier] {
				continue
			}
			if len(item.RawCBOR) == 0 {
				continue
			}
			filtered = append(filtered, cbor.RawMessage(item.RawCBOR))
		}
		if len(filtered) > 0 {
			filteredNS[ns] = filtered
		}
	}

	transcript, err := buildSessionTranscript(params.ClientID, params.Nonce, params.ResponseURI)
	if err != nil {
		return "", fmt.Errorf("building SessionTranscript: %w", err)
	}
	deviceAuth, err := createDeviceAuth(holderKey, transcript, cred.DocType)
	if err != nil {
		return "", fmt.Errorf("creating DeviceAuth: %w", err)
	}

	document := map[string]any{
		"docType": cred.DocType,
		"issuerSigned": map[string]any{
			"nameSpaces": filteredNS,
			"issuerAuth": issuerSigned["issuerAuth"],
		},
		"deviceSigned": map[string]any{
			"nameSpaces": map[string]any{},
			"deviceAuth": map[string]any{
				"deviceSignature": cbor.RawMessage(deviceAuth),
			},
		},
	}
	deviceResponse := map[string]any{
		"version":   "1.0",
		"documents": []any{document},
		"status":    0,
	}

	responseBytes, err := cbor.Marshal(deviceResponse)
	if err != nil {
		return "", fmt.Errorf("encoding DeviceResponse: %w", err)
	}
	return format.EncodeBase64URL(responseBytes), nil
}

// buildSessionTranscript builds the OID4VP 1.0 session transcript:
// SessionTranscript = [null, null, ["OpenID4VPHandover", SHA256(HandoverInfo)]]
func buildSessionTranscript(clientID, nonce, responseURI string) ([]byte, error) {
	handoverInfo, err := cbor.Marshal([]any{clientID, nonce, nil, responseURI})
	if err != nil {
		return nil, fmt.Errorf("encoding HandoverInfo: %w", err)
	}
	hash := sha256.Sum256(handoverInfo)
	handover := []any{"OpenID4VPHandover", hash[:]}
	return cbor.Marshal([]any{nil, nil, handover})
}

// createDeviceAuth signs DeviceAuthentication with the holder key.
// DeviceAuthentication = ["DeviceAuthentication", SessionTranscript, DocType, {}],
// carried as a Tag-24 COSE_Sign1 payload.
func createDeviceAuth(holderKey *ecdsa.PrivateKey, sessionTranscript []byte, docType string) ([]byte, error) {
	signer, err := cose.NewSigner(cose.AlgorithmES256, holderKey)
	if err != nil {
		return nil, fmt.Errorf("creating COSE signer: %w", err)
	}

	deviceAuth := []any{
		"DeviceAuthentication",
		cbor.RawMessage(sessionTranscript),
		docType,
		map[string]any{},
	}
	deviceAuthBytes, err := cbor.Marshal(deviceAuth)
	if err != nil {
		return nil, fmt.Errorf("encoding DeviceAuthentication: %w", err)
	}
	payload, err := cbor.Marshal(cbor.Tag{Number: 24, Content: deviceAuthBytes})
	if err != nil {
		return nil, fmt.Errorf("encoding Tag24(DeviceAuthentication): %w", err)
	}

	msg := cose.NewSign1Message()
	msg.Headers.Protected.SetAlgorithm(cose.AlgorithmES256)
	msg.Payload = payload
	if err := msg.Sign(rand.Reader, nil, signer); err != nil {
		return nil, fmt.Errorf("COSE signing: %w", err)
	}
	return msg.MarshalCBOR()
}

// buildPresentationSubmission produces the presentation_submission JSON
// that describes where the verifier finds the mdoc token.
func buildPresentationSubmission(queryID string) (string, error) {
	if queryID == "" {
		queryID = scheme.PaymentCard.ID
	}
	submission := map[string]any{
		"id":            uuid.NewString(),
		"definition_id": queryID,
		"descriptor_map": []map[string]any{
			{
				"id":     queryID,
				"format": scheme.FormatMsoMdoc,
				"path":   "$",
			},
		},
	}
	raw, err := json.Marshal(submission)
	if err != nil {
		return "", fmt.Errorf("encoding presentation submission: %w", err)
	}
	return string(raw), nil
}
