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

// Package request builds and decodes the OpenID4VP presentation-request
// envelope exchanged between merchant and wallet.
package request

import (
	"encoding/json"
	"fmt"

	"github.com/szijpeter/AP2/internal/dcql"
)

// ProtocolUnsignedOpenID4VP tags requests that carry an unsigned
// OpenID4VP payload.
const ProtocolUnsignedOpenID4VP = "openid4vp-v1-unsigned"

// AlgES256 is the COSE algorithm identifier for ES256.
const AlgES256 = -7

// Envelope is the outer wire object: a protocol tag plus the request
// payload it qualifies.
type Envelope struct {
	Protocol string          `json:"protocol"`
	Request  json.RawMessage `json:"request"`
}

// Request is an OpenID4VP presentation request.
type Request struct {
	ClientID        string          `json:"client_id"`
	RedirectURI     string          `json:"redirect_uri,omitempty"`
	ResponseType    string          `json:"response_type"`
	ResponseMode    string          `json:"response_mode"`
	Nonce           string          `json:"nonce"`
	DCQLQuery       *dcql.Query     `json:"dcql_query"`
	TransactionData []string        `json:"transaction_data,omitempty"`
	ClientMetadata  *ClientMetadata `json:"client_metadata,omitempty"`
}

// ClientMetadata declares the credential formats and signing algorithms
// the verifier accepts.
type ClientMetadata struct {
	VPFormats map[string]FormatAlgs `json:"vp_formats_supported"`
}

// FormatAlgs lists accepted COSE algorithm identifiers per role.
type FormatAlgs struct {
	IssuerAuthAlgValues []int `json:"issuerauth_alg_values,omitempty"`
	DeviceAuthAlgValues []int `json:"deviceauth_alg_values,omitempty"`
}

// Marshal serializes an envelope around the given request.
func Marshal(protocol string, req *Request) (string, error) {
	rawReq, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}
	raw, err := json.Marshal(Envelope{Protocol: protocol, Request: rawReq})
	if err != nil {
		return "", fmt.Errorf("encoding envelope: %w", err)
	}
	return string(raw), nil
}

// ParseEnvelope decodes the outer envelope. A missing protocol tag
// defaults to the unsigned OpenID4VP protocol; a missing request body
// is an error.
func ParseEnvelope(raw []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("parsing envelope: %w", err)
	}
	if env.Protocol == "" {
		env.Protocol = ProtocolUnsignedOpenID4VP
	}
	if len(env.Request) == 0 || string(env.Request) == "null" {
		return nil, fmt.Errorf("envelope has no request object")
	}
	return &env, nil
}

// ParseRequest decodes the inner request object of an envelope.
func (e *Envelope) ParseRequest() (*Request, error) {
	var req Request
	if err := json.Unmarshal(e.Request, &req); err != nil {
		return nil, fmt.Errorf("parsing request: %w", err)
	}
	return &req, nil
}
