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

// Package acquire drives the holder side of a presentation exchange: it
// unpacks the verifier envelope, matches the request against the wallet,
// gates release on user consent, and serializes the response.
package acquire

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/szijpeter/AP2/internal/consent"
	"github.com/szijpeter/AP2/internal/issuer"
	"github.com/szijpeter/AP2/internal/request"
	"github.com/szijpeter/AP2/internal/txdata"
	"github.com/szijpeter/AP2/internal/wallet"
)

// Orchestrator runs acquisitions against one wallet store and one
// consent gate. Each orchestrator owns its gate, so concurrent
// orchestrators never contend for the same pending-prompt slot.
type Orchestrator struct {
	store     *wallet.Store
	gate      *consent.Gate
	issuer    issuer.Issuer
	holderKey *ecdsa.PrivateKey
	encoder   ResponseEncoder

	// seedDemo enables best-effort demo seeding at the start of each
	// acquisition.
	seedDemo bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDemoSeeding toggles demo-credential seeding per acquisition.
func WithDemoSeeding(enabled bool) Option {
	return func(o *Orchestrator) { o.seedDemo = enabled }
}

// WithEncoder substitutes the response encoder.
func WithEncoder(enc ResponseEncoder) Option {
	return func(o *Orchestrator) { o.encoder = enc }
}

// New creates an orchestrator with its own consent gate.
func New(store *wallet.Store, iss issuer.Issuer, holderKey *ecdsa.PrivateKey, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:     store,
		gate:      consent.NewGate(),
		issuer:    iss,
		holderKey: holderKey,
		encoder:   jsonEncoder{},
		seedDemo:  true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Gate exposes the orchestrator's consent gate so a UI can subscribe to
// prompts and resolve them.
func (o *Orchestrator) Gate() *consent.Gate {
	return o.gate
}

// responseEnvelope is the outbound wire object.
type responseEnvelope struct {
	Protocol string       `json:"protocol"`
	Data     responseData `json:"data"`
}

type responseData struct {
	VPToken                string `json:"vp_token"`
	PresentationSubmission string `json:"presentation_submission"`
}

// Acquire handles one presentation request end to end and returns the
// response envelope as a JSON string. The call blocks at the consent
// gate; cancelling ctx aborts the wait and clears the gate slot.
func (o *Orchestrator) Acquire(ctx context.Context, envelopeJSON string) (string, error) {
	if o.seedDemo {
		o.seed()
	}

	env, err := request.ParseEnvelope([]byte(envelopeJSON))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	req, err := env.ParseRequest()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedRequest, err)
	}
	if req.DCQLQuery == nil {
		return "", fmt.Errorf("%w: request has no dcql_query", ErrUnsupportedRequest)
	}

	walletReq := o.prepareWalletRequest(env)
	log.Printf("[Acquire] Prepared wallet request: origin=%s credential=%q", walletReq.CallingOrigin, walletReq.CredentialID)

	matches := o.store.MatchDCQL(req.DCQLQuery)
	if len(matches) == 0 {
		log.Printf("[Acquire] No stored credential matches the query; presentation will be empty")
	}

	summary := o.summarize(req)
	prompt := consent.Prompt{
		Merchant: summary.Payee,
		Amount:   summary.Amount,
		Currency: summary.Currency,
	}
	if len(matches) > 0 {
		prompt.Credential = matches[0].Credential.Display()
	}

	approved, err := o.gate.RequestConfirmation(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", ErrUserCancelled, err)
		}
		return "", fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if !approved {
		log.Printf("[Acquire] User declined presentation for %q", summary.Payee)
		return "", ErrUserCancelled
	}

	resp, err := o.finalize(req, matches)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternal, err)
	}

	vpToken, submission, err := decodeResponse(o.encoder, resp)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(responseEnvelope{
		Protocol: env.Protocol,
		Data: responseData{
			VPToken:                vpToken,
			PresentationSubmission: submission,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: encoding response envelope: %v", ErrInternal, err)
	}
	log.Printf("[Acquire] Presentation released to %q", summary.Payee)
	return string(out), nil
}

// Caller identity presented to the platform credential layer.
const (
	callingPackage = "com.ap2.wallet"
	callingOrigin  = "https://wallet.ap2.dev"
)

// walletRequest binds an inbound envelope to the platform caller
// identity and the credential it will be served from.
type walletRequest struct {
	CredentialID   string
	CallingPackage string
	CallingOrigin  string
	Envelope       *request.Envelope
}

// prepareWalletRequest selects the first stored credential (empty id if
// the store is empty) and pairs the envelope with the fixed caller
// identity.
func (o *Orchestrator) prepareWalletRequest(env *request.Envelope) walletRequest {
	id := ""
	if cred, ok := o.store.FirstCredential(); ok {
		id = cred.ID
	}
	return walletRequest{
		CredentialID:   id,
		CallingPackage: callingPackage,
		CallingOrigin:  callingOrigin,
		Envelope:       env,
	}
}

// seed makes a best-effort attempt to ensure a demo credential exists.
// Failures are logged, not fatal.
func (o *Orchestrator) seed() {
	if o.issuer == nil || o.holderKey == nil {
		return
	}
	added, err := o.store.SeedIfNeeded(o.issuer, &o.holderKey.PublicKey)
	if err != nil {
		log.Printf("[Acquire] Demo seeding failed (continuing): %v", err)
		return
	}
	if added {
		log.Printf("[Acquire] Demo credential seeded")
	}
}

// summarize recovers the consent-facing transaction facts from the
// request's first transaction-data entry, falling back to defaults when
// the entry is missing or unreadable.
func (o *Orchestrator) summarize(req *request.Request) txdata.Summary {
	fallback := txdata.Summary{Currency: txdata.DefaultCurrency, Amount: txdata.DefaultAmount}
	if len(req.TransactionData) == 0 {
		log.Printf("[Acquire] Request carries no transaction data; using defaults")
		return fallback
	}
	summary, err := txdata.Summarize(req.TransactionData[0])
	if err != nil {
		log.Printf("[Acquire] Unreadable transaction data (using defaults): %v", err)
		return fallback
	}
	return summary
}

// finalize produces the VP token and presentation submission for the
// first match. With no matches the token is empty and the verifier side
// is expected to reject the presentation.
func (o *Orchestrator) finalize(req *request.Request, matches []wallet.CredentialMatch) (FinalizedResponse, error) {
	var resp FinalizedResponse

	queryID := ""
	if len(req.DCQLQuery.Credentials) > 0 {
		queryID = req.DCQLQuery.Credentials[0].ID
	}
	submission, err := buildPresentationSubmission(queryID)
	if err != nil {
		return resp, err
	}
	resp.PresentationSubmission = submission

	if len(matches) == 0 {
		return resp, nil
	}

	token, err := createMDocPresentation(matches[0], o.holderKey, presentationParams{
		Nonce:       req.Nonce,
		ClientID:    req.ClientID,
		ResponseURI: req.RedirectURI,
	})
	if err != nil {
		return resp, fmt.Errorf("creating mdoc presentation: %w", err)
	}
	resp.VPToken = token
	return resp, nil
}
