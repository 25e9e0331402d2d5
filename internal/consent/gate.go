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

// Package consent gates credential presentation behind an explicit user
// decision. A Gate carries at most one pending prompt at a time; whoever
// renders the prompt (terminal, UI) resolves it with approve or decline.
package consent

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/szijpeter/AP2/internal/wallet"
)

// ErrConfirmationPending is returned when a confirmation is requested
// while another one is still awaiting a decision.
var ErrConfirmationPending = errors.New("consent: a confirmation is already pending")

// Prompt describes what the user is asked to approve.
type Prompt struct {
	Merchant   string
	Amount     string
	Currency   string
	Credential wallet.DisplayInfo
}

type pendingPrompt struct {
	prompt Prompt
	result chan bool
}

// Gate holds the single pending confirmation slot.
type Gate struct {
	mu          sync.Mutex
	pending     *pendingPrompt
	subscribers []chan Prompt
}

// NewGate creates an empty confirmation gate.
func NewGate() *Gate {
	return &Gate{}
}

// Subscribe returns a channel that receives each new prompt. Slow
// subscribers may miss prompts; Pending always reflects the current one.
func (g *Gate) Subscribe() <-chan Prompt {
	ch := make(chan Prompt, 1)
	g.mu.Lock()
	g.subscribers = append(g.subscribers, ch)
	g.mu.Unlock()
	return ch
}

// RequestConfirmation publishes a prompt and blocks until it is resolved
// or the context ends. It returns the user's decision. If another prompt
// is already pending, it fails immediately with ErrConfirmationPending.
func (g *Gate) RequestConfirmation(ctx context.Context, prompt Prompt) (bool, error) {
	g.mu.Lock()
	if g.pending != nil {
		g.mu.Unlock()
		return false, ErrConfirmationPending
	}
	p := &pendingPrompt{prompt: prompt, result: make(chan bool, 1)}
	g.pending = p
	for _, ch := range g.subscribers {
		select {
		case ch <- prompt:
		default:
		}
	}
	g.mu.Unlock()

	log.Printf("[Consent] Awaiting confirmation: merchant=%q amount=%s %s", prompt.Merchant, prompt.Currency, prompt.Amount)

	select {
	case approved := <-p.result:
		return approved, nil
	case <-ctx.Done():
		g.clear(p)
		return false, ctx.Err()
	}
}

// Pending returns the prompt currently awaiting a decision, if any.
func (g *Gate) Pending() (Prompt, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		return Prompt{}, false
	}
	return g.pending.prompt, true
}

// Resolve delivers the user's decision for the pending prompt and clears
// the slot. It reports whether a prompt was pending.
func (g *Gate) Resolve(approved bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		return false
	}
	g.pending.result <- approved
	g.pending = nil
	return true
}

// clear removes p from the slot if it is still the pending prompt. Used
// when the requester gives up before a decision arrives.
func (g *Gate) clear(p *pendingPrompt) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == p {
		g.pending = nil
	}
}
