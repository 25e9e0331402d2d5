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
	"encoding/json"
	"fmt"
	"strings"
)

// FinalizedResponse is the presentation result before wire serialization.
type FinalizedResponse struct {
	VPToken                string `json:"vp_token"`
	PresentationSubmission string `json:"presentation_submission"`
}

// String renders a debug form with labeled fields. The fallback decoder
// in decodeResponse depends on these field markers, so the layout is
// load-bearing.
func (r FinalizedResponse) String() string {
	return "FinalizedResponse{vpToken=" + r.VPToken + ", presentationSubmission=" + r.PresentationSubmission + "}"
}

// ResponseEncoder turns a finalized response into its two wire fields.
// The default encoder goes through JSON; tests and callers hitting
// encoder limitations may substitute their own.
type ResponseEncoder interface {
	Encode(resp FinalizedResponse) (vpToken, presentationSubmission string, err error)
}

// jsonEncoder is the structured serialization path.
type jsonEncoder struct{}

func (jsonEncoder) Encode(resp FinalizedResponse) (string, string, error) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return "", "", fmt.Errorf("encoding response: %w", err)
	}
	var decoded FinalizedResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", "", fmt.Errorf("re-decoding response: %w", err)
	}
	return decoded.VPToken, decoded.PresentationSubmission, nil
}

const (
	vpTokenMarker    = "vpToken="
	submissionMarker = "presentationSubmission="
)

// decodeResponse runs the encoder and, if it fails, falls back to
// scraping the response's string form between the known field markers.
func decodeResponse(enc ResponseEncoder, resp FinalizedResponse) (string, string, error) {
	vpToken, submission, err := enc.Encode(resp)
	if err == nil {
		return vpToken, submission, nil
	}

	vpToken, submission, ok := scrapeStringForm(resp.String())
	if !ok {
		return "", "", fmt.Errorf("%w: %v", ErrUnserializableResult, err)
	}
	return vpToken, submission, nil
}

// scrapeStringForm recovers vp_token and presentation_submission from the
// labeled debug rendering. Both markers must be present.
func scrapeStringForm(s string) (vpToken, submission string, ok bool) {
	vpStart := strings.Index(s, vpTokenMarker)
	subStart := strings.Index(s, submissionMarker)
	if vpStart < 0 || subStart < 0 || subStart < vpStart {
		return "", "", false
	}

	vpToken = s[vpStart+len(vpTokenMarker) : subStart]
	vpToken = strings.TrimSuffix(strings.TrimSpace(vpToken), ",")

	submission = s[subStart+len(submissionMarker):]
	submission = strings.TrimSuffix(strings.TrimSpace(submission), "}")
	return vpToken, submission, true
}
