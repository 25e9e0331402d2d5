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
	"testing"

	"github.com/szijpeter/AP2/internal/format"
)

// mustEncodeJSON base64url-encodes an arbitrary JSON object the way a
// verifier would.
func mustEncodeJSON(t *testing.T, fields map[string]any) string {
	t.Helper()
	data, err := json.Marshal(fields)
	if err != nil {
		t.Fatalf("marshaling test fields: %v", err)
	}
	return format.EncodeBase64URL(data)
}
