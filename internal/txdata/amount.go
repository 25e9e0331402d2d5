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
	"strconv"
	"strings"
)

// FormatAmount renders a monetary value with exactly two decimal places
// without arbitrary-precision arithmetic: zero fractional digits gain ".00",
// one fractional digit gains a trailing zero, and anything longer is
// truncated to two digits. Truncation, not rounding, is the contract.
func FormatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s + ".00"
	}
	frac := s[dot+1:]
	if len(frac) == 1 {
		return s + "0"
	}
	return s[:dot+1] + frac[:2]
}
