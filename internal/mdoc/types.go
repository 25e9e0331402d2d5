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

import "time"

// Document represents a parsed mdoc credential.
type Document struct {
	Raw        []byte
	DocType    string
	NameSpaces map[string][]IssuerSignedItem
	IssuerAuth *IssuerAuth
	// IsDeviceResponse indicates this was parsed from a DeviceResponse wrapper.
	IsDeviceResponse bool
}

// IssuerSignedItem represents a single claim within a namespace.
type IssuerSignedItem struct {
	DigestID          uint64
	Random            []byte
	ElementIdentifier string
	ElementValue      any
	// RawCBOR is the full Tag-24 encoding of the item, as hashed into the
	// MSO value digests and re-emitted in presentations.
	RawCBOR []byte
}

// IssuerAuth represents the COSE_Sign1 issuer authentication.
type IssuerAuth struct {
	RawCOSE []byte
	Payload []byte
	MSO     *MSO
}

// MSO is the Mobile Security Object.
type MSO struct {
	Version         string
	DigestAlgorithm string
	DocType         string
	ValueDigests    map[string]map[uint64][]byte
	ValidityInfo    *ValidityInfo
}

// ValidityInfo contains credential validity dates.
type ValidityInfo struct {
	Signed     *time.Time
	ValidFrom  *time.Time
	ValidUntil *time.Time
}
