/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package clock provides the opaque identifiers and vector-clock versions
// that the Quark store indexes commits by.
package clock

import (
	"crypto/rand"
)

// idAlphabet is the 62-character alphanumeric alphabet Ids are drawn from.
const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// idLength is the fixed byte length of an Id.
const idLength = 16

// Id is an opaque 16-byte replica or commit identifier. Two Ids are equal
// iff their bytes are equal, and Ids are totally ordered lexicographically.
type Id [idLength]byte

// Zero is the all-zero sentinel Id.
var Zero Id

// NewId generates an Id by drawing idLength bytes uniformly at random from
// the 62-character alphanumeric alphabet.
func NewId() Id {
	var raw [idLength]byte
	if _, err := rand.Read(raw[:]); err != nil {
		panic("clock: crypto/rand unavailable: " + err.Error())
	}

	var id Id
	for i, b := range raw {
		id[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return id
}

// String returns the Id's printable representation.
func (id Id) String() string {
	return string(id[:])
}

// Less reports whether id sorts strictly before other, lexicographically
// on the underlying bytes.
func (id Id) Less(other Id) bool {
	return string(id[:]) < string(other[:])
}

// Bytes returns the Id's raw 16 bytes.
func (id Id) Bytes() []byte {
	b := make([]byte, idLength)
	copy(b, id[:])
	return b
}

// IdFromBytes reconstructs an Id from exactly idLength bytes, as produced by
// Bytes or stored by the codec layer.
func IdFromBytes(b []byte) (Id, bool) {
	var id Id
	if len(b) != idLength {
		return id, false
	}
	copy(id[:], b)
	return id, true
}
