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

package store

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Hash is the content-address of an object or ref: a 64-bit blake2b digest
// of its encoded bytes, hex-encoded for use as a primary key (spec.md §2:
// the object store is addressed by a hash of the bytes it stores).
type Hash [8]byte

// HashBytes computes the content hash of data.
func HashBytes(data []byte) Hash {
	full := blake2b.Sum512(data)
	var h Hash
	copy(h[:], full[:8])
	return h
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// ParseHash decodes the hex string produced by Hash.String.
func ParseHash(s string) (Hash, error) {
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, codecError("decoding hash", err)
	}
	if len(b) != len(h) {
		return h, codecError("hash has wrong length", nil)
	}
	copy(h[:], b)
	return h, nil
}
