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

package clock

import (
	"encoding/binary"
	"fmt"
)

// EncodeCanonical serializes vc as a sequence of (16-byte Id, 4-byte
// big-endian Timestamp) records sorted by Id. Two VectorClocks with equal
// entries always produce byte-equal output, which is what lets
// store.CommitStore.ResolveCommitForVersion match commits by encoded-byte
// equality (spec.md §6, §4.6).
func (vc VectorClock) EncodeCanonical() []byte {
	entries := vc.Entries()
	out := make([]byte, 0, len(entries)*20)
	for _, e := range entries {
		out = append(out, e.Id.Bytes()...)
		var tsBuf [4]byte
		binary.BigEndian.PutUint32(tsBuf[:], uint32(e.Timestamp))
		out = append(out, tsBuf[:]...)
	}
	return out
}

// DecodeCanonical parses bytes produced by EncodeCanonical.
func DecodeCanonical(b []byte) (VectorClock, error) {
	const recordLen = 20
	if len(b)%recordLen != 0 {
		return VectorClock{}, fmt.Errorf("clock: malformed vector clock encoding: length %d is not a multiple of %d", len(b), recordLen)
	}

	vc := New()
	for off := 0; off < len(b); off += recordLen {
		id, ok := IdFromBytes(b[off : off+16])
		if !ok {
			return VectorClock{}, fmt.Errorf("clock: malformed vector clock encoding at offset %d", off)
		}
		ts := binary.BigEndian.Uint32(b[off+16 : off+20])
		vc.clocks[id] = Timestamp(ts)
	}
	return vc, nil
}
