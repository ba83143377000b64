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

package codec

import "github.com/firefly-oss/quark/clock"

// VectorClockCodec encodes/decodes clock.VectorClock using its canonical,
// Id-sorted byte form (spec.md §6), which is required so
// store.CommitStore.ResolveCommitForVersion can match commits by
// encoded-byte equality.
type VectorClockCodec struct{}

func (VectorClockCodec) Encode(vc clock.VectorClock) ([]byte, error) {
	return vc.EncodeCanonical(), nil
}

func (VectorClockCodec) Decode(data []byte) (clock.VectorClock, error) {
	return clock.DecodeCanonical(data)
}
