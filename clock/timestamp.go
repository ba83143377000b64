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

// Timestamp is a non-negative, monotonically increasing per-replica
// counter. The zero value is the initial timestamp of any replica that has
// never been incremented.
type Timestamp uint32

// Inc returns the successor of ts.
func (ts Timestamp) Inc() Timestamp {
	return ts + 1
}

// Less reports whether ts sorts strictly before other.
func (ts Timestamp) Less(other Timestamp) bool {
	return ts < other
}

// maxTimestamp returns the greater of a and b.
func maxTimestamp(a, b Timestamp) Timestamp {
	if a > b {
		return a
	}
	return b
}

// minTimestamp returns the lesser of a and b.
func minTimestamp(a, b Timestamp) Timestamp {
	if a < b {
		return a
	}
	return b
}
