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

/*
VectorClock tracks causality across replicas.

A VectorClock is a finite mapping Id -> Timestamp; a missing key is
equivalent to timestamp 0 (the clock is a partial function with a zero
default). Unlike the teacher's replication.VectorClock, which is a shared
mutable object guarded by a mutex, every operation here is pure: Merge and
LCA return a new value and never mutate their receivers. A VectorClock is
owned exclusively by the Replica that holds it (see spec.md §5), so no
internal locking is needed.
*/
package clock

import "sort"

// VectorClock is an immutable Id -> Timestamp mapping.
type VectorClock struct {
	clocks map[Id]Timestamp
}

// New returns an empty VectorClock.
func New() VectorClock {
	return VectorClock{clocks: make(map[Id]Timestamp)}
}

// Get returns the timestamp recorded for id, or 0 if id is absent.
func (vc VectorClock) Get(id Id) Timestamp {
	return vc.clocks[id]
}

// Inc returns a copy of vc with clocks[id] replaced by its successor.
func (vc VectorClock) Inc(id Id) VectorClock {
	out := vc.Clone()
	out.clocks[id] = vc.Get(id).Inc()
	return out
}

// Clone returns an independent copy of vc.
func (vc VectorClock) Clone() VectorClock {
	out := New()
	for id, ts := range vc.clocks {
		out.clocks[id] = ts
	}
	return out
}

// Len returns the number of ids with a recorded (possibly zero) timestamp.
func (vc VectorClock) Len() int {
	return len(vc.clocks)
}

// Merge returns the pointwise maximum of a and b: for every id present in
// either clock, merge(a,b)[id] = max(a[id], b[id]).
func Merge(a, b VectorClock) VectorClock {
	out := New()
	for id, ts := range a.clocks {
		out.clocks[id] = ts
	}
	for id, ts := range b.clocks {
		out.clocks[id] = maxTimestamp(out.clocks[id], ts)
	}
	return out
}

// LCA returns the pointwise minimum of a and b, restricted to ids present
// in both clocks: lca(a,b)[id] = min(a[id], b[id]) only for ids that
// appear in both a and b. An id present in only one of the two clocks is
// excluded entirely, matching spec.md §3 (not defaulted to 0).
func LCA(a, b VectorClock) VectorClock {
	out := New()
	for id, ta := range a.clocks {
		if tb, ok := b.clocks[id]; ok {
			out.clocks[id] = minTimestamp(ta, tb)
		}
	}
	return out
}

// Equal reports whether vc and other record the same ids with the same
// timestamps.
func (vc VectorClock) Equal(other VectorClock) bool {
	if len(vc.clocks) != len(other.clocks) {
		return false
	}
	for id, ts := range vc.clocks {
		if other.clocks[id] != ts {
			return false
		}
	}
	return true
}

// ids returns the clock's ids sorted lexicographically, for deterministic
// iteration and canonical encoding.
func (vc VectorClock) ids() []Id {
	ids := make([]Id, 0, len(vc.clocks))
	for id := range vc.clocks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// Entries returns the clock's (Id, Timestamp) pairs sorted by Id, for
// callers that need to iterate deterministically without depending on the
// canonical byte encoding.
func (vc VectorClock) Entries() []Entry {
	ids := vc.ids()
	entries := make([]Entry, len(ids))
	for i, id := range ids {
		entries[i] = Entry{Id: id, Timestamp: vc.clocks[id]}
	}
	return entries
}

// Entry is one (Id, Timestamp) pair of a VectorClock.
type Entry struct {
	Id        Id
	Timestamp Timestamp
}

// FromEntries builds a VectorClock from (Id, Timestamp) pairs. Duplicate
// ids take their last value.
func FromEntries(entries []Entry) VectorClock {
	vc := New()
	for _, e := range entries {
		vc.clocks[e.Id] = e.Timestamp
	}
	return vc
}
