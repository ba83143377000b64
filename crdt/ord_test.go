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

package crdt

import (
	"math/rand"
	"testing"
)

// TestOrdPrefixInvariant exercises property 4: after any sequence of
// Insert/RemoveAt, the indices form the contiguous prefix {0,...,n-1}.
func TestOrdPrefixInvariant(t *testing.T) {
	o := NewOrd[int]()
	r := rand.New(rand.NewSource(1))

	var model []int
	for step := 0; step < 500; step++ {
		if len(model) == 0 || r.Intn(2) == 0 {
			i := r.Intn(len(model) + 1)
			v := r.Int()
			o.Insert(i, v)
			model = append(model, 0)
			copy(model[i+1:], model[i:])
			model[i] = v
		} else {
			i := r.Intn(len(model))
			o.RemoveAt(i)
			model = append(model[:i], model[i+1:]...)
		}
		checkPrefixInvariant(t, o, len(model))
	}
}

func checkPrefixInvariant[T comparable](t *testing.T, o *Ord[T], wantLen int) {
	t.Helper()
	if o.Len() != wantLen {
		t.Fatalf("Len() = %d, want %d", o.Len(), wantLen)
	}
	seen := make(map[int]bool, o.Len())
	for _, v := range o.Iter() {
		idx, ok := o.IndexOf(v)
		if !ok {
			t.Fatalf("value %v present in Iter() but IndexOf missing", v)
		}
		if idx < 0 || idx >= o.Len() {
			t.Fatalf("index %d out of range [0,%d)", idx, o.Len())
		}
		if seen[idx] {
			t.Fatalf("duplicate index %d", idx)
		}
		seen[idx] = true
	}
	if len(seen) != o.Len() {
		t.Fatalf("expected every index in the contiguous prefix to be bound exactly once")
	}
}

func sliceEqual[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestListMergeAddRemoveAtEnds covers scenario S2.
func TestListMergeAddRemoveAtEnds(t *testing.T) {
	lca := FromSlice(intLess, []int{1, 2, 3})
	left := FromSlice(intLess, []int{1, 2, 3, 4}) // appends 4
	right := FromSlice(intLess, []int{2, 3, 5})   // removes 1, appends 5

	merged := MergeList(lca, left, right)

	want := []int{2, 3, 4, 5}
	if got := merged.ToSlice(); !sliceEqual(got, want) {
		t.Fatalf("MergeList = %v, want %v", got, want)
	}
}

// TestListMergeInsertRemoveAtHead covers scenario S3.
func TestListMergeInsertRemoveAtHead(t *testing.T) {
	lca := FromSlice(intLess, []int{1, 2, 3})
	left := FromSlice(intLess, []int{4, 1, 2, 3})  // prepends 4
	right := FromSlice(intLess, []int{5, 2, 3})    // removes 1, prepends 5

	merged := MergeList(lca, left, right)

	want := []int{4, 5, 2, 3}
	if got := merged.ToSlice(); !sliceEqual(got, want) {
		t.Fatalf("MergeList = %v, want %v", got, want)
	}
}

func intLess(a, b int) bool { return a < b }

// TestListMergeDeterminism covers property 5: the result of List::merge
// depends only on (L,A,B) as values, not on construction/iteration order.
func TestListMergeDeterminism(t *testing.T) {
	lca := FromSlice(intLess, []int{1, 2, 3})
	left := FromSlice(intLess, []int{1, 2, 3, 4})
	right := FromSlice(intLess, []int{2, 3, 5})

	first := MergeList(lca, left, right).ToSlice()
	for i := 0; i < 20; i++ {
		lca2 := FromSlice(intLess, []int{1, 2, 3})
		left2 := FromSlice(intLess, []int{1, 2, 3, 4})
		right2 := FromSlice(intLess, []int{2, 3, 5})
		got := MergeList(lca2, left2, right2).ToSlice()
		if !sliceEqual(got, first) {
			t.Fatalf("MergeList is not deterministic: got %v, want %v", got, first)
		}
	}
}

func TestOrdSingleElementMergeFallsBackToIndexZero(t *testing.T) {
	lca := NewOrd[int]()
	lca.Insert(0, 1)
	left := NewOrd[int]()
	left.Insert(0, 1)
	right := NewOrd[int]()
	right.Insert(0, 1)

	mem := SetOf(1)
	merged := MergeOrd(lca, left, right, mem)
	if got := merged.Iter(); !sliceEqual(got, []int{1}) {
		t.Fatalf("expected single surviving element at index 0, got %v", got)
	}
}
