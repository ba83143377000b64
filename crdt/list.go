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

import "cmp"

// List is a sequence CRDT: a membership Set paired with an Ord that gives
// the members a total order. The cross-invariant mem.Iter() == ord.Iter()
// (as sets) always holds.
type List[T comparable] struct {
	mem *Set[T]
	ord *Ord[T]
}

// NewList returns an empty List that breaks merge ties using T's natural
// order.
func NewList[T cmp.Ordered]() *List[T] {
	return NewListWithLess[T](func(a, b T) bool { return cmp.Less(a, b) })
}

// NewListWithLess returns an empty List using the given tie-break
// comparator (see NewOrdWithLess).
func NewListWithLess[T comparable](less func(a, b T) bool) *List[T] {
	return &List[T]{mem: NewSet[T](), ord: NewOrdWithLess[T](less)}
}

// Len returns the number of elements in the list.
func (l *List[T]) Len() int {
	return l.ord.Len()
}

// Insert inserts v at position i, shifting later elements up by one.
func (l *List[T]) Insert(i int, v T) {
	l.mem.Insert(v)
	l.ord.Insert(i, v)
}

// RemoveAt removes the element at position i, returning it.
func (l *List[T]) RemoveAt(i int) (T, bool) {
	values := l.ord.Iter()
	if i < 0 || i >= len(values) {
		var zero T
		return zero, false
	}
	v := values[i]
	l.ord.RemoveAt(i)
	l.mem.Remove(v)
	return v, true
}

// ToSlice returns the list's elements in sequence order.
func (l *List[T]) ToSlice() []T {
	return l.ord.Iter()
}

// FromSlice rebuilds a List from an ordered slice of elements, preserving
// the given tie-break comparator.
func FromSlice[T comparable](less func(a, b T) bool, values []T) *List[T] {
	l := NewListWithLess[T](less)
	for i, v := range values {
		l.Insert(i, v)
	}
	return l
}

// MergeList implements the composite merge of spec.md §4.3:
//
//	mem = MergeSet(L.mem, A.mem, B.mem)
//	ord = MergeOrd(L.ord, A.ord, B.ord, mem)
//
// MergeOrd filters by the merged membership set, so the cross-invariant
// mem == ord.keys() is preserved automatically.
func MergeList[T comparable](lca, left, right *List[T]) *List[T] {
	mem := MergeSet(lca.mem, left.mem, right.mem)
	ord := MergeOrd(lca.ord, left.ord, right.ord, mem)
	return &List[T]{mem: mem, ord: ord}
}
