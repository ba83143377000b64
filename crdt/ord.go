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
	"cmp"
	"container/heap"
	"sort"
)

// Ord is a mapping T -> index whose indices always form the contiguous
// prefix {0,...,n-1} of the naturals, where n = the number of stored
// values. The public sequence view is the values sorted by index.
type Ord[T comparable] struct {
	byIndex []T
	indexOf map[T]int
	less    func(a, b T) bool
}

// NewOrd returns an empty Ord that breaks merge ties using T's natural
// (cmp.Less) order.
func NewOrd[T cmp.Ordered]() *Ord[T] {
	return NewOrdWithLess[T](func(a, b T) bool { return cmp.Less(a, b) })
}

// NewOrdWithLess returns an empty Ord that breaks merge ties using the
// given strict-less comparator. Use this when T does not have a builtin
// ordering (e.g. a locale-aware Collator over grapheme clusters, see
// collate.go).
func NewOrdWithLess[T comparable](less func(a, b T) bool) *Ord[T] {
	return &Ord[T]{
		byIndex: nil,
		indexOf: make(map[T]int),
		less:    less,
	}
}

// Len returns the number of stored values.
func (o *Ord[T]) Len() int {
	return len(o.byIndex)
}

// Insert shifts every existing index >= i up by one, then binds v to
// index i. Precondition: 0 <= i <= Len().
func (o *Ord[T]) Insert(i int, v T) {
	o.byIndex = append(o.byIndex, v)
	copy(o.byIndex[i+1:], o.byIndex[i:])
	o.byIndex[i] = v
	for idx := i + 1; idx < len(o.byIndex); idx++ {
		o.indexOf[o.byIndex[idx]] = idx
	}
	o.indexOf[v] = i
}

// RemoveAt unbinds whichever value maps to index i and shifts every index
// > i down by one. A no-op if i is out of range.
func (o *Ord[T]) RemoveAt(i int) {
	if i < 0 || i >= len(o.byIndex) {
		return
	}
	v := o.byIndex[i]
	delete(o.indexOf, v)
	o.byIndex = append(o.byIndex[:i], o.byIndex[i+1:]...)
	for idx := i; idx < len(o.byIndex); idx++ {
		o.indexOf[o.byIndex[idx]] = idx
	}
}

// Remove removes v, if present, by looking up its index first.
func (o *Ord[T]) Remove(v T) {
	if i, ok := o.indexOf[v]; ok {
		o.RemoveAt(i)
	}
}

// IndexOf returns the index bound to v, if any.
func (o *Ord[T]) IndexOf(v T) (int, bool) {
	i, ok := o.indexOf[v]
	return i, ok
}

// Iter returns the values in index order.
func (o *Ord[T]) Iter() []T {
	out := make([]T, len(o.byIndex))
	copy(out, o.byIndex)
	return out
}

// Clone returns an independent copy of o.
func (o *Ord[T]) Clone() *Ord[T] {
	out := &Ord[T]{
		byIndex: append([]T(nil), o.byIndex...),
		indexOf: make(map[T]int, len(o.indexOf)),
		less:    o.less,
	}
	for k, v := range o.indexOf {
		out.indexOf[k] = v
	}
	return out
}

// successorPair is one (predecessor, successor) edge of an Ord's successor
// relation.
type successorPair[T comparable] struct {
	from, to T
}

// successors returns the relation {(a,b) : a immediately precedes b} that
// o's index-ordered sequence induces. A sequence of n elements yields
// exactly n-1 pairs; a single-element (or empty) sequence yields none.
func successors[T comparable](o *Ord[T]) []successorPair[T] {
	if o.Len() < 2 {
		return nil
	}
	pairs := make([]successorPair[T], 0, o.Len()-1)
	for i := 0; i+1 < len(o.byIndex); i++ {
		pairs = append(pairs, successorPair[T]{from: o.byIndex[i], to: o.byIndex[i+1]})
	}
	return pairs
}

// successorSet is the set-of-pairs representation of a successor relation,
// suitable for the three-way Set merge of step 2 of the algorithm.
type successorSet[T comparable] struct {
	pairs map[successorPair[T]]struct{}
}

func newSuccessorSet[T comparable](pairs []successorPair[T]) *successorSet[T] {
	s := &successorSet[T]{pairs: make(map[successorPair[T]]struct{}, len(pairs))}
	for _, p := range pairs {
		s.pairs[p] = struct{}{}
	}
	return s
}

func (s *successorSet[T]) contains(p successorPair[T]) bool {
	_, ok := s.pairs[p]
	return ok
}

// mergeSuccessorSets implements the same observed-element law as MergeSet,
// specialized to successor pairs: a pair deleted on both descendants stays
// removed, a pair added on either descendant is kept.
func mergeSuccessorSets[T comparable](lca, left, right *successorSet[T]) *successorSet[T] {
	out := make(map[successorPair[T]]struct{})

	for p := range left.pairs {
		if lca.contains(p) {
			if right.contains(p) {
				out[p] = struct{}{}
			}
			continue
		}
		out[p] = struct{}{}
	}
	for p := range right.pairs {
		if !lca.contains(p) {
			out[p] = struct{}{}
		}
	}

	return &successorSet[T]{pairs: out}
}

// topoNode is one entry of the min-priority queue used to topologically
// sort the nodes referenced by a merged successor relation.
type topoNode[T comparable] struct {
	value     T
	inDegree  int
	heapIndex int
}

type topoQueue[T comparable] struct {
	nodes []*topoNode[T]
	less  func(a, b T) bool
}

func (q *topoQueue[T]) Len() int { return len(q.nodes) }

func (q *topoQueue[T]) Less(i, j int) bool {
	a, b := q.nodes[i], q.nodes[j]
	if a.inDegree != b.inDegree {
		return a.inDegree < b.inDegree
	}
	return q.less(a.value, b.value)
}

func (q *topoQueue[T]) Swap(i, j int) {
	q.nodes[i], q.nodes[j] = q.nodes[j], q.nodes[i]
	q.nodes[i].heapIndex = i
	q.nodes[j].heapIndex = j
}

func (q *topoQueue[T]) Push(x any) {
	n := x.(*topoNode[T])
	n.heapIndex = len(q.nodes)
	q.nodes = append(q.nodes, n)
}

func (q *topoQueue[T]) Pop() any {
	old := q.nodes
	n := len(old)
	item := old[n-1]
	q.nodes = old[:n-1]
	return item
}

// MergeOrd implements the successor-relation merge of spec.md §4.2:
//
//  1. Convert lca/left/right to successor relations.
//  2. Three-way Set-merge the relations (not a plain union).
//  3. Topologically sort the referenced nodes with a min-priority queue
//     keyed by (remaining in-degree, T's natural order), breaking ties
//     deterministically.
//  4. Assign consecutive indices to nodes present in mergedMem, in sorted
//     order.
//
// When the merged relation is empty (e.g. single-element lists), the
// members of mergedMem are emitted in tie-break order at indices 0..n-1,
// so a sole survivor lands at index 0. A member with no incident edge in a
// non-empty relation is ordered by the priority queue like any other
// in-degree-zero node. A cycle in the merged relation — which can only arise
// from a concurrent reversal — is resolved by emitting the prefix that
// reached in-degree zero before the cycle was detected, then appending the
// remaining nodes in T's natural order; this is the documented,
// deterministic policy of spec.md §4.2, not a bug to be designed around.
func MergeOrd[T comparable](lca, left, right *Ord[T], mergedMem *Set[T]) *Ord[T] {
	less := left.less
	if less == nil {
		less = lca.less
	}
	if less == nil {
		less = right.less
	}

	lcaRel := newSuccessorSet(successors(lca))
	leftRel := newSuccessorSet(successors(left))
	rightRel := newSuccessorSet(successors(right))
	merged := mergeSuccessorSets(lcaRel, leftRel, rightRel)

	// Edge case: with an empty successor relation (e.g. a single surviving
	// element), the members are emitted in tie-break order from index 0.
	if len(merged.pairs) == 0 {
		out := NewOrdWithLess[T](less)
		members := mergedMem.Iter()
		sort.Slice(members, func(i, j int) bool { return less(members[i], members[j]) })
		for i, v := range members {
			out.Insert(i, v)
		}
		return out
	}

	inDegree := make(map[T]int)
	outEdges := make(map[T][]T)
	nodeSet := make(map[T]struct{})
	for p := range merged.pairs {
		nodeSet[p.from] = struct{}{}
		nodeSet[p.to] = struct{}{}
		outEdges[p.from] = append(outEdges[p.from], p.to)
		inDegree[p.to]++
	}
	// Members with no incident edge (isolated survivors) still need a
	// node so they get an index.
	for _, v := range mergedMem.Iter() {
		nodeSet[v] = struct{}{}
	}
	for v := range nodeSet {
		if _, ok := inDegree[v]; !ok {
			inDegree[v] = 0
		}
	}
	for _, succs := range outEdges {
		sort.Slice(succs, func(i, j int) bool { return less(succs[i], succs[j]) })
	}

	nodes := make(map[T]*topoNode[T], len(nodeSet))
	pq := &topoQueue[T]{less: less}
	for v := range nodeSet {
		n := &topoNode[T]{value: v, inDegree: inDegree[v]}
		nodes[v] = n
		pq.Push(n)
	}
	heap.Init(pq)

	var sorted []T
	for pq.Len() > 0 {
		n := heap.Pop(pq).(*topoNode[T])
		if n.inDegree > 0 {
			// Remaining nodes all have unsatisfied in-degree: we have hit
			// a cycle (a concurrent reversal). Stop the topological walk
			// here and append everything left over in T's natural order.
			remaining := []T{n.value}
			for pq.Len() > 0 {
				remaining = append(remaining, heap.Pop(pq).(*topoNode[T]).value)
			}
			sort.Slice(remaining, func(i, j int) bool { return less(remaining[i], remaining[j]) })
			sorted = append(sorted, remaining...)
			break
		}
		sorted = append(sorted, n.value)
		for _, succ := range outEdges[n.value] {
			sn := nodes[succ]
			sn.inDegree--
			heap.Fix(pq, sn.heapIndex)
		}
	}

	out := NewOrdWithLess[T](less)
	idx := 0
	for _, v := range sorted {
		if mergedMem.Contains(v) {
			out.Insert(idx, v)
			idx++
		}
	}
	return out
}
