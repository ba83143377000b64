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

// Queue is a thin FIFO facade over List: Push appends at the tail, Pop
// removes and returns the head.
type Queue[T comparable] struct {
	list *List[T]
}

// NewQueue returns an empty Queue that breaks merge ties using T's
// natural order.
func NewQueue[T cmp.Ordered]() *Queue[T] {
	return &Queue[T]{list: NewList[T]()}
}

// NewQueueWithLess returns an empty Queue using the given tie-break
// comparator.
func NewQueueWithLess[T comparable](less func(a, b T) bool) *Queue[T] {
	return &Queue[T]{list: NewListWithLess[T](less)}
}

// Len returns the number of elements in the queue.
func (q *Queue[T]) Len() int {
	return q.list.Len()
}

// Push adds v at the tail: list.Insert(list.Len(), v).
func (q *Queue[T]) Push(v T) {
	q.list.Insert(q.list.Len(), v)
}

// Pop removes and returns the element at index 0.
func (q *Queue[T]) Pop() (T, bool) {
	return q.list.RemoveAt(0)
}

// ToSlice returns the queue's elements from head to tail.
func (q *Queue[T]) ToSlice() []T {
	return q.list.ToSlice()
}

// List returns the underlying List, e.g. for passing to MergeList.
func (q *Queue[T]) List() *List[T] {
	return q.list
}

// MergeQueue delegates to MergeList over the queues' underlying lists.
func MergeQueue[T comparable](lca, left, right *Queue[T]) *Queue[T] {
	return &Queue[T]{list: MergeList(lca.list, left.list, right.list)}
}
