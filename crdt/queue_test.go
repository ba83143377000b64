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

import "testing"

func TestQueuePushPop(t *testing.T) {
	q := NewQueue[int]()
	q.Push(1)
	q.Push(2)
	q.Push(3)

	if got := q.ToSlice(); !sliceEqual(got, []int{1, 2, 3}) {
		t.Fatalf("ToSlice = %v, want [1 2 3]", got)
	}

	v, ok := q.Pop()
	if !ok || v != 1 {
		t.Fatalf("Pop() = (%v, %v), want (1, true)", v, ok)
	}
	if got := q.ToSlice(); !sliceEqual(got, []int{2, 3}) {
		t.Fatalf("ToSlice after Pop = %v, want [2 3]", got)
	}
}

func TestQueueMergeDelegatesToList(t *testing.T) {
	lca := NewQueue[int]()
	lca.Push(1)
	left := NewQueue[int]()
	left.Push(1)
	left.Push(2)
	right := NewQueue[int]()
	right.Push(1)
	right.Push(3)

	merged := MergeQueue(lca, left, right)
	if got := merged.ToSlice(); !sliceEqual(got, []int{1, 2, 3}) {
		t.Fatalf("MergeQueue = %v, want [1 2 3]", got)
	}
}
