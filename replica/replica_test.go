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

package replica_test

import (
	"context"
	"testing"

	"github.com/firefly-oss/quark/clock"
	"github.com/firefly-oss/quark/codec"
	"github.com/firefly-oss/quark/crdt"
	"github.com/firefly-oss/quark/kv/memkv"
	"github.com/firefly-oss/quark/replica"
	"github.com/firefly-oss/quark/store"
)

func intListOps() store.TypeOps[*crdt.List[int], int] {
	return store.TypeOps[*crdt.List[int], int]{
		Merge: func(lca, left, right *crdt.List[int]) *crdt.List[int] {
			return crdt.MergeList(lca, left, right)
		},
		ToElements: func(value *crdt.List[int]) []int {
			if value == nil {
				return nil
			}
			return value.ToSlice()
		},
		FromElements: func(elements []int) *crdt.List[int] {
			return crdt.FromSlice(func(a, b int) bool { return a < b }, elements)
		},
		ElemCodec: codec.NewGobCodec[int](),
	}
}

func newTestReplica(t *testing.T, session *memkv.Session, ops store.TypeOps[*crdt.List[int], int]) *replica.Replica[*crdt.List[int], int] {
	t.Helper()
	ctx := context.Background()

	objects, err := store.NewObjectStore(ctx, session)
	if err != nil {
		t.Fatalf("NewObjectStore failed: %v", err)
	}
	refs, err := store.NewRefStore(ctx, session, objects, ops)
	if err != nil {
		t.Fatalf("NewRefStore failed: %v", err)
	}
	commits, err := store.NewCommitStore(ctx, session)
	if err != nil {
		t.Fatalf("NewCommitStore failed: %v", err)
	}

	return replica.New(clock.NewId(), ops, objects, refs, commits)
}

func TestReplicaRootCommitAndLatestObjectLargeList(t *testing.T) {
	ctx := context.Background()
	session := memkv.New()
	defer session.Close()

	ops := intListOps()
	r := newTestReplica(t, session, ops)

	const n = 1000
	l := crdt.NewList[int]()
	for i := 0; i < n; i++ {
		l.Insert(i, i)
	}

	if _, err := r.CommitObject(ctx, l); err != nil {
		t.Fatalf("CommitObject failed: %v", err)
	}

	got, err := r.LatestObject(ctx)
	if err != nil {
		t.Fatalf("LatestObject failed: %v", err)
	}
	if got.Len() != n {
		t.Fatalf("expected %d elements, got %d", n, got.Len())
	}
	slice := got.ToSlice()
	for i, v := range slice {
		if v != i {
			t.Fatalf("element %d: got %d, want %d", i, v, i)
		}
	}
}

func TestReplicaCommitChainLength(t *testing.T) {
	ctx := context.Background()
	session := memkv.New()
	defer session.Close()

	ops := intListOps()
	r := newTestReplica(t, session, ops)

	const rounds = 12
	l := crdt.NewList[int]()
	for i := 0; i < rounds; i++ {
		l = crdt.FromSlice(func(a, b int) bool { return a < b }, append(l.ToSlice(), i))
		if _, err := r.CommitObject(ctx, l); err != nil {
			t.Fatalf("CommitObject round %d failed: %v", i, err)
		}
	}

	commits, err := store.NewCommitStore(ctx, session)
	if err != nil {
		t.Fatalf("NewCommitStore failed: %v", err)
	}

	head, err := commits.LatestCommitForReplica(ctx, r.ID())
	if err != nil {
		t.Fatalf("LatestCommitForReplica failed: %v", err)
	}

	length := 0
	current := head
	for {
		length++
		if current.Parent == nil {
			break
		}
		current, err = commits.ResolveCommit(ctx, *current.Parent)
		if err != nil {
			t.Fatalf("ResolveCommit failed: %v", err)
		}
	}
	if length != rounds {
		t.Fatalf("expected a commit chain of length %d, got %d", rounds, length)
	}
}

// TestReplicaMergeCommitChainHasSingleParent covers spec.md §4.6's single-
// parent Commit model across a merge: the merge commit's parent must be
// the merging replica's own previous head, never a two-parent node
// combining both sides, and a chain walk from the merge commit back to
// the shared root must visit the merge commit, a's own commit and the
// root commit, and none of b's commits.
func TestReplicaMergeCommitChainHasSingleParent(t *testing.T) {
	ctx := context.Background()
	session := memkv.New()
	defer session.Close()

	ops := intListOps()

	root := newTestReplica(t, session, ops)
	if _, err := root.CommitObject(ctx, crdt.NewList[int]()); err != nil {
		t.Fatalf("root CommitObject failed: %v", err)
	}

	a := newTestReplica(t, session, ops)
	if err := a.Clone(ctx); err != nil {
		t.Fatalf("a.Clone failed: %v", err)
	}
	b := newTestReplica(t, session, ops)
	if err := b.Clone(ctx); err != nil {
		t.Fatalf("b.Clone failed: %v", err)
	}

	aCommit, err := a.CommitObject(ctx, crdt.FromSlice(func(x, y int) bool { return x < y }, []int{1, 2}))
	if err != nil {
		t.Fatalf("a.CommitObject failed: %v", err)
	}
	bCommit, err := b.CommitObject(ctx, crdt.FromSlice(func(x, y int) bool { return x < y }, []int{3, 4}))
	if err != nil {
		t.Fatalf("b.CommitObject failed: %v", err)
	}

	mergeCommit, _, err := a.MergeWith(ctx, b)
	if err != nil {
		t.Fatalf("a.MergeWith(b) failed: %v", err)
	}

	if mergeCommit.Parent == nil {
		t.Fatalf("expected the merge commit to have a parent")
	}
	if *mergeCommit.Parent != aCommit.Hash {
		t.Fatalf("expected the merge commit's parent to be a's own previous head %s, got %s", aCommit.Hash, *mergeCommit.Parent)
	}
	if *mergeCommit.Parent == bCommit.Hash {
		t.Fatalf("merge commit must not point at b's commit as its parent")
	}

	commits, err := store.NewCommitStore(ctx, session)
	if err != nil {
		t.Fatalf("NewCommitStore failed: %v", err)
	}

	length := 0
	current := mergeCommit
	for {
		length++
		if current.Parent == nil {
			break
		}
		current, err = commits.ResolveCommit(ctx, *current.Parent)
		if err != nil {
			t.Fatalf("ResolveCommit failed: %v", err)
		}
	}
	// merge commit -> a's commit -> root commit.
	if length != 3 {
		t.Fatalf("expected the chain walked from the merge commit to have length 3, got %d", length)
	}
}

func TestReplicaMergeWithConverges(t *testing.T) {
	ctx := context.Background()
	session := memkv.New()
	defer session.Close()

	ops := intListOps()

	root := newTestReplica(t, session, ops)
	if _, err := root.CommitObject(ctx, crdt.NewList[int]()); err != nil {
		t.Fatalf("root CommitObject failed: %v", err)
	}

	a := newTestReplica(t, session, ops)
	if err := a.Clone(ctx); err != nil {
		t.Fatalf("a.Clone failed: %v", err)
	}
	b := newTestReplica(t, session, ops)
	if err := b.Clone(ctx); err != nil {
		t.Fatalf("b.Clone failed: %v", err)
	}

	if _, err := a.CommitObject(ctx, crdt.FromSlice(func(x, y int) bool { return x < y }, []int{1, 2})); err != nil {
		t.Fatalf("a.CommitObject failed: %v", err)
	}
	if _, err := b.CommitObject(ctx, crdt.FromSlice(func(x, y int) bool { return x < y }, []int{3, 4})); err != nil {
		t.Fatalf("b.CommitObject failed: %v", err)
	}

	_, mergedA, err := a.MergeWith(ctx, b)
	if err != nil {
		t.Fatalf("a.MergeWith(b) failed: %v", err)
	}
	_, mergedB, err := b.MergeWith(ctx, a)
	if err != nil {
		t.Fatalf("b.MergeWith(a) failed: %v", err)
	}

	if mergedA.Len() != mergedB.Len() {
		t.Fatalf("merged lists diverged in length: %d vs %d", mergedA.Len(), mergedB.Len())
	}
	wantMembers := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, v := range mergedA.ToSlice() {
		if !wantMembers[v] {
			t.Fatalf("unexpected member %d in merged result", v)
		}
	}
}
