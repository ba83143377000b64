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

package store_test

import (
	"context"
	"testing"

	"github.com/firefly-oss/quark/clock"
	"github.com/firefly-oss/quark/kv/memkv"
	"github.com/firefly-oss/quark/store"
)

func TestCommitStoreCommitAndResolve(t *testing.T) {
	ctx := context.Background()
	session := memkv.New()
	defer session.Close()

	cs, err := store.NewCommitStore(ctx, session)
	if err != nil {
		t.Fatalf("NewCommitStore failed: %v", err)
	}

	replica := clock.NewId()
	vc := clock.New().Inc(replica)
	refHash := store.HashBytes([]byte("some ref payload"))

	commit, err := cs.Commit(ctx, replica, vc, refHash)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if commit.Parent != nil {
		t.Fatalf("expected a replica's first commit to have no parent, got %v", *commit.Parent)
	}

	resolved, err := cs.ResolveCommit(ctx, commit.Hash)
	if err != nil {
		t.Fatalf("ResolveCommit failed: %v", err)
	}
	if resolved.RefHash != refHash {
		t.Fatalf("got ref hash %v, want %v", resolved.RefHash, refHash)
	}
	if !resolved.Clock.Equal(vc) {
		t.Fatalf("clock mismatch after round trip")
	}
	if resolved.Parent != nil {
		t.Fatalf("expected resolved root commit to have no parent")
	}
}

func TestCommitStoreLatestCommitForReplicaAdvances(t *testing.T) {
	ctx := context.Background()
	session := memkv.New()
	defer session.Close()

	cs, err := store.NewCommitStore(ctx, session)
	if err != nil {
		t.Fatalf("NewCommitStore failed: %v", err)
	}

	replica := clock.NewId()
	vc1 := clock.New().Inc(replica)
	first, err := cs.Commit(ctx, replica, vc1, store.HashBytes([]byte("v1")))
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	vc2 := vc1.Inc(replica)
	second, err := cs.Commit(ctx, replica, vc2, store.HashBytes([]byte("v2")))
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	latest, err := cs.LatestCommitForReplica(ctx, replica)
	if err != nil {
		t.Fatalf("LatestCommitForReplica failed: %v", err)
	}
	if latest.Hash != second.Hash {
		t.Fatalf("expected the head to be the second commit")
	}
	if latest.Parent == nil || *latest.Parent != first.Hash {
		t.Fatalf("expected the second commit's parent to be the first, derived automatically from replica's prior head")
	}
}

func TestCommitStoreResolveCommitForVersion(t *testing.T) {
	ctx := context.Background()
	session := memkv.New()
	defer session.Close()

	cs, err := store.NewCommitStore(ctx, session)
	if err != nil {
		t.Fatalf("NewCommitStore failed: %v", err)
	}

	replica := clock.NewId()
	vc := clock.New().Inc(replica)
	commit, err := cs.Commit(ctx, replica, vc, store.HashBytes([]byte("payload")))
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	found, err := cs.ResolveCommitForVersion(ctx, vc)
	if err != nil {
		t.Fatalf("ResolveCommitForVersion failed: %v", err)
	}
	if found.Hash != commit.Hash {
		t.Fatalf("resolved the wrong commit for the given version")
	}
}
