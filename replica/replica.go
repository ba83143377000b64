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
Package replica provides the per-replica facade applications drive: clone
from shared history, read the latest value, commit a new one, and merge
with another replica's latest (spec.md §4.7). A Replica has exclusive
ownership by its caller — concurrent use of the same Replica from two
goroutines is not supported, matching the single-writer discipline
spec.md §5 requires.
*/
package replica

import (
	"context"
	"sync"

	"github.com/firefly-oss/quark/clock"
	"github.com/firefly-oss/quark/internal/config"
	"github.com/firefly-oss/quark/internal/logging"
	"github.com/firefly-oss/quark/store"
)

// configureLoggingOnce applies the process environment's QUARK_LOG_LEVEL
// / QUARK_LOG_JSON to the logging package the first time any Replica is
// constructed, so every component's logger picks up the embedder's
// configured verbosity without each one re-reading the environment.
var configureLoggingOnce sync.Once

// Replica is the per-replica facade over a Store instantiated for the
// composite MRDT type T with leaf elements E.
type Replica[T any, E any] struct {
	id  clock.Id
	ops store.TypeOps[T, E]

	objects *store.ObjectStore
	refs    *store.RefStore[T, E]
	commits *store.CommitStore
	logger  *logging.Logger

	latest *store.Commit
}

// New constructs a Replica bound to id over the given stores, without
// establishing a head commit. Call Clone to fork from existing shared
// history, or CommitObject to establish a fresh root.
func New[T any, E any](id clock.Id, ops store.TypeOps[T, E], objects *store.ObjectStore, refs *store.RefStore[T, E], commits *store.CommitStore) *Replica[T, E] {
	configureLoggingOnce.Do(func() {
		if cfg, err := config.Load(); err == nil {
			cfg.ApplyLogging()
		}
	})
	return &Replica[T, E]{
		id:      id,
		ops:     ops,
		objects: objects,
		refs:    refs,
		commits: commits,
		logger:  logging.NewLogger("replica"),
	}
}

// ID returns the replica's identity.
func (r *Replica[T, E]) ID() clock.Id {
	return r.id
}

// Clone forks r's replica id from shared history, binding it to an
// arbitrary existing commit (spec.md §4.6/§4.7).
func (r *Replica[T, E]) Clone(ctx context.Context) error {
	commit, err := r.commits.Clone(ctx, r.id)
	if err != nil {
		return err
	}
	r.latest = commit
	r.logger.Info("replica cloned", "replica", r.id.String(), "head", commit.Hash.String())
	return nil
}

// LatestObject resolves the value at r's current head commit. It returns
// a store.Error of kind NotFound if r has no head commit yet.
func (r *Replica[T, E]) LatestObject(ctx context.Context) (T, error) {
	var zero T
	if r.latest == nil {
		return zero, &store.Error{Kind: store.KindNotFound, Message: "replica has no commits yet"}
	}
	return r.refs.ResolveVersioned(ctx, r.latest.RefHash)
}

// CommitObject materializes v, appends a new commit advancing r's own
// clock component, and updates r's in-memory head on success.
func (r *Replica[T, E]) CommitObject(ctx context.Context, v T) (*store.Commit, error) {
	rootRef, err := r.refs.InsertVersioned(ctx, v)
	if err != nil {
		return nil, err
	}

	nextVersion := r.currentVersion().Inc(r.id)

	commit, err := r.commits.Commit(ctx, r.id, nextVersion, rootRef)
	if err != nil {
		return nil, err
	}
	r.latest = commit
	return commit, nil
}

// MergeWith reads other's latest commit, three-way-merges r's and
// other's values against their least common ancestor, and commits the
// merged result with the pointwise-max of both clocks (spec.md §4.7).
// r's in-memory head is only updated once the merge commit succeeds.
func (r *Replica[T, E]) MergeWith(ctx context.Context, other *Replica[T, E]) (*store.Commit, T, error) {
	var zero T

	if r.latest == nil {
		return nil, zero, &store.Error{Kind: store.KindNotFound, Message: "replica has no commits yet"}
	}

	otherCommit, err := r.commits.LatestCommitForReplica(ctx, other.id)
	if err != nil {
		return nil, zero, err
	}

	lcaClock := clock.LCA(r.latest.Clock, otherCommit.Clock)
	lcaCommit, err := r.commits.ResolveCommitForVersion(ctx, lcaClock)
	if err != nil {
		return nil, zero, err
	}

	selfObj, err := r.refs.ResolveVersioned(ctx, r.latest.RefHash)
	if err != nil {
		return nil, zero, err
	}
	otherObj, err := r.refs.ResolveVersioned(ctx, otherCommit.RefHash)
	if err != nil {
		return nil, zero, err
	}
	lcaObj, err := r.refs.ResolveVersioned(ctx, lcaCommit.RefHash)
	if err != nil {
		return nil, zero, err
	}

	merged := r.ops.Merge(lcaObj, selfObj, otherObj)

	rootRef, err := r.refs.InsertVersioned(ctx, merged)
	if err != nil {
		return nil, zero, err
	}

	// The merge commit's version is the pointwise-max of both replicas'
	// clocks (spec.md §4.7 step 6), but it is still committed through
	// the ordinary single-parent path: its parent is r's own previous
	// head, derived internally by CommitStore.Commit, exactly as the
	// original commit_object(merged) flow does for an ordinary commit.
	mergedClock := clock.Merge(r.latest.Clock, otherCommit.Clock)
	commit, err := r.commits.Commit(ctx, r.id, mergedClock, rootRef)
	if err != nil {
		return nil, zero, err
	}

	r.latest = commit
	r.logger.Info("merged replica", "replica", r.id.String(), "with", other.id.String(), "commit", commit.Hash.String())
	return commit, merged, nil
}

func (r *Replica[T, E]) currentVersion() clock.VectorClock {
	if r.latest == nil {
		return clock.New()
	}
	return r.latest.Clock
}
