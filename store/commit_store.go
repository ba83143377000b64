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
CommitStore persists the commit DAG each replica walks: a Commit pins one
immutable version of a value (via its Ref root hash) to a vector clock
and at most one parent commit, and each replica keeps a head pointer at
its most recent commit (spec.md §3/§4.6). Commit never takes a parent
from its caller; it always derives it from the replica's own current
head, so merge commits are committed through the exact same single-
parent path as ordinary commits.
*/
package store

import (
	"context"

	"github.com/firefly-oss/quark/clock"
	"github.com/firefly-oss/quark/codec"
	"github.com/firefly-oss/quark/internal/logging"
	"github.com/firefly-oss/quark/kv"
)

// Commit is one immutable node in the commit DAG. Parent is nil only for
// a replica's very first commit (spec.md §3: parent is Option<CommitId>).
type Commit struct {
	Hash      Hash
	Clock     clock.VectorClock
	Parent    *Hash
	RefHash   Hash
	ReplicaID clock.Id
}

// CommitStore persists Commits and each replica's head pointer.
type CommitStore struct {
	session kv.Session
	vcCodec codec.VectorClockCodec
	logger  *logging.Logger

	insertCommitStmt  kv.PreparedStatement
	selectCommitStmt  kv.PreparedStatement
	selectByClockStmt kv.PreparedStatement
	upsertHeadStmt    kv.PreparedStatement
	selectHeadStmt    kv.PreparedStatement
	selectAnyStmt     kv.PreparedStatement
}

// NewCommitStore prepares the statements CommitStore needs against session.
func NewCommitStore(ctx context.Context, session kv.Session) (*CommitStore, error) {
	cs := &CommitStore{session: session, logger: logging.NewLogger("store.commitstore")}
	var err error
	if cs.insertCommitStmt, err = session.Prepare(ctx, StmtInsertCommit); err != nil {
		return nil, storeError("preparing commit insert statement", err)
	}
	if cs.selectCommitStmt, err = session.Prepare(ctx, StmtSelectCommit); err != nil {
		return nil, storeError("preparing commit select statement", err)
	}
	if cs.selectByClockStmt, err = session.Prepare(ctx, StmtSelectCommitByClock); err != nil {
		return nil, storeError("preparing commit-by-clock select statement", err)
	}
	if cs.upsertHeadStmt, err = session.Prepare(ctx, StmtUpsertReplicaHead); err != nil {
		return nil, storeError("preparing replica head upsert statement", err)
	}
	if cs.selectHeadStmt, err = session.Prepare(ctx, StmtSelectReplicaHead); err != nil {
		return nil, storeError("preparing replica head select statement", err)
	}
	if cs.selectAnyStmt, err = session.Prepare(ctx, StmtSelectAnyCommit); err != nil {
		return nil, storeError("preparing arbitrary commit select statement", err)
	}
	return cs, nil
}

// Commit stores a new commit on top of replicaID's current head and
// advances the head to it (spec.md §4.6: commit(replica, version,
// root_ref) reads the replica's stored head internally to derive the
// single parent; callers never supply one).
func (s *CommitStore) Commit(ctx context.Context, replicaID clock.Id, vc clock.VectorClock, refHash Hash) (*Commit, error) {
	parent, err := s.currentHead(ctx, replicaID)
	if err != nil {
		return nil, err
	}

	clockBytes, err := s.vcCodec.Encode(vc)
	if err != nil {
		return nil, codecError("encoding commit clock", err)
	}
	parentBytes := encodeOptionalHash(parent)

	payload := make([]byte, 0, len(clockBytes)+len(parentBytes)+len(refHash)+len(replicaID))
	payload = append(payload, clockBytes...)
	payload = append(payload, parentBytes...)
	payload = append(payload, refHash[:]...)
	payload = append(payload, replicaID[:]...)
	h := HashBytes(payload)

	b := kv.NewBatch()
	b.Add(s.insertCommitStmt, h.String(), clockBytes, parentBytes, refHash.String(), replicaID.String())
	if err := s.session.ExecuteBatch(ctx, b); err != nil {
		return nil, storeError("inserting commit", err)
	}

	head := kv.NewBatch()
	head.Add(s.upsertHeadStmt, replicaID.String(), h.String())
	if err := s.session.ExecuteBatch(ctx, head); err != nil {
		return nil, storeError("updating replica head", err)
	}

	if parent != nil {
		s.logger.Info("committed", "replica", replicaID.String(), "commit", h.String(), "parent", parent.String())
	} else {
		s.logger.Info("committed root", "replica", replicaID.String(), "commit", h.String())
	}

	return &Commit{Hash: h, Clock: vc, Parent: parent, RefHash: refHash, ReplicaID: replicaID}, nil
}

// currentHead returns replicaID's current head hash, or nil if the
// replica has not committed anything yet.
func (s *CommitStore) currentHead(ctx context.Context, replicaID clock.Id) (*Hash, error) {
	rows, err := s.session.Query(ctx, s.selectHeadStmt, replicaID.String())
	if err != nil {
		return nil, storeError("querying replica head", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, storeError("scanning replica head rows", err)
		}
		return nil, nil
	}
	var headHashStr string
	if err := rows.Scan(&headHashStr); err != nil {
		return nil, storeError("scanning replica head", err)
	}
	headHash, err := ParseHash(headHashStr)
	if err != nil {
		return nil, err
	}
	return &headHash, nil
}

// Clone forks replicaID from shared history by binding its head to an
// arbitrary existing commit (spec.md §4.6). Well-formed applications
// establish a single root commit before cloning, so the arbitrary choice
// is immaterial in practice.
func (s *CommitStore) Clone(ctx context.Context, replicaID clock.Id) (*Commit, error) {
	rows, err := s.session.Query(ctx, s.selectAnyStmt)
	if err != nil {
		return nil, storeError("querying for an arbitrary commit", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, storeError("scanning arbitrary commit rows", err)
		}
		return nil, notFound("no commits exist to clone from", nil)
	}

	var hashStr string
	var clockBytes, parentBytes []byte
	var refHashStr, sourceReplicaIDStr string
	if err := rows.Scan(&hashStr, &clockBytes, &parentBytes, &refHashStr, &sourceReplicaIDStr); err != nil {
		return nil, storeError("scanning arbitrary commit row", err)
	}
	hash, err := ParseHash(hashStr)
	if err != nil {
		return nil, err
	}

	head := kv.NewBatch()
	head.Add(s.upsertHeadStmt, replicaID.String(), hashStr)
	if err := s.session.ExecuteBatch(ctx, head); err != nil {
		return nil, storeError("binding cloned replica head", err)
	}

	s.logger.Info("cloned replica", "replica", replicaID.String(), "head", hashStr)
	return s.ResolveCommit(ctx, hash)
}

// LatestCommitForReplica resolves replicaID's current head commit.
func (s *CommitStore) LatestCommitForReplica(ctx context.Context, replicaID clock.Id) (*Commit, error) {
	rows, err := s.session.Query(ctx, s.selectHeadStmt, replicaID.String())
	if err != nil {
		return nil, storeError("querying replica head", err)
	}
	if !rows.Next() {
		rows.Close()
		return nil, notFound("no commits for replica "+replicaID.String(), nil)
	}
	var headHashStr string
	if err := rows.Scan(&headHashStr); err != nil {
		rows.Close()
		return nil, storeError("scanning replica head", err)
	}
	rows.Close()

	headHash, err := ParseHash(headHashStr)
	if err != nil {
		return nil, err
	}
	return s.ResolveCommit(ctx, headHash)
}

// ResolveCommit fetches the commit stored under hash.
func (s *CommitStore) ResolveCommit(ctx context.Context, hash Hash) (*Commit, error) {
	rows, err := s.session.Query(ctx, s.selectCommitStmt, hash.String())
	if err != nil {
		return nil, storeError("querying commit", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, storeError("scanning commit rows", err)
		}
		return nil, notFound("commit not found: "+hash.String(), nil)
	}

	var clockBytes, parentBytes []byte
	var refHashStr, replicaIDStr string
	if err := rows.Scan(&clockBytes, &parentBytes, &refHashStr, &replicaIDStr); err != nil {
		return nil, storeError("scanning commit row", err)
	}

	vc, err := s.vcCodec.Decode(clockBytes)
	if err != nil {
		return nil, codecError("decoding commit clock", err)
	}
	parent, err := decodeOptionalHash(parentBytes)
	if err != nil {
		return nil, err
	}
	refHash, err := ParseHash(refHashStr)
	if err != nil {
		return nil, err
	}
	replicaID, ok := clock.IdFromBytes([]byte(replicaIDStr))
	if !ok {
		return nil, codecError("decoding commit replica id", nil)
	}

	return &Commit{
		Hash:      hash,
		Clock:     vc,
		Parent:    parent,
		RefHash:   refHash,
		ReplicaID: replicaID,
	}, nil
}

// ResolveCommitForVersion finds the first commit, regardless of which
// replica produced it, whose vector clock matches vc's canonical
// encoding exactly (spec.md §4.6). Used only for LCA resolution during a
// merge: it requires some replica to have already committed the LCA's
// exact clock, which holds for any commit that was ever itself a replica
// head.
func (s *CommitStore) ResolveCommitForVersion(ctx context.Context, vc clock.VectorClock) (*Commit, error) {
	clockBytes, err := s.vcCodec.Encode(vc)
	if err != nil {
		return nil, codecError("encoding lookup clock", err)
	}

	rows, err := s.session.Query(ctx, s.selectByClockStmt, clockBytes)
	if err != nil {
		return nil, storeError("querying commit by clock", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, storeError("scanning commit-by-clock rows", err)
		}
		return nil, notFound("no commit matches the given version", nil)
	}
	var hashStr, refHashStr string
	if err := rows.Scan(&hashStr, &refHashStr); err != nil {
		return nil, storeError("scanning commit-by-clock row", err)
	}
	hash, err := ParseHash(hashStr)
	if err != nil {
		return nil, err
	}
	return s.ResolveCommit(ctx, hash)
}

// encodeOptionalHash packs parent into its 8-byte form, or an empty
// slice when parent is nil (a replica's root commit).
func encodeOptionalHash(parent *Hash) []byte {
	if parent == nil {
		return nil
	}
	return append([]byte(nil), parent[:]...)
}

// decodeOptionalHash reverses encodeOptionalHash.
func decodeOptionalHash(data []byte) (*Hash, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) != 8 {
		return nil, invariant("parent hash payload must be exactly one hash")
	}
	var h Hash
	copy(h[:], data)
	return &h, nil
}
