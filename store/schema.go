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
Schema defines the four tables the Quark object/ref/commit store is built
on (spec.md §6), as statement-text constants rather than Go structs: the
store never assumes anything about the backing engine beyond "it can
prepare and execute these statements", per the narrow kv.Session contract.
A driver targeting a real wide-column store maps these onto whatever DDL
its engine needs; kv/memkv recognizes the statement text directly.
*/
package store

const (
	// StmtInsertObject stores one content-addressed object. hash is the
	// primary key; re-inserting the same hash with the same data is a
	// no-op (content addressing makes it idempotent).
	StmtInsertObject = "INSERT INTO objects (hash, data) VALUES (?, ?)"

	// StmtSelectObject resolves a single object by hash.
	StmtSelectObject = "SELECT data FROM objects WHERE hash = ?"

	// StmtInsertRef stores one ref node: RefStore always writes the
	// type_tag "ref" and does not consult it on read; payload is the
	// 16-byte (left hash, object_ref hash) pair.
	StmtInsertRef = "INSERT INTO refs (hash, type_tag, payload) VALUES (?, ?, ?)"

	// StmtSelectRef resolves a single ref node by hash.
	StmtSelectRef = "SELECT type_tag, payload FROM refs WHERE hash = ?"

	// StmtInsertCommit stores one commit. CommitStore.Commit writes this
	// row and the replica-head upsert in two separate batches, which are
	// not atomic with one another (spec.md §5) — only the commit row
	// itself is a single statement. parent_hash is NULL for
	// a replica's first commit (spec.md §3: parent is Option<CommitId>).
	StmtInsertCommit = "INSERT INTO commits (hash, clock, parent_hash, ref_hash, replica_id) VALUES (?, ?, ?, ?, ?)"

	// StmtSelectCommit resolves a single commit by its hash.
	StmtSelectCommit = "SELECT clock, parent_hash, ref_hash, replica_id FROM commits WHERE hash = ?"

	// StmtSelectCommitByClock resolves the commit whose vector clock
	// matches the given canonical encoding exactly; the first match
	// wins regardless of which replica committed it (spec.md §4.6:
	// resolve_commit_for_version scans all commits by encoded clock).
	StmtSelectCommitByClock = "SELECT hash, ref_hash FROM commits WHERE clock = ?"

	// StmtSelectAnyCommit picks an arbitrary existing commit, used by
	// CommitStore.Clone to fork a new replica from shared history
	// (spec.md §4.6: "pick any existing commit").
	StmtSelectAnyCommit = "SELECT hash, clock, parent_hash, ref_hash, replica_id FROM commits LIMIT 1"

	// StmtUpsertReplicaHead records (or updates) the commit a replica's
	// head currently points at.
	StmtUpsertReplicaHead = "INSERT INTO replica_heads (replica_id, commit_hash) VALUES (?, ?) " +
		"ON CONFLICT (replica_id) DO UPDATE SET commit_hash = excluded.commit_hash"

	// StmtSelectReplicaHead resolves the commit hash a replica's head
	// currently points at.
	StmtSelectReplicaHead = "SELECT commit_hash FROM replica_heads WHERE replica_id = ?"
)

// MaxInsertBatch and MaxResolveBatch are the batching limits spec.md §4.4
// places on ObjectStore.InsertObjects / ResolveObjects.
const (
	MaxInsertBatch  = 2000
	MaxResolveBatch = 100
)
