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
RefStore materializes a composite MRDT value as a linked list of Ref
nodes, one node per leaf element (spec.md §3). Each leaf's bytes are
first inserted into the ObjectStore under their own content hash
(object_ref = hash(v)); the Ref node itself is then content-addressed
by hash(object_ref, left), never by the element bytes directly, so
equal values always dedup at the object layer even when they sit at
different positions in different chains (spec.md §4.5).

The chain is built forward, left to right: Ref[0] (the first element)
has left = nilHash, Ref[i] has left = Ref[i-1]'s hash, and the root
returned to the caller is the hash of the *last* element's Ref. Two
versions that share a common prefix of elements therefore share the
Ref nodes for that prefix, and appending one element reuses every
prior node and writes exactly one new one.
*/
package store

import (
	"context"
	"strconv"

	"github.com/firefly-oss/quark/internal/logging"
	"github.com/firefly-oss/quark/kv"
)

// RefStore materializes and resolves versioned composite values of type
// T built from leaf elements of type E.
type RefStore[T any, E any] struct {
	session kv.Session
	objects *ObjectStore
	ops     TypeOps[T, E]
	logger  *logging.Logger

	insertStmt kv.PreparedStatement
	selectStmt kv.PreparedStatement
}

// NewRefStore prepares the statements RefStore needs against session.
// objects is the ObjectStore ref nodes dereference their object_ref
// against; it is shared with the caller, not owned by the RefStore.
func NewRefStore[T any, E any](ctx context.Context, session kv.Session, objects *ObjectStore, ops TypeOps[T, E]) (*RefStore[T, E], error) {
	insertStmt, err := session.Prepare(ctx, StmtInsertRef)
	if err != nil {
		return nil, storeError("preparing ref insert statement", err)
	}
	selectStmt, err := session.Prepare(ctx, StmtSelectRef)
	if err != nil {
		return nil, storeError("preparing ref select statement", err)
	}
	return &RefStore[T, E]{
		session:    session,
		objects:    objects,
		ops:        ops,
		logger:     logging.NewLogger("store.refstore"),
		insertStmt: insertStmt,
		selectStmt: selectStmt,
	}, nil
}

// nilHash marks the absence of a left neighbor: no real Hash is ever
// all zero bytes by construction here, since it is only ever written
// by this sentinel, never computed from content.
var nilHash = Hash{}

const refTypeTag = "ref"

// InsertVersioned materializes value as a chain of Ref nodes and returns
// the hash of the root node (nilHash if value decomposes to zero
// elements).
func (s *RefStore[T, E]) InsertVersioned(ctx context.Context, value T) (Hash, error) {
	elements := s.ops.ToElements(value)
	if len(elements) == 0 {
		return nilHash, nil
	}

	elemBytes := make([][]byte, len(elements))
	for i, elem := range elements {
		b, err := s.ops.ElemCodec.Encode(elem)
		if err != nil {
			return nilHash, codecError("encoding ref element", err)
		}
		elemBytes[i] = b
	}

	// Every leaf's bytes become its own content-addressed entry in the
	// object store first, so equal values dedup at this layer
	// regardless of where they sit in the chain.
	objectRefs, err := s.objects.InsertObjects(ctx, elemBytes)
	if err != nil {
		return nilHash, err
	}

	left := nilHash
	for i := range elements {
		payload := encodeRefPayload(left, objectRefs[i])
		hash := HashBytes(payload)

		b := kv.NewBatch()
		b.Add(s.insertStmt, hash.String(), refTypeTag, payload)
		if err := s.session.ExecuteBatch(ctx, b); err != nil {
			return nilHash, storeError("inserting ref node", err)
		}
		left = hash
	}

	s.logger.Debug("inserted ref chain", "elements", strconv.Itoa(len(elements)), "root", left.String())
	return left, nil
}

// ResolveVersioned walks the Ref chain rooted at hash back to its head
// and rebuilds a T from its elements. hash == nilHash resolves to the
// empty value.
func (s *RefStore[T, E]) ResolveVersioned(ctx context.Context, hash Hash) (T, error) {
	var zero T
	if hash == nilHash {
		return s.ops.FromElements(nil), nil
	}

	// Walk right-to-left collecting object_refs, then resolve their
	// bytes through ObjectStore.ResolveObjects, which looks each hash up
	// with its own query, in concurrent chunks (spec.md §4.5).
	var objectRefs []Hash
	current := hash
	for current != nilHash {
		rows, err := s.session.Query(ctx, s.selectStmt, current.String())
		if err != nil {
			return zero, storeError("querying ref node", err)
		}
		if !rows.Next() {
			rows.Close()
			return zero, notFound("ref node not found: "+current.String(), nil)
		}
		var typeTag string
		var payload []byte
		if err := rows.Scan(&typeTag, &payload); err != nil {
			rows.Close()
			return zero, storeError("scanning ref node", err)
		}
		rows.Close()

		left, objectRef, err := decodeRefPayload(payload)
		if err != nil {
			return zero, err
		}
		objectRefs = append(objectRefs, objectRef)
		current = left
	}

	// objectRefs was collected root-to-head (last element first);
	// reverse it back into element order before resolving.
	for i, j := 0, len(objectRefs)-1; i < j; i, j = i+1, j-1 {
		objectRefs[i], objectRefs[j] = objectRefs[j], objectRefs[i]
	}

	blobs, err := s.objects.ResolveObjects(ctx, objectRefs)
	if err != nil {
		return zero, err
	}

	elements := make([]E, len(blobs))
	for i, blob := range blobs {
		elem, err := s.ops.ElemCodec.Decode(blob)
		if err != nil {
			return zero, codecError("decoding ref element", err)
		}
		elements[i] = elem
	}

	s.logger.Debug("resolved ref chain", "elements", strconv.Itoa(len(elements)), "root", hash.String())
	return s.ops.FromElements(elements), nil
}

// encodeRefPayload packs (left-hash, object-ref-hash) for storage.
func encodeRefPayload(left, objectRef Hash) []byte {
	buf := make([]byte, 16)
	copy(buf[:8], left[:])
	copy(buf[8:], objectRef[:])
	return buf
}

func decodeRefPayload(payload []byte) (left, objectRef Hash, err error) {
	if len(payload) != 16 {
		return nilHash, nilHash, invariant("ref payload must be exactly two hashes")
	}
	copy(left[:], payload[:8])
	copy(objectRef[:], payload[8:])
	return left, objectRef, nil
}
