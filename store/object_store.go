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
ObjectStore is the content-addressed blob layer everything else in store/
is built on (spec.md §2): hash in, bytes out, no knowledge of what the
bytes mean. Large batches are split into driver-friendly chunks and
submitted concurrently with golang.org/x/sync/errgroup, mirroring how the
teacher's connection pool fans work out across pooled sessions.
*/
package store

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/firefly-oss/quark/internal/logging"
	"github.com/firefly-oss/quark/kv"
)

// ObjectStore persists opaque, content-addressed byte blobs.
type ObjectStore struct {
	session kv.Session
	logger  *logging.Logger

	insertStmt kv.PreparedStatement
	selectStmt kv.PreparedStatement
}

// NewObjectStore prepares the statements ObjectStore needs against session.
func NewObjectStore(ctx context.Context, session kv.Session) (*ObjectStore, error) {
	insertStmt, err := session.Prepare(ctx, StmtInsertObject)
	if err != nil {
		return nil, storeError("preparing object insert statement", err)
	}
	selectStmt, err := session.Prepare(ctx, StmtSelectObject)
	if err != nil {
		return nil, storeError("preparing object select statement", err)
	}
	return &ObjectStore{
		session:    session,
		logger:     logging.NewLogger("store.objectstore"),
		insertStmt: insertStmt,
		selectStmt: selectStmt,
	}, nil
}

// InsertObject stores data under its content hash and returns that hash.
// Re-inserting identical data is a no-op.
func (s *ObjectStore) InsertObject(ctx context.Context, data []byte) (Hash, error) {
	h := HashBytes(data)
	b := kv.NewBatch()
	b.Add(s.insertStmt, h.String(), data)
	if err := s.session.ExecuteBatch(ctx, b); err != nil {
		return h, storeError("inserting object", err)
	}
	return h, nil
}

// InsertObjects stores many blobs, chunking the batch at MaxInsertBatch
// and submitting chunks concurrently.
func (s *ObjectStore) InsertObjects(ctx context.Context, datas [][]byte) ([]Hash, error) {
	hashes := make([]Hash, len(datas))
	for i, data := range datas {
		hashes[i] = HashBytes(data)
	}

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(datas); start += MaxInsertBatch {
		end := min(start+MaxInsertBatch, len(datas))
		start, end := start, end
		g.Go(func() error {
			b := kv.NewBatch()
			for i := start; i < end; i++ {
				b.Add(s.insertStmt, hashes[i].String(), datas[i])
			}
			if err := s.session.ExecuteBatch(gctx, b); err != nil {
				return storeError("inserting object batch", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.logger.Debug("inserted object batch", "count", strconv.Itoa(len(datas)))
	return hashes, nil
}

// ResolveObject fetches the bytes stored under hash.
func (s *ObjectStore) ResolveObject(ctx context.Context, hash Hash) ([]byte, error) {
	rows, err := s.session.Query(ctx, s.selectStmt, hash.String())
	if err != nil {
		return nil, storeError("querying object", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, storeError("scanning object rows", err)
		}
		return nil, notFound("object not found: "+hash.String(), nil)
	}
	var data []byte
	if err := rows.Scan(&data); err != nil {
		return nil, storeError("scanning object row", err)
	}
	return data, nil
}

// ResolveObjects fetches many blobs, chunking lookups at MaxResolveBatch
// and resolving chunks concurrently. The returned slice has the same
// length and order as hashes.
func (s *ObjectStore) ResolveObjects(ctx context.Context, hashes []Hash) ([][]byte, error) {
	results := make([][]byte, len(hashes))

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(hashes); start += MaxResolveBatch {
		end := min(start+MaxResolveBatch, len(hashes))
		start, end := start, end
		g.Go(func() error {
			for i := start; i < end; i++ {
				data, err := s.ResolveObject(gctx, hashes[i])
				if err != nil {
					return err
				}
				results[i] = data
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.logger.Debug("resolved object batch", "count", strconv.Itoa(len(hashes)))
	return results, nil
}
