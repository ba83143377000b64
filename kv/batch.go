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

package kv

// Entry is one statement-plus-arguments submission within a Batch.
type Entry struct {
	Stmt PreparedStatement
	Args []any
}

// Batch collects statement executions to submit as a single round trip.
// ObjectStore.InsertObjects splits its writes into batches of at most
// store.MaxInsertBatch (2000) statements; Batch itself has no size limit
// of its own.
type Batch interface {
	Add(stmt PreparedStatement, args ...any)
	Len() int
	Entries() []Entry
}

// sliceBatch is the default Batch implementation.
type sliceBatch struct {
	entries []Entry
}

// NewBatch returns an empty Batch.
func NewBatch() Batch {
	return &sliceBatch{}
}

func (b *sliceBatch) Add(stmt PreparedStatement, args ...any) {
	b.entries = append(b.entries, Entry{Stmt: stmt, Args: args})
}

func (b *sliceBatch) Len() int {
	return len(b.entries)
}

func (b *sliceBatch) Entries() []Entry {
	return b.entries
}
