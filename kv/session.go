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
Package kv declares the narrow interface the Quark store assumes of its
backing wide-column database (spec.md §1): prepared statements and
batched execution, nothing more. The wire driver that implements Session
against a real database is an external collaborator and out of scope for
this module; kv/memkv provides an in-memory reference implementation used
by this module's own tests.
*/
package kv

import "context"

// Session is a single logical connection to the backing store: prepare a
// statement once, then execute it (optionally batched) many times. A
// Session is safe for concurrent use across goroutines — the underlying
// driver is expected to provide connection pooling (see Pool) — but a
// single Replica only ever drives one Session at a time (spec.md §5).
type Session interface {
	// Prepare compiles stmt once for repeated execution.
	Prepare(ctx context.Context, stmt string) (PreparedStatement, error)

	// ExecuteBatch submits every entry in b as one round trip. Entries
	// within a batch are not required to be atomic with one another
	// (spec.md §5: the two rows a commit writes are not atomic).
	ExecuteBatch(ctx context.Context, b Batch) error

	// Query executes stmt with args and returns the matching rows.
	Query(ctx context.Context, stmt PreparedStatement, args ...any) (Rows, error)

	// Close releases the session's resources.
	Close() error
}

// PreparedStatement is an opaque, driver-compiled statement handle.
type PreparedStatement interface {
	// Text returns the original statement text, for logging/debugging.
	Text() string
}

// Rows iterates a query result set, in the style of database/sql.Rows.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}
