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
Package memkv is an in-memory reference implementation of kv.Session,
standing in for the wide-column database driver spec.md assumes as an
external collaborator. It recognizes the exact statement text store/
prepares (see store.Stmt* constants) and keeps each table as a plain Go
map guarded by a mutex — good enough for this module's own tests and for
embedders that don't need real persistence.
*/
package memkv

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/firefly-oss/quark/kv"
	"github.com/firefly-oss/quark/store"
)

type stmt struct {
	text string
}

func (s *stmt) Text() string { return s.text }

type commitRow struct {
	clockBytes  []byte
	parentBytes []byte
	refHash     string
	replicaID   string
}

// Session is an in-memory kv.Session backing the object/ref/commit schema
// store/schema.go defines.
type Session struct {
	mu sync.RWMutex

	objects      map[string][]byte
	refs         map[string]refRow
	commits      map[string]commitRow
	replicaHeads map[string]string

	closed bool
}

type refRow struct {
	typeTag string
	payload []byte
}

// New returns an empty Session.
func New() *Session {
	return &Session{
		objects:      make(map[string][]byte),
		refs:         make(map[string]refRow),
		commits:      make(map[string]commitRow),
		replicaHeads: make(map[string]string),
	}
}

// Dial adapts New to kv.Dialer, for use with kv.Pool in tests that don't
// need a shared backing map across pooled sessions.
func Dial(ctx context.Context) (kv.Session, error) {
	return New(), nil
}

func (s *Session) Prepare(ctx context.Context, text string) (kv.PreparedStatement, error) {
	return &stmt{text: text}, nil
}

func (s *Session) ExecuteBatch(ctx context.Context, b kv.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("memkv: session is closed")
	}

	for _, entry := range b.Entries() {
		if err := s.execOne(entry); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) execOne(entry kv.Entry) error {
	switch entry.Stmt.Text() {
	case store.StmtInsertObject:
		hash, data := entry.Args[0].(string), entry.Args[1].([]byte)
		s.objects[hash] = data

	case store.StmtInsertRef:
		hash, typeTag, payload := entry.Args[0].(string), entry.Args[1].(string), entry.Args[2].([]byte)
		s.refs[hash] = refRow{typeTag: typeTag, payload: payload}

	case store.StmtInsertCommit:
		hash := entry.Args[0].(string)
		s.commits[hash] = commitRow{
			clockBytes:  entry.Args[1].([]byte),
			parentBytes: entry.Args[2].([]byte),
			refHash:     entry.Args[3].(string),
			replicaID:   entry.Args[4].(string),
		}

	case store.StmtUpsertReplicaHead:
		replicaID, commitHash := entry.Args[0].(string), entry.Args[1].(string)
		s.replicaHeads[replicaID] = commitHash

	default:
		return fmt.Errorf("memkv: unrecognized statement: %s", entry.Stmt.Text())
	}
	return nil
}

func (s *Session) Query(ctx context.Context, stmt kv.PreparedStatement, args ...any) (kv.Rows, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("memkv: session is closed")
	}

	switch stmt.Text() {
	case store.StmtSelectObject:
		hash := args[0].(string)
		data, ok := s.objects[hash]
		if !ok {
			return &rows{}, nil
		}
		return &rows{records: [][]any{{append([]byte(nil), data...)}}}, nil

	case store.StmtSelectRef:
		hash := args[0].(string)
		row, ok := s.refs[hash]
		if !ok {
			return &rows{}, nil
		}
		return &rows{records: [][]any{{row.typeTag, append([]byte(nil), row.payload...)}}}, nil

	case store.StmtSelectCommit:
		hash := args[0].(string)
		row, ok := s.commits[hash]
		if !ok {
			return &rows{}, nil
		}
		return &rows{records: [][]any{{row.clockBytes, row.parentBytes, row.refHash, row.replicaID}}}, nil

	case store.StmtSelectAnyCommit:
		for hash, row := range s.commits {
			return &rows{records: [][]any{{hash, row.clockBytes, row.parentBytes, row.refHash, row.replicaID}}}, nil
		}
		return &rows{}, nil

	case store.StmtSelectCommitByClock:
		clockBytes := args[0].([]byte)
		var records [][]any
		for hash, row := range s.commits {
			if bytes.Equal(row.clockBytes, clockBytes) {
				records = append(records, []any{hash, row.refHash})
			}
		}
		return &rows{records: records}, nil

	case store.StmtSelectReplicaHead:
		replicaID := args[0].(string)
		commitHash, ok := s.replicaHeads[replicaID]
		if !ok {
			return &rows{}, nil
		}
		return &rows{records: [][]any{{commitHash}}}, nil

	default:
		return nil, fmt.Errorf("memkv: unrecognized statement: %s", stmt.Text())
	}
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// rows is a fixed, pre-materialized kv.Rows over in-memory records.
type rows struct {
	records [][]any
	idx     int
}

func (r *rows) Next() bool {
	if r.idx >= len(r.records) {
		return false
	}
	r.idx++
	return true
}

func (r *rows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.records) {
		return fmt.Errorf("memkv: Scan called before Next or after exhaustion")
	}
	record := r.records[r.idx-1]
	if len(dest) != len(record) {
		return fmt.Errorf("memkv: Scan expected %d destinations, got %d", len(record), len(dest))
	}
	for i, d := range dest {
		if err := assign(d, record[i]); err != nil {
			return err
		}
	}
	return nil
}

func assign(dest any, value any) error {
	switch d := dest.(type) {
	case *string:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("memkv: cannot assign %T into *string", value)
		}
		*d = v
	case *[]byte:
		v, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("memkv: cannot assign %T into *[]byte", value)
		}
		*d = v
	default:
		return fmt.Errorf("memkv: unsupported scan destination %T", dest)
	}
	return nil
}

func (r *rows) Err() error {
	return nil
}

func (r *rows) Close() error {
	return nil
}
