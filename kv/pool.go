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
Pool implements the "session-per-store, connection-pooling abstraction"
spec.md §5 assumes the backing-store driver provides. It is a trimmed,
generic version of the teacher's sdk.ConnectionPool: pooled handles are
bare kv.Session values (no SQL/auth/session-state baggage), since the
narrow KVSession contract of spec.md §1 has none of that to track.
*/
package kv

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// PoolConfig configures a Pool.
type PoolConfig struct {
	MaxSessions    int           // maximum concurrently open sessions (default 10)
	AcquireTimeout time.Duration // max time to wait for a session (default 30s)
	MaxLifetime    time.Duration // max time a session may sit in the pool after its most recent Release before Acquire recycles it (default 1h); the time since dialing is not tracked
}

// DefaultPoolConfig returns sensible defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxSessions:    10,
		AcquireTimeout: 30 * time.Second,
		MaxLifetime:    time.Hour,
	}
}

// Dialer opens a fresh Session against the backing store.
type Dialer func(ctx context.Context) (Session, error)

// pooled wraps a Session with the bookkeeping Pool needs to recycle it.
type pooled struct {
	session   Session
	createdAt time.Time
}

// Pool manages a bounded set of Sessions, handing them out to callers
// that need one and reclaiming them on Release.
type Pool struct {
	mu     sync.Mutex
	config PoolConfig
	dial   Dialer

	available chan *pooled
	total     int
	closed    bool
}

// NewPool returns a Pool that dials new sessions with dial.
func NewPool(dial Dialer, config PoolConfig) *Pool {
	return &Pool{
		config:    config,
		dial:      dial,
		available: make(chan *pooled, config.MaxSessions),
	}
}

// Acquire returns a Session, blocking until one is available, a new one
// can be created, ctx is cancelled, or AcquireTimeout elapses — whichever
// comes first.
func (p *Pool) Acquire(ctx context.Context) (Session, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, fmt.Errorf("kv: pool is closed")
	}
	p.mu.Unlock()

	select {
	case pd := <-p.available:
		if p.expired(pd) {
			p.closeAndForget(pd)
			return p.dialNewOrWait(ctx)
		}
		return pd.session, nil
	default:
	}

	return p.dialNewOrWait(ctx)
}

func (p *Pool) dialNewOrWait(ctx context.Context) (Session, error) {
	p.mu.Lock()
	if p.total < p.config.MaxSessions {
		p.total++
		p.mu.Unlock()
		session, err := p.dial(ctx)
		if err != nil {
			p.mu.Lock()
			p.total--
			p.mu.Unlock()
			return nil, fmt.Errorf("kv: dialing session: %w", err)
		}
		return session, nil
	}
	p.mu.Unlock()

	timer := time.NewTimer(p.config.AcquireTimeout)
	defer timer.Stop()

	select {
	case pd := <-p.available:
		if p.expired(pd) {
			p.closeAndForget(pd)
			return p.dialNewOrWait(ctx)
		}
		return pd.session, nil
	case <-timer.C:
		return nil, fmt.Errorf("kv: timed out waiting for a pooled session")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Pool) expired(pd *pooled) bool {
	return p.config.MaxLifetime > 0 && time.Since(pd.createdAt) > p.config.MaxLifetime
}

func (p *Pool) closeAndForget(pd *pooled) {
	pd.session.Close()
	p.mu.Lock()
	p.total--
	p.mu.Unlock()
}

// Release returns session to the pool, closing it instead if the pool is
// closed or already at capacity.
func (p *Pool) Release(session Session) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		session.Close()
		return
	}

	pd := &pooled{session: session, createdAt: time.Now()}
	select {
	case p.available <- pd:
	default:
		p.closeAndForget(pd)
	}
}

// Close closes every idle session and marks the pool unusable.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.available)
	for pd := range p.available {
		pd.session.Close()
	}
	return nil
}
