package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrLockTimeout is returned when the bounded wait elapses before the
// cluster-wide lock becomes free.
var ErrLockTimeout = errors.New("db: lock wait timed out")

// Advisory lock keys. One key per exclusion domain, shared by every node.
const (
	SubmissionLockKey int64 = 7401
)

const lockPollInterval = 500 * time.Millisecond

// AdvisoryLockManager serializes work cluster-wide using PostgreSQL session
// advisory locks. A lock is pinned to one pooled connection for its whole
// lifetime; releasing returns the connection to the pool.
type AdvisoryLockManager struct {
	pool *pgxpool.Pool
}

func NewAdvisoryLockManager(pool *pgxpool.Pool) *AdvisoryLockManager {
	return &AdvisoryLockManager{pool: pool}
}

// Acquire attempts to take the lock, polling until it is granted or wait
// elapses. The returned release func must be called exactly once by the
// holder. A competing acquirer that outlives the wait gets ErrLockTimeout
// rather than being silently dropped.
func (m *AdvisoryLockManager) Acquire(ctx context.Context, key int64, wait time.Duration) (func(), error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("db: acquire connection for lock %d: %w", key, err)
	}

	deadline := time.Now().Add(wait)
	for {
		var locked bool
		if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&locked); err != nil {
			conn.Release()
			return nil, fmt.Errorf("db: try lock %d: %w", key, err)
		}
		if locked {
			break
		}
		if time.Now().After(deadline) {
			conn.Release()
			return nil, fmt.Errorf("db: lock %d after %s: %w", key, wait, ErrLockTimeout)
		}

		select {
		case <-ctx.Done():
			conn.Release()
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}

	release := func() {
		// Unlock on the same session that holds the lock; a fresh context
		// so release still works when the caller's context is cancelled.
		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := conn.Exec(unlockCtx, "SELECT pg_advisory_unlock($1)", key); err != nil {
			// The session drop releases the lock anyway.
			conn.Conn().Close(unlockCtx)
		}
		conn.Release()
	}
	return release, nil
}
