package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/viborm/viborm/dialect"
)

// SavepointQueue serializes nested-transaction acquisition against a
// single open dialect.Tx. PostgreSQL (and the other dialects) treat
// savepoints as a stack: if A is opened then B, B must be released or
// rolled back before A is. A concurrent fan-out that opened nested
// transactions against the same *sql.Tx directly could interleave their
// SAVEPOINT/RELEASE pairs and break that invariant, so every nested
// transaction routes through this FIFO ticket queue instead of acquiring
// the underlying connection directly.
type SavepointQueue struct {
	tx      dialect.Tx
	tickets chan struct{}
	counter atomic.Int64
	mu      sync.Mutex
}

// NewSavepointQueue wraps an open transaction with a savepoint queue. One
// instance should be shared by every nested Transaction call issued
// against the same tx, however many goroutines attempt it concurrently.
func NewSavepointQueue(tx dialect.Tx) *SavepointQueue {
	q := &SavepointQueue{tx: tx, tickets: make(chan struct{}, 1)}
	q.tickets <- struct{}{}
	return q
}

// Transaction runs fn inside a savepoint scoped to this queue's
// transaction. Only one savepoint is ever open against the underlying
// connection at a time, in FIFO order of arrival. The ticket is held
// until fn returns and the savepoint is released or rolled back, so a
// call to Transaction on the same queue from inside fn waits until ctx
// is done.
//
// On fn's error, the savepoint is rolled back (not the whole transaction)
// and the error is returned. Panics inside fn are not recovered — fn must
// use its own recover if it wants the savepoint discipline to hold across
// a panic.
func (q *SavepointQueue) Transaction(ctx context.Context, fn func(ctx context.Context, tx dialect.Tx) error) error {
	select {
	case <-q.tickets:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { q.tickets <- struct{}{} }()

	name := fmt.Sprintf("sp%d", q.counter.Add(1))
	if err := q.exec(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("engine: savepoint %s: %w", name, err)
	}
	if err := fn(ctx, q.tx); err != nil {
		if rerr := q.exec(ctx, "ROLLBACK TO SAVEPOINT "+name); rerr != nil {
			return errors.Join(err, fmt.Errorf("engine: rollback to savepoint %s: %w", name, rerr))
		}
		return err
	}
	if err := q.exec(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("engine: release savepoint %s: %w", name, err)
	}
	return nil
}

func (q *SavepointQueue) exec(ctx context.Context, stmt string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.tx.Exec(ctx, stmt, []any{}, nil)
}

// Savepoint is a convenience for a single nested transaction against tx
// without keeping a long-lived queue around: it builds a one-shot
// SavepointQueue and runs fn through it. Callers that expect concurrent
// fan-out against the same tx should hold onto a NewSavepointQueue
// instead, so every nested acquisition shares one FIFO ticket.
func Savepoint(ctx context.Context, tx dialect.Tx, fn func(ctx context.Context, tx dialect.Tx) error) error {
	return NewSavepointQueue(tx).Transaction(ctx, fn)
}
