package lookout

import (
	"context"

	"github.com/lookoutdb/lookout/query"
)

// Result is the delivery unit of the asynchronous execution paths:
// either a result list or the fault that ended the execution.
type Result[T any] struct {
	Rows []T
	Err  error
}

// ListQuery is a prepared list query: one descriptor, one resolver, one
// mapper, bound to one DB. It is immutable, holds no resources between
// calls, and is reusable across any number of executions, concurrently.
// Build one with NewList.
type ListQuery[T any] struct {
	db         DB
	descriptor query.Descriptor
	resolver   Resolver
	mapper     RowMapper[T]
}

// ExecuteBlocking runs the query once on the calling goroutine and
// returns the mapped rows in cursor order.
//
// The returned slice is never nil on success; an empty cursor yields an
// empty slice. The cursor acquired for this execution is released
// exactly once on every exit path, including mapper and iteration
// failures, before the fault propagates. Blocking I/O happens here: call
// from a worker goroutine, not a latency-sensitive one.
//
// Cancellation is cooperative: ctx is checked between rows, never by
// preempting the engine call.
func (p *ListQuery[T]) ExecuteBlocking(ctx context.Context) (out []T, err error) {
	if p.descriptor == nil {
		// Build enforces this; reaching here means the zero value was
		// used directly.
		return nil, &ConfigError{Reason: "no query or raw query bound"}
	}

	cur, err := p.resolver.PerformGet(ctx, p.db, p.descriptor)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := cur.Close(); cerr != nil && err == nil {
			out = nil
			err = &StorageError{Op: "close", Err: cerr}
		}
	}()

	n := cur.Count()
	if n < 0 {
		n = 0
	}
	out = make([]T, 0, n)

	for cur.Next() {
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		v, merr := p.mapper(cur)
		if merr != nil {
			return nil, &MapError{Row: len(out), Err: merr}
		}
		out = append(out, v)
	}
	if ierr := cur.Err(); ierr != nil {
		return nil, &StorageError{Op: "iterate", Err: ierr}
	}

	return out, nil
}

// ExecuteAsync runs ExecuteBlocking on its own goroutine and delivers
// exactly one Result, then closes the channel.
//
// Cancelling ctx before delivery suppresses it; an execution already in
// flight runs to completion and its result is discarded.
func (p *ListQuery[T]) ExecuteAsync(ctx context.Context) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		defer close(ch)
		rows, err := p.ExecuteBlocking(ctx)
		select {
		case ch <- Result[T]{Rows: rows, Err: err}:
		case <-ctx.Done():
		}
	}()
	return ch
}

// Observe returns a live sequence of results. The first Result is always
// an immediate execution computed at subscription time; afterwards, each
// change event affecting the descriptor's watched tables triggers one
// fresh execution, in event-delivery order, with no coalescing of rapid
// successive events.
//
// A descriptor with an empty watched set cannot be invalidated, so the
// sequence degenerates to ExecuteAsync: one Result, then close.
//
// Any fault is terminal: it is delivered as a Result with Err set and
// the channel closes. Cancelling ctx is the unsubscription signal: the
// change subscription is released, no further executions start, and an
// execution already in flight finishes but its result is discarded.
//
// Each call is an independent subscription with its own executions;
// results are not shared or broadcast between callers.
func (p *ListQuery[T]) Observe(ctx context.Context) <-chan Result[T] {
	if p.descriptor == nil {
		return p.ExecuteAsync(ctx) // delivers the ConfigError
	}

	tables := p.descriptor.WatchedTables()
	if len(tables) == 0 {
		return p.ExecuteAsync(ctx)
	}

	ch := make(chan Result[T])
	go func() {
		defer close(ch)

		// Subscribe before the first execution so a change landing
		// concurrently with subscription is queued rather than missed.
		// The first emission is still the snapshot: queued events are
		// only drained afterwards.
		sub := p.db.Watch(tables)
		defer sub.Cancel()

		if !p.emit(ctx, ch) {
			return
		}

		for {
			select {
			case _, ok := <-sub.Events:
				if !ok {
					return
				}
				if !p.emit(ctx, ch) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// emit runs one execution and delivers its Result. Returns false when
// the sequence must end: delivery was suppressed by cancellation, or the
// execution faulted (terminal after delivery).
func (p *ListQuery[T]) emit(ctx context.Context, ch chan<- Result[T]) bool {
	rows, err := p.ExecuteBlocking(ctx)
	select {
	case ch <- Result[T]{Rows: rows, Err: err}:
		return err == nil
	case <-ctx.Done():
		return false
	}
}
