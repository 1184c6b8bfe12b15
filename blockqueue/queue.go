// Package blockqueue provides a bounded double-ended queue with blocking
// push and pop, used to apply backpressure between producer goroutines and
// a consumer.
//
// One mutex guards the queue. Consumers wait on a notEmpty condition and
// producers on a notFull condition. A successful push wakes one consumer and
// a successful pop wakes one producer; Close and Drain wake every waiter so
// each can observe the state change and return.
package blockqueue

import (
	"context"
	"errors"
	"sync"
	"time"

	smerrors "github.com/Station-Manager/errors"
)

// ErrClosed is returned by push operations once the queue is closed or
// draining, and by PopContext once it is closed and empty.
var ErrClosed = errors.New("blockqueue: queue closed")

const errMsgCapacity = "Queue capacity must be greater than zero."

type Queue[T any] struct {
	mu       sync.Mutex
	notEmpty sync.Cond
	notFull  sync.Cond

	// ring storage, len(items) == capacity
	items []T
	head  int
	count int

	closed   bool
	draining bool
}

// New returns an open queue holding at most capacity items.
func New[T any](capacity int) (*Queue[T], error) {
	const op smerrors.Op = "blockqueue.New"
	if capacity <= 0 {
		return nil, smerrors.New(op).Msg(errMsgCapacity)
	}
	q := &Queue[T]{items: make([]T, capacity)}
	q.notEmpty.L = &q.mu
	q.notFull.L = &q.mu
	return q, nil
}

// PushBack appends item, blocking while the queue is full.
func (q *Queue[T]) PushBack(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.waitNotFull(); err != nil {
		return err
	}
	q.items[(q.head+q.count)%len(q.items)] = item
	q.count++
	q.notEmpty.Signal()
	return nil
}

// PushFront inserts item at the head, blocking while the queue is full. It
// bypasses FIFO order and is meant for re-delivering unconsumed items.
func (q *Queue[T]) PushFront(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.waitNotFull(); err != nil {
		return err
	}
	q.head = (q.head - 1 + len(q.items)) % len(q.items)
	q.items[q.head] = item
	q.count++
	q.notEmpty.Signal()
	return nil
}

// waitNotFull must be called with mu held.
func (q *Queue[T]) waitNotFull() error {
	for q.count >= len(q.items) && !q.closed && !q.draining {
		q.notFull.Wait()
	}
	if q.closed || q.draining {
		return ErrClosed
	}
	return nil
}

// Pop removes and returns the front item, blocking while the queue is empty.
// ok is false once the queue is closed and empty.
func (q *Queue[T]) Pop() (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 {
		if q.closed {
			return item, false
		}
		q.notEmpty.Wait()
	}
	return q.popLocked(), true
}

// PopTimeout is Pop bounded by d. ok is false when d elapses or the queue
// closes while empty. A non-positive d never waits.
func (q *Queue[T]) PopTimeout(d time.Duration) (item T, ok bool) {
	deadline := time.Now().Add(d)
	if d > 0 {
		timer := time.AfterFunc(d, q.wakeConsumers)
		defer timer.Stop()
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 {
		if q.closed || !time.Now().Before(deadline) {
			return item, false
		}
		q.notEmpty.Wait()
	}
	return q.popLocked(), true
}

// PopContext is Pop bounded by ctx. It returns ctx.Err() on cancellation and
// ErrClosed once the queue is closed and empty.
func (q *Queue[T]) PopContext(ctx context.Context) (item T, err error) {
	stop := context.AfterFunc(ctx, q.wakeConsumers)
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 {
		if q.closed {
			return item, ErrClosed
		}
		if err = ctx.Err(); err != nil {
			return item, err
		}
		q.notEmpty.Wait()
	}
	return q.popLocked(), nil
}

func (q *Queue[T]) wakeConsumers() {
	q.mu.Lock()
	q.notEmpty.Broadcast()
	q.mu.Unlock()
}

// popLocked must be called with mu held and count > 0.
func (q *Queue[T]) popLocked() T {
	var zero T
	item := q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.count--
	q.notFull.Signal()

	if q.draining && q.count == 0 {
		q.closed = true
		q.notEmpty.Broadcast()
	}
	return item
}

// Front returns the item Pop would return next without removing it.
func (q *Queue[T]) Front() (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.count == 0 {
		return item, false
	}
	return q.items[q.head], true
}

// Back returns the most recently pushed-back item without removing it.
func (q *Queue[T]) Back() (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.count == 0 {
		return item, false
	}
	return q.items[(q.head+q.count-1)%len(q.items)], true
}

// Clear discards all buffered items and wakes blocked producers. On a
// draining queue it completes the drain, so waiting consumers observe
// closure.
func (q *Queue[T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.clearLocked()
	if q.draining {
		q.closed = true
		q.notEmpty.Broadcast()
	}
	q.notFull.Broadcast()
}

func (q *Queue[T]) clearLocked() {
	clear(q.items)
	q.head = 0
	q.count = 0
}

// Flush wakes one waiting consumer without adding data.
func (q *Queue[T]) Flush() {
	q.mu.Lock()
	q.notEmpty.Signal()
	q.mu.Unlock()
}

// Close discards all buffered items, marks the queue closed and wakes every
// waiting producer and consumer. It is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.clearLocked()
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Drain stops accepting new items while letting consumers receive the ones
// already buffered. The queue becomes closed once it is empty.
func (q *Queue[T]) Drain() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.draining = true
	if q.count == 0 {
		q.closed = true
	}
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

func (q *Queue[T]) Cap() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue[T]) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count == 0
}

func (q *Queue[T]) Full() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count >= len(q.items)
}

// Closed reports whether the queue has reached its terminal state.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
