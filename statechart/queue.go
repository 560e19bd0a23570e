package statechart

import (
	"context"
	"sync"
)

// queued is an event waiting for dispatch. done is non-nil for PostSync.
type queued struct {
	event Event
	done  chan error
}

// queue is an unbounded FIFO with a single consumer. push never blocks.
type queue struct {
	mu     sync.Mutex
	items  []queued
	closed bool
	wake   chan struct{}
}

func newQueue() *queue {
	return &queue{wake: make(chan struct{}, 1)}
}

// push appends it to the tail. It reports false once the queue is closed.
func (q *queue) push(it queued) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, it)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// pop removes the head, waiting while the queue is empty
func (q *queue) pop(ctx context.Context) (queued, error) {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return queued{}, ErrStopped
		}
		if len(q.items) > 0 {
			it := q.items[0]
			q.items[0] = queued{}
			q.items = q.items[1:]
			q.mu.Unlock()
			return it, nil
		}
		q.mu.Unlock()

		select {
		case <-q.wake:
		case <-ctx.Done():
			return queued{}, ctx.Err()
		}
	}
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// close stops the queue and hands back whatever was still waiting
func (q *queue) close() []queued {
	q.mu.Lock()
	rest := q.items
	q.items = nil
	q.closed = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return rest
}
