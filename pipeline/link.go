package pipeline

import (
	"context"
	"sync"
)

// Link is a point-to-point queue between two stages. Exactly one stage
// sends on a link and exactly one receives from it.
//
// The queue is unbounded, so Send never blocks and only the receiver ever
// waits. Either side may go away first. Once the sender closes the link
// the receiver drains what was already sent and then sees end-of-stream;
// once the receiver leaves, further sends are dropped.
type Link struct {
	mu     sync.Mutex // protects queue, closed and gone
	queue  []int64
	closed bool
	gone   bool

	// ready holds at most one pending wakeup for the receiver.
	ready chan struct{}
}

// NewLink creates an empty link.
func NewLink() *Link {
	return &Link{ready: make(chan struct{}, 1)}
}

// Send queues v for the receiver. Returns false if the value was dropped
// because either side has finished.
func (l *Link) Send(v int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || l.gone {
		return false
	}
	l.queue = append(l.queue, v)
	l.wake()
	return true
}

// Receive blocks until a value is queued, the link is closed, or ctx is
// done. ok is false once the link is closed and drained.
func (l *Link) Receive(ctx context.Context) (v int64, ok bool, err error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, false, err
		}

		l.mu.Lock()
		if len(l.queue) > 0 {
			v = l.queue[0]
			l.queue = l.queue[1:]
			l.mu.Unlock()
			return v, true, nil
		}
		closed := l.closed
		l.mu.Unlock()
		if closed {
			return 0, false, nil
		}

		select {
		case <-l.ready:
		case <-ctx.Done():
			return 0, false, ctx.Err()
		}
	}
}

// Close marks the sending side as finished. Safe to call more than once.
func (l *Link) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		l.closed = true
		l.wake()
	}
}

// Leave marks the receiving side as finished and discards anything still
// queued. Safe to call more than once.
func (l *Link) Leave() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gone = true
	l.queue = nil
}

// Closed reports whether the sender has closed the link.
func (l *Link) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Len returns how many values are queued.
func (l *Link) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// wake signals the receiver without blocking. Must be called with mu held.
func (l *Link) wake() {
	select {
	case l.ready <- struct{}{}:
	default:
	}
}
