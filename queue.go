// queue.go - the intrusive FIFO queue shared by the ES-unit pool
//
// Licensed under the GNU General Public License v3.0 or later.

package avs2dec

import "sync"

// esUnitQueue is the thread-safe FIFO of *esUnit described as C1 in
// spec.md §4.1: one mutex, one condition variable, strict FIFO,
// blocking or non-blocking removal, and a shutdown signal that unblocks
// blocked waiters with a nil return instead of a panic.
type esUnitQueue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	head     *esUnit
	tail     *esUnit
	count    int
	shutdown bool
}

func newESUnitQueue() *esUnitQueue {
	q := &esUnitQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// append adds u to the tail of the queue in O(1) and wakes one blocked
// waiter, if any.
func (q *esUnitQueue) append(u *esUnit) {
	q.mu.Lock()
	u.next = nil
	if q.tail == nil {
		q.head, q.tail = u, u
	} else {
		q.tail.next = u
		q.tail = u
	}
	q.count++
	q.mu.Unlock()
	q.cond.Signal()
}

// removeHead removes and returns the head of the queue. If blocking is
// true and the queue is empty, it waits until append or shutdown wakes
// it. On shutdown it returns nil — callers must not dereference a nil
// result.
func (q *esUnitQueue) removeHead(blocking bool) *esUnit {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.head == nil {
		if !blocking || q.shutdown {
			return nil
		}
		q.cond.Wait()
		if q.shutdown && q.head == nil {
			return nil
		}
	}
	u := q.head
	q.head = u.next
	if q.head == nil {
		q.tail = nil
	}
	u.next = nil
	q.count--
	return u
}

// removeHeadNonblocking is removeHead(false), named separately to match
// spec.md §4.1's two named entry points.
func (q *esUnitQueue) removeHeadNonblocking() *esUnit {
	return q.removeHead(false)
}

// size reports the current element count.
func (q *esUnitQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// signalShutdown wakes every blocked waiter so they observe shutdown
// and return nil instead of blocking forever.
func (q *esUnitQueue) signalShutdown() {
	q.mu.Lock()
	q.shutdown = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// destroy frees every remaining node by draining the queue. Safe to
// call after signalShutdown.
func (q *esUnitQueue) destroy() {
	q.mu.Lock()
	q.head, q.tail, q.count = nil, nil, 0
	q.mu.Unlock()
}
