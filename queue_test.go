package avs2dec

import (
	"testing"
	"time"
)

func TestESUnitQueue_FIFOOrder(t *testing.T) {
	q := newESUnitQueue()
	a, b, c := &esUnit{}, &esUnit{}, &esUnit{}
	q.append(a)
	q.append(b)
	q.append(c)

	if got := q.removeHead(false); got != a {
		t.Fatalf("expected a first, got %v", got)
	}
	if got := q.removeHead(false); got != b {
		t.Fatalf("expected b second, got %v", got)
	}
	if got := q.removeHead(false); got != c {
		t.Fatalf("expected c third, got %v", got)
	}
	if got := q.removeHead(false); got != nil {
		t.Fatalf("expected nil on empty queue, got %v", got)
	}
}

func TestESUnitQueue_BlockingRemoveWakesOnAppend(t *testing.T) {
	q := newESUnitQueue()
	done := make(chan *esUnit, 1)
	go func() { done <- q.removeHead(true) }()

	time.Sleep(10 * time.Millisecond) // let the goroutine reach Wait
	u := &esUnit{}
	q.append(u)

	select {
	case got := <-done:
		if got != u {
			t.Fatalf("expected %v, got %v", u, got)
		}
	case <-time.After(time.Second):
		t.Fatal("blocking removeHead never woke up")
	}
}

func TestESUnitQueue_ShutdownUnblocksWaiters(t *testing.T) {
	q := newESUnitQueue()
	done := make(chan *esUnit, 1)
	go func() { done <- q.removeHead(true) }()

	time.Sleep(10 * time.Millisecond)
	q.signalShutdown()

	select {
	case got := <-done:
		if got != nil {
			t.Fatalf("expected nil after shutdown, got %v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("shutdown did not unblock waiter")
	}
}

func TestESUnitQueue_Size(t *testing.T) {
	q := newESUnitQueue()
	if q.size() != 0 {
		t.Fatalf("expected empty queue size 0, got %d", q.size())
	}
	q.append(&esUnit{})
	q.append(&esUnit{})
	if q.size() != 2 {
		t.Fatalf("expected size 2, got %d", q.size())
	}
	q.removeHead(false)
	if q.size() != 1 {
		t.Fatalf("expected size 1 after removal, got %d", q.size())
	}
}
