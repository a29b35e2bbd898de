package avs2dec

import "testing"

// fakeLogger captures Warnf calls so tests can assert a discontinuity
// was actually logged, rather than just inferring it from delivery order.
type fakeLogger struct {
	warnings []string
}

func (l *fakeLogger) Debugf(string, ...any) {}
func (l *fakeLogger) Infof(string, ...any)  {}
func (l *fakeLogger) Warnf(format string, args ...any) {
	l.warnings = append(l.warnings, format)
}
func (l *fakeLogger) Errorf(string, ...any) {}

func TestReorderList_DeliversInPOCOrderRegardlessOfInsertOrder(t *testing.T) {
	r := newReorderList(8, nil)
	for _, poc := range []int{3, 1, 4, 2, 0} {
		r.insert(&Frame{POC: poc})
	}

	var got []int
	for {
		f := r.getOneOutputPicture(false)
		if f == nil {
			break
		}
		got = append(got, f.POC)
	}

	want := []int{0, 1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

// TestReorderList_InOrderDeliversImmediately asserts that a picture
// arriving exactly at nextExpected is never withheld waiting for a
// backlog to build, even with a generous threshold configured — the
// threshold only ever applies to a genuine gap.
func TestReorderList_InOrderDeliversImmediately(t *testing.T) {
	r := newReorderList(8, nil)
	r.insert(&Frame{POC: 0})

	f := r.getOneOutputPicture(false)
	if f == nil || f.POC != 0 {
		t.Fatalf("expected poc=0 to deliver immediately, got %v", f)
	}
}

// TestReorderList_GapWithholdsUntilBacklogThenWarns exercises the only
// place the backlog threshold actually applies: a dropped POC. Delivery
// withholds until enough later pictures have piled up, then advances
// past the gap and logs a discontinuity warning.
func TestReorderList_GapWithholdsUntilBacklogThenWarns(t *testing.T) {
	log := &fakeLogger{}
	r := newReorderList(3, log)

	// poc=0 is missing entirely; 1,2 arrive first.
	r.insert(&Frame{POC: 1})
	r.insert(&Frame{POC: 2})

	if f := r.getOneOutputPicture(false); f != nil {
		t.Fatalf("expected nothing delivered below threshold, got poc=%d", f.POC)
	}
	if len(log.warnings) != 0 {
		t.Fatalf("expected no warning before the threshold is reached, got %v", log.warnings)
	}

	r.insert(&Frame{POC: 3})
	if f := r.getOneOutputPicture(false); f != nil {
		t.Fatalf("expected nothing delivered at exactly the threshold, got poc=%d", f.POC)
	}

	r.insert(&Frame{POC: 4})
	f := r.getOneOutputPicture(false)
	if f == nil || f.POC != 1 {
		t.Fatalf("expected poc=1 once the threshold is exceeded, got %v", f)
	}
	if len(log.warnings) != 1 {
		t.Fatalf("expected exactly one discontinuity warning, got %v", log.warnings)
	}

	// Subsequent in-order deliveries (2, 3) need no further warning.
	for _, want := range []int{2, 3} {
		f := r.getOneOutputPicture(false)
		if f == nil || f.POC != want {
			t.Fatalf("expected poc=%d, got %v", want, f)
		}
	}
	if len(log.warnings) != 1 {
		t.Fatalf("expected no additional warnings for in-order catch-up, got %v", log.warnings)
	}
}

func TestReorderList_FlushingBypassesThreshold(t *testing.T) {
	r := newReorderList(8, nil)
	r.insert(&Frame{POC: 5})

	if f := r.getOneOutputPicture(false); f != nil {
		t.Fatal("expected nothing delivered below threshold while not flushing")
	}
	f := r.getOneOutputPicture(true)
	if f == nil || f.POC != 5 {
		t.Fatalf("expected poc=5 to drain while flushing, got %v", f)
	}
}

func TestReorderList_DrainAllEmptiesList(t *testing.T) {
	r := newReorderList(8, nil)
	r.insert(&Frame{POC: 0})
	r.insert(&Frame{POC: 1})

	drained := r.drainAll()
	if len(drained) != 2 {
		t.Fatalf("expected 2 drained frames, got %d", len(drained))
	}
	if r.size() != 0 {
		t.Fatalf("expected empty list after drain, got size=%d", r.size())
	}
}

func TestFrame_RefUnrefLifecycle(t *testing.T) {
	f := &Frame{POC: 0}
	f.Ref()
	f.Ref()
	if f.Unref() {
		t.Fatal("expected refcount 1 remaining, not zero")
	}
	if !f.Unref() {
		t.Fatal("expected refcount to reach zero on second unref")
	}
}
