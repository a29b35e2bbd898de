// reorder.go - the output reorder list and POC discontinuity handling
//
// Licensed under the GNU General Public License v3.0 or later.

package avs2dec

import "sync"

// outputRecord is one entry in the manager's reorder list: a decoded
// Frame waiting to be delivered in POC order (spec.md §4.6,
// davs2.cc's output_list / PIC_LIST node). next links records within
// the sorted list; it is nil once delivered.
type outputRecord struct {
	frame *Frame
	next  *outputRecord
}

// reorderList holds every reconstructed-but-undelivered picture, kept
// sorted ascending by POC at all times so delivery is always "take the
// head" (spec.md §4.6's invariant). nextExpected is the POC delivery
// should be at next; as long as the head matches it, pictures leave
// immediately with no backlog wait, mirroring davs2.cc's
// output_list_get_one_output_picture delivering on i_poc == output.
// Only once the head has gotten ahead of nextExpected — a genuine gap,
// meaning an earlier POC will never arrive — does the backlog threshold
// (or flushing) gate delivery, and advancing past the gap logs a
// discontinuity warning.
type reorderList struct {
	mu           sync.Mutex
	head         *outputRecord
	count        int
	backlog      int // configured DefaultMaxReorderBacklog / MaxReorderBacklog
	nextExpected int
	logger       Logger
}

func newReorderList(backlog int, logger Logger) *reorderList {
	if logger == nil {
		logger = &nopLogger{}
	}
	return &reorderList{backlog: backlog, logger: logger}
}

// insert places rec into the list at its sorted position by POC
// (spec.md §4.6 step 1). O(n) linked-list insertion is fine here: n is
// bounded by backlog, which is small (default 8).
func (r *reorderList) insert(f *Frame) {
	rec := &outputRecord{frame: f}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.head == nil || f.POC < r.head.frame.POC {
		rec.next = r.head
		r.head = rec
		r.count++
		return
	}
	prev := r.head
	for prev.next != nil && prev.next.frame.POC <= f.POC {
		prev = prev.next
	}
	rec.next = prev.next
	prev.next = rec
	r.count++
}

// getOneOutputPicture implements davs2.cc's output_list_get_one_output_picture:
// the head delivers immediately while its POC is still the one expected
// next (spec.md §4.6 step 2); once the head has outrun nextExpected —
// the POC due next was dropped or will never arrive — delivery withholds
// until more pictures than the backlog threshold are pending or flushing
// is underway (step 3),
// at which point advancing past the gap logs a discontinuity warning.
// Returns nil when nothing is ready yet.
func (r *reorderList) getOneOutputPicture(flushing bool) *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.head == nil {
		return nil
	}

	gap := r.head.frame.POC > r.nextExpected
	if gap && !flushing && r.count <= r.backlog {
		return nil
	}
	if gap {
		r.logger.Warnf("reorder discontinuity: expected poc=%d, delivering poc=%d",
			r.nextExpected, r.head.frame.POC)
	}

	rec := r.head
	r.head = rec.next
	r.count--
	rec.next = nil
	r.nextExpected = rec.frame.POC + 1
	return rec.frame
}

func (r *reorderList) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// drainAll empties the list, used by Close to release every
// outstanding Frame reference (spec.md §4.7's teardown ordering: output
// list drained before the ES-unit pool is destroyed).
func (r *reorderList) drainAll() []*Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Frame
	for rec := r.head; rec != nil; rec = rec.next {
		out = append(out, rec.frame)
	}
	r.head = nil
	r.count = 0
	return out
}

// getOutput is the Manager-level entry point matching davs2.cc's
// decoder_get_output: pull the next deliverable picture, if any, and
// wrap it as the caller-facing Picture. num_frames_out is incremented
// here, at the point of delivery (davs2.cc:351), not when the caller
// later calls Unref — spec.md §8's flush-completeness law compares
// num_frames_out against num_frames_in as soon as flush reaches End,
// before the caller is guaranteed to have released anything.
func (m *Manager) getOutput() (Picture, bool) {
	flushing := m.isFlushing()
	f := m.reorder.getOneOutputPicture(flushing)
	if f == nil {
		return Picture{}, false
	}
	m.incFramesOut()
	return Picture{
		POC:      f.POC,
		COI:      f.COI,
		Type:     f.Type,
		QP:       f.QP,
		Width:    f.Width,
		Height:   f.Height,
		BitDepth: f.BitDepth,
		Planes:   f.Planes,
		Stride:   f.Stride,
		Magic:    &outputRecord{frame: f},
	}, true
}
