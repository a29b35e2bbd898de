// manager.go - the Manager control plane and its public API
//
// Licensed under the GNU General Public License v3.0 or later.

package avs2dec

import (
	"sync"
	"sync/atomic"
	"time"
)

// Manager is the decoder control plane (spec.md §3's C8): it owns the
// ES-unit pool, task slots, thread pool and reorder list, and exposes
// Open/Decode/Flush/Unref/Close as the only entry points a caller
// needs. Dispatch (parsing) runs inline on whichever goroutine calls
// Decode — only reconstruction fans out onto the thread pool. Flush
// dispatches nothing: Decode dispatches the unit it pushes, so the ready
// list is empty between calls.
// Locking follows spec.md §5: mu guards slot and bookkeeping state;
// aecMu serializes the parse stage; the only legal acquisition
// order is aecMu then mu, never the reverse.
type Manager struct {
	params Params

	mu        sync.Mutex
	slotFreed *sync.Cond
	slots     []*taskSlot
	exit      bool

	aecMu sync.Mutex

	pool        *esUnitPool
	workingUnit *esUnit

	threads *threadPool

	reorder *reorderList

	refMu    sync.Mutex
	liveRefs []*Frame

	seqMu  sync.Mutex
	seqHdr *SequenceHeader

	flushing  int32
	closed    int32
	framesIn  uint64
	framesOut uint64
}

// Open allocates every fixed-size resource up front (spec.md §4.7's
// Open algorithm). The three collaborator options (Parser,
// ReferenceBinder, Reconstructor) are required; Open returns
// ErrBadParams if any is missing.
func Open(opts ...Option) (*Manager, error) {
	p := defaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	if p.Parser == nil || p.Binder == nil || p.Reconstructor == nil {
		return nil, ErrBadParams
	}
	if p.MaxReorderBacklog <= 0 {
		p.MaxReorderBacklog = DefaultMaxReorderBacklog
	}
	p.resolveThreadCounts()

	m := &Manager{
		params:  p,
		pool:    newESUnitPool(p.taskSlots, MaxESFrameSize),
		reorder: newReorderList(p.MaxReorderBacklog, p.Logger),
	}
	m.slotFreed = sync.NewCond(&m.mu)
	m.slots = make([]*taskSlot, p.taskSlots)
	for i := range m.slots {
		m.slots[i] = &taskSlot{id: i, status: slotFree}
	}
	m.threads = newThreadPool(p.recWorkers + p.aecWorkers)

	m.logger().Infof("opened: threads=%d aec=%d rec=%d slots=%d",
		p.Threads, p.aecWorkers, p.recWorkers, p.taskSlots)

	return m, nil
}

// Decode pushes one packet's bytes through the framing stage (spec.md
// §4.4), dispatches the unit that framing just produced inline on this
// call (spec.md §5: the caller's thread executes ingest, dispatch and
// delivery; there is no dedicated output thread), and reports the
// ReturnType appropriate for what is now available: a freshly captured
// sequence header, a ready output picture, both, or neither. Only
// reconstruction itself — submitted to the thread pool inside
// dispatchOne — runs concurrently with this call.
func (m *Manager) Decode(pkt Packet) (ReturnType, *SequenceHeader, *Picture, error) {
	if atomic.LoadInt32(&m.closed) != 0 {
		return Default, nil, nil, ErrClosed
	}

	if !m.push(pkt.Data, pkt.PTS, pkt.DTS) {
		return Default, nil, nil, ErrClosed
	}

	if u := m.pool.ready.removeHead(false); u != nil {
		m.dispatchOne(u)
	}

	hdr := m.takeSequenceHeader()
	pic, gotPic := m.getOutput()

	switch {
	case hdr != nil && gotPic:
		return GotBoth, hdr, &pic, nil
	case hdr != nil:
		return GotHeader, hdr, nil, nil
	case gotPic:
		return GotFrame, nil, &pic, nil
	default:
		return Default, nil, nil, nil
	}
}

// Flush drains every in-flight and queued picture without accepting
// new input (spec.md §4.7's Flush/drain semantics, davs2_decoder_flush's
// collapsing behavior: any return short of End is normalized back to
// itself on the next call, and once End is reached every further Flush
// call also returns End). A sequence header captured but not yet
// delivered at the moment flushing begins is still surfaced exactly
// once, matching davs2.cc's decoder_get_output emitting GOT_HEADER
// during flush (spec.md §4.6: "If new_sps: emit the captured header").
func (m *Manager) Flush() (ReturnType, *SequenceHeader, *Picture, error) {
	if atomic.LoadInt32(&m.closed) != 0 {
		return End, nil, nil, ErrClosed
	}
	atomic.StoreInt32(&m.flushing, 1)

	hdr := m.takeSequenceHeader()
	pic, gotPic := m.getOutput()

	switch {
	case hdr != nil && gotPic:
		return GotBoth, hdr, &pic, nil
	case hdr != nil:
		return GotHeader, hdr, nil, nil
	case gotPic:
		return GotFrame, nil, &pic, nil
	}

	if m.reorder.size() > 0 || m.busySlotCount() > 0 {
		return Default, nil, nil, nil
	}
	return End, nil, nil, nil
}

// Unref releases the caller's hold on a delivered Picture. Once the
// underlying Frame's refcount reaches zero it is eligible for recycling
// by the reconstruction collaborator; this package does not reuse the
// plane buffers itself since it never allocated them.
func (m *Manager) Unref(pic Picture) {
	if pic.Magic == nil {
		return
	}
	f := pic.Magic.frame
	if f.Unref() {
		m.removeLiveReference(f)
	}
}

// Close implements spec.md §4.7's teardown order: stop accepting input,
// join the thread pool, drain the output list, then release the
// ES-unit pool. There is no dispatcher goroutine to join — dispatch
// runs inline on Decode's caller — so teardown starts directly with the
// thread pool. Close is idempotent.
func (m *Manager) Close() error {
	if !atomic.CompareAndSwapInt32(&m.closed, 0, 1) {
		return nil
	}

	m.mu.Lock()
	m.exit = true
	m.slotFreed.Broadcast()
	m.mu.Unlock()

	m.threads.closePool()

	for _, f := range m.reorder.drainAll() {
		f.Unref()
	}

	m.pool.destroy()

	if lp, ok := m.params.OutputReady.(*LuaPolicy); ok {
		lp.Close()
	}

	m.logger().Infof("closed: framesIn=%d framesOut=%d", m.framesIn, m.framesOut)
	return nil
}

// Stats reports a point-in-time snapshot for the diagnostics channel
// and for tests.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	busy := m.busySlotCount()
	total := len(m.slots)
	m.mu.Unlock()

	return Stats{
		FramesIn:       atomic.LoadUint64(&m.framesIn),
		FramesOut:      atomic.LoadUint64(&m.framesOut),
		ReorderBacklog: m.reorder.size(),
		SlotsBusy:      busy,
		SlotsTotal:     total,
		Flushing:       m.isFlushing(),
		Timestamp:      time.Now(),
	}
}

func (m *Manager) logger() Logger {
	if m.params.Logger == nil {
		return &nopLogger{}
	}
	return m.params.Logger
}

func (m *Manager) isFlushing() bool {
	return atomic.LoadInt32(&m.flushing) != 0
}

func (m *Manager) recordSequenceHeader(h SequenceHeader) {
	m.seqMu.Lock()
	defer m.seqMu.Unlock()
	cp := h
	m.seqHdr = &cp
}

func (m *Manager) takeSequenceHeader() *SequenceHeader {
	m.seqMu.Lock()
	defer m.seqMu.Unlock()
	h := m.seqHdr
	m.seqHdr = nil
	return h
}

func (m *Manager) liveReferenceFrames() []*Frame {
	m.refMu.Lock()
	defer m.refMu.Unlock()
	out := make([]*Frame, len(m.liveRefs))
	copy(out, m.liveRefs)
	return out
}

func (m *Manager) addLiveReference(f *Frame) {
	m.refMu.Lock()
	m.liveRefs = append(m.liveRefs, f)
	m.refMu.Unlock()
}

func (m *Manager) removeLiveReference(f *Frame) {
	m.refMu.Lock()
	defer m.refMu.Unlock()
	for i, r := range m.liveRefs {
		if r == f {
			m.liveRefs = append(m.liveRefs[:i], m.liveRefs[i+1:]...)
			return
		}
	}
}

func (m *Manager) incFramesIn()  { atomic.AddUint64(&m.framesIn, 1) }
func (m *Manager) incFramesOut() { atomic.AddUint64(&m.framesOut, 1) }

// notifyReady consults the configured OutputReadyPolicy purely to give
// it a chance to observe the current backlog (e.g. to drive an
// external readiness signal such as the control channel); the
// decision never gates getOutput itself, matching davs2.cc's own
// always-recompute behavior (spec.md §9).
func (m *Manager) notifyReady() {
	policy := m.params.OutputReady
	if policy == nil {
		return
	}
	policy.Ready(m.reorder.size(), m.isFlushing())
}
