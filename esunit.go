// esunit.go - the pre-allocated ES-unit pool and its growth rule
//
// Licensed under the GNU General Public License v3.0 or later.

package avs2dec

// esUnit carries the bytes of exactly one coded access unit after
// emulation-prevention removal, plus its timestamps (spec.md §3). next
// is the intrusive link used by esUnitQueue; an esUnit belongs to
// exactly one list (idle, ready, or pinned to a task slot) at a time.
type esUnit struct {
	data []byte // len(data) is capacity; length tracked separately
	len  int
	pts  int64
	dts  int64
	next *esUnit
}

func newESUnit(capacity int) *esUnit {
	return &esUnit{data: make([]byte, capacity)}
}

// reset clears length so the unit can be reused once it returns to the
// idle list (spec.md §4.2: "Units returning from in-flight are reset").
func (u *esUnit) reset() {
	u.len = 0
	u.pts, u.dts = 0, 0
}

// esUnitPool owns the fixed set of pre-allocated esUnit buffers and the
// three lists they move between: idle, ready, and implicitly in-flight
// (pinned as a task slot's currentESUnit, tracked by the slot itself,
// not by this pool).
type esUnitPool struct {
	idle  *esUnitQueue
	ready *esUnitQueue
}

// newESUnitPool allocates n units of the given initial capacity and
// places them on the idle list (spec.md §4.2). Open passes its task-slot
// count as n; no separate MAX_ES_FRAMES term is added.
func newESUnitPool(n, capacity int) *esUnitPool {
	p := &esUnitPool{idle: newESUnitQueue(), ready: newESUnitQueue()}
	for i := 0; i < n; i++ {
		p.idle.append(newESUnit(capacity))
	}
	return p
}

// growESUnit replaces u with a unit large enough to hold the prefix plus an
// additional margin, per spec.md §4.2's growth rule: new capacity =
// current_length + incoming + 2*MaxESFrameSize.
func growESUnit(u *esUnit, incoming int) *esUnit {
	newCap := u.len + incoming + 2*MaxESFrameSize
	n := newESUnit(newCap)
	copy(n.data, u.data[:u.len])
	n.len = u.len
	n.pts, n.dts = u.pts, u.dts
	return n
}

// destroy drops every unit in both lists; Go's GC reclaims the backing
// arrays once the queues are cleared.
func (p *esUnitPool) destroy() {
	p.idle.signalShutdown()
	p.ready.signalShutdown()
	p.idle.destroy()
	p.ready.destroy()
}
