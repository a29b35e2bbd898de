// dispatch.go - the per-unit parse/branch/submit dispatch pipeline
//
// Licensed under the GNU General Public License v3.0 or later.

package avs2dec

// dispatchOne implements the per-unit pipeline: claim a slot, parse
// under the AEC mutex, then branch three ways exactly as spec.md §4.5
// describes. The ES unit itself is returned to idle once the slot has
// copied out what it needs, matching davs2.cc's task_unload_packet.
// Called synchronously from Decode on the pushed unit, mirroring
// davs2.cc's decoder_decode_es_unit driving parse inline on the
// caller's thread: only reconstruction itself runs on the thread pool.
func (m *Manager) dispatchOne(u *esUnit) {
	slot := m.claimSlot()
	if slot == nil {
		// Manager is exiting; drop the unit back to idle unparsed.
		u.reset()
		m.pool.idle.append(u)
		return
	}

	ctx := &TaskContext{SlotID: slot.id, PTS: u.pts, DTS: u.dts}
	ctx.ESData = append([]byte(nil), u.data[:u.len]...)

	m.mu.Lock()
	slot.currentESUnit = u
	slot.ctx = ctx
	m.mu.Unlock()

	// Parsing runs under aecMu per spec.md §5's lock order (aec before
	// mgr, never the reverse): the parse stage must run serialized
	// across slots even though reconstruction fans out.
	m.aecMu.Lock()
	result, err := m.params.Parser.ParseHeader(ctx)
	m.aecMu.Unlock()

	u.reset()
	m.pool.idle.append(u)

	if err != nil {
		m.logger().Errorf("parse failed on slot %d: %v", slot.id, err)
		m.mu.Lock()
		m.releaseSlotLocked(slot)
		m.mu.Unlock()
		return
	}

	switch result.Kind {
	case ParseMalformed:
		m.logger().Warnf("malformed es unit on slot %d, dropping", slot.id)
		m.mu.Lock()
		m.releaseSlotLocked(slot)
		m.mu.Unlock()

	case ParseHeaderOnly:
		m.recordSequenceHeader(result.Header)
		m.mu.Lock()
		m.releaseSlotLocked(slot)
		m.mu.Unlock()
		m.notifyReady()

	case ParsePictureAccepted:
		m.submitReconstruction(slot, ctx)
	}
}

// submitReconstruction hands the picture off to the thread pool
// (spec.md §4.5's "submit reconstruction job", C3/C6). The job binds
// references and then reconstructs, so reference binding runs on the
// pool, outside aecMu.
// Slot release happens inside the job once reconstruction actually
// finishes, not before — the slot must stay busy for the full lifetime
// of the in-flight decode.
func (m *Manager) submitReconstruction(slot *taskSlot, ctx *TaskContext) {
	m.threads.submit(func() {
		defer func() {
			m.mu.Lock()
			m.releaseSlotLocked(slot)
			m.mu.Unlock()
		}()

		live := m.liveReferenceFrames()
		if err := m.params.Binder.BindReferences(ctx, live); err != nil {
			m.logger().Errorf("reference binding failed on slot %d: %v", slot.id, err)
			return
		}

		frame, err := m.params.Reconstructor.Reconstruct(ctx)
		if err != nil {
			m.logger().Errorf("reconstruction failed on slot %d: %v", slot.id, err)
			return
		}
		if frame == nil {
			return
		}

		frame.Ref()
		m.addLiveReference(frame)
		m.reorder.insert(frame)
		m.incFramesIn()
		m.notifyReady()
	})
}
