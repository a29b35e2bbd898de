// ingest.go - elementary-stream ingest and emulation-prevention removal
//
// Licensed under the GNU General Public License v3.0 or later.

package avs2dec

// removeEmulationPrevention compacts buf[:n] in place, dropping every
// 0x03 byte that follows a 00 00 start-code-emulation prefix (spec.md
// §4.4 step 4 / §6.5): the 3-byte pattern 00 00 03 becomes 00 00. It
// returns the new length. Passing the result through again is a no-op
// whenever it holds no "00 00 03" sequence (spec.md §8's
// framing-idempotence law); a data 03 directly after a removed guard,
// as in "00 00 03 03", leaves "00 00 03", which a second pass compacts
// again.
func removeEmulationPrevention(buf []byte, n int) int {
	if n < 3 {
		return n
	}
	w := 0
	zeros := 0
	for r := 0; r < n; r++ {
		b := buf[r]
		if zeros >= 2 && b == 0x03 {
			// Drop the guard byte and restart the zero run, so a 03
			// right after it ("00 00 03 03") is kept as data.
			zeros = 0
			continue
		}
		buf[w] = b
		w++
		if b == 0x00 {
			zeros++
		} else {
			zeros = 0
		}
	}
	return w
}

// push implements spec.md §4.4's ingest algorithm: grow the working
// unit if needed, append bytes, update timestamps, run emulation
// prevention, then hand the unit to the ready list and fetch a fresh
// working unit from idle. It blocks (briefly, only while queues are
// non-empty in the steady state) on the idle list when no working unit
// is held or a fresh one is needed.
func (m *Manager) push(data []byte, pts, dts int64) bool {
	if m.workingUnit == nil {
		m.workingUnit = m.pool.idle.removeHead(true)
		if m.workingUnit == nil {
			return false // shutdown in progress
		}
	}

	u := m.workingUnit
	if len(data) > 0 {
		if u.len+len(data) > len(u.data) {
			m.workingUnit = growESUnit(u, len(data))
			u = m.workingUnit
		}
		copy(u.data[u.len:], data)
		u.len += len(data)
		u.pts, u.dts = pts, dts
	}

	u.len = removeEmulationPrevention(u.data, u.len)

	m.pool.ready.append(u)

	m.workingUnit = m.pool.idle.removeHead(true)
	return m.workingUnit != nil
}
