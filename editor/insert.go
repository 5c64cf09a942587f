package editor

// insert.go implements INSERT, OVERWRITE and REPLACE_ONE mode (§4.5.1):
// accumulating typed bytes into one vbuf edit and advancing the cursor
// as they land.

// pendingEdit buffers bytes typed during one INSERT/OVERWRITE run before
// they are committed as a single vbuf.Graph operation on <Esc>, so a
// whole insertion is one undo step, not one per keystroke.
type pendingEdit struct {
	startAddr    int64
	buf          []byte
	boundaryUnit int64 // last computed cursor-snap unit; see cursorSnapUnit
}

// beginInsert enters INSERT mode at the cursor (`i`) or one past it
// (`a`), per spec.md's cursor-adjustment note for `a`.
func (m *Machine) beginInsert(after bool) Result {
	if m.file.ReadOnly() || m.prefs.ReadOnly {
		return invalid("file is read-only")
	}
	if after && m.file.Graph().Size() > 0 {
		m.cursor++
	}
	m.mode = ModeInsert
	m.pending = &pendingEdit{startAddr: m.cursor}
	return success("-- INSERT --")
}

// beginOverwrite enters OVERWRITE mode (`R`).
func (m *Machine) beginOverwrite() Result {
	if m.file.ReadOnly() || m.prefs.ReadOnly {
		return invalid("file is read-only")
	}
	m.mode = ModeOverwrite
	m.pending = &pendingEdit{startAddr: m.cursor}
	return success("-- REPLACE --")
}

// typeByte appends one byte to the pending edit and advances the
// cursor by exactly one byte in both INSERT and OVERWRITE mode. It also
// records cursorSnapUnit in the pending edit (prefs.Grouping for INSERT,
// prefs.PageSize for OVERWRITE; Open Question 3 in SPEC_FULL.md), but
// nothing reads that value: the cursor is not aligned to either unit.
func (m *Machine) typeByte(b byte) Result {
	if m.pending == nil {
		return invalid("not in an insert-class mode")
	}
	m.pending.buf = append(m.pending.buf, b)
	m.cursor++
	m.pending.boundaryUnit = m.cursorSnapUnit()
	return success("")
}

// cursorSnapUnit is the boundary size for the current insert-class mode:
// prefs.Grouping in INSERT mode, prefs.PageSize in OVERWRITE mode, 0
// otherwise. Only typeByte calls it, to fill pendingEdit.boundaryUnit.
func (m *Machine) cursorSnapUnit() int64 {
	switch m.mode {
	case ModeInsert:
		return int64(m.prefs.Grouping)
	case ModeOverwrite:
		return m.prefs.PageSize
	default:
		return 0
	}
}

// commitInsert ends INSERT mode (`<Esc>`), splicing the typed bytes in
// as one vbuf.Graph.InsertBefore call.
func (m *Machine) commitInsert() Result {
	p := m.pending
	m.pending = nil
	m.mode = ModeNormal
	if p == nil || len(p.buf) == 0 {
		return noAction("")
	}
	if _, err := m.file.Graph().InsertBefore(p.startAddr, p.buf); err != nil {
		return invalid(err.Error())
	}
	m.cursor = p.startAddr + int64(len(p.buf)) - 1
	m.clampCursor()
	return success("")
}

// commitOverwrite ends OVERWRITE mode, splicing the typed bytes in as
// one vbuf.Graph.Replace call (or InsertBefore for any tail that ran
// past the original EOF, since overwrite past the end of file appends).
func (m *Machine) commitOverwrite() Result {
	p := m.pending
	m.pending = nil
	m.mode = ModeNormal
	if p == nil || len(p.buf) == 0 {
		return noAction("")
	}
	size := m.file.Graph().Size()
	inPlace := p.buf
	appended := []byte(nil)
	if p.startAddr+int64(len(p.buf)) > size {
		split := size - p.startAddr
		if split < 0 {
			split = 0
		}
		inPlace = p.buf[:split]
		appended = p.buf[split:]
	}
	if len(inPlace) > 0 {
		if _, err := m.file.Graph().Replace(p.startAddr, inPlace); err != nil {
			return invalid(err.Error())
		}
	}
	if len(appended) > 0 {
		if _, err := m.file.Graph().InsertBefore(m.file.Graph().Size(), appended); err != nil {
			return invalid(err.Error())
		}
	}
	m.cursor = p.startAddr + int64(len(p.buf)) - 1
	m.clampCursor()
	return success("")
}

// replaceOne implements `r<byte>`: replace exactly the byte under the
// cursor and leave the cursor in place (not advanced, unlike OVERWRITE).
func (m *Machine) replaceOne(b byte) Result {
	if m.file.ReadOnly() || m.prefs.ReadOnly {
		return invalid("file is read-only")
	}
	if m.file.Graph().Size() == 0 {
		return noAction("nothing to replace")
	}
	if _, err := m.file.Graph().Replace(m.cursor, []byte{b}); err != nil {
		return invalid(err.Error())
	}
	return success("")
}

// replaceRange implements `r<byte>` applied over a visual selection
// (§8 scenario 3): every byte in [start,start+length) becomes b, and
// the cursor lands at start. Exiting visual mode is the caller's
// responsibility, matching deleteUnderCursor/yank's own division of
// labor between the operator and the visual-range bookkeeping.
func (m *Machine) replaceRange(start, length int64, b byte) Result {
	if m.file.ReadOnly() || m.prefs.ReadOnly {
		return invalid("file is read-only")
	}
	if length <= 0 {
		return noAction("")
	}
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = b
	}
	if _, err := m.file.Graph().Replace(start, buf); err != nil {
		return invalid(err.Error())
	}
	m.cursor = start
	m.clampCursor()
	return success("")
}

// cancelInsert implements an `<Esc>` that should discard rather than
// commit (not reachable from normal `i`/`a`/`R` flows, but available for
// macro playback that gets interrupted); current behavior is the same
// as commitInsert/commitOverwrite since every typed byte so far is
// still meaningful to the user.
func (m *Machine) cancelInsert() Result {
	switch m.mode {
	case ModeInsert:
		return m.commitInsert()
	case ModeOverwrite:
		return m.commitOverwrite()
	default:
		m.pending = nil
		m.mode = ModeNormal
		return noAction("")
	}
}
