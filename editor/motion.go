package editor

import (
	"fmt"
	"strconv"
	"strings"
)

// motion engine: word/page/line-level cursor movement over the byte
// stream, read through a small sliding window rather than the whole
// file (§4.5.2). wordWindow bounds how far a single w/b/e scan looks
// before giving up: w/e then land on EOF, b on the first byte of its
// window.
const wordWindow = 256

func (m *Machine) readWindow(from int64, n int64) []byte {
	if from < 0 {
		from = 0
	}
	buf := make([]byte, n)
	got, _ := m.file.Graph().GetBuf(buf, from)
	return buf[:got]
}

// moveLeft/Right/Up/Down implement h/l/j/k: byte-at-a-time and
// window-row-at-a-time motion. row is the display's bytes-per-line,
// supplied by the caller (the display sink owns layout, per §1).
func (m *Machine) moveLeft(count int) Result  { return m.shiftCursor(-int64(count)) }
func (m *Machine) moveRight(count int) Result { return m.shiftCursor(int64(count)) }

func (m *Machine) moveUp(count int, row int64) Result  { return m.shiftCursor(-int64(count) * row) }
func (m *Machine) moveDown(count int, row int64) Result { return m.shiftCursor(int64(count) * row) }

func (m *Machine) shiftCursor(delta int64) Result {
	size := m.file.Graph().Size()
	target := m.cursor + delta
	max := size - 1
	if m.mode == ModeInsert {
		max = size
	}
	if target < 0 {
		target = 0
	}
	if target > max {
		target = max
	}
	if target == m.cursor {
		return noAction("")
	}
	m.marks.recordJumpOrigin(m.cursor)
	m.cursor = target
	return success("")
}

// lineStart/lineEnd implement `0`/`$` relative to the current display
// row, matching a hex editor's usual per-row addressing.
func (m *Machine) lineStart(row int64) Result {
	if row <= 0 {
		return noAction("")
	}
	m.marks.recordJumpOrigin(m.cursor)
	m.cursor -= m.cursor % row
	return success("")
}

func (m *Machine) lineEnd(row int64) Result {
	if row <= 0 {
		return noAction("")
	}
	m.marks.recordJumpOrigin(m.cursor)
	end := m.cursor - (m.cursor % row) + row - 1
	size := m.file.Graph().Size()
	if end > size-1 {
		end = size - 1
	}
	if end < 0 {
		end = 0
	}
	m.cursor = end
	return success("")
}

// gotoStart and gotoEnd implement `gg` and `G` (Open Question 4: plain
// vi semantics, see SPEC_FULL.md).
func (m *Machine) gotoStart() Result {
	m.marks.recordJumpOrigin(m.cursor)
	m.cursor = 0
	return success("")
}

func (m *Machine) gotoEnd() Result {
	m.marks.recordJumpOrigin(m.cursor)
	size := m.file.Graph().Size()
	m.cursor = size - 1
	if m.cursor < 0 {
		m.cursor = 0
	}
	return success("")
}

// gotoAddr implements `:<n>` and the `do_jump` base sniffing rule from
// key_handler.c (§3.8): a leading "0x"/"0X" selects hex, a leading "0"
// followed by more digits selects octal, anything else is decimal.
func gotoAddrParse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty address")
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	base := 10
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		base = 16
		s = s[2:]
	case len(s) > 1 && s[0] == '0':
		base = 8
		s = s[1:]
	}
	v, err := strconv.ParseInt(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed address: %w", err)
	}
	if neg {
		v = -v
	}
	return v, nil
}

func (m *Machine) gotoAddr(addr int64) Result {
	size := m.file.Graph().Size()
	if addr < 0 || addr > size-1 {
		if addr == size && m.mode == ModeInsert {
			// one-past-end is valid while inserting
		} else {
			return invalid(fmt.Sprintf("address 0x%x out of range", addr))
		}
	}
	m.marks.recordJumpOrigin(m.cursor)
	m.cursor = addr
	return success("")
}

// pageDown/pageUp implement ctrl-f/ctrl-b (full page) and ctrl-d/ctrl-u
// (half page), scrolling pageStart and following with the cursor.
func (m *Machine) pageDown(half bool) Result {
	step := m.window
	if half {
		step /= 2
	}
	if step <= 0 {
		return noAction("")
	}
	return m.shiftCursor(step)
}

func (m *Machine) pageUp(half bool) Result {
	step := m.window
	if half {
		step /= 2
	}
	if step <= 0 {
		return noAction("")
	}
	return m.shiftCursor(-step)
}

// wordForward implements `w`/`W`: advance past the current run (unless
// already on whitespace) then past any whitespace, landing on the first
// byte of the next run. bigWord treats punctuation as part of the word
// (W semantics) instead of its own class.
func (m *Machine) wordForward(count int, bigWord bool) Result {
	moved := false
	for i := 0; i < count; i++ {
		if !m.wordForwardOnce(bigWord) {
			break
		}
		moved = true
	}
	if !moved {
		return noAction("")
	}
	return success("")
}

func (m *Machine) wordForwardOnce(bigWord bool) bool {
	size := m.file.Graph().Size()
	if m.cursor >= size-1 {
		return false
	}
	win := m.readWindow(m.cursor, wordWindow)
	if len(win) == 0 {
		return false
	}
	i := int64(0)
	cur := classOf(win[0], bigWord)
	for i < int64(len(win)) && classOf(win[i], bigWord) == cur && cur != classWhitespace {
		i++
	}
	for i < int64(len(win)) && classOf(win[i], bigWord) == classWhitespace {
		i++
	}
	if i >= int64(len(win)) {
		// ran off the sliding window; land at EOF rather than guess further
		m.marks.recordJumpOrigin(m.cursor)
		m.cursor = size - 1
		return true
	}
	m.marks.recordJumpOrigin(m.cursor)
	m.cursor += i
	return true
}

// wordBackward implements `b`/`B`.
func (m *Machine) wordBackward(count int, bigWord bool) Result {
	moved := false
	for i := 0; i < count; i++ {
		if !m.wordBackwardOnce(bigWord) {
			break
		}
		moved = true
	}
	if !moved {
		return noAction("")
	}
	return success("")
}

func (m *Machine) wordBackwardOnce(bigWord bool) bool {
	if m.cursor <= 0 {
		return false
	}
	start := m.cursor - wordWindow
	if start < 0 {
		start = 0
	}
	win := m.readWindow(start, m.cursor-start)
	if len(win) == 0 {
		return false
	}
	i := int64(len(win)) - 1
	for i >= 0 && classOf(win[i], bigWord) == classWhitespace {
		i--
	}
	if i < 0 {
		m.marks.recordJumpOrigin(m.cursor)
		m.cursor = start
		return true
	}
	cur := classOf(win[i], bigWord)
	for i >= 0 && classOf(win[i], bigWord) == cur {
		i--
	}
	m.marks.recordJumpOrigin(m.cursor)
	m.cursor = start + i + 1
	return true
}

// wordEnd implements `e`/`E`: advance to the last byte of the current or
// next run.
func (m *Machine) wordEnd(count int, bigWord bool) Result {
	moved := false
	for i := 0; i < count; i++ {
		if !m.wordEndOnce(bigWord) {
			break
		}
		moved = true
	}
	if !moved {
		return noAction("")
	}
	return success("")
}

func (m *Machine) wordEndOnce(bigWord bool) bool {
	size := m.file.Graph().Size()
	if m.cursor >= size-1 {
		return false
	}
	win := m.readWindow(m.cursor, wordWindow)
	if len(win) < 2 {
		return false
	}
	i := int64(1)
	for i < int64(len(win)) && classOf(win[i], bigWord) == classWhitespace {
		i++
	}
	if i >= int64(len(win)) {
		m.marks.recordJumpOrigin(m.cursor)
		m.cursor = size - 1
		return true
	}
	cur := classOf(win[i], bigWord)
	for i+1 < int64(len(win)) && classOf(win[i+1], bigWord) == cur {
		i++
	}
	m.marks.recordJumpOrigin(m.cursor)
	m.cursor += i
	return true
}

func classOf(b byte, bigWord bool) byteClass {
	c := classify(b)
	if bigWord && c == classPunct {
		return classAlnum
	}
	return c
}
