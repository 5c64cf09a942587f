package editor

import (
	"fmt"

	"github.com/golang/glog"
)

// row is the bytes-per-display-line the motion engine uses for
// `0`/`$`/j/k/ctrl-d/ctrl-u, chosen once at construction time to match
// whatever layout the display sink actually renders. A real terminal
// adapter would recompute it on resize; this package just exposes the
// setter since it owns no terminal geometry itself (§1's display-sink
// contract).
func (m *Machine) SetRow(bytesPerRow int64) {
	if bytesPerRow > 0 {
		m.rowBytes = bytesPerRow
	}
}

// Dispatch feeds one key event into the state machine and returns the
// outcome. It is the single entry point a REPL or the cmd/bvi adapter
// calls in a loop, mirroring the shape of nes/debug_console.go's
// Step()/command-dispatch pattern, generalized from a line-buffered
// command loop to a per-key modal one.
func (m *Machine) Dispatch(k KeyEvent) Result {
	wasRecording := m.macros.recording

	var r Result
	switch m.mode {
	case ModeInsert, ModeOverwrite:
		r = m.dispatchInsertLike(k)
	case ModeCommand:
		r = m.dispatchPrompt(k, historyCommand)
	case ModeSearch:
		r = m.dispatchPrompt(k, historySearchForward)
	case ModeMarkPending:
		r = m.dispatchMarkPending(k)
	case ModeReplaceOne:
		r = m.dispatchReplaceOne(k)
	default:
		r = m.dispatchNormal(k)
	}

	// Only append to an in-progress macro capture; a key that itself
	// stops recording (the closing `q`) is not stored, matching
	// creadline/key_handler's "recording excludes the terminator" rule.
	if wasRecording && m.macros.recording {
		m.recordKey(k)
	}

	if r.Outcome == Success {
		m.redraw()
	}
	if r.Message != "" {
		m.setStatus(r.Message)
	}
	glog.V(2).Infof("dispatch[%s] key=%s mode=%s -> %s", m.sessionID, k, m.mode, r.Outcome)
	return r
}

func (m *Machine) dispatchInsertLike(k KeyEvent) Result {
	if k.Key == KeyEscape {
		if m.mode == ModeInsert {
			return m.commitInsert()
		}
		return m.commitOverwrite()
	}
	if k.Key == KeyBackspace {
		if m.pending != nil && len(m.pending.buf) > 0 {
			m.pending.buf = m.pending.buf[:len(m.pending.buf)-1]
			m.cursor--
			return success("")
		}
		return noAction("")
	}
	if k.Rune == 0 {
		return noAction("")
	}
	return m.typeByte(byte(k.Rune))
}

func (m *Machine) dispatchReplaceOne(k KeyEvent) Result {
	m.mode = ModeNormal
	span := m.pendingReplace
	m.pendingReplace = nil
	if k.Key == KeyEscape {
		if span != nil {
			m.visual.active = false
		}
		return noAction("")
	}
	if k.Rune == 0 {
		return invalid("expected a byte to replace with")
	}
	if span != nil {
		m.visual.active = false
		return m.replaceRange(span.start, span.length, byte(k.Rune))
	}
	return m.replaceOne(byte(k.Rune))
}

func (m *Machine) dispatchMarkPending(k KeyEvent) Result {
	m.mode = ModeNormal
	if k.Rune == 0 {
		return invalid("expected a mark name")
	}
	switch m.pendingOp {
	case 'm':
		m.marks.set(byte(k.Rune), m.cursor)
		return success("")
	case '\'', '`':
		addr, ok := m.marks.get(byte(k.Rune))
		if !ok {
			return invalid(fmt.Sprintf("mark %q not set", k.Rune))
		}
		return m.gotoAddr(addr)
	case 'q':
		return m.startRecording(byte(k.Rune))
	case '@':
		count := m.pendingOpCount
		if count == 0 {
			count = 1
		}
		return m.playMacro(byte(k.Rune), count)
	case '"':
		// register-select prefix: the next key names the register, the
		// key after that names the operator it applies to (`"ax`,
		// `"ay`). A bare register name with no following operator,
		// as well as the original's reported fallthrough into `u`
		// (Open Question 2), is deliberately not replicated: an
		// unrecognized trailing key is just invalid, not undo.
		m.pendingRegister = byte(k.Rune)
		return noAction("")
	default:
		return invalid("")
	}
}

// dispatchPrompt feeds keys to the free-text prompt used by `:`, `/`,
// `\`. In this package (the engine, not a terminal UI) a full prompt
// reads its line in one shot via PromptReader rather than key-by-key,
// matching spec.md's decision to keep the prompt reader a named
// external contract; dispatchNormal below hands `:`, `/` and `\` to
// openPrompt, which calls m.prompt.ReadLine directly instead of routing
// single keys through here. This stub
// exists so ModeCommand/ModeSearch are not dead states if an adapter
// chooses to feed keys one at a time instead.
func (m *Machine) dispatchPrompt(k KeyEvent, class historyClass) Result {
	m.mode = ModeNormal
	return noAction("")
}

func (m *Machine) dispatchNormal(k KeyEvent) Result {
	// Digit accumulation for a count prefix (`5x`, `12l`).
	if k.Rune >= '1' && k.Rune <= '9' || (k.Rune == '0' && m.pendingCount > 0) {
		m.pendingCount = m.pendingCount*10 + int(k.Rune-'0')
		return noAction("")
	}
	count := m.pendingCount
	if count == 0 {
		count = 1
	}
	m.pendingCount = 0

	switch k.Rune {
	case 0:
		return m.dispatchNamedKey(k, count)

	case 'h':
		return m.moveLeft(count)
	case 'l', ' ':
		return m.moveRight(count)
	case 'j':
		return m.moveDown(count, m.rowBytes)
	case 'k':
		return m.moveUp(count, m.rowBytes)
	case '0':
		return m.lineStart(m.rowBytes)
	case '$':
		return m.lineEnd(m.rowBytes)

	case 'w':
		return m.wordForward(count, false)
	case 'W':
		return m.wordForward(count, true)
	case 'b':
		return m.wordBackward(count, false)
	case 'B':
		return m.wordBackward(count, true)
	case 'e':
		return m.wordEnd(count, false)
	case 'E':
		return m.wordEnd(count, true)

	case 'g':
		return m.dispatchG()
	case 'G':
		return m.gotoEnd()

	case 'i':
		return m.beginInsert(false)
	case 'a':
		return m.beginInsert(true)
	case 'R':
		return m.beginOverwrite()
	case 'r':
		if m.visual.active {
			start, length := m.visualRange()
			m.pendingReplace = &visualSpan{start: start, length: length}
		} else {
			m.pendingReplace = nil
		}
		m.mode = ModeReplaceOne
		return noAction("")

	case 'x':
		return m.deleteUnderCursor(count)
	case 'y':
		return m.yank(count)
	case 'p':
		return m.paste(true)
	case 'P':
		return m.paste(false)

	case 'u':
		n, _ := m.file.Graph().Undo(count)
		if n == 0 {
			return noAction("nothing to undo")
		}
		m.clampCursor()
		return success(fmt.Sprintf("undid %d step(s)", n))

	case 'm':
		m.pendingOp = 'm'
		m.mode = ModeMarkPending
		return noAction("")
	case '\'', '`':
		m.pendingOp = byte(k.Rune)
		m.mode = ModeMarkPending
		return noAction("")

	case 'q':
		if m.macros.recording {
			return m.stopRecording()
		}
		m.mode = ModeMarkPending
		m.pendingOp = 'q'
		return noAction("")
	case '@':
		m.mode = ModeMarkPending
		m.pendingOp = '@'
		m.pendingOpCount = count
		return noAction("")

	case 'v':
		return m.toggleVisual()

	case 'n':
		return m.repeatSearch(false)
	case 'N':
		return m.repeatSearch(true)

	case ':':
		return m.openPrompt(':')
	case '/':
		return m.openPrompt('/')
	case '\\':
		return m.openPrompt('\\')

	case '"':
		m.mode = ModeMarkPending
		m.pendingOp = '"'
		return noAction("")

	default:
		return invalid(fmt.Sprintf("unknown key %q", k.Rune))
	}
}

// dispatchNamedKey handles non-printable keys in NORMAL mode.
func (m *Machine) dispatchNamedKey(k KeyEvent, count int) Result {
	switch k.Key {
	case KeyCtrlD:
		return m.pageDown(true)
	case KeyCtrlU:
		return m.pageUp(true)
	case KeyCtrlF:
		return m.pageDown(false)
	case KeyCtrlB:
		return m.pageUp(false)
	case KeyCtrlR:
		n, _ := m.file.Graph().Redo(count)
		if n == 0 {
			return noAction("nothing to redo")
		}
		m.clampCursor()
		return success(fmt.Sprintf("redid %d step(s)", n))
	case KeyLeft:
		return m.moveLeft(count)
	case KeyRight:
		return m.moveRight(count)
	case KeyUp:
		return m.moveUp(count, m.rowBytes)
	case KeyDown:
		return m.moveDown(count, m.rowBytes)
	case KeyEscape:
		if m.visual.active {
			m.visual.active = false
			m.mode = ModeNormal
			return success("")
		}
		return noAction("")
	default:
		return invalid("unrecognized key")
	}
}

// dispatchG resolves the `g`/`gg`/`G` ambiguity per Open Question 4:
// a second `g` jumps to 0; any other following key is an unrecognized
// motion (bell), never silently reinterpreted as something else.
func (m *Machine) dispatchG() Result {
	if m.input == nil {
		return m.gotoStart()
	}
	next, err := m.input.NextKey()
	if err != nil {
		return invalid(err.Error())
	}
	if next.Rune == 'g' {
		return m.gotoStart()
	}
	return invalid("unknown motion 'g'")
}

func (m *Machine) toggleVisual() Result {
	if m.visual.active {
		m.visual.active = false
		m.mode = ModeNormal
		return success("")
	}
	m.visual.active = true
	m.visual.anchor = m.cursor
	m.mode = ModeVisual
	return success("-- VISUAL --")
}

func (m *Machine) visualRange() (start, length int64) {
	a, b := m.visual.anchor, m.cursor
	if a > b {
		a, b = b, a
	}
	return a, b - a + 1
}

// deleteUnderCursor implements `x`: delete count bytes starting at the
// cursor (or the visual selection, if active), storing the deleted
// bytes in the unnamed register.
func (m *Machine) deleteUnderCursor(count int) Result {
	if m.file.ReadOnly() || m.prefs.ReadOnly {
		return invalid("file is read-only")
	}
	start, length := m.cursor, int64(count)
	if m.visual.active {
		start, length = m.visualRange()
		m.visual.active = false
		m.mode = ModeNormal
	}
	size := m.file.Graph().Size()
	if start >= size {
		return noAction("")
	}
	if start+length > size {
		length = size - start
	}
	deleted := make([]byte, length)
	m.file.Graph().GetBuf(deleted, start)
	target := unnamedRegister
	if m.pendingRegister != 0 {
		target = m.pendingRegister
		m.pendingRegister = 0
	}
	m.registers.store(target, deleted)
	if _, err := m.file.Graph().Delete(start, length); err != nil {
		return invalid(err.Error())
	}
	m.cursor = start
	m.clampCursor()
	return success("")
}

// yank implements `y`: copy count bytes (or the visual selection) into
// a register without modifying the file.
func (m *Machine) yank(count int) Result {
	start, length := m.cursor, int64(count)
	if m.visual.active {
		start, length = m.visualRange()
		m.visual.active = false
		m.mode = ModeNormal
	}
	size := m.file.Graph().Size()
	if start >= size {
		return noAction("")
	}
	if start+length > size {
		length = size - start
	}
	buf := make([]byte, length)
	m.file.Graph().GetBuf(buf, start)
	target := unnamedRegister
	if m.pendingRegister != 0 {
		target = m.pendingRegister
		m.pendingRegister = 0
	}
	m.registers.store(target, buf)
	return success(fmt.Sprintf("yanked %d byte(s)", length))
}

// paste implements `p`/`P`: insert the named (or unnamed) register's
// contents after (p) or before (P) the cursor.
func (m *Machine) paste(after bool) Result {
	if m.file.ReadOnly() || m.prefs.ReadOnly {
		return invalid("file is read-only")
	}
	target := unnamedRegister
	if m.pendingRegister != 0 {
		target = m.pendingRegister
		m.pendingRegister = 0
	}
	data, ok := m.registers.load(target)
	if !ok || len(data) == 0 {
		return noAction("register is empty")
	}
	if after {
		_, err := m.file.Graph().InsertAfter(m.cursor, data)
		if err != nil {
			return invalid(err.Error())
		}
		m.cursor++
	} else {
		if _, err := m.file.Graph().InsertBefore(m.cursor, data); err != nil {
			return invalid(err.Error())
		}
	}
	return success("")
}

// openPrompt reads a full line via the PromptReader collaborator and
// dispatches it as a command or search, per spec.md's decision to keep
// prompt reading an external contract rather than a key-by-key state
// machine inside this package.
func (m *Machine) openPrompt(kind rune) Result {
	if m.prompt == nil {
		return invalid("no prompt reader configured")
	}
	prevMode := m.mode
	m.mode = ModeCommand
	line, err := m.prompt.ReadLine(string(kind))
	m.mode = prevMode
	if err != nil {
		return invalid(err.Error())
	}
	switch kind {
	case ':':
		return m.runCommand(line)
	case '/':
		pattern, err := parseSearchPattern(line, false)
		if err != nil {
			return invalid(err.Error())
		}
		m.history.Add(historySearchForward, line)
		return m.search(pattern, false, true)
	case '\\':
		pattern, err := parseSearchPattern(line, true)
		if err != nil {
			return invalid(err.Error())
		}
		m.history.Add(historySearchHex, line)
		return m.search(pattern, true, true)
	default:
		return invalid("unknown prompt kind")
	}
}
