package editor

import (
	"github.com/google/uuid"

	"github.com/EBADBEEF/bvi/cfg"
	"github.com/EBADBEEF/bvi/vfile"
)

// Mode is one of the editor's modal states (§3.5, §4.5).
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeOverwrite
	ModeReplaceOne
	ModeVisual
	ModeCommand
	ModeSearch
	ModeMotionPending
	ModeMarkPending
	ModeMacroRecord
	ModeMacroPlay
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeInsert:
		return "INSERT"
	case ModeOverwrite:
		return "OVERWRITE"
	case ModeReplaceOne:
		return "REPLACE_ONE"
	case ModeVisual:
		return "VISUAL"
	case ModeCommand:
		return "COMMAND"
	case ModeSearch:
		return "SEARCH"
	case ModeMotionPending:
		return "MOTION_PENDING"
	case ModeMarkPending:
		return "MARK_PENDING"
	case ModeMacroRecord:
		return "MACRO_RECORD"
	case ModeMacroPlay:
		return "MACRO_PLAY"
	default:
		return "UNKNOWN"
	}
}

// Machine is the modal editor's entire mutable state for one file, the
// Go shape of what spec.md's design note §9 calls out as "global mutable
// state that should become struct fields, not package globals".
type Machine struct {
	mode Mode

	ring  *vfile.Ring
	file  *vfile.File
	prefs *cfg.Prefs

	cursor        int64 // logical address of the cursor
	virtualCursor int64 // nibble/column position within the cursor byte's display cell
	pageStart     int64 // address of the first byte in the visible window
	window        int64 // number of bytes the visible window holds
	rowBytes      int64 // bytes per display row, for 0/$/j/k motions

	visual     visualState
	marks      *marks
	registers  *registers
	history    *History
	macros     macroState
	lastSearch searchState

	pendingCount    int          // accumulated digits before an operator/motion
	pendingOp       byte
	pendingOpCount  int          // count captured before a two-key op like `3@x`
	pendingRegister byte         // register named by a preceding `"<x>` prefix, 0 if none
	pending         *pendingEdit // bytes typed so far in INSERT/OVERWRITE mode
	pendingReplace  *visualSpan  // visual-mode selection captured when `r` starts ModeReplaceOne

	display DisplaySink
	input   InputSource
	prompt  PromptReader
	status  StatusSink

	sessionID uuid.UUID
}

type visualState struct {
	active bool
	anchor int64
}

// visualSpan is a [start, start+length) byte range captured from an
// active visual selection at the moment an operator key is pressed.
type visualSpan struct {
	start, length int64
}

// New creates a Machine over file, with window bytes visible at a time,
// driven by the given external collaborators. prefs may be nil, in
// which case cfg.Defaults() is used.
func New(file *vfile.File, ring *vfile.Ring, window int64, prefs *cfg.Prefs, display DisplaySink, input InputSource, prompt PromptReader, status StatusSink) *Machine {
	if prefs == nil {
		prefs = cfg.Defaults()
	}
	return &Machine{
		mode:      ModeNormal,
		ring:      ring,
		file:      file,
		prefs:     prefs,
		window:    window,
		rowBytes:  16,
		marks:     newMarks(),
		registers: newRegisters(),
		history:   NewHistory(),
		macros:    newMacroState(),
		display:   display,
		input:     input,
		prompt:    prompt,
		status:    status,
		sessionID: uuid.New(),
	}
}

// Mode reports the machine's current modal state.
func (m *Machine) Mode() Mode { return m.mode }

// Cursor reports the current logical cursor address.
func (m *Machine) Cursor() int64 { return m.cursor }

// File returns the file currently being edited.
func (m *Machine) File() *vfile.File { return m.file }

func (m *Machine) setStatus(msg string) {
	if m.status != nil {
		m.status.SetStatus(msg)
	}
}

// clampCursor keeps the cursor within [0, size], the one-past-the-end
// position being valid only while in an insert-class mode (§4.5.1).
func (m *Machine) clampCursor() {
	size := m.file.Graph().Size()
	max := size
	if m.mode != ModeInsert {
		max--
	}
	if max < 0 {
		max = 0
	}
	if m.cursor > max {
		m.cursor = max
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// ensurePageContainsCursor scrolls pageStart so the cursor stays within
// the visible window, matching a normal terminal pager's behavior.
func (m *Machine) ensurePageContainsCursor() {
	if m.window <= 0 {
		return
	}
	if m.cursor < m.pageStart {
		m.pageStart = m.cursor
	}
	if m.cursor >= m.pageStart+m.window {
		m.pageStart = m.cursor - m.window + 1
	}
	if m.pageStart < 0 {
		m.pageStart = 0
	}
}

// byteClass is one of the three motion-word categories §4.5.2 defines
// for `w`/`b`/`e` boundaries.
type byteClass int

const (
	classWhitespace byteClass = iota
	classAlnum
	classPunct
)

func classify(b byte) byteClass {
	switch {
	case b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == 0:
		return classWhitespace
	case (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_':
		return classAlnum
	default:
		return classPunct
	}
}

// redraw asks the display sink to re-render the current window.
func (m *Machine) redraw() {
	if m.display == nil {
		return
	}
	m.ensurePageContainsCursor()
	buf := make([]byte, m.window)
	n, _ := m.file.Graph().GetBuf(buf, m.pageStart)
	m.display.Render(m.pageStart, buf[:n], m.cursor)
}
