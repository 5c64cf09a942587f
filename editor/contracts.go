// Package editor implements the modal key-driven state machine that
// drives a vbuf.Graph/vfile.File through motion, insertion, replacement,
// visual selection, marks, registers, macros, search and undo/redo.
//
// The display, input, prompt, file-browser, preference-registry, help
// text, external-shell and path-expansion collaborators are named only
// by the contracts they expose (interfaces below); the concrete
// terminal/windowing adapters that satisfy them live outside this
// package, the way jyane-jnes keeps ui/ui.go's OpenGL calls out of nes/.
package editor

import "fmt"

// DisplaySink renders the logical view the Machine computes. Offset is
// the address of the first displayed byte; data is the visible window's
// bytes (already read through the piece graph).
type DisplaySink interface {
	Render(offset int64, data []byte, cursor int64)
	SetStatus(message string)
}

// InputSource delivers key events to the dispatch loop. A key event is
// either a printable byte or one of the named control keys.
type InputSource interface {
	NextKey() (KeyEvent, error)
}

// PromptReader reads a line of free text for the `:`, `/` and `\`
// prompts, with its own single-line history (creadline.c).
type PromptReader interface {
	ReadLine(prompt string) (string, error)
}

// StatusSink receives one-line status/error messages, the Go analogue of
// key_handler.c's status_message global (§3.8 of SPEC_FULL.md).
type StatusSink interface {
	SetStatus(message string)
}

// KeyEvent is one input event. Rune carries a printable key's value;
// Key carries a named non-printable key when Rune is 0.
type KeyEvent struct {
	Rune rune
	Key  NamedKey
}

// NamedKey enumerates non-printable keys the motion/command tables
// reference (escape, arrows, backspace, enter).
type NamedKey int

const (
	KeyNone NamedKey = iota
	KeyEscape
	KeyEnter
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlD
	KeyCtrlU
	KeyCtrlF
	KeyCtrlB
	KeyCtrlR
)

func (e KeyEvent) String() string {
	if e.Rune != 0 {
		return fmt.Sprintf("%q", e.Rune)
	}
	return fmt.Sprintf("key(%d)", e.Key)
}
