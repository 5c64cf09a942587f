package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/EBADBEEF/bvi/editor"
)

// stdioAdapter is the thinnest possible DisplaySink/InputSource/
// PromptReader/StatusSink that lets cmd/bvi link and run end to end. It
// is deliberately not a real terminal UI: spec.md §1 externalizes the
// display sink and input source as named contracts, and jyane-jnes's
// own ui/ package (OpenGL, a real window) has no analogue here since a
// byte-stream editor's real front end is a terminal control library
// outside this module's dependency set. This adapter prints a hex dump
// to stdout and reads whole lines from stdin, one rune of the line
// becoming one KeyEvent per Dispatch call.
type stdioAdapter struct {
	in  *bufio.Reader
	out *bufio.Writer
}

func newStdioAdapter() *stdioAdapter {
	return &stdioAdapter{in: bufio.NewReader(os.Stdin), out: bufio.NewWriter(os.Stdout)}
}

func (a *stdioAdapter) Render(offset int64, data []byte, cursor int64) {
	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}
		row := data[i:end]
		fmt.Fprintf(a.out, "%08x  ", offset+int64(i))
		for j, b := range row {
			marker := ' '
			if offset+int64(i+j) == cursor {
				marker = '*'
			}
			fmt.Fprintf(a.out, "%02x%c", b, marker)
		}
		fmt.Fprint(a.out, " ")
		for _, b := range row {
			if b >= 0x20 && b < 0x7f {
				a.out.WriteByte(b)
			} else {
				a.out.WriteByte('.')
			}
		}
		fmt.Fprintln(a.out)
	}
	a.out.Flush()
}

func (a *stdioAdapter) SetStatus(message string) {
	if message == "" {
		return
	}
	fmt.Fprintln(a.out, message)
	a.out.Flush()
}

func (a *stdioAdapter) NextKey() (editor.KeyEvent, error) {
	r, _, err := a.in.ReadRune()
	if err != nil {
		return editor.KeyEvent{}, err
	}
	switch r {
	case '\n', '\r':
		return editor.KeyEvent{Key: editor.KeyEnter}, nil
	case 0x1b:
		return editor.KeyEvent{Key: editor.KeyEscape}, nil
	case 0x7f, 0x08:
		return editor.KeyEvent{Key: editor.KeyBackspace}, nil
	default:
		return editor.KeyEvent{Rune: r}, nil
	}
}

func (a *stdioAdapter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)
	a.out.Flush()
	line, err := a.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return trimNewline(line), nil
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
