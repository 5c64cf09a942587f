package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/EBADBEEF/bvi/cfg"
	"github.com/EBADBEEF/bvi/vfile"
)

type fakeDisplay struct {
	lastOffset int64
	lastData   []byte
	lastCursor int64
	status     string
}

func (d *fakeDisplay) Render(offset int64, data []byte, cursor int64) {
	d.lastOffset, d.lastCursor = offset, cursor
	d.lastData = append([]byte(nil), data...)
}
func (d *fakeDisplay) SetStatus(msg string) { d.status = msg }

type scriptedInput struct {
	keys []KeyEvent
	i    int
}

func (s *scriptedInput) NextKey() (KeyEvent, error) {
	k := s.keys[s.i]
	s.i++
	return k, nil
}

func rk(r rune) KeyEvent     { return KeyEvent{Rune: r} }
func nk(k NamedKey) KeyEvent { return KeyEvent{Key: k} }

func newTestMachine(t *testing.T, contents string) (*Machine, *vfile.File) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "f.bin")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := vfile.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	ring := vfile.NewRing()
	ring.Add(f)
	disp := &fakeDisplay{}
	m := New(f, ring, 16, cfg.Defaults(), disp, nil, nil, disp)
	return m, f
}

func readLogical(t *testing.T, m *Machine) string {
	t.Helper()
	buf := make([]byte, m.File().Graph().Size())
	n, err := m.File().Graph().GetBuf(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	return string(buf[:n])
}

func TestInsertCommitsOnEscape(t *testing.T) {
	m, _ := newTestMachine(t, "hello world")
	for _, k := range []KeyEvent{rk('5'), rk('l')} {
		m.Dispatch(k)
	}
	if m.Cursor() != 5 {
		t.Fatalf("cursor=%d want 5", m.Cursor())
	}
	m.Dispatch(rk('a'))
	if m.Mode() != ModeInsert {
		t.Fatalf("mode=%s want INSERT", m.Mode())
	}
	for _, b := range ",!" {
		m.Dispatch(rk(b))
	}
	m.Dispatch(nk(KeyEscape))
	if m.Mode() != ModeNormal {
		t.Fatalf("mode=%s want NORMAL", m.Mode())
	}
	if got, want := readLogical(t, m), "hello ,!world"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestDeleteAndUndo(t *testing.T) {
	m, _ := newTestMachine(t, "hello world")
	m.Dispatch(rk('x'))
	if got, want := readLogical(t, m), "ello world"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	r := m.Dispatch(rk('u'))
	if r.Outcome != Success {
		t.Fatalf("undo outcome=%s", r.Outcome)
	}
	if got, want := readLogical(t, m), "hello world"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestYankAndPaste(t *testing.T) {
	m, _ := newTestMachine(t, "abcdef")
	m.Dispatch(rk('3'))
	m.Dispatch(rk('y'))
	m.Dispatch(rk('$'))
	m.Dispatch(rk('p'))
	if got, want := readLogical(t, m), "abcdefabc"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestMarksSetAndJump(t *testing.T) {
	m, _ := newTestMachine(t, "0123456789")
	m.Dispatch(rk('5'))
	m.Dispatch(rk('l'))
	m.Dispatch(rk('m'))
	m.Dispatch(rk('a'))
	if m.Mode() != ModeNormal {
		t.Fatalf("mode=%s want NORMAL after setting mark", m.Mode())
	}
	m.Dispatch(rk('0'))
	if m.Cursor() != 0 {
		t.Fatalf("cursor=%d want 0", m.Cursor())
	}
	m.Dispatch(rk('\''))
	m.Dispatch(rk('a'))
	if m.Cursor() != 5 {
		t.Fatalf("cursor=%d want 5 after jumping to mark a", m.Cursor())
	}
}

func TestWordMotion(t *testing.T) {
	m, _ := newTestMachine(t, "foo  bar baz")
	m.Dispatch(rk('w'))
	if m.Cursor() != 5 {
		t.Fatalf("cursor=%d want 5 (start of 'bar')", m.Cursor())
	}
	m.Dispatch(rk('w'))
	if m.Cursor() != 9 {
		t.Fatalf("cursor=%d want 9 (start of 'baz')", m.Cursor())
	}
	m.Dispatch(rk('b'))
	if m.Cursor() != 5 {
		t.Fatalf("cursor=%d want 5 after b", m.Cursor())
	}
}

func TestGotoEndAndStart(t *testing.T) {
	m, _ := newTestMachine(t, "0123456789")
	m.Dispatch(rk('G'))
	if m.Cursor() != 9 {
		t.Fatalf("cursor=%d want 9", m.Cursor())
	}
	m.input = &scriptedInput{keys: []KeyEvent{rk('g')}}
	m.Dispatch(rk('g'))
	if m.Cursor() != 0 {
		t.Fatalf("cursor=%d want 0 after gg", m.Cursor())
	}
}

func TestMacroRecordAndPlay(t *testing.T) {
	m, _ := newTestMachine(t, "aaaa")
	m.Dispatch(rk('q'))
	m.Dispatch(rk('a'))
	if m.Mode() != ModeMacroRecord {
		t.Fatalf("mode=%s want MACRO_RECORD", m.Mode())
	}
	m.Dispatch(rk('x'))
	m.Dispatch(rk('q'))
	if m.Mode() != ModeNormal {
		t.Fatalf("mode=%s want NORMAL after stop recording", m.Mode())
	}
	if got, want := readLogical(t, m), "aaa"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	m.Dispatch(rk('2'))
	m.Dispatch(rk('@'))
	m.Dispatch(rk('a'))
	if got, want := readLogical(t, m), "a"; got != want {
		t.Fatalf("got %q want %q after replaying macro twice", got, want)
	}
}

func TestVisualReplace(t *testing.T) {
	m, _ := newTestMachine(t, "01234567")
	m.Dispatch(rk('v'))
	if m.Mode() != ModeVisual {
		t.Fatalf("mode=%s want VISUAL", m.Mode())
	}
	m.Dispatch(rk('l'))
	m.Dispatch(rk('l'))
	m.Dispatch(rk('l'))
	m.Dispatch(rk('r'))
	m.Dispatch(rk('F'))
	if m.Mode() != ModeNormal {
		t.Fatalf("mode=%s want NORMAL after visual replace", m.Mode())
	}
	if got, want := readLogical(t, m), "FFFF4567"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSearchAscii(t *testing.T) {
	m, _ := newTestMachine(t, "hello world")
	r := m.search([]byte("world"), false, true)
	if r.Outcome != Success {
		t.Fatalf("search outcome=%s", r.Outcome)
	}
	if m.Cursor() != 6 {
		t.Fatalf("cursor=%d want 6", m.Cursor())
	}
}

func TestSetReadOnlyBlocksEdits(t *testing.T) {
	m, _ := newTestMachine(t, "abc")
	m.prefs.ReadOnly = true
	r := m.Dispatch(rk('x'))
	if r.Outcome != Invalid {
		t.Fatalf("outcome=%s want Invalid", r.Outcome)
	}
}
