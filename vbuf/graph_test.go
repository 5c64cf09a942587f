package vbuf

import "testing"

type memSource []byte

func (m memSource) ReadAt(p []byte, off int64) (int, error) {
	n := copy(p, m[off:])
	return n, nil
}

func readAll(t *testing.T, g *Graph) []byte {
	t.Helper()
	buf := make([]byte, g.Size())
	n, err := g.GetBuf(buf, 0)
	if err != nil {
		t.Fatalf("GetBuf: %v", err)
	}
	return buf[:n]
}

func TestInsertBeforeMiddle(t *testing.T) {
	src := memSource("hello world")
	g := NewGraph(int64(len(src)), src)

	if _, err := g.InsertBefore(5, []byte(",")); err != nil {
		t.Fatalf("InsertBefore: %v", err)
	}
	got := string(readAll(t, g))
	want := "hello, world"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if g.Size() != int64(len(want)) {
		t.Fatalf("size=%d want %d", g.Size(), len(want))
	}
}

func TestInsertAtStartAndEnd(t *testing.T) {
	src := memSource("bcd")
	g := NewGraph(int64(len(src)), src)

	if _, err := g.InsertBefore(0, []byte("a")); err != nil {
		t.Fatal(err)
	}
	if _, err := g.InsertAfter(g.Size()-1, []byte("e")); err != nil {
		t.Fatal(err)
	}
	if got, want := string(readAll(t, g)), "abcde"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestDeleteMiddle(t *testing.T) {
	src := memSource("hello world")
	g := NewGraph(int64(len(src)), src)

	if _, err := g.Delete(5, 6); err != nil {
		t.Fatal(err)
	}
	if got, want := string(readAll(t, g)), "hello"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestReplaceDoesNotChangeSize(t *testing.T) {
	src := memSource("hello world")
	g := NewGraph(int64(len(src)), src)
	before := g.Size()

	if _, err := g.Replace(0, []byte("HELLO")); err != nil {
		t.Fatal(err)
	}
	if got, want := string(readAll(t, g)), "HELLO world"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if g.Size() != before {
		t.Fatalf("size changed: %d != %d", g.Size(), before)
	}
}

func TestUndoRedoInsert(t *testing.T) {
	src := memSource("hello world")
	g := NewGraph(int64(len(src)), src)

	if _, err := g.InsertBefore(5, []byte(",")); err != nil {
		t.Fatal(err)
	}
	if n, _ := g.Undo(1); n != 1 {
		t.Fatalf("Undo returned %d, want 1", n)
	}
	if got, want := string(readAll(t, g)), "hello world"; got != want {
		t.Fatalf("after undo got %q want %q", got, want)
	}
	if n, _ := g.Redo(1); n != 1 {
		t.Fatalf("Redo returned %d, want 1", n)
	}
	if got, want := string(readAll(t, g)), "hello, world"; got != want {
		t.Fatalf("after redo got %q want %q", got, want)
	}
}

func TestUndoRedoDelete(t *testing.T) {
	src := memSource("hello world")
	g := NewGraph(int64(len(src)), src)

	if _, err := g.Delete(0, 6); err != nil {
		t.Fatal(err)
	}
	if got, want := string(readAll(t, g)), "world"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	g.Undo(1)
	if got, want := string(readAll(t, g)), "hello world"; got != want {
		t.Fatalf("after undo got %q want %q", got, want)
	}
}

func TestEditAfterUndoPrunesRedoHistory(t *testing.T) {
	src := memSource("hello world")
	g := NewGraph(int64(len(src)), src)

	g.InsertBefore(0, []byte("X"))
	g.Undo(1)
	g.InsertBefore(0, []byte("Y"))

	if n, _ := g.Redo(1); n != 0 {
		t.Fatalf("Redo after a new edit should be a no-op, redone=%d", n)
	}
	if got, want := string(readAll(t, g)), "Yhello world"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestMultipleInsertsSameOffsetPreserveOrder(t *testing.T) {
	src := memSource("ac")
	g := NewGraph(int64(len(src)), src)

	g.InsertBefore(1, []byte("b1"))
	g.InsertBefore(1, []byte("b2"))

	if got, want := string(readAll(t, g)), "ab1b2c"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestEmptyFileInsert(t *testing.T) {
	g := NewGraph(0, nil)
	if _, err := g.InsertBefore(0, []byte("abc")); err != nil {
		t.Fatal(err)
	}
	if got, want := string(readAll(t, g)), "abc"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestNeedSave(t *testing.T) {
	src := memSource("abc")
	g := NewGraph(int64(len(src)), src)
	if g.NeedSave() {
		t.Fatal("fresh graph should not need save")
	}
	g.InsertBefore(0, []byte("z"))
	if !g.NeedSave() {
		t.Fatal("graph with an unsaved edit should need save")
	}
	g.MarkSaved()
	if g.NeedSave() {
		t.Fatal("graph should not need save right after MarkSaved")
	}
}
