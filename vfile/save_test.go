package vfile

import (
	"bytes"
	"testing"

	"github.com/EBADBEEF/bvi/vbuf"
)

// memFile is an in-memory Writer standing in for *os.File in tests.
type memFile struct {
	data []byte
}

func (m *memFile) ReadAt(p []byte, off int64) (int, error) {
	n := copy(p, m.data[off:])
	return n, nil
}

func (m *memFile) WriteAt(p []byte, off int64) (int, error) {
	end := off + int64(len(p))
	if end > int64(len(m.data)) {
		grown := make([]byte, end)
		copy(grown, m.data)
		m.data = grown
	}
	copy(m.data[off:end], p)
	return len(p), nil
}

func (m *memFile) Truncate(size int64) error {
	if size <= int64(len(m.data)) {
		m.data = m.data[:size]
		return nil
	}
	grown := make([]byte, size)
	copy(grown, m.data)
	m.data = grown
	return nil
}

func TestSaveInsertGrowsFile(t *testing.T) {
	m := &memFile{data: []byte("hello world")}
	g := vbuf.NewGraph(int64(len(m.data)), m)
	if _, err := g.InsertBefore(5, []byte(",")); err != nil {
		t.Fatal(err)
	}

	if err := Save(g, m, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got, want := string(m.data), "hello, world"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if g.NeedSave() {
		t.Fatal("graph should not need save right after Save")
	}
}

func TestSaveDeleteShrinksFile(t *testing.T) {
	m := &memFile{data: []byte("hello world")}
	g := vbuf.NewGraph(int64(len(m.data)), m)
	if _, err := g.Delete(5, 6); err != nil {
		t.Fatal(err)
	}

	if err := Save(g, m, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got, want := string(m.data), "hello"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSaveMultipleEditsRoundTrip(t *testing.T) {
	original := bytes.Repeat([]byte("0123456789"), 100) // 1000 bytes
	m := &memFile{data: append([]byte(nil), original...)}
	g := vbuf.NewGraph(int64(len(m.data)), m)

	if _, err := g.InsertBefore(0, []byte("HEAD-")); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Delete(500, 10); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Replace(10, []byte("XYZ")); err != nil {
		t.Fatal(err)
	}

	want := make([]byte, g.Size())
	if _, err := g.GetBuf(want, 0); err != nil {
		t.Fatal(err)
	}

	if err := Save(g, m, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !bytes.Equal(m.data, want) {
		t.Fatalf("saved file does not match logical view:\nsaved=%q\nwant =%q", m.data, want)
	}
}

func TestRingBasics(t *testing.T) {
	r := NewRing()
	a := &File{path: "a"}
	b := &File{path: "b"}
	c := &File{path: "c"}

	r.Add(a)
	r.Add(b)
	r.Add(c)

	if r.Len() != 3 {
		t.Fatalf("Len()=%d want 3", r.Len())
	}
	if r.Head() != a {
		t.Fatalf("Head()=%v want a", r.Head())
	}
	if r.Current() != c {
		t.Fatalf("Current()=%v want c", r.Current())
	}

	r.SetCurrent(a)
	if got := r.Next(); got != b {
		t.Fatalf("Next()=%v want b", got)
	}
	if got := r.Last(); got != a {
		t.Fatalf("Last()=%v want a", got)
	}

	r.Remove(b)
	if r.Len() != 2 {
		t.Fatalf("Len()=%d want 2 after removal", r.Len())
	}
}
