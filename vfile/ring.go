package vfile

// Ring is the circular list of files open in one editing session,
// grounded directly on virt_file.c's vf_*_fm_ring functions: a
// self-referential ring (a lone file points to itself), a head (the
// first file ever added, used as the anchor `:n`/`:prev` wrap around)
// and a current pointer the editor moves with `:n`/`:N`.
type Ring struct {
	head    *File
	current *File
}

// NewRing returns an empty file ring.
func NewRing() *Ring { return &Ring{} }

// Add splices f into the ring, just before the head, and makes it
// current. The first file added becomes the head.
func (r *Ring) Add(f *File) {
	if r.head == nil {
		f.next, f.prev = f, f
		r.head = f
		r.current = f
		return
	}
	last := r.head.prev
	f.next = r.head
	f.prev = last
	last.next = f
	r.head.prev = f
	r.current = f
}

// Remove splices f out of the ring. If f was current, current moves to
// the next file; if f was the head, the head moves to the next file. An
// empty ring after removal leaves both head and current nil.
func (r *Ring) Remove(f *File) {
	if r.head == nil {
		return
	}
	if f.next == f {
		r.head, r.current = nil, nil
		f.next, f.prev = nil, nil
		return
	}
	f.prev.next = f.next
	f.next.prev = f.prev
	if r.head == f {
		r.head = f.next
	}
	if r.current == f {
		r.current = f.next
	}
	f.next, f.prev = nil, nil
}

// Current returns the file the editor is presently showing.
func (r *Ring) Current() *File { return r.current }

// SetCurrent makes f the current file. f must already be in the ring.
func (r *Ring) SetCurrent(f *File) { r.current = f }

// Next moves current forward one position and returns the new current.
func (r *Ring) Next() *File {
	if r.current == nil {
		return nil
	}
	r.current = r.current.next
	return r.current
}

// Last moves current backward one position and returns the new current
// (vf_get_last_fm_from_ring's "last" means "previous", not "final").
func (r *Ring) Last() *File {
	if r.current == nil {
		return nil
	}
	r.current = r.current.prev
	return r.current
}

// Head returns the anchor file the ring was started with.
func (r *Ring) Head() *File { return r.head }

// Len reports how many files are in the ring.
func (r *Ring) Len() int {
	if r.head == nil {
		return 0
	}
	n := 1
	for f := r.head.next; f != r.head; f = f.next {
		n++
	}
	return n
}

// Files returns the ring's contents starting from the head, in ring
// order, for `:ls`-style listings.
func (r *Ring) Files() []*File {
	if r.head == nil {
		return nil
	}
	out := []*File{r.head}
	for f := r.head.next; f != r.head; f = f.next {
		out = append(out, f)
	}
	return out
}
