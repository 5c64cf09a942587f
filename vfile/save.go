package vfile

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/EBADBEEF/bvi/vbuf"
)

// maxSaveShift bounds the size of the scratch buffer the save engine uses
// to relocate untouched file bytes in place, the Go equivalent of
// virt_file.c's MAX_SAVE_SHIFT (4 MiB). Editing a file larger than RAM
// must never require a working set bigger than this constant.
const maxSaveShift = 4 << 20

// Writer is the subset of *os.File the save engine needs: positioned
// reads and writes plus truncation, so tests can save into an in-memory
// stand-in instead of a real file.
type Writer interface {
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
	Truncate(size int64) error
}

// ProgressFunc is called after each piece is materialized, with the
// fraction of the final file size written so far. It may be nil.
type ProgressFunc func(fraction float64)

// Save writes the current logical contents of g into w, which must be
// the same file g's FILE pieces read from (an in-place save). It walks
// the piece sequence once, relocating untouched spans of the original
// file by the net shift accumulated so far and writing INSERT/REPLACE
// data directly, using a bounded scratch buffer regardless of how large
// the edit is (§4.4).
func Save(g *vbuf.Graph, w Writer, progress ProgressFunc) error {
	pieces := g.Pieces()
	total := g.Size()

	// Allocated once and reused across every FILE piece this save
	// touches, so an edit with many surviving spans doesn't churn a
	// fresh maxSaveShift buffer per piece.
	scratch := make([]byte, maxSaveShift)

	var writeOffset int64
	for _, p := range pieces {
		switch p.Kind {
		case vbuf.KindFile:
			shift := writeOffset - p.FileOffset
			if shift != 0 {
				if err := relocate(w, p.FileOffset, writeOffset, p.Size, shift, scratch); err != nil {
					return fmt.Errorf("vfile: relocating %d bytes at %d: %w", p.Size, p.FileOffset, err)
				}
			}
		case vbuf.KindInsert, vbuf.KindReplace:
			if err := writeAll(w, p.Data, writeOffset); err != nil {
				return fmt.Errorf("vfile: writing %d bytes at %d: %w", len(p.Data), writeOffset, err)
			}
		}
		writeOffset += p.Size
		if progress != nil && total > 0 {
			progress(float64(writeOffset) / float64(total))
		}
	}

	if writeOffset < total {
		glog.V(1).Infof("vfile: save computed writeOffset %d < size %d, clamping", writeOffset, total)
	}
	if err := w.Truncate(writeOffset); err != nil {
		return fmt.Errorf("vfile: truncating to %d: %w", writeOffset, err)
	}
	g.MarkSaved()
	return nil
}

// relocate copies a size-byte span currently at src to dst, in
// maxSaveShift chunks read into the caller-owned scratch buffer (sized
// maxSaveShift, allocated once per Save call), reading and writing
// through the same handle. dst and src may overlap (a net insert or
// delete upstream shifts every later span), so the copy direction
// follows shift's sign exactly like a byte-array memmove:
// forward-to-forward when growing, so the tail is moved before it would
// be clobbered, and start-to-start when shrinking.
func relocate(w Writer, src, dst, size, shift int64, buf []byte) error {
	if shift > 0 {
		for done := int64(0); done < size; {
			chunk := size - done
			if chunk > maxSaveShift {
				chunk = maxSaveShift
			}
			// Walk backward from the tail so we never overwrite a
			// source region before it has been read.
			remaining := size - done - chunk
			if _, err := w.ReadAt(buf[:chunk], src+remaining); err != nil {
				return err
			}
			if err := writeAll(w, buf[:chunk], dst+remaining); err != nil {
				return err
			}
			done += chunk
		}
		return nil
	}
	for done := int64(0); done < size; {
		chunk := size - done
		if chunk > maxSaveShift {
			chunk = maxSaveShift
		}
		if _, err := w.ReadAt(buf[:chunk], src+done); err != nil {
			return err
		}
		if err := writeAll(w, buf[:chunk], dst+done); err != nil {
			return err
		}
		done += chunk
	}
	return nil
}

func writeAll(w Writer, data []byte, off int64) error {
	for len(data) > 0 {
		n, err := w.WriteAt(data, off)
		if err != nil {
			return err
		}
		data = data[n:]
		off += int64(n)
	}
	return nil
}
