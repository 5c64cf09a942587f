package vbuf

import "fmt"

// GetBuf fills dest with up to len(dest) logical bytes starting at
// offset, reading through whichever pieces currently cover that range
// (§4.2). It returns the number of bytes actually copied, which is less
// than len(dest) only when offset+len(dest) runs past Size().
func (g *Graph) GetBuf(dest []byte, offset int64) (int, error) {
	if offset < 0 || offset > g.size {
		return 0, fmt.Errorf("vbuf: read offset %d out of range [0,%d]", offset, g.size)
	}
	want := int64(len(dest))
	if offset+want > g.size {
		want = g.size - offset
	}
	var copied int64
	for _, cid := range g.children {
		if copied >= want {
			break
		}
		n := &g.arena[cid]
		if !n.active || n.size == 0 || n.kind == KindDelete {
			continue
		}
		pieceEnd := n.start + n.size
		readStart := offset + copied
		if readStart >= pieceEnd {
			continue
		}
		if n.start > readStart {
			// Should not happen: children are contiguous over [0,size).
			return int(copied), fmt.Errorf("vbuf: gap in piece sequence before offset %d", n.start)
		}
		within := readStart - n.start
		avail := n.size - within
		need := want - copied
		if avail > need {
			avail = need
		}
		dst := dest[copied : copied+avail]
		switch n.kind {
		case KindFile:
			if g.source == nil {
				return int(copied), fmt.Errorf("vbuf: read from FILE piece with no backing source")
			}
			if _, err := g.source.ReadAt(dst, n.fileOffset+within); err != nil {
				return int(copied), fmt.Errorf("vbuf: reading backing file at %d: %w", n.fileOffset+within, err)
			}
		case KindInsert, KindReplace:
			copy(dst, n.data[within:within+avail])
		}
		copied += avail
	}
	return int(copied), nil
}

// GetByte reads the single byte at offset.
func (g *Graph) GetByte(offset int64) (byte, error) {
	var buf [1]byte
	n, err := g.GetBuf(buf[:], offset)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("vbuf: read offset %d at or past end of file (size %d)", offset, g.size)
	}
	return buf[0], nil
}
