package editor

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// searchState remembers the last search pattern and direction so `n`/`N`
// can repeat it (§4.5.4).
type searchState struct {
	pattern []byte
	hex     bool
	forward bool
}

// parseSearchPattern implements the two search flavors: a `/`-prompt
// pattern is taken as literal ASCII bytes, a `\`-prompt pattern is a
// string of hex digit pairs (optionally space-separated), matching
// key_handler.c's separate ASCII-search/hex-search entry points.
func parseSearchPattern(raw string, asHex bool) ([]byte, error) {
	if !asHex {
		if raw == "" {
			return nil, fmt.Errorf("empty search pattern")
		}
		return []byte(raw), nil
	}
	clean := strings.ReplaceAll(raw, " ", "")
	if clean == "" {
		return nil, fmt.Errorf("empty search pattern")
	}
	if len(clean)%2 != 0 {
		return nil, fmt.Errorf("odd number of hex digits")
	}
	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("malformed hex pattern: %w", err)
	}
	return data, nil
}

// search implements `/pattern` and `\hexpattern`, searching forward from
// just after the cursor (or backward from just before it). It streams
// the file in windowed chunks rather than reading it whole, the same
// discipline the motion engine uses, so a search over a file larger
// than RAM stays bounded.
func (m *Machine) search(pattern []byte, asHex, forward bool) Result {
	if len(pattern) == 0 {
		return invalid("empty search pattern")
	}
	m.lastSearch = searchState{pattern: pattern, hex: asHex, forward: forward}

	size := m.file.Graph().Size()
	if size == 0 {
		return noAction("empty file")
	}

	const chunk = 64 * 1024
	overlap := int64(len(pattern)) - 1

	if forward {
		start := m.cursor + 1
		for pos := start; pos < size; pos += chunk {
			readStart := pos
			if readStart > overlap {
				// no need to step back; contiguous chunks already
				// overlap by construction below
			}
			buf := m.readWindow(readStart, chunk+overlap)
			if idx := bytes.Index(buf, pattern); idx >= 0 {
				found := readStart + int64(idx)
				if found < size {
					m.marks.recordJumpOrigin(m.cursor)
					m.cursor = found
					return success("")
				}
			}
		}
		if m.prefs.WrapScan {
			for pos := int64(0); pos <= m.cursor; pos += chunk {
				buf := m.readWindow(pos, chunk+overlap)
				if idx := bytes.Index(buf, pattern); idx >= 0 {
					m.marks.recordJumpOrigin(m.cursor)
					m.cursor = pos + int64(idx)
					return success("")
				}
			}
		}
		return noAction("pattern not found")
	}

	for pos := m.cursor - 1; pos >= 0; pos -= chunk {
		readStart := pos - chunk + 1
		if readStart < 0 {
			readStart = 0
		}
		buf := m.readWindow(readStart, pos-readStart+1)
		if idx := bytes.LastIndex(buf, pattern); idx >= 0 {
			m.marks.recordJumpOrigin(m.cursor)
			m.cursor = readStart + int64(idx)
			return success("")
		}
	}
	if m.prefs.WrapScan {
		for pos := size - 1; pos >= m.cursor; pos -= chunk {
			readStart := pos - chunk + 1
			if readStart < m.cursor {
				readStart = m.cursor
			}
			buf := m.readWindow(readStart, pos-readStart+1)
			if idx := bytes.LastIndex(buf, pattern); idx >= 0 {
				m.marks.recordJumpOrigin(m.cursor)
				m.cursor = readStart + int64(idx)
				return success("")
			}
		}
	}
	return noAction("pattern not found")
}

// repeatSearch implements `n`/`N`: re-run the last search, `N` in the
// opposite direction from when it was first issued.
func (m *Machine) repeatSearch(reverse bool) Result {
	if len(m.lastSearch.pattern) == 0 {
		return noAction("no previous search")
	}
	forward := m.lastSearch.forward
	if reverse {
		forward = !forward
	}
	return m.search(m.lastSearch.pattern, m.lastSearch.hex, forward)
}
