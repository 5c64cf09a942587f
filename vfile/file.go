// Package vfile layers a virtual file on top of vbuf: opening a real file
// on disk, wiring it as the piece graph's backing Source, saving changes
// back in place, and keeping the ring of files an editing session has
// open. Grounded on original_source/virt_file.c's vf_init/vf_save/ring
// functions, restructured the way jyane-jnes's nes/cartridge.go turns a
// raw byte slice into a typed, validated object.
package vfile

import (
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/EBADBEEF/bvi/vbuf"
)

// File is one open virtual file: a piece graph over an underlying OS
// file, plus the bookkeeping vf_init/vf_save/vf_need_save track in
// file_manager_t.
type File struct {
	path     string
	fh       *os.File
	graph    *vbuf.Graph
	readOnly bool

	next, prev *File // ring linkage, maintained by Ring
}

// Open opens path for editing. A file that cannot be opened read-write
// is reopened read-only and every mutating call fails with an E_INVALID
// style error from the editor layer; this mirrors vf_init's fallback
// when fopen("a") fails. Directories are rejected outright.
func Open(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("vfile: stat %s: %w", path, err)
	}
	if err == nil && info.IsDir() {
		return nil, fmt.Errorf("vfile: %s is a directory", path)
	}

	fh, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	readOnly := false
	if err != nil {
		glog.V(1).Infof("vfile: opening %s read-write failed (%v), retrying read-only", path, err)
		fh, err = os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("vfile: opening %s: %w", path, err)
		}
		readOnly = true
	}

	size, err := fh.Seek(0, os.SEEK_END)
	if err != nil {
		fh.Close()
		return nil, fmt.Errorf("vfile: seeking %s: %w", path, err)
	}

	return &File{
		path:     path,
		fh:       fh,
		graph:    vbuf.NewGraph(size, fh),
		readOnly: readOnly,
	}, nil
}

// Path returns the file's path as opened.
func (f *File) Path() string { return f.path }

// ReadOnly reports whether edits are rejected for this file.
func (f *File) ReadOnly() bool { return f.readOnly }

// Graph returns the piece graph backing this file's logical contents.
func (f *File) Graph() *vbuf.Graph { return f.graph }

// NeedSave reports whether this file has edits not yet written to disk.
func (f *File) NeedSave() bool { return f.graph.NeedSave() }

// Save writes the current logical contents back to the underlying file.
func (f *File) Save(progress ProgressFunc) error {
	if f.readOnly {
		return fmt.Errorf("vfile: %s is read-only", f.path)
	}
	if err := Save(f.graph, f.fh, progress); err != nil {
		return err
	}
	return f.fh.Sync()
}

// Close releases the underlying OS handle. It does not check NeedSave;
// callers (the editor's `:q`/`:q!` handling) are responsible for
// prompting before discarding unsaved edits.
func (f *File) Close() error {
	return f.fh.Close()
}
