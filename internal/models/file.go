// Package models defines the shared data types passed between the entry
// resolver, batch assembler, preview renderer, and submission client.
package models

import (
	"io"
	"os"
)

// FileHandle is an immutable reference to a collected document. Identity is
// the Path: two files with the same base name from different folders are
// distinct handles.
type FileHandle struct {
	// Name is the base filename, as matched and displayed.
	Name string
	// Path is the absolute location of the file on disk.
	Path string
	// Size is the file size in bytes at collection time.
	Size int64
}

// Open returns a reader over the file's bytes. The caller owns the closer.
func (f FileHandle) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}
