// Package entry models a drop payload as a tree of entries and flattens it
// into the document files it contains.
//
// An entry is either a leaf (a file with retrievable bytes), a container (a
// directory that enumerates children in batches), or neither, in which case
// the resolver skips it. Containers are read incrementally: ReadChildren is
// called until it returns an empty batch, mirroring enumeration APIs that do
// not hand back a full listing in one call.
package entry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmoreno/opibatch/internal/models"
)

// Entry is a node in a drop payload.
type Entry interface {
	// Name returns the base name of the entry.
	Name() string
}

// Leaf is a terminal entry that resolves to exactly one file.
type Leaf interface {
	Entry

	// Resolve materializes the leaf into a FileHandle.
	Resolve() (models.FileHandle, error)
}

// Container is an entry that enumerates child entries.
type Container interface {
	Entry

	// ReadChildren returns the next batch of children, at most max entries.
	// An empty batch with a nil error signals that enumeration is complete.
	ReadChildren(ctx context.Context, max int) ([]Entry, error)
}

// fileEntry is an OS-backed leaf.
type fileEntry struct {
	path string
}

func (f *fileEntry) Name() string {
	return filepath.Base(f.path)
}

func (f *fileEntry) Resolve() (models.FileHandle, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return models.FileHandle{}, fmt.Errorf("failed to stat %s: %w", f.path, err)
	}
	return models.FileHandle{
		Name: filepath.Base(f.path),
		Path: f.path,
		Size: info.Size(),
	}, nil
}

// dirEntry is an OS-backed container. The underlying directory handle is
// opened on the first ReadChildren call and closed once enumeration ends.
type dirEntry struct {
	path string
	dir  *os.File
	done bool
}

func (d *dirEntry) Name() string {
	return filepath.Base(d.path)
}

func (d *dirEntry) ReadChildren(ctx context.Context, max int) ([]Entry, error) {
	if d.done {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if d.dir == nil {
		dir, err := os.Open(d.path)
		if err != nil {
			d.done = true
			return nil, fmt.Errorf("failed to open directory %s: %w", d.path, err)
		}
		d.dir = dir
	}

	batch, err := d.dir.ReadDir(max)
	if err != nil && !errors.Is(err, io.EOF) {
		d.close()
		return nil, fmt.Errorf("failed to read directory %s: %w", d.path, err)
	}

	if len(batch) == 0 {
		d.close()
		return nil, nil
	}

	children := make([]Entry, 0, len(batch))
	for _, item := range batch {
		child, err := FromPath(filepath.Join(d.path, item.Name()))
		if err != nil {
			// A child that vanished between listing and stat is dropped;
			// the rest of the batch is still returned.
			continue
		}
		children = append(children, child)
	}
	return children, nil
}

func (d *dirEntry) close() {
	if d.dir != nil {
		d.dir.Close()
		d.dir = nil
	}
	d.done = true
}

// opaqueEntry is a payload node that is neither leaf nor container, such as
// a socket or device file. The resolver skips these silently.
type opaqueEntry struct {
	path string
}

func (o *opaqueEntry) Name() string {
	return filepath.Base(o.path)
}

// FromPath classifies a filesystem path into an Entry. Regular files become
// leaves, directories become containers, and anything else becomes an entry
// the resolver will skip.
func FromPath(path string) (Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", abs, err)
	}

	switch {
	case info.Mode().IsRegular():
		return &fileEntry{path: abs}, nil
	case info.IsDir():
		return &dirEntry{path: abs}, nil
	default:
		return &opaqueEntry{path: abs}, nil
	}
}

// FromPaths classifies a list of filesystem paths, in order.
func FromPaths(paths []string) ([]Entry, error) {
	entries := make([]Entry, 0, len(paths))
	for _, path := range paths {
		e, err := FromPath(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
