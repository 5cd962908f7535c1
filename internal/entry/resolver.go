package entry

import (
	"context"
	"strings"
	"sync"

	"github.com/vmoreno/opibatch/internal/models"
)

const (
	// DefaultBatchSize is how many children are requested per ReadChildren
	// call during traversal.
	DefaultBatchSize = 64

	// DefaultMaxBatches bounds the enumeration loop for a single container.
	// A conforming container signals completion with an empty batch; the cap
	// guards against one that never does.
	DefaultMaxBatches = 4096
)

// Resolver flattens a payload of entries into the document files it
// contains. Sibling entries are resolved concurrently; a container's
// resolution completes only after all of its descendants complete.
type Resolver struct {
	extension  string
	batchSize  int
	maxBatches int
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithBatchSize sets how many children are requested per enumeration call.
func WithBatchSize(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithMaxBatches sets the defensive cap on enumeration calls per container.
func WithMaxBatches(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.maxBatches = n
		}
	}
}

// NewResolver returns a Resolver that keeps files with the given extension
// (case-insensitive, leading dot included, e.g. ".pdf").
func NewResolver(extension string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		extension:  extension,
		batchSize:  DefaultBatchSize,
		maxBatches: DefaultMaxBatches,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve expands the payload into a flat list of files with the resolver's
// extension. Results preserve discovery order within each source entry;
// entries that fail to resolve are skipped rather than failing the payload.
//
// When the payload contains no containers the resolution degrades to a plain
// filter-and-collect over the leaves, with no recursion and no fan-out.
func (r *Resolver) Resolve(ctx context.Context, entries []Entry) []models.FileHandle {
	if !hasContainer(entries) {
		return r.filter(r.collectLeaves(entries))
	}
	return r.filter(r.resolveSiblings(ctx, entries))
}

// resolveSiblings resolves each entry in its own goroutine and joins the
// results in input order.
func (r *Resolver) resolveSiblings(ctx context.Context, entries []Entry) []models.FileHandle {
	slots := make([][]models.FileHandle, len(entries))

	var wg sync.WaitGroup
	for i, e := range entries {
		wg.Add(1)
		go func(i int, e Entry) {
			defer wg.Done()
			slots[i] = r.resolveEntry(ctx, e)
		}(i, e)
	}
	wg.Wait()

	return flatten(slots)
}

// resolveEntry resolves one entry to the files beneath it. Unsupported
// entry kinds and leaves that fail to materialize yield no files.
func (r *Resolver) resolveEntry(ctx context.Context, e Entry) []models.FileHandle {
	switch node := e.(type) {
	case Leaf:
		file, err := node.Resolve()
		if err != nil {
			return nil
		}
		return []models.FileHandle{file}
	case Container:
		return r.resolveContainer(ctx, node)
	default:
		return nil
	}
}

// resolveContainer drains a container's child batches, spawning one resolver
// goroutine per child as it is discovered. The returned slice concatenates
// child results in discovery order once every descendant has completed.
func (r *Resolver) resolveContainer(ctx context.Context, c Container) []models.FileHandle {
	var (
		wg    sync.WaitGroup
		slots []*[]models.FileHandle
	)

	for read := 0; read < r.maxBatches; read++ {
		if ctx.Err() != nil {
			break
		}

		children, err := c.ReadChildren(ctx, r.batchSize)
		if err != nil || len(children) == 0 {
			break
		}

		for _, child := range children {
			slot := new([]models.FileHandle)
			slots = append(slots, slot)
			wg.Add(1)
			go func(child Entry, out *[]models.FileHandle) {
				defer wg.Done()
				*out = r.resolveEntry(ctx, child)
			}(child, slot)
		}
	}
	wg.Wait()

	var files []models.FileHandle
	for _, slot := range slots {
		files = append(files, *slot...)
	}
	return files
}

// collectLeaves is the flat fallback path for payloads without containers.
func (r *Resolver) collectLeaves(entries []Entry) []models.FileHandle {
	var files []models.FileHandle
	for _, e := range entries {
		leaf, ok := e.(Leaf)
		if !ok {
			continue
		}
		file, err := leaf.Resolve()
		if err != nil {
			continue
		}
		files = append(files, file)
	}
	return files
}

// filter keeps files whose name ends with the resolver's extension,
// comparing case-insensitively.
func (r *Resolver) filter(files []models.FileHandle) []models.FileHandle {
	kept := make([]models.FileHandle, 0, len(files))
	for _, f := range files {
		if hasFoldSuffix(f.Name, r.extension) {
			kept = append(kept, f)
		}
	}
	return kept
}

func hasContainer(entries []Entry) bool {
	for _, e := range entries {
		if _, ok := e.(Container); ok {
			return true
		}
	}
	return false
}

func hasFoldSuffix(name, suffix string) bool {
	if len(name) < len(suffix) {
		return false
	}
	return strings.EqualFold(name[len(name)-len(suffix):], suffix)
}

func flatten(slots [][]models.FileHandle) []models.FileHandle {
	var files []models.FileHandle
	for _, slot := range slots {
		files = append(files, slot...)
	}
	return files
}
