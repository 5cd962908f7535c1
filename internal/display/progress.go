// Package display renders collection progress, preview tables, and warnings
// on the console.
package display

import (
	"fmt"
	"io"
	"path/filepath"
)

// ProgressIndicator manages multi-step progress display with ANSI colors.
type ProgressIndicator struct {
	writer  io.Writer
	total   int
	current int
}

// NewProgressIndicator creates a new progress indicator.
func NewProgressIndicator(w io.Writer, total int) *ProgressIndicator {
	return &ProgressIndicator{
		writer: w,
		total:  total,
	}
}

// Start displays the header message.
func (p *ProgressIndicator) Start() {
	fmt.Fprintf(p.writer, "Collecting documents:\n")
}

// Step displays progress for the current source: [N/Total] name (cyan).
func (p *ProgressIndicator) Step(path string) {
	p.current++
	fmt.Fprintf(p.writer, "\x1b[36m  [%d/%d] %s\x1b[0m\n", p.current, p.total, filepath.Base(path))
}

// Complete displays the collected-file count with a green checkmark.
func (p *ProgressIndicator) Complete(collected int) {
	fmt.Fprintf(p.writer, "\x1b[32m✓\x1b[0m Collected %d document(s) from %d source(s)\n", collected, p.total)
}
