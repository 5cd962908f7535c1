// Package preview projects the collected batch into the capped table shown
// before and after submission.
package preview

import (
	"github.com/vmoreno/opibatch/internal/batch"
	"github.com/vmoreno/opibatch/internal/match"
	"github.com/vmoreno/opibatch/internal/models"
)

// PendingField fills the columns only the processing backend can resolve.
const PendingField = "—"

// Row is one display-ready line of the preview table.
type Row struct {
	// ClientName is resolved server-side during processing.
	ClientName string
	// TitleNumber is resolved server-side during processing.
	TitleNumber string
	// Account is the rendered identifier, e.g. "JC-PIC-123-456".
	Account string
	// SourceFile is the original filename the identifier came from.
	SourceFile string
}

// Summary describes a truncated preview. Total counts every file in the
// batch, matched or not, so the denominator reflects what will be submitted.
type Summary struct {
	Shown     int
	Total     int
	Truncated bool
}

// Renderer builds preview rows from an assembler's batch. The projection is
// pure: rendering twice over unchanged state yields identical output.
type Renderer struct {
	matcher *match.Matcher
	limit   int
}

// NewRenderer returns a Renderer capped at limit rows. A non-positive limit
// falls back to the standard preview cap.
func NewRenderer(matcher *match.Matcher, limit int) *Renderer {
	if limit <= 0 {
		limit = batch.PreviewLimit
	}
	return &Renderer{matcher: matcher, limit: limit}
}

// Render projects the batch into at most the renderer's cap of matched rows.
// Files whose names do not conform are skipped here; they still count toward
// the summary total because they remain part of the submitted batch.
func (r *Renderer) Render(files []models.FileHandle) ([]Row, Summary) {
	rows := make([]Row, 0, r.limit)
	matched := 0

	for _, f := range files {
		result := r.matcher.Match(f.Name)
		if !result.Matched {
			continue
		}
		matched++
		if len(rows) >= r.limit {
			continue
		}
		rows = append(rows, Row{
			ClientName:  PendingField,
			TitleNumber: PendingField,
			Account:     r.matcher.Render(result.Identifier),
			SourceFile:  result.SourceFileName,
		})
	}

	return rows, Summary{
		Shown:     len(rows),
		Total:     len(files),
		Truncated: matched > len(rows),
	}
}

// Unmatched returns the filenames in the batch that carry no identifier.
// These are flagged to the user but still submitted.
func (r *Renderer) Unmatched(files []models.FileHandle) []string {
	var out []string
	for _, f := range files {
		if !r.matcher.Match(f.Name).Matched {
			out = append(out, f.Name)
		}
	}
	return out
}
