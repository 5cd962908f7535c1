package display

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/vmoreno/opibatch/internal/models"
	"github.com/vmoreno/opibatch/internal/preview"
)

// colorScheme defines consistent colors for table output.
// Green: success markers. Yellow: truncation notices. Cyan: identifiers.
type colorScheme struct {
	success *color.Color
	warn    *color.Color
	label   *color.Color
}

func newColorScheme(enabled bool) *colorScheme {
	s := &colorScheme{
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
	}
	if !enabled {
		s.success.DisableColor()
		s.warn.DisableColor()
		s.label.DisableColor()
	}
	return s
}

// colorEnabled reports whether out is an interactive terminal.
func colorEnabled(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// RenderPreview prints the preview table followed by the shown/total
// summary line.
func RenderPreview(out io.Writer, rows []preview.Row, summary preview.Summary) {
	scheme := newColorScheme(colorEnabled(out))

	if len(rows) == 0 {
		fmt.Fprintf(out, "No documents with a recognizable payment-order number.\n")
		fmt.Fprintf(out, "Total files in batch: %d\n", summary.Total)
		return
	}

	fmt.Fprintf(out, "%-16s %-14s %-22s %s\n", "CLIENTE", "TITULO", "CUENTA", "ARCHIVO")
	for _, row := range rows {
		fmt.Fprintf(out, "%-16s %-14s %-22s %s\n",
			row.ClientName, row.TitleNumber, scheme.label.Sprint(row.Account), row.SourceFile)
	}

	if summary.Truncated {
		fmt.Fprintf(out, "%s\n", scheme.warn.Sprintf("Showing %d of %d file(s) in batch", summary.Shown, summary.Total))
	} else {
		fmt.Fprintf(out, "%s %d file(s) in batch\n", scheme.success.Sprint("✓"), summary.Total)
	}
}

// RenderListing prints the bounded "first N" batch listing plus a "+K more"
// line when the batch exceeds the bound.
func RenderListing(out io.Writer, files []models.FileHandle, overflow int) {
	for _, f := range files {
		fmt.Fprintf(out, "  %s (%d bytes)\n", f.Name, f.Size)
	}
	if overflow > 0 {
		fmt.Fprintf(out, "  ... +%d more\n", overflow)
	}
}
