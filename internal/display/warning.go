package display

import (
	"fmt"
	"io"
	"strings"
)

// Warning represents a user-facing warning message.
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning in yellow.
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("\x1b[33m")
	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected file:\n")
		} else {
			b.WriteString("Affected files:\n")
		}
		for i, file := range w.Files {
			b.WriteString("      ")
			b.WriteString(fmt.Sprintf("%d. %s", i+1, file))
			b.WriteString("\n")
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	b.WriteString("\x1b[0m")

	fmt.Fprint(out, b.String())
}

// WarnUnmatched creates a warning for files whose names carry no
// identifier. They are still part of the batch; the backend simply cannot
// cross-reference them.
func WarnUnmatched(files []string) Warning {
	return Warning{
		Title:      fmt.Sprintf("%d file(s) do not match the expected name pattern", len(files)),
		Message:    "Expected <anything>-<digits>-<digits>.pdf; these files will be submitted but cannot be cross-referenced",
		Files:      files,
		Suggestion: "Rename the files to end with the payment-order number, e.g. FACTURA-123-456.pdf",
	}
}
