package match

import "testing"

func TestMatchExtractsTrailingGroups(t *testing.T) {
	m := NewMatcher("")

	tests := []struct {
		name          string
		filename      string
		wantID        string
		wantUnmatched bool
	}{
		{
			name:     "basic conforming name",
			filename: "FACTURA-123-456.pdf",
			wantID:   "123-456",
		},
		{
			name:     "uppercase extension",
			filename: "ABC-12-34.PDF",
			wantID:   "12-34",
		},
		{
			name:     "mixed case extension",
			filename: "ORDEN-99-100.Pdf",
			wantID:   "99-100",
		},
		{
			name:     "last two groups win when name carries extra digits",
			filename: "JC-12-9876-54321.pdf",
			wantID:   "9876-54321",
		},
		{
			name:     "base name extracted from full path",
			filename: "/tmp/drop/sub/FACTURA-7-8.pdf",
			wantID:   "7-8",
		},
		{
			name:          "single numeric group",
			filename:      "FACTURA-123.pdf",
			wantUnmatched: true,
		},
		{
			name:          "no numeric groups",
			filename:      "resumen.pdf",
			wantUnmatched: true,
		},
		{
			name:          "non-pdf extension",
			filename:      "FACTURA-123-456.txt",
			wantUnmatched: true,
		},
		{
			name:          "digits not adjacent to extension",
			filename:      "FACTURA-123-456-final.pdf",
			wantUnmatched: true,
		},
		{
			name:          "letters inside a group",
			filename:      "FACTURA-12a-456.pdf",
			wantUnmatched: true,
		},
		{
			name:          "empty name",
			filename:      "",
			wantUnmatched: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := m.Match(tt.filename)
			if tt.wantUnmatched {
				if result.Matched {
					t.Fatalf("expected %q to be unmatched, got identifier %q", tt.filename, result.Identifier)
				}
				return
			}
			if !result.Matched {
				t.Fatalf("expected %q to match", tt.filename)
			}
			if result.Identifier != tt.wantID {
				t.Fatalf("identifier = %q, want %q", result.Identifier, tt.wantID)
			}
		})
	}
}

func TestRenderPrefixesTag(t *testing.T) {
	m := NewMatcher("")
	if got := m.Render("123-456"); got != "JC-PIC-123-456" {
		t.Fatalf("Render = %q, want JC-PIC-123-456", got)
	}

	custom := NewMatcher("XX-")
	if got := custom.Render("1-2"); got != "XX-1-2" {
		t.Fatalf("Render with custom prefix = %q, want XX-1-2", got)
	}
}

func TestMatchKeepsSourceFileName(t *testing.T) {
	m := NewMatcher("")
	result := m.Match("/drop/FACTURA-1-2.pdf")
	if result.SourceFileName != "FACTURA-1-2.pdf" {
		t.Fatalf("SourceFileName = %q, want base name", result.SourceFileName)
	}
}
