package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmoreno/opibatch/internal/config"
)

// writeFixture lays out a spreadsheet and a folder of documents and returns
// their paths.
func writeFixture(t *testing.T, documents ...string) (spreadsheet, docsDir string) {
	t.Helper()
	tmpDir := t.TempDir()

	spreadsheet = filepath.Join(tmpDir, "listado.xlsx")
	if err := os.WriteFile(spreadsheet, []byte("xlsx-bytes"), 0644); err != nil {
		t.Fatalf("Failed to write spreadsheet: %v", err)
	}

	docsDir = filepath.Join(tmpDir, "docs")
	if err := os.MkdirAll(docsDir, 0755); err != nil {
		t.Fatalf("Failed to create docs dir: %v", err)
	}
	for _, name := range documents {
		if err := os.WriteFile(filepath.Join(docsDir, name), []byte("pdf-bytes"), 0644); err != nil {
			t.Fatalf("Failed to write document %s: %v", name, err)
		}
	}
	return spreadsheet, docsDir
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.HistoryPath = filepath.Join(cfg.OutputDir, "history.db")
	return cfg
}

func TestRunPreview_RendersTableAndWarnings(t *testing.T) {
	spreadsheet, docsDir := writeFixture(t,
		"FACTURA-12-34.pdf",
		"FACTURA-56-78.pdf",
		"carta.pdf",
	)

	var buf bytes.Buffer
	err := runPreview(context.Background(), testConfig(t), &buf, spreadsheet, []string{docsDir}, "")
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "JC-PIC-12-34") || !strings.Contains(out, "JC-PIC-56-78") {
		t.Errorf("Expected rendered identifiers in output, got:\n%s", out)
	}
	if !strings.Contains(out, "1 file(s) do not match") || !strings.Contains(out, "carta.pdf") {
		t.Errorf("Expected unmatched warning in output, got:\n%s", out)
	}
	if !strings.Contains(out, "3 file(s) in batch") {
		t.Errorf("Expected full batch count in summary, got:\n%s", out)
	}
	if !strings.Contains(out, "✓ Ready to submit") {
		t.Errorf("Expected readiness marker, got:\n%s", out)
	}
}

func TestRunPreview_EmptyFolderNotReady(t *testing.T) {
	spreadsheet, docsDir := writeFixture(t)

	var buf bytes.Buffer
	err := runPreview(context.Background(), testConfig(t), &buf, spreadsheet, []string{docsDir}, "")
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	if !strings.Contains(buf.String(), "✗ Not ready") {
		t.Errorf("Expected not-ready marker for empty batch, got:\n%s", buf.String())
	}
}

func TestRunPreview_SpreadsheetMustBeAFile(t *testing.T) {
	_, docsDir := writeFixture(t, "FACTURA-1-2.pdf")

	var buf bytes.Buffer
	err := runPreview(context.Background(), testConfig(t), &buf, docsDir, []string{docsDir}, "")
	if err == nil || !strings.Contains(err.Error(), "regular file") {
		t.Fatalf("Expected regular-file error for directory spreadsheet, got: %v", err)
	}
}

func TestRunPreview_ManifestReconciliation(t *testing.T) {
	spreadsheet, docsDir := writeFixture(t,
		"FACTURA-12-34.pdf",
		"FACTURA-56-78.pdf",
	)

	manifestPath := filepath.Join(t.TempDir(), "esperadas.md")
	manifest := `# Órdenes esperadas

- [ ] JC-PIC-12-34
- [ ] JC-PIC-9-9
`
	if err := os.WriteFile(manifestPath, []byte(manifest), 0644); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}

	var buf bytes.Buffer
	err := runPreview(context.Background(), testConfig(t), &buf, spreadsheet, []string{docsDir}, manifestPath)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Manifest: 2 expected, 1 present, 1 missing, 1 unexpected") {
		t.Errorf("Expected reconciliation summary, got:\n%s", out)
	}
	if !strings.Contains(out, "✗ missing JC-PIC-9-9") {
		t.Errorf("Expected missing identifier line, got:\n%s", out)
	}
	if !strings.Contains(out, "? unexpected JC-PIC-56-78") {
		t.Errorf("Expected unexpected identifier line, got:\n%s", out)
	}
}

func TestPreviewCommand_ViaCommandTree(t *testing.T) {
	spreadsheet, docsDir := writeFixture(t, "FACTURA-12-34.pdf")

	root := NewRootCommand()
	root.SetArgs([]string{"preview", spreadsheet, docsDir})

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)

	if err := root.Execute(); err != nil {
		t.Fatalf("Preview command failed: %v", err)
	}
	if !strings.Contains(buf.String(), "JC-PIC-12-34") {
		t.Errorf("Expected identifier in command output, got:\n%s", buf.String())
	}
}

func TestPreviewCommand_RequiresArgs(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"preview", "only-one-arg"})

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)

	if err := root.Execute(); err == nil {
		t.Fatal("Expected error for missing document paths")
	}
}
