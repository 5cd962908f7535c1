package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vmoreno/opibatch/internal/config"
	"github.com/vmoreno/opibatch/internal/history"
)

func TestRunHistory_Empty(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.HistoryPath = filepath.Join(t.TempDir(), "history.db")

	var buf bytes.Buffer
	if err := runHistory(context.Background(), cfg, &buf, 20); err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No submissions recorded yet.") {
		t.Errorf("Expected empty notice, got:\n%s", buf.String())
	}
}

func TestRunHistory_ListsOutcomes(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.HistoryPath = filepath.Join(t.TempDir(), "history.db")

	store, err := history.NewStore(cfg.HistoryPath)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	base := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	records := []history.Submission{
		{
			SubmittedAt:   base,
			Spreadsheet:   "listado.xlsx",
			DocumentCount: 3,
			MatchedCount:  2,
			Status:        history.StatusSucceeded,
			ResultPath:    "/out/NOTIFICACIONESCOACTIVA_OPI_2026-08-24.xlsx",
		},
		{
			SubmittedAt:   base.Add(time.Hour),
			Spreadsheet:   "listado.xlsx",
			DocumentCount: 3,
			MatchedCount:  2,
			Status:        history.StatusFailed,
			Detail:        "Archivo Excel inválido",
		},
	}
	for _, rec := range records {
		if _, err := store.Record(context.Background(), rec); err != nil {
			t.Fatalf("Failed to record submission: %v", err)
		}
	}
	store.Close()

	var buf bytes.Buffer
	if err := runHistory(context.Background(), cfg, &buf, 20); err != nil {
		t.Fatalf("History failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "✓") || !strings.Contains(out, "✗") {
		t.Errorf("Expected both outcome markers, got:\n%s", out)
	}
	if !strings.Contains(out, "3 document(s), 2 matched") {
		t.Errorf("Expected counts line, got:\n%s", out)
	}
	if !strings.Contains(out, "result: /out/NOTIFICACIONESCOACTIVA_OPI_2026-08-24.xlsx") {
		t.Errorf("Expected result path, got:\n%s", out)
	}
	if !strings.Contains(out, "Archivo Excel inválido") {
		t.Errorf("Expected failure detail, got:\n%s", out)
	}

	// Newest first: the failed attempt precedes the successful one.
	if strings.Index(out, "✗") > strings.Index(out, "result:") {
		t.Errorf("Expected newest entry first, got:\n%s", out)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	for _, name := range []string{"preview", "submit", "history"} {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected %s subcommand to be registered", name)
		}
	}
}
