package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vmoreno/opibatch/internal/batch"
	"github.com/vmoreno/opibatch/internal/config"
	"github.com/vmoreno/opibatch/internal/display"
	"github.com/vmoreno/opibatch/internal/entry"
	"github.com/vmoreno/opibatch/internal/models"
)

// ErrNotAFile indicates the spreadsheet argument resolved to something other
// than a regular file.
var ErrNotAFile = errors.New("spreadsheet must be a regular file")

// collectBatch resolves the spreadsheet slot and the document payload into a
// freshly populated assembler. Each invocation is one user action: the
// assembler starts empty and is filled exactly once.
func collectBatch(ctx context.Context, cfg *config.Config, out io.Writer, spreadsheetPath string, documentPaths []string) (*batch.Assembler, error) {
	assembler := batch.NewAssembler()

	spreadsheet, err := resolveSpreadsheet(spreadsheetPath)
	if err != nil {
		return nil, err
	}
	assembler.SetSpreadsheet(spreadsheet)

	entries, err := entry.FromPaths(documentPaths)
	if err != nil {
		return nil, err
	}

	progress := display.NewProgressIndicator(out, len(entries))
	progress.Start()
	for _, path := range documentPaths {
		progress.Step(path)
	}

	resolver := entry.NewResolver(cfg.DocumentExtension,
		entry.WithBatchSize(cfg.TraversalBatchSize),
		entry.WithMaxBatches(cfg.TraversalMaxBatches))

	files := resolver.Resolve(ctx, entries)
	assembler.SetDocuments(files)
	progress.Complete(assembler.Count())

	return assembler, nil
}

// resolveSpreadsheet materializes the single-file spreadsheet slot.
func resolveSpreadsheet(path string) (models.FileHandle, error) {
	e, err := entry.FromPath(path)
	if err != nil {
		return models.FileHandle{}, err
	}
	leaf, ok := e.(entry.Leaf)
	if !ok {
		return models.FileHandle{}, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}
	return leaf.Resolve()
}

// loadConfig reads the --config flag (persistent on the root command) and
// loads the configuration, falling back to defaults when the file is absent.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil || path == "" {
		path = DefaultConfigPath
	}
	return config.LoadConfig(path)
}
