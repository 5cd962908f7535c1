package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vmoreno/opibatch/internal/batch"
	"github.com/vmoreno/opibatch/internal/config"
	"github.com/vmoreno/opibatch/internal/display"
	"github.com/vmoreno/opibatch/internal/manifest"
	"github.com/vmoreno/opibatch/internal/match"
	"github.com/vmoreno/opibatch/internal/preview"
)

// NewPreviewCommand creates and returns the preview subcommand
func NewPreviewCommand() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "preview <spreadsheet> <path>...",
		Short: "Collect documents and show the submission preview",
		Long: `Collect PDF documents from the given files and folders, extract account
identifiers from their names, and print the table the processing backend
will work from.

Folders are expanded recursively; files whose names do not carry an
identifier are flagged but stay in the batch. Nothing is submitted.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runPreview(cmd.Context(), cfg, cmd.OutOrStdout(), args[0], args[1:], manifestPath)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Markdown checklist of expected identifiers to reconcile against")

	return cmd
}

func runPreview(ctx context.Context, cfg *config.Config, out io.Writer, spreadsheetPath string, documentPaths []string, manifestPath string) error {
	assembler, err := collectBatch(ctx, cfg, out, spreadsheetPath, documentPaths)
	if err != nil {
		return err
	}

	matcher := match.NewMatcher(cfg.TagPrefix)
	renderer := preview.NewRenderer(matcher, batch.PreviewLimit)

	rows, summary := renderer.Render(assembler.Documents())
	fmt.Fprintln(out)
	display.RenderPreview(out, rows, summary)

	if unmatched := renderer.Unmatched(assembler.Documents()); len(unmatched) > 0 {
		fmt.Fprintln(out)
		display.WarnUnmatched(unmatched).Display(out)
	}

	if manifestPath != "" {
		if err := reconcileManifest(out, cfg, matcher, assembler, manifestPath); err != nil {
			return err
		}
	}

	fmt.Fprintln(out)
	if assembler.Ready() {
		fmt.Fprintf(out, "✓ Ready to submit\n")
	} else {
		fmt.Fprintf(out, "✗ Not ready: the batch is empty\n")
	}
	return nil
}

// reconcileManifest compares the collected identifiers against an expected
// checklist and reports each group.
func reconcileManifest(out io.Writer, cfg *config.Config, matcher *match.Matcher, assembler *batch.Assembler, manifestPath string) error {
	m, err := manifest.ParseFile(manifestPath, cfg.TagPrefix)
	if err != nil {
		return err
	}

	var collected []string
	for _, f := range assembler.Documents() {
		if result := matcher.Match(f.Name); result.Matched {
			collected = append(collected, result.Identifier)
		}
	}

	rec := m.Reconcile(collected)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Manifest: %d expected, %d present, %d missing, %d unexpected\n",
		len(m.Identifiers), len(rec.Present), len(rec.Missing), len(rec.Unexpected))
	for _, id := range rec.Missing {
		fmt.Fprintf(out, "  ✗ missing %s\n", matcher.Render(id))
	}
	for _, id := range rec.Unexpected {
		fmt.Fprintf(out, "  ? unexpected %s\n", matcher.Render(id))
	}
	if len(rec.Missing) == 0 && len(rec.Unexpected) == 0 {
		fmt.Fprintf(out, "  ✓ batch matches the manifest\n")
	}
	return nil
}
