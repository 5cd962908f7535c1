package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vmoreno/opibatch/internal/batch"
	"github.com/vmoreno/opibatch/internal/client"
	"github.com/vmoreno/opibatch/internal/config"
	"github.com/vmoreno/opibatch/internal/display"
	"github.com/vmoreno/opibatch/internal/history"
	"github.com/vmoreno/opibatch/internal/match"
)

// NewSubmitCommand creates and returns the submit subcommand
func NewSubmitCommand() *cobra.Command {
	var (
		outputDir string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "submit <spreadsheet> <path>...",
		Short: "Submit the collected batch to the processing backend",
		Long: `Collect PDF documents from the given files and folders and post them,
together with the spreadsheet, to the processing backend. The generated
result spreadsheet is saved under a date-stamped name.

A failed submission changes nothing locally: the collected batch and any
previous results stay as they were.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}
			return runSubmit(cmd.Context(), cfg, cmd.OutOrStdout(), args[0], args[1:], dryRun)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory to save the result into (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "collect and validate without contacting the backend")

	return cmd
}

func runSubmit(ctx context.Context, cfg *config.Config, out io.Writer, spreadsheetPath string, documentPaths []string, dryRun bool) error {
	assembler, err := collectBatch(ctx, cfg, out, spreadsheetPath, documentPaths)
	if err != nil {
		return err
	}

	listing, overflow := assembler.FirstN(batch.ListingLimit)
	fmt.Fprintln(out)
	display.RenderListing(out, listing, overflow)

	matcher := match.NewMatcher(cfg.TagPrefix)
	matched := 0
	var unmatched []string
	for _, f := range assembler.Documents() {
		if matcher.Match(f.Name).Matched {
			matched++
		} else {
			unmatched = append(unmatched, f.Name)
		}
	}
	if len(unmatched) > 0 {
		fmt.Fprintln(out)
		display.WarnUnmatched(unmatched).Display(out)
	}

	if !assembler.Ready() {
		return fmt.Errorf("nothing to submit: no %s documents were collected", cfg.DocumentExtension)
	}

	if dryRun {
		fmt.Fprintf(out, "\n✓ Dry run: %d document(s) ready, nothing submitted\n", assembler.Count())
		return nil
	}

	spreadsheet, _ := assembler.Spreadsheet()
	submitter := client.NewSubmitter(cfg.Service)

	fmt.Fprintf(out, "\nSubmitting %d document(s) to %s...\n", assembler.Count(), cfg.Service.BaseURL)

	result, err := submitter.Submit(ctx, spreadsheet, assembler.Documents())
	if err != nil {
		recordSubmission(ctx, cfg, out, assembler, spreadsheet.Name, matched, history.Submission{
			Status: history.StatusFailed,
			Detail: err.Error(),
		})
		return fmt.Errorf("submission failed: %w", err)
	}

	path, err := submitter.SaveResult(result, cfg.OutputDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Result saved to %s\n", path)

	recordSubmission(ctx, cfg, out, assembler, spreadsheet.Name, matched, history.Submission{
		Status:     history.StatusSucceeded,
		ResultPath: path,
	})
	return nil
}

// recordSubmission appends the attempt to the local history store. History
// is bookkeeping: failure to record is reported but never fails the
// submission itself.
func recordSubmission(ctx context.Context, cfg *config.Config, out io.Writer, assembler *batch.Assembler, spreadsheet string, matched int, sub history.Submission) {
	store, err := history.NewStore(cfg.HistoryPath)
	if err != nil {
		fmt.Fprintf(out, "✗ Could not open history store: %v\n", err)
		return
	}
	defer store.Close()

	sub.Spreadsheet = spreadsheet
	sub.DocumentCount = assembler.Count()
	sub.MatchedCount = matched

	if _, err := store.Record(ctx, sub); err != nil {
		fmt.Fprintf(out, "✗ Could not record submission history: %v\n", err)
	}
}
