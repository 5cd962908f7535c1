package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vmoreno/opibatch/internal/config"
	"github.com/vmoreno/opibatch/internal/history"
)

// NewHistoryCommand creates and returns the history subcommand
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent submission attempts",
		Long: `List recent submission attempts from the local history store, newest
first, with their outcome and where the result was saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runHistory(cmd.Context(), cfg, cmd.OutOrStdout(), limit)
		},
		SilenceUsage: true,
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries to show")

	return cmd
}

func runHistory(ctx context.Context, cfg *config.Config, out io.Writer, limit int) error {
	store, err := history.NewStore(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	subs, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}

	if len(subs) == 0 {
		fmt.Fprintln(out, "No submissions recorded yet.")
		return nil
	}

	for _, sub := range subs {
		marker := "✓"
		if sub.Status != history.StatusSucceeded {
			marker = "✗"
		}
		fmt.Fprintf(out, "%s %s  %s  %d document(s), %d matched\n",
			marker, sub.SubmittedAt.Local().Format("2006-01-02 15:04"),
			sub.Spreadsheet, sub.DocumentCount, sub.MatchedCount)
		if sub.Status == history.StatusSucceeded && sub.ResultPath != "" {
			fmt.Fprintf(out, "    result: %s\n", sub.ResultPath)
		}
		if sub.Detail != "" {
			fmt.Fprintf(out, "    %s\n", sub.Detail)
		}
	}
	return nil
}
