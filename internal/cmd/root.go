// Package cmd wires the opibatch command tree.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// DefaultConfigPath is where the optional YAML configuration is looked up
// when --config is not given.
const DefaultConfigPath = ".opibatch.yaml"

// NewRootCommand creates and returns the root cobra command for opibatch
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "opibatch",
		Short: "Collect and submit payment-order PDF batches",
		Long: `Opibatch collects payment-order PDF documents from files and folders,
extracts account identifiers from their names, and submits them together
with a spreadsheet to the processing backend.

The generated result spreadsheet is downloaded next to where you run the
command, under a date-stamped name.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", DefaultConfigPath, "path to the opibatch YAML configuration")

	// Add subcommands
	cmd.AddCommand(NewPreviewCommand())
	cmd.AddCommand(NewSubmitCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
