package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecrtools/combridge/internal/audit"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent invocations from an audit log",
		Long: `List recent invocations recorded with --audit-db, newest first.

Example:
  combridge history --db ./combridge.db --limit 10`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the audit database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum rows to list")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	store, err := audit.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitInput, "opening audit database", err)
	}
	defer store.Close()

	rows, err := store.Recent(opts.Limit)
	if err != nil {
		return WrapExitError(ExitInput, "reading audit database", err)
	}

	for _, inv := range rows {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s.%s  %s (code=%d, %dms)\n",
			inv.CreatedAt.UTC().Format(time.RFC3339),
			inv.ID,
			inv.ProgID,
			inv.Method,
			inv.Outcome,
			inv.Code,
			inv.DurationMS,
		)
	}
	return nil
}
