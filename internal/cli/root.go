package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the combridge CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "combridge",
		Short: "JSON bridge to COM automation objects",
		Long: `combridge invokes methods on registered COM automation objects,
taking the call description as JSON on stdin and answering with JSON on
stdout. One process performs exactly one instantiate-call-release cycle.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(cmd, opts.Verbose)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose diagnostics on stderr")

	// Add subcommands
	cmd.AddCommand(NewCallCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))

	return cmd
}

// configureLogging routes diagnostics to stderr so stdout stays a pure
// JSON channel.
func configureLogging(cmd *cobra.Command, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
