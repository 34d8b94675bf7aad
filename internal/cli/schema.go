package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecrtools/combridge/internal/wire"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the CUE schema for the request envelope",
		Long: `Print the CUE schema a call request must satisfy.

Integrators can validate commands offline before piping them in:
  combridge schema > command.cue`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), wire.Schema())
			return nil
		},
	}
}
