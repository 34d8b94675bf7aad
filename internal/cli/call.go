package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecrtools/combridge/internal/audit"
	"github.com/ecrtools/combridge/internal/bridge"
	"github.com/ecrtools/combridge/internal/comauto"
	"github.com/ecrtools/combridge/internal/wire"
)

// CallOptions holds flags for the call command.
type CallOptions struct {
	*RootOptions
	Input   string
	AuditDB string
	Pretty  bool

	// Runtime allows overriding the automation runtime (for testing).
	// If nil, defaults to the COM runtime.
	Runtime bridge.Runtime
}

// NewCallCommand creates the call command.
func NewCallCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CallOptions{RootOptions: rootOpts}
	cmd := newCallCommand(opts)
	return cmd
}

// newCallCommand builds the command around explicit options so tests can
// inject a fake runtime.
func newCallCommand(opts *CallOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call",
		Short: "Invoke one method described as JSON on stdin",
		Long: `Invoke one method on a COM automation object.

Reads a single JSON command from stdin (or --input), performs exactly one
instantiate-call-release cycle, and writes the JSON result envelope to
stdout.

Example:
  echo '{"version":"1","prog_id":"ECR2ATL.ECR2Transaction","method":"Cancellation",
         "properties":{"ReqInvoiceNumber":"NR12345"}}' | combridge call`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Input, "input", "", "read the command from a file instead of stdin")
	cmd.Flags().StringVar(&opts.AuditDB, "audit-db", "", "append the invocation to a SQLite audit log")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "indent the response envelope")

	return cmd
}

func runCall(opts *CallOptions, cmd *cobra.Command) error {
	data, err := readCommand(opts, cmd)
	if err != nil {
		return WrapExitError(ExitInput, "reading command", err)
	}

	command, err := wire.ParseCommand(data)
	if err != nil {
		// Not JSON at all: no envelope, the input never reached the
		// pipeline.
		if errors.Is(err, wire.ErrMalformed) {
			return WrapExitError(ExitInput, "malformed input", err)
		}
		// Valid JSON, bad schema: callers still get a coded envelope.
		var schemaErr *wire.SchemaError
		if errors.As(err, &schemaErr) {
			if werr := writeResponse(cmd, opts.Pretty, bridge.InputResponse(err)); werr != nil {
				return WrapExitError(ExitInput, "writing response", werr)
			}
			return WrapExitError(ExitInput, "invalid command", err)
		}
		return WrapExitError(ExitInput, "parsing command", err)
	}

	rt := opts.Runtime
	if rt == nil {
		rt = comauto.NewRuntime()
	}

	started := time.Now()
	outcome, runErr := bridge.Execute(rt, command)
	duration := time.Since(started)

	if runErr != nil && bridge.IsFatal(runErr) {
		// The runtime cannot be trusted to produce a correct response.
		return WrapExitError(ExitInput, "fatal runtime failure", runErr)
	}

	resp, exit := bridge.Respond(outcome, runErr)
	if err := writeResponse(cmd, opts.Pretty, resp); err != nil {
		return WrapExitError(ExitInput, "writing response", err)
	}

	recordAudit(opts, command, resp, duration)

	if exit != ExitSuccess {
		return WrapExitError(exit, bridge.Code(resp.Error.Code).String(), runErr)
	}
	return nil
}

// readCommand pulls the raw request from --input or stdin.
func readCommand(opts *CallOptions, cmd *cobra.Command) ([]byte, error) {
	if opts.Input != "" {
		return os.ReadFile(opts.Input)
	}
	return io.ReadAll(cmd.InOrStdin())
}

// writeResponse emits the envelope on stdout, newline-terminated.
func writeResponse(cmd *cobra.Command, pretty bool, resp *wire.Response) error {
	data, err := resp.Encode(pretty)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// recordAudit appends the run to the audit log when requested. Audit
// failures are diagnostics, never a changed response or exit code.
func recordAudit(opts *CallOptions, command *wire.Command, resp *wire.Response, duration time.Duration) {
	if opts.AuditDB == "" {
		return
	}

	store, err := audit.Open(opts.AuditDB)
	if err != nil {
		slog.Warn("audit log unavailable", "path", opts.AuditDB, "error", err)
		return
	}
	defer store.Close()

	inv := audit.Invocation{
		ProgID:     command.ProgID,
		Method:     command.Method,
		Outcome:    "ok",
		DurationMS: duration.Milliseconds(),
	}
	if resp.Error != nil {
		inv.Outcome = bridge.Code(resp.Error.Code).String()
		inv.Code = resp.Error.Code
		inv.Status = resp.Error.Status
	}
	if id, err := store.Record(inv); err != nil {
		slog.Warn("audit record failed", "error", err)
	} else {
		slog.Debug("audit recorded", "id", id)
	}
}
