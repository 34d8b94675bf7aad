package harness

import (
	"errors"
	"fmt"

	"github.com/ecrtools/combridge/internal/bridge"
	"github.com/ecrtools/combridge/internal/dispatch"
	"github.com/ecrtools/combridge/internal/testutil"
	"github.com/ecrtools/combridge/internal/variant"
	"github.com/ecrtools/combridge/internal/wire"
)

// Result captures what one scenario run produced.
type Result struct {
	// ExitCode is the process exit code the run maps to.
	ExitCode int

	// Envelope is the exact stdout envelope, nil when the input was so
	// malformed that no envelope is written.
	Envelope []byte

	// Runtime exposes the fake runtime for lifecycle-ordering
	// assertions.
	Runtime *testutil.Runtime
}

// Run executes one scenario against a fake runtime built from its object
// specs, mirroring exactly what the call command does with stdin bytes.
func Run(scenario *Scenario) (*Result, error) {
	rt, err := buildRuntime(scenario)
	if err != nil {
		return nil, err
	}
	result := &Result{Runtime: rt}

	command, err := wire.ParseCommand([]byte(scenario.Command))
	if err != nil {
		if errors.Is(err, wire.ErrMalformed) {
			result.ExitCode = bridge.ExitInput
			return result, nil
		}
		var schemaErr *wire.SchemaError
		if errors.As(err, &schemaErr) {
			envelope, encErr := bridge.InputResponse(err).Encode(false)
			if encErr != nil {
				return nil, encErr
			}
			result.ExitCode = bridge.ExitInput
			result.Envelope = envelope
			return result, nil
		}
		return nil, err
	}

	outcome, runErr := bridge.Execute(rt, command)
	if runErr != nil && bridge.IsFatal(runErr) {
		result.ExitCode = bridge.ExitInput
		return result, nil
	}

	resp, exit := bridge.Respond(outcome, runErr)
	envelope, err := resp.Encode(false)
	if err != nil {
		return nil, err
	}
	result.ExitCode = exit
	result.Envelope = envelope
	return result, nil
}

// buildRuntime scripts a fake runtime from the scenario's object specs.
func buildRuntime(scenario *Scenario) (*testutil.Runtime, error) {
	rt := testutil.NewRuntime()
	for progID, spec := range scenario.Objects {
		obj := testutil.NewObject()
		for name, m := range spec.Methods {
			var result variant.Value
			if m.Result != nil {
				val, err := variant.FromGo(m.Result)
				if err != nil {
					return nil, fmt.Errorf("objects[%s].%s.result: %w", progID, name, err)
				}
				result = val
			}
			obj.AddMethod(name, m.Args, result)
			if m.Raise != nil {
				obj.RaiseOn(name, &dispatch.AutomationError{
					Status:      m.Raise.Status,
					Description: m.Raise.Description,
					Source:      m.Raise.Source,
				})
			}
		}
		for name, raw := range spec.Properties {
			val, err := variant.FromGo(raw)
			if err != nil {
				return nil, fmt.Errorf("objects[%s].properties[%s]: %w", progID, name, err)
			}
			obj.SetProperty(name, val)
		}
		rt.Register(progID, obj)
	}
	return rt, nil
}
