package wire

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaSource string

var (
	schemaOnce  sync.Once
	schemaCtx   *cue.Context
	schemaValue cue.Value
	schemaErr   error
)

// Schema returns the embedded CUE source of the request schema, for the
// schema subcommand and external tooling.
func Schema() string {
	return schemaSource
}

// commandSchema compiles the embedded schema once per process.
func commandSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		root := schemaCtx.CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := root.Err(); err != nil {
			schemaErr = fmt.Errorf("compiling command schema: %w", err)
			return
		}
		schemaValue = root.LookupPath(cue.ParsePath("#Command"))
		if err := schemaValue.Err(); err != nil {
			schemaErr = fmt.Errorf("looking up #Command: %w", err)
		}
	})
	return schemaCtx, schemaValue, schemaErr
}

// validateCommand unifies the request JSON with the command schema and
// reports the first violation. The schema is closed, so unknown top-level
// fields are rejected rather than silently carried along.
func validateCommand(data []byte) error {
	ctx, schema, err := commandSchema()
	if err != nil {
		return err
	}

	expr, err := cuejson.Extract("command.json", data)
	if err != nil {
		return &SchemaError{Detail: err.Error()}
	}

	val := ctx.BuildExpr(expr)
	if err := val.Err(); err != nil {
		return &SchemaError{Detail: err.Error()}
	}

	unified := schema.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &SchemaError{Detail: cueerrors.Details(err, nil)}
	}
	return nil
}
