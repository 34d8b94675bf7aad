// Package wire defines the JSON request and response envelopes of the
// bridge and validates incoming commands against an embedded CUE schema.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Version is the only request version this build understands.
const Version = "1"

// Command is one parsed invocation request. Immutable once parsed; the
// pipeline owns it for the duration of a single run.
type Command struct {
	Version    string                     `json:"version"`
	ProgID     string                     `json:"prog_id"`
	Method     string                     `json:"method"`
	Properties map[string]json.RawMessage `json:"properties"`
	Fetch      []string                   `json:"fetch,omitempty"`
}

// PropertyNames returns the property keys in sorted order. Property order
// carries no meaning on the wire, but resolution and error reporting stay
// deterministic this way.
func (c *Command) PropertyNames() []string {
	names := make([]string, 0, len(c.Properties))
	for name := range c.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ErrMalformed marks input that is not JSON at all. Such input never
// reaches the pipeline and gets no JSON response.
var ErrMalformed = errors.New("input is not valid JSON")

// SchemaError marks syntactically valid JSON that does not satisfy the
// command schema (wrong version, missing fields, wrong field types).
type SchemaError struct {
	Detail string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("command does not match schema: %s", e.Detail)
}

// ParseCommand decodes and validates one request.
//
// Input that is not well-formed JSON fails with ErrMalformed. Well-formed
// JSON that violates the schema fails with *SchemaError. Anything else
// yields a Command the pipeline can trust: version "1", non-empty prog_id
// and method, and properties present as an object.
func ParseCommand(data []byte) (*Command, error) {
	if !json.Valid(data) {
		return nil, ErrMalformed
	}

	if err := validateCommand(data); err != nil {
		return nil, err
	}

	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		// Schema validation passed, so this indicates a representational
		// mismatch the schema could not express.
		return nil, &SchemaError{Detail: err.Error()}
	}
	if cmd.Properties == nil {
		cmd.Properties = map[string]json.RawMessage{}
	}
	return &cmd, nil
}
