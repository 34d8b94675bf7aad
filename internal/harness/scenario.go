// Package harness runs end-to-end bridge scenarios described in YAML:
// a scripted automation object, one JSON command, and the expected
// envelope. Golden tests snapshot the exact stdout bytes.
package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one end-to-end bridge test case.
type Scenario struct {
	// Name uniquely identifies this scenario; golden files use it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Objects maps prog_ids to scripted automation objects available to
	// the run. A command naming any other prog_id gets ClassNotFound.
	Objects map[string]ObjectSpec `yaml:"objects"`

	// Command is the raw JSON request, exactly as it would arrive on
	// stdin.
	Command string `yaml:"command"`

	// Expect describes the outcome the scenario must produce.
	Expect Expect `yaml:"expect"`
}

// ObjectSpec scripts one fake automation object.
type ObjectSpec struct {
	// Methods maps method names to their dispatch behavior.
	Methods map[string]MethodSpec `yaml:"methods"`

	// Properties maps gettable property names to scalar values, for
	// commands using fetch.
	Properties map[string]any `yaml:"properties,omitempty"`
}

// MethodSpec scripts one method of a fake object.
type MethodSpec struct {
	// Args lists the argument names the method recognizes.
	Args []string `yaml:"args,omitempty"`

	// Result is the scalar the method returns; absent means an empty
	// return value.
	Result any `yaml:"result,omitempty"`

	// Raise, when set, makes the call fail with structured exception
	// information instead of returning.
	Raise *RaiseSpec `yaml:"raise,omitempty"`
}

// RaiseSpec scripts an object-raised failure.
type RaiseSpec struct {
	Status      int32  `yaml:"status"`
	Description string `yaml:"description"`
	Source      string `yaml:"source,omitempty"`
}

// Expect describes the outcome a scenario must produce.
type Expect struct {
	// ExitCode is the process exit code: 0 success, 1 resolved failure,
	// 2 input that never reached the pipeline.
	ExitCode int `yaml:"exit_code"`

	// ErrorCode is the bridge error code for exit codes 1 and 2 with an
	// envelope; zero for success.
	ErrorCode int `yaml:"error_code,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected to catch typos.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Command == "" {
		return fmt.Errorf("command is required")
	}
	for progID, obj := range s.Objects {
		if progID == "" {
			return fmt.Errorf("objects: empty prog_id key")
		}
		for name, m := range obj.Methods {
			if name == "" {
				return fmt.Errorf("objects[%s]: empty method name", progID)
			}
			if m.Raise != nil && m.Raise.Status == 0 {
				return fmt.Errorf("objects[%s].%s.raise: status is required", progID, name)
			}
		}
	}
	return nil
}
