package variant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Sentinel errors for conversion failures. Callers classify with errors.Is.
var (
	// ErrUnsupported marks a JSON kind or variant tag with no counterpart
	// on the other side (objects, arrays, error-coded results).
	ErrUnsupported = errors.New("unsupported value type")

	// ErrNonFinite marks a floating-point result that JSON cannot carry.
	ErrNonFinite = errors.New("non-finite number")
)

// FromJSON converts a single JSON value into its automation representation.
//
// The mapping is total over JSON scalars: null becomes Empty, booleans map
// directly, numbers without a fractional part that fit a signed 32-bit
// integer become Int, all other numbers widen to Float, strings map
// directly. Objects and arrays fail with ErrUnsupported.
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON value: %w", err)
	}
	return fromAny(raw)
}

// FromGo converts a decoded Go value (as produced by encoding/json or
// yaml.v3) into its automation representation. Numeric Go kinds follow the
// same 32-bit rule as FromJSON.
func FromGo(v any) (Value, error) {
	return fromAny(v)
}

func fromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Empty{}, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		return fromNumber(val)
	case int:
		return fromInt64(int64(val)), nil
	case int64:
		return fromInt64(val), nil
	case float64:
		if val == math.Trunc(val) && val >= math.MinInt32 && val <= math.MaxInt32 {
			return Int(int32(val)), nil
		}
		return Float(val), nil
	case map[string]any:
		return nil, fmt.Errorf("%w: object", ErrUnsupported)
	case []any:
		return nil, fmt.Errorf("%w: array", ErrUnsupported)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
	}
}

// fromNumber applies the lexical integer rule: a number token with a
// fractional part or exponent widens to Float even when its value is
// integral, matching the JSON type tag rather than guessing.
func fromNumber(n json.Number) (Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return fromInt64(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: number %s", ErrUnsupported, s)
	}
	return Float(f), nil
}

func fromInt64(i int64) Value {
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		return Int(int32(i))
	}
	// Out of VT_I4 range: widen rather than truncate.
	return Float(float64(i))
}

// ToJSON converts an automation value back to JSON text.
//
// Floats use the shortest representation that round-trips exactly; NaN and
// infinities fail with ErrNonFinite. ErrorCode has no JSON counterpart and
// fails with ErrUnsupported.
func ToJSON(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Empty:
		return []byte("null"), nil
	case Bool:
		return json.Marshal(bool(val))
	case Int:
		return json.Marshal(int32(val))
	case Float:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %v", ErrNonFinite, f)
		}
		return json.Marshal(f)
	case String:
		return json.Marshal(string(val))
	case ErrorCode:
		return nil, fmt.Errorf("%w: error-coded result 0x%08x", ErrUnsupported, uint32(int32(val)))
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
	}
}
