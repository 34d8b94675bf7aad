package variant

import "fmt"

// Value is a sealed interface over the automation variant tags the bridge
// supports. Only Empty, Bool, Int, Float, String, and ErrorCode implement it.
// Nested variant kinds (object references, arrays) have no representation
// here and are rejected at the conversion boundary.
type Value interface {
	automationValue() // Sealed - only these types implement it
}

// Empty represents VT_EMPTY (and VT_NULL on the inbound side).
// An explicit type rather than nil so every Value satisfies the sealed
// interface.
type Empty struct{}

func (Empty) automationValue() {}

// Bool represents VT_BOOL.
type Bool bool

func (Bool) automationValue() {}

// Int represents VT_I4, a signed 32-bit integer.
// JSON numbers outside this range take the Float path instead.
type Int int32

func (Int) automationValue() {}

// Float represents VT_R8, an IEEE 754 double.
type Float float64

func (Float) automationValue() {}

// String represents VT_BSTR as UTF-8 text.
type String string

func (String) automationValue() {}

// ErrorCode represents VT_ERROR, a status code carried as a value.
// Nothing on the JSON side maps to it; it exists so inbound variants of
// that kind convert losslessly before being reported as unserializable.
type ErrorCode int32

func (ErrorCode) automationValue() {}

// TagName returns a short name for the value's tag, for diagnostics.
func TagName(v Value) string {
	switch v.(type) {
	case Empty:
		return "empty"
	case Bool:
		return "boolean"
	case Int:
		return "integer"
	case Float:
		return "floating-point"
	case String:
		return "string"
	case ErrorCode:
		return "error-code"
	default:
		return fmt.Sprintf("%T", v)
	}
}
