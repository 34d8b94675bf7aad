// Package variant models the tagged automation value type (VARIANT) that
// late-bound COM calls exchange, together with the bidirectional mapping to
// JSON scalars.
//
// This package contains value types and conversions only. It imports
// nothing internal; dispatch, bridge, and comauto all build on it.
//
// Key design constraints:
//   - The union is sealed: exactly empty, boolean, integer (32-bit),
//     floating-point, string, and error-code
//   - JSON type tags are authoritative - a numeric-looking string stays a
//     string, a number with a fractional part stays a float
//   - Integers outside the signed 32-bit range widen to Float, never
//     truncate
//   - Unsupported kinds (objects, arrays, non-finite floats) are declared
//     errors, never silent defaults
package variant
