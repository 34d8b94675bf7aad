// Package dispatch defines the capability surface of a live automation
// object: name-to-identifier resolution and named-argument invocation.
//
// Every automation object, real or fake, is reached only through the
// Dispatchable interface. The identifiers it hands out are valid only
// relative to the object that resolved them and are never cached across
// objects or process runs.
package dispatch

import (
	"errors"
	"fmt"

	"github.com/ecrtools/combridge/internal/variant"
)

// ID is a numeric dispatch identifier resolved from a name against one
// specific object.
type ID int32

// NamedArg pairs a resolved argument identifier with its marshaled value.
type NamedArg struct {
	ID    ID
	Value variant.Value
}

// ErrUnknownName is returned by ResolveID when the object's dispatch table
// has no entry for a name. This is a normal outcome (caller typo), not an
// internal error; callers classify it with errors.Is.
var ErrUnknownName = errors.New("name not in dispatch table")

// Dispatchable is the capability interface over a live automation object.
//
// ResolveID maps a method or property name to its dispatch identifier,
// passing the raw name through; the object's own name table governs
// matching (case-insensitive, locale-neutral).
//
// Invoke performs a single call with method semantics, supplying arguments
// by identifier rather than position. Object-raised failures surface as
// *AutomationError.
//
// GetProperty reads a property value with property-get semantics.
//
// Release frees the underlying handle. It must be called exactly once;
// the pipeline owns the object for the duration of one run and releases
// it on every exit path.
type Dispatchable interface {
	ResolveID(name string) (ID, error)
	Invoke(method ID, args []NamedArg) (variant.Value, error)
	GetProperty(id ID) (variant.Value, error)
	Release()
}

// AutomationError carries the structured exception information an
// automation object supplies when its own logic fails during a call,
// alongside the native status code.
type AutomationError struct {
	// Status is the native status code (HRESULT or exception scode).
	Status int32

	// Description is the object-supplied failure text, if any.
	Description string

	// Source names the originating component, if supplied.
	Source string

	// HelpContext is an object-supplied help reference, zero when absent.
	HelpContext uint32
}

// Error implements the error interface.
func (e *AutomationError) Error() string {
	if e.Description != "" {
		if e.Source != "" {
			return fmt.Sprintf("0x%08x: %s (source=%s)", uint32(e.Status), e.Description, e.Source)
		}
		return fmt.Sprintf("0x%08x: %s", uint32(e.Status), e.Description)
	}
	return fmt.Sprintf("call failed with status 0x%08x", uint32(e.Status))
}
