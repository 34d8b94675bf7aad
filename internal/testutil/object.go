// Package testutil provides scriptable stand-ins for the automation
// runtime so the pipeline can be exercised deterministically on any
// platform.
package testutil

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ecrtools/combridge/internal/dispatch"
	"github.com/ecrtools/combridge/internal/variant"
)

// Object is a fake automation object with a configurable dispatch table.
// Name matching is NFC-normalized and case-insensitive, mirroring the
// locale-neutral matching of real dispatch tables.
type Object struct {
	methods map[string]*Method       // keyed by folded method name
	names   map[string]dispatch.ID   // folded name -> id (methods, args, properties)
	byID    map[dispatch.ID]string   // id -> folded name
	props   map[string]variant.Value // folded property name -> value
	nextID  dispatch.ID

	// Calls records every performed invocation for side-effect checks.
	Calls []Call

	// Released counts Release calls; exactly one is correct.
	Released int

	// onRelease, when set, reports the release to the owning runtime's
	// trace.
	onRelease func()
}

// Method describes one invocable entry of the fake dispatch table.
type Method struct {
	Name   string
	Args   []string // recognized argument names
	Result variant.Value
	Raise  *dispatch.AutomationError

	argIDs map[dispatch.ID]string
}

// Call records one performed invocation with the argument values the
// object received, keyed by argument name.
type Call struct {
	Method string
	Args   map[string]variant.Value
}

// NewObject returns an empty fake object.
func NewObject() *Object {
	return &Object{
		methods: map[string]*Method{},
		names:   map[string]dispatch.ID{},
		byID:    map[dispatch.ID]string{},
		props:   map[string]variant.Value{},
		nextID:  1,
	}
}

// AddMethod registers a method with its recognized argument names and a
// canned result. Returns the object for chaining.
func (o *Object) AddMethod(name string, args []string, result variant.Value) *Object {
	m := &Method{Name: name, Args: args, Result: result, argIDs: map[dispatch.ID]string{}}
	o.methods[fold(name)] = m
	o.assign(name)
	for _, arg := range args {
		id := o.assign(arg)
		m.argIDs[id] = arg
	}
	return o
}

// RaiseOn makes a registered method fail with structured exception
// information instead of returning its result.
func (o *Object) RaiseOn(name string, err *dispatch.AutomationError) *Object {
	if m, ok := o.methods[fold(name)]; ok {
		m.Raise = err
	}
	return o
}

// SetProperty registers a gettable property value.
func (o *Object) SetProperty(name string, val variant.Value) *Object {
	o.props[fold(name)] = val
	o.assign(name)
	return o
}

// assign hands out one id per distinct folded name.
func (o *Object) assign(name string) dispatch.ID {
	key := fold(name)
	if id, ok := o.names[key]; ok {
		return id
	}
	id := o.nextID
	o.nextID++
	o.names[key] = id
	o.byID[id] = key
	return id
}

// ResolveID implements dispatch.Dispatchable.
func (o *Object) ResolveID(name string) (dispatch.ID, error) {
	if id, ok := o.names[fold(name)]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("%q: %w", name, dispatch.ErrUnknownName)
}

// Invoke implements dispatch.Dispatchable with method semantics.
func (o *Object) Invoke(method dispatch.ID, args []dispatch.NamedArg) (variant.Value, error) {
	name, ok := o.byID[method]
	if !ok {
		return nil, &dispatch.AutomationError{Status: -2147352570, Description: "unknown dispatch id"}
	}
	m, ok := o.methods[name]
	if !ok {
		return nil, &dispatch.AutomationError{Status: -2147352573, Description: fmt.Sprintf("%s is not a method", name)}
	}

	call := Call{Method: m.Name, Args: map[string]variant.Value{}}
	for _, arg := range args {
		argName, ok := m.argIDs[arg.ID]
		if !ok {
			return nil, &dispatch.AutomationError{Status: -2147352572, Description: fmt.Sprintf("argument id %d not recognized", arg.ID)}
		}
		call.Args[argName] = arg.Value
	}

	if m.Raise != nil {
		return nil, m.Raise
	}

	o.Calls = append(o.Calls, call)
	if m.Result == nil {
		return variant.Empty{}, nil
	}
	return m.Result, nil
}

// GetProperty implements dispatch.Dispatchable with property-get
// semantics.
func (o *Object) GetProperty(id dispatch.ID) (variant.Value, error) {
	name, ok := o.byID[id]
	if !ok {
		return nil, &dispatch.AutomationError{Status: -2147352570, Description: "unknown dispatch id"}
	}
	val, ok := o.props[name]
	if !ok {
		return nil, &dispatch.AutomationError{Status: -2147352573, Description: fmt.Sprintf("%s is not a property", name)}
	}
	return val, nil
}

// Release implements dispatch.Dispatchable.
func (o *Object) Release() {
	o.Released++
	if o.onRelease != nil {
		o.onRelease()
	}
}

// fold canonicalizes a name the way the fake's table matches: NFC
// normalization, then simple case folding.
func fold(name string) string {
	return strings.ToLower(norm.NFC.String(name))
}
