package testutil

import (
	"fmt"

	"github.com/ecrtools/combridge/internal/bridge"
	"github.com/ecrtools/combridge/internal/dispatch"
)

// Runtime is a fake bridge.Runtime over registered fake objects. It keeps
// an ordered trace of lifecycle events so tests can assert the strict
// init -> create -> release -> teardown ordering on every exit path.
type Runtime struct {
	objects map[string]*Object

	// InitErr, when set, makes Init fail (LifecycleError path).
	InitErr error

	// CreateErr, when set, fails activation of a registered prog_id
	// (InstantiationFailed path).
	CreateErr error

	// Trace records lifecycle events in order: "init", "create",
	// "release", "teardown".
	Trace []string

	active bool
}

// NewRuntime returns an empty fake runtime.
func NewRuntime() *Runtime {
	return &Runtime{objects: map[string]*Object{}}
}

// Register associates a fake object with a prog_id.
func (r *Runtime) Register(progID string, obj *Object) *Runtime {
	r.objects[progID] = obj
	obj.onRelease = func() { r.Trace = append(r.Trace, "release") }
	return r
}

// Init implements bridge.Runtime.
func (r *Runtime) Init() error {
	if r.InitErr != nil {
		return bridge.Wrap(bridge.CodeLifecycle, "runtime initialization failed", r.InitErr)
	}
	r.active = true
	r.Trace = append(r.Trace, "init")
	return nil
}

// Teardown implements bridge.Runtime.
func (r *Runtime) Teardown() {
	r.active = false
	r.Trace = append(r.Trace, "teardown")
}

// CreateObject implements bridge.Runtime.
func (r *Runtime) CreateObject(progID string) (dispatch.Dispatchable, error) {
	if !r.active {
		return nil, bridge.NewError(bridge.CodeLifecycle, "CreateObject before Init")
	}
	obj, ok := r.objects[progID]
	if !ok {
		return nil, bridge.NewError(bridge.CodeClassNotFound,
			fmt.Sprintf("prog_id %q is not registered", progID))
	}
	if r.CreateErr != nil {
		return nil, bridge.Wrap(bridge.CodeInstantiationFailed,
			fmt.Sprintf("activating class for %q", progID), r.CreateErr)
	}
	r.Trace = append(r.Trace, "create")
	return obj, nil
}
