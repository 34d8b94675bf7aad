package comauto

import (
	"fmt"

	ole "github.com/go-ole/go-ole"

	"github.com/ecrtools/combridge/internal/bridge"
	"github.com/ecrtools/combridge/internal/dispatch"
)

// Runtime owns the process-wide COM initialization state. One Init and one
// Teardown per process, in single-threaded-apartment mode; the pipeline
// scopes them around exactly one object lifetime.
type Runtime struct {
	initialized bool
}

// NewRuntime returns an uninitialized runtime.
func NewRuntime() *Runtime {
	return &Runtime{}
}

// Init enters a single-threaded apartment. Calling Init twice is an
// ordering violation, not a recoverable condition.
func (r *Runtime) Init() error {
	if r.initialized {
		return bridge.NewError(bridge.CodeLifecycle, "runtime already initialized")
	}
	if err := ole.CoInitialize(0); err != nil {
		return bridge.Wrap(bridge.CodeLifecycle, "CoInitialize failed", err)
	}
	r.initialized = true
	return nil
}

// Teardown leaves the apartment. Safe to call after a failed Init; the
// pipeline defers it unconditionally.
func (r *Runtime) Teardown() {
	if !r.initialized {
		return
	}
	ole.CoUninitialize()
	r.initialized = false
}

// CreateObject resolves a prog_id to a registered class and activates an
// in-process instance, returning it behind the Dispatchable interface.
// Activation failures are permanent for the duration of one run.
func (r *Runtime) CreateObject(progID string) (dispatch.Dispatchable, error) {
	if !r.initialized {
		return nil, bridge.NewError(bridge.CodeLifecycle, "CreateObject before Init")
	}

	clsid, err := ole.CLSIDFromProgID(progID)
	if err != nil {
		return nil, bridge.Wrap(bridge.CodeClassNotFound,
			fmt.Sprintf("prog_id %q is not registered", progID), err)
	}

	unknown, err := ole.CreateInstance(clsid, ole.IID_IUnknown)
	if err != nil {
		return nil, bridge.Wrap(bridge.CodeInstantiationFailed,
			fmt.Sprintf("activating class for %q", progID), err)
	}

	disp, err := unknown.QueryInterface(ole.IID_IDispatch)
	unknown.Release()
	if err != nil {
		return nil, bridge.Wrap(bridge.CodeInstantiationFailed,
			fmt.Sprintf("%q does not support late-bound dispatch", progID), err)
	}

	return &object{disp: disp}, nil
}
