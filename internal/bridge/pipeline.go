package bridge

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ecrtools/combridge/internal/dispatch"
	"github.com/ecrtools/combridge/internal/variant"
	"github.com/ecrtools/combridge/internal/wire"
)

// Runtime abstracts the automation runtime: process-wide lifecycle plus
// class resolution. The real implementation lives in internal/comauto;
// tests substitute internal/testutil.Runtime.
type Runtime interface {
	// Init initializes the runtime. Called exactly once, before any
	// object work; failure is fatal for the run.
	Init() error

	// Teardown tears the runtime down. Called exactly once, after every
	// object handle has been released.
	Teardown()

	// CreateObject resolves a prog_id to a live, exclusively-owned
	// automation object.
	CreateObject(progID string) (dispatch.Dispatchable, error)
}

// Outcome is the successful result of one bridge run.
type Outcome struct {
	// Result is the method's return value, Empty when the method
	// returned nothing.
	Result variant.Value

	// Fetched holds property read-backs requested via the command's
	// fetch list, nil when none were requested.
	Fetched map[string]variant.Value
}

// Execute performs one resolve-call-release cycle against the runtime.
//
// Ordering is strict and guaranteed on every exit path: init, create, use,
// release, teardown. All name resolution and argument marshaling happens
// before the call; any failure there means the call is never attempted.
func Execute(rt Runtime, cmd *wire.Command) (*Outcome, error) {
	if err := rt.Init(); err != nil {
		return nil, ensureCode(CodeLifecycle, "runtime initialization failed", err)
	}
	defer rt.Teardown()

	obj, err := rt.CreateObject(cmd.ProgID)
	if err != nil {
		return nil, ensureCode(CodeInstantiationFailed, fmt.Sprintf("creating %q", cmd.ProgID), err)
	}
	defer obj.Release()

	slog.Debug("object created", "prog_id", cmd.ProgID)

	methodID, err := dispatch.ResolveMethod(obj, cmd.Method)
	if err != nil {
		return nil, &Error{
			Code:    CodeMethodNotFound,
			Message: fmt.Sprintf("object %q has no method %q", cmd.ProgID, cmd.Method),
			Err:     err,
		}
	}

	names := cmd.PropertyNames()
	argIDs, err := dispatch.ResolveNames(obj, names)
	if err != nil {
		return nil, &Error{Code: CodeArgumentNotRecognized, Message: err.Error(), Err: err}
	}

	// Fetch names resolve up front too: a typo in the read-back list
	// fails the run before any call, not after.
	fetchIDs, err := dispatch.ResolveNames(obj, cmd.Fetch)
	if err != nil {
		return nil, &Error{Code: CodeArgumentNotRecognized, Message: err.Error(), Err: err}
	}

	args := make([]dispatch.NamedArg, 0, len(names))
	for _, name := range names {
		val, err := variant.FromJSON(cmd.Properties[name])
		if err != nil {
			if errors.Is(err, variant.ErrUnsupported) {
				return nil, Wrap(CodeUnsupportedValueType, fmt.Sprintf("property %q", name), err)
			}
			return nil, Wrap(CodeMarshaling, fmt.Sprintf("property %q", name), err)
		}
		args = append(args, dispatch.NamedArg{ID: argIDs[name], Value: val})
	}

	slog.Debug("invoking", "method", cmd.Method, "args", len(args))

	result, err := obj.Invoke(methodID, args)
	if err != nil {
		return nil, invocationError(cmd.Method, err)
	}
	if result == nil {
		result = variant.Empty{}
	}

	outcome := &Outcome{Result: result}
	if len(cmd.Fetch) > 0 {
		outcome.Fetched = make(map[string]variant.Value, len(cmd.Fetch))
		for _, name := range cmd.Fetch {
			val, err := obj.GetProperty(fetchIDs[name])
			if err != nil {
				return nil, invocationError("get "+name, err)
			}
			outcome.Fetched[name] = val
		}
	}
	return outcome, nil
}

// invocationError classifies a failed call, carrying the object's
// structured exception detail when it supplied one.
func invocationError(what string, err error) *Error {
	var ae *dispatch.AutomationError
	if errors.As(err, &ae) {
		msg := ae.Description
		if msg == "" {
			msg = fmt.Sprintf("%s failed", what)
		}
		return &Error{
			Code:    CodeInvocation,
			Message: msg,
			Status:  ae.Status,
			Source:  ae.Source,
			Err:     err,
		}
	}
	return Wrap(CodeInvocation, fmt.Sprintf("%s failed", what), err)
}

// ensureCode keeps an already-coded error as is and assigns fallback to
// anything uncoded crossing the Runtime boundary.
func ensureCode(fallback Code, message string, err error) error {
	var be *Error
	if errors.As(err, &be) {
		return err
	}
	return Wrap(fallback, message, err)
}
