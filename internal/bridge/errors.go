package bridge

import (
	"errors"
	"fmt"
)

// Code categorizes bridge failures. Codes are stable integers carried in
// the response envelope so scripted callers can branch without parsing
// free text.
type Code int

const (
	// CodeInput indicates a schema or parse failure before the pipeline ran.
	CodeInput Code = 10

	// CodeClassNotFound indicates the prog_id has no registered class.
	CodeClassNotFound Code = 20

	// CodeInstantiationFailed indicates a registered class that could not
	// be activated.
	CodeInstantiationFailed Code = 21

	// CodeMethodNotFound indicates the object's dispatch table has no
	// entry for the method name.
	CodeMethodNotFound Code = 30

	// CodeArgumentNotRecognized indicates a property name the target
	// method does not know. The call is never attempted.
	CodeArgumentNotRecognized Code = 31

	// CodeUnsupportedValueType indicates a JSON kind or variant tag with
	// no counterpart on the other side.
	CodeUnsupportedValueType Code = 40

	// CodeMarshaling indicates a result that cannot be represented in
	// JSON (non-finite float, error-coded variant).
	CodeMarshaling Code = 41

	// CodeInvocation indicates the called object signaled a failure
	// during the call.
	CodeInvocation Code = 50

	// CodeLifecycle indicates runtime init/teardown failure. Fatal; never
	// reported through the JSON envelope.
	CodeLifecycle Code = 60

	// CodeInternal indicates a failure the taxonomy does not classify.
	CodeInternal Code = 99
)

// String returns the taxonomy name for a code.
func (c Code) String() string {
	switch c {
	case CodeInput:
		return "InputError"
	case CodeClassNotFound:
		return "ClassNotFound"
	case CodeInstantiationFailed:
		return "InstantiationFailed"
	case CodeMethodNotFound:
		return "MethodNotFound"
	case CodeArgumentNotRecognized:
		return "ArgumentNotRecognized"
	case CodeUnsupportedValueType:
		return "UnsupportedValueType"
	case CodeMarshaling:
		return "MarshalingError"
	case CodeInvocation:
		return "InvocationError"
	case CodeLifecycle:
		return "LifecycleError"
	default:
		return "InternalError"
	}
}

// Error is the structured failure produced by the pipeline.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Message is a human-readable description.
	Message string

	// Status is the native status code when the failure came from the
	// automation layer, zero otherwise.
	Status int32

	// Source names the originating component when the called object
	// supplied one.
	Source string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status=0x%08x)", e.Code, e.Message, uint32(e.Status))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a coded error with a message.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap wraps an underlying error under a code, preserving its text.
func Wrap(code Code, message string, err error) *Error {
	if err == nil {
		return &Error{Code: code, Message: message}
	}
	return &Error{Code: code, Message: fmt.Sprintf("%s: %v", message, err), Err: err}
}

// CodeOf extracts the bridge code from an error chain.
// Returns CodeInternal for errors the taxonomy does not classify.
func CodeOf(err error) Code {
	var be *Error
	if errors.As(err, &be) {
		return be.Code
	}
	return CodeInternal
}

// IsFatal reports whether an error must abort outside the JSON-error path:
// the runtime itself cannot be trusted to produce a correct response.
func IsFatal(err error) bool {
	return CodeOf(err) == CodeLifecycle
}
