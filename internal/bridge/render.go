package bridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ecrtools/combridge/internal/variant"
	"github.com/ecrtools/combridge/internal/wire"
)

// Exit codes of the bridge process.
const (
	ExitSuccess = 0 // call performed, success envelope written
	ExitFailure = 1 // resolved failure, error envelope written
	ExitInput   = 2 // input never reached the pipeline, or fatal runtime failure
)

// Respond renders one run's outcome into the response envelope and the
// process exit code. A successful outcome whose result cannot be
// serialized degrades into a MarshalingError envelope, so callers always
// get well-formed JSON from here.
func Respond(outcome *Outcome, runErr error) (*wire.Response, int) {
	if runErr != nil {
		return errorResponse(runErr), ExitFailure
	}

	resp := &wire.Response{Success: true}

	data, err := variant.ToJSON(outcome.Result)
	if err != nil {
		return errorResponse(renderError("result", err)), ExitFailure
	}
	resp.Result = json.RawMessage(data)

	if len(outcome.Fetched) > 0 {
		resp.Fetched = make(map[string]json.RawMessage, len(outcome.Fetched))
		for name, val := range outcome.Fetched {
			data, err := variant.ToJSON(val)
			if err != nil {
				return errorResponse(renderError("fetched property "+name, err)), ExitFailure
			}
			resp.Fetched[name] = json.RawMessage(data)
		}
	}
	return resp, ExitSuccess
}

// InputResponse renders a schema failure into the error envelope. Used for
// input that parsed as JSON but never reached the pipeline; the exit code
// stays ExitInput.
func InputResponse(err error) *wire.Response {
	return errorResponse(Wrap(CodeInput, "invalid command", err))
}

func errorResponse(err error) *wire.Response {
	body := &wire.ErrorBody{
		Code:    int(CodeInternal),
		Message: err.Error(),
	}
	var be *Error
	if errors.As(err, &be) {
		body.Code = int(be.Code)
		body.Message = be.Message
		body.Status = be.Status
		body.Source = be.Source
	}
	return &wire.Response{Success: false, Error: body}
}

func renderError(what string, err error) *Error {
	if errors.Is(err, variant.ErrUnsupported) {
		return Wrap(CodeUnsupportedValueType, what, err)
	}
	return Wrap(CodeMarshaling, fmt.Sprintf("serializing %s", what), err)
}
