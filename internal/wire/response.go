package wire

import (
	"bytes"
	"encoding/json"
)

// Response is the stdout envelope. Exactly one of Result/Fetched (success)
// or Error (failure) is populated.
type Response struct {
	Success bool                       `json:"success"`
	Result  json.RawMessage            `json:"result,omitempty"`
	Fetched map[string]json.RawMessage `json:"fetched,omitempty"`
	Error   *ErrorBody                 `json:"error,omitempty"`
}

// ErrorBody is the structured failure callers branch on. Code is a stable
// bridge error code; Status and Source carry the native detail when the
// called object raised the failure itself.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int32  `json:"status,omitempty"`
	Source  string `json:"source,omitempty"`
}

// Encode serializes the envelope. Compact single-line form by default;
// indented when pretty is set.
func (r *Response) Encode(pretty bool) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	if !pretty {
		return data, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
