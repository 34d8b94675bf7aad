package bridge_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecrtools/combridge/internal/bridge"
	"github.com/ecrtools/combridge/internal/dispatch"
	"github.com/ecrtools/combridge/internal/testutil"
	"github.com/ecrtools/combridge/internal/variant"
	"github.com/ecrtools/combridge/internal/wire"
)

const cancellationJSON = `{
	"version": "1",
	"prog_id": "ECR2ATL.ECR2Transaction",
	"method": "Cancellation",
	"properties": {
		"ECRNameAndVersion": "App Ver. 123.321",
		"ReqInvoiceNumber": "NR12345",
		"ReqDateTime": "2025-05-22 12:33:44"
	}
}`

// newCancellationRuntime builds the standard fixture: an ECR transaction
// object exposing Cancellation with three named string arguments.
func newCancellationRuntime(t *testing.T) (*testutil.Runtime, *testutil.Object) {
	t.Helper()
	obj := testutil.NewObject().
		AddMethod("Cancellation", []string{"ECRNameAndVersion", "ReqInvoiceNumber", "ReqDateTime"}, variant.String("00"))
	rt := testutil.NewRuntime().Register("ECR2ATL.ECR2Transaction", obj)
	return rt, obj
}

func parseCommand(t *testing.T, raw string) *wire.Command {
	t.Helper()
	cmd, err := wire.ParseCommand([]byte(raw))
	require.NoError(t, err)
	return cmd
}

func TestExecute_Cancellation(t *testing.T) {
	rt, obj := newCancellationRuntime(t)

	outcome, err := bridge.Execute(rt, parseCommand(t, cancellationJSON))
	require.NoError(t, err)
	assert.Equal(t, variant.String("00"), outcome.Result)

	// All three properties marshaled as strings and delivered by name.
	require.Len(t, obj.Calls, 1)
	call := obj.Calls[0]
	assert.Equal(t, "Cancellation", call.Method)
	assert.Equal(t, map[string]variant.Value{
		"ECRNameAndVersion": variant.String("App Ver. 123.321"),
		"ReqInvoiceNumber":  variant.String("NR12345"),
		"ReqDateTime":       variant.String("2025-05-22 12:33:44"),
	}, call.Args)
}

func TestExecute_LifecycleOrdering(t *testing.T) {
	rt, obj := newCancellationRuntime(t)

	_, err := bridge.Execute(rt, parseCommand(t, cancellationJSON))
	require.NoError(t, err)

	assert.Equal(t, []string{"init", "create", "release", "teardown"}, rt.Trace)
	assert.Equal(t, 1, obj.Released)
}

func TestExecute_MethodNotFound(t *testing.T) {
	rt, obj := newCancellationRuntime(t)

	_, err := bridge.Execute(rt, parseCommand(t, `{
		"version": "1",
		"prog_id": "ECR2ATL.ECR2Transaction",
		"method": "Cancelation",
		"properties": {}
	}`))
	require.Error(t, err)
	assert.Equal(t, bridge.CodeMethodNotFound, bridge.CodeOf(err))

	// No partial call, and the handle is still released before teardown.
	assert.Empty(t, obj.Calls)
	assert.Equal(t, []string{"init", "create", "release", "teardown"}, rt.Trace)
}

func TestExecute_ArgumentNotRecognized(t *testing.T) {
	rt, obj := newCancellationRuntime(t)

	_, err := bridge.Execute(rt, parseCommand(t, `{
		"version": "1",
		"prog_id": "ECR2ATL.ECR2Transaction",
		"method": "Cancellation",
		"properties": {"ReqInvoiceNumber": "NR1", "Bogus": "x"}
	}`))
	require.Error(t, err)
	assert.Equal(t, bridge.CodeArgumentNotRecognized, bridge.CodeOf(err))
	assert.Contains(t, err.Error(), "Bogus")

	// The whole invocation fails before any call is attempted.
	assert.Empty(t, obj.Calls)
	assert.Equal(t, []string{"init", "create", "release", "teardown"}, rt.Trace)
}

func TestExecute_UnsupportedPropertyValue(t *testing.T) {
	rt, obj := newCancellationRuntime(t)

	_, err := bridge.Execute(rt, parseCommand(t, `{
		"version": "1",
		"prog_id": "ECR2ATL.ECR2Transaction",
		"method": "Cancellation",
		"properties": {"ReqInvoiceNumber": {"nested": true}}
	}`))
	require.Error(t, err)
	assert.Equal(t, bridge.CodeUnsupportedValueType, bridge.CodeOf(err))
	assert.Empty(t, obj.Calls)
}

func TestExecute_ClassNotFound(t *testing.T) {
	rt, _ := newCancellationRuntime(t)

	_, err := bridge.Execute(rt, parseCommand(t, `{
		"version": "1",
		"prog_id": "No.Such.ProgId",
		"method": "Cancellation",
		"properties": {}
	}`))
	require.Error(t, err)
	assert.Equal(t, bridge.CodeClassNotFound, bridge.CodeOf(err))

	// Nothing was created, yet teardown still ran.
	assert.Equal(t, []string{"init", "teardown"}, rt.Trace)
}

func TestExecute_InstantiationFailed(t *testing.T) {
	rt, _ := newCancellationRuntime(t)
	rt.CreateErr = errors.New("access denied")

	_, err := bridge.Execute(rt, parseCommand(t, cancellationJSON))
	require.Error(t, err)
	assert.Equal(t, bridge.CodeInstantiationFailed, bridge.CodeOf(err))
	assert.Equal(t, []string{"init", "teardown"}, rt.Trace)
}

func TestExecute_InitFailureIsFatal(t *testing.T) {
	rt, _ := newCancellationRuntime(t)
	rt.InitErr = errors.New("apartment unavailable")

	_, err := bridge.Execute(rt, parseCommand(t, cancellationJSON))
	require.Error(t, err)
	assert.Equal(t, bridge.CodeLifecycle, bridge.CodeOf(err))
	assert.True(t, bridge.IsFatal(err))

	// Teardown must not run after a failed init.
	assert.Empty(t, rt.Trace)
}

func TestExecute_InvocationErrorCarriesDetail(t *testing.T) {
	rt, obj := newCancellationRuntime(t)
	obj.RaiseOn("Cancellation", &dispatch.AutomationError{
		Status:      -2147220990,
		Description: "Transaction declined",
		Source:      "ECR2ATL",
		HelpContext: 12,
	})

	_, err := bridge.Execute(rt, parseCommand(t, cancellationJSON))
	require.Error(t, err)

	var be *bridge.Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, bridge.CodeInvocation, be.Code)
	assert.Equal(t, "Transaction declined", be.Message)
	assert.Equal(t, int32(-2147220990), be.Status)
	assert.Equal(t, "ECR2ATL", be.Source)

	// The handle is released even when the call itself failed.
	assert.Equal(t, []string{"init", "create", "release", "teardown"}, rt.Trace)
}

func TestExecute_FetchReadsBackProperties(t *testing.T) {
	rt, obj := newCancellationRuntime(t)
	obj.SetProperty("ErrorCode", variant.Int(0)).
		SetProperty("ErrorText", variant.String("approved"))

	outcome, err := bridge.Execute(rt, parseCommand(t, `{
		"version": "1",
		"prog_id": "ECR2ATL.ECR2Transaction",
		"method": "Cancellation",
		"properties": {"ReqInvoiceNumber": "NR12345"},
		"fetch": ["ErrorCode", "ErrorText"]
	}`))
	require.NoError(t, err)

	assert.Equal(t, variant.String("00"), outcome.Result)
	assert.Equal(t, map[string]variant.Value{
		"ErrorCode": variant.Int(0),
		"ErrorText": variant.String("approved"),
	}, outcome.Fetched)
}

func TestExecute_UnknownFetchNamePreventsCall(t *testing.T) {
	rt, obj := newCancellationRuntime(t)

	_, err := bridge.Execute(rt, parseCommand(t, `{
		"version": "1",
		"prog_id": "ECR2ATL.ECR2Transaction",
		"method": "Cancellation",
		"properties": {"ReqInvoiceNumber": "NR12345"},
		"fetch": ["NoSuchProperty"]
	}`))
	require.Error(t, err)
	assert.Equal(t, bridge.CodeArgumentNotRecognized, bridge.CodeOf(err))
	assert.Empty(t, obj.Calls)
}

func TestExecute_CaseInsensitiveNames(t *testing.T) {
	rt, obj := newCancellationRuntime(t)

	outcome, err := bridge.Execute(rt, parseCommand(t, `{
		"version": "1",
		"prog_id": "ECR2ATL.ECR2Transaction",
		"method": "CANCELLATION",
		"properties": {"reqinvoicenumber": "NR12345"}
	}`))
	require.NoError(t, err)
	assert.Equal(t, variant.String("00"), outcome.Result)
	require.Len(t, obj.Calls, 1)
	assert.Equal(t, variant.String("NR12345"), obj.Calls[0].Args["ReqInvoiceNumber"])
}

func TestExecute_MarshalsScalarKinds(t *testing.T) {
	obj := testutil.NewObject().
		AddMethod("Configure", []string{"Flag", "Count", "Ratio", "Label", "Blank"}, variant.Empty{})
	rt := testutil.NewRuntime().Register("Test.Object", obj)

	outcome, err := bridge.Execute(rt, parseCommand(t, `{
		"version": "1",
		"prog_id": "Test.Object",
		"method": "Configure",
		"properties": {
			"Flag": true,
			"Count": 12,
			"Ratio": 0.5,
			"Label": "x",
			"Blank": null
		}
	}`))
	require.NoError(t, err)
	assert.Equal(t, variant.Empty{}, outcome.Result)

	require.Len(t, obj.Calls, 1)
	assert.Equal(t, map[string]variant.Value{
		"Flag":  variant.Bool(true),
		"Count": variant.Int(12),
		"Ratio": variant.Float(0.5),
		"Label": variant.String("x"),
		"Blank": variant.Empty{},
	}, obj.Calls[0].Args)
}
