package variant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSON_Scalars(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Value
	}{
		{"null", `null`, Empty{}},
		{"true", `true`, Bool(true)},
		{"false", `false`, Bool(false)},
		{"integer", `42`, Int(42)},
		{"negative integer", `-7`, Int(-7)},
		{"int32 max", `2147483647`, Int(2147483647)},
		{"int32 min", `-2147483648`, Int(-2147483648)},
		{"above int32 widens", `2147483648`, Float(2147483648)},
		{"below int32 widens", `-2147483649`, Float(-2147483649)},
		{"fractional", `3.5`, Float(3.5)},
		{"integral with fraction digit stays float", `3.0`, Float(3)},
		{"exponent stays float", `1e3`, Float(1000)},
		{"string", `"App Ver. 123.321"`, String("App Ver. 123.321")},
		{"numeric-looking string stays string", `"42"`, String("42")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromJSON([]byte(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromJSON_RejectsStructuredValues(t *testing.T) {
	for _, raw := range []string{`{"a":1}`, `[1,2,3]`, `{}`, `[]`} {
		_, err := FromJSON([]byte(raw))
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrUnsupported, raw)
	}
}

func TestToJSON_RoundTrip(t *testing.T) {
	// For every supported JSON scalar kind, converting to the automation
	// representation and back yields the original value.
	inputs := []string{
		`null`,
		`true`,
		`false`,
		`0`,
		`42`,
		`-2147483648`,
		`2147483647`,
		`3.5`,
		`-0.25`,
		`"NR12345"`,
		`""`,
	}

	for _, raw := range inputs {
		val, err := FromJSON([]byte(raw))
		require.NoError(t, err, raw)
		out, err := ToJSON(val)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, string(out), raw)
	}
}

func TestToJSON_WidenedIntegerKeepsValue(t *testing.T) {
	// 2^53 is exactly representable in a double, so the widening path
	// preserves it digit for digit.
	val, err := FromJSON([]byte(`9007199254740992`))
	require.NoError(t, err)
	require.IsType(t, Float(0), val)

	out, err := ToJSON(val)
	require.NoError(t, err)
	assert.Equal(t, `9007199254740992`, string(out))
}

func TestToJSON_NonFinite(t *testing.T) {
	for _, f := range []Float{Float(math.NaN()), Float(math.Inf(1)), Float(math.Inf(-1))} {
		_, err := ToJSON(f)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNonFinite)
	}
}

func TestToJSON_ErrorCodeHasNoJSONForm(t *testing.T) {
	_, err := ToJSON(ErrorCode(-2147467259))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestFromGo_YAMLKinds(t *testing.T) {
	tests := []struct {
		in   any
		want Value
	}{
		{nil, Empty{}},
		{true, Bool(true)},
		{int(7), Int(7)},
		{int64(1) << 40, Float(1 << 40)},
		{float64(2.5), Float(2.5)},
		{"ok", String("ok")},
	}
	for _, tt := range tests {
		got, err := FromGo(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := FromGo(map[string]any{"a": 1})
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = FromGo([]any{1})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestTagName(t *testing.T) {
	assert.Equal(t, "empty", TagName(Empty{}))
	assert.Equal(t, "boolean", TagName(Bool(true)))
	assert.Equal(t, "integer", TagName(Int(1)))
	assert.Equal(t, "floating-point", TagName(Float(1)))
	assert.Equal(t, "string", TagName(String("")))
	assert.Equal(t, "error-code", TagName(ErrorCode(0)))
}
