package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestDefault(t *testing.T) {
	m := Default()

	assert.Equal(t, []string{"test_data", "test_data2", "test_data3"}, m.GlobalKeys())
	assert.Equal(t, DefaultPort, m.Server.Port)
	assert.Equal(t, DefaultHighlightTTL, m.Server.HighlightTTL)
	assert.Equal(t, DefaultBlueprintTimeout, m.Blueprint.Timeout)
	assert.Nil(t, m.Notify)
}

func TestGlobal_ValueJSON(t *testing.T) {
	testCases := []struct {
		name  string
		value cty.Value
		want  string
	}{
		{name: "no value", value: cty.NilVal, want: "null"},
		{name: "null", value: cty.NullVal(cty.String), want: "null"},
		{name: "string", value: cty.StringVal("abc"), want: `"abc"`},
		{name: "number", value: cty.NumberIntVal(42), want: "42"},
		{name: "bool", value: cty.True, want: "true"},
		{
			name:  "object",
			value: cty.ObjectVal(map[string]cty.Value{"a": cty.StringVal("x")}),
			want:  `{"a":"x"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Global{Key: "k", Value: tc.value}.ValueJSON()
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(got))
		})
	}
}

func TestGlobal_ValueJSON_Unknown(t *testing.T) {
	_, err := Global{Key: "k", Value: cty.UnknownVal(cty.String)}.ValueJSON()
	assert.ErrorContains(t, err, `global "k"`)
}
