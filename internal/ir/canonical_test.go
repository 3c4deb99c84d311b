package ir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", IRString("hello"), `"hello"`},
		{"int", IRInt(-100), "-100"},
		{"max int64", IRInt(9223372036854775807), "9223372036854775807"},
		{"bool", IRBool(false), "false"},
		{"null", IRNull{}, "null"},
		{"nil", nil, "null"},
		{"decimal", MustDecimal("19.99"), "19.99"},
		{"decimal trailing zeros", MustDecimal("2.500"), "2.5"},
		{"date", NewIRTime(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true), `"2024-01-15"`},
		{"timestamp", NewIRTime(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), false), `"2024-01-15T10:30:00Z"`},
		{"empty array", IRArray{}, "[]"},
		{"empty object", IRObject{}, "{}"},
		{"sorted keys", IRObject{"zebra": IRInt(1), "alpha": IRInt(2)}, `{"alpha":2,"zebra":1}`},
		{"nested sorted keys", IRObject{"z": IRObject{"b": IRInt(1), "a": IRInt(2)}, "a": IRNull{}}, `{"a":null,"z":{"a":2,"b":1}}`},
		{"go string", "hello", `"hello"`},
		{"go int", 42, "42"},
		{"go map", map[string]any{"b": int64(1), "a": "test"}, `{"a":"test","b":1}`},
		{"go slice", []any{int64(1), "two", true}, `[1,"two",true]`},
		{"html not escaped", IRString("<a> & </a>"), `"<a> & </a>"`},
		{"line separator not escaped", IRString("a\u2028b"), "\"a\u2028b\""},
		{"literal backslash u2028 kept", IRString(`a\u2028b`), `"a\\u2028b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalRejectsFloats(t *testing.T) {
	for _, input := range []any{float64(3.14), float32(3.14)} {
		_, err := MarshalCanonical(input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "float")
	}
}

func TestMarshalCanonicalNFC(t *testing.T) {
	composed := "caf\u00E9"
	decomposed := "cafe\u0301"

	a, err := MarshalCanonical(IRObject{composed: IRString(composed)})
	require.NoError(t, err)
	b, err := MarshalCanonical(IRObject{decomposed: IRString(decomposed)})
	require.NoError(t, err)

	assert.Equal(t, a, b, "NFC normalization should make keys and values equal")
}

func TestMarshalCanonicalIdempotency(t *testing.T) {
	cases := []IRValue{
		IRString("hello"),
		MustDecimal("0.25"),
		IRArray{IRInt(1), IRString("two"), IRNull{}},
		IRObject{
			"nested": IRObject{"array": IRArray{IRInt(1), IRInt(2)}},
			"simple": IRString("value"),
		},
	}

	for _, original := range cases {
		first, err := MarshalCanonical(original)
		require.NoError(t, err)

		val, err := UnmarshalIRValue(first)
		require.NoError(t, err)

		second, err := MarshalCanonical(val)
		require.NoError(t, err)

		assert.Equal(t, first, second, "canonical marshaling must be idempotent")
	}
}
