package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/ir"
)

func TestValidate_ExecutablePlan(t *testing.T) {
	plan := Plan{
		Filters: []Predicate{
			Compare{Field: "price", Op: OpGte, Value: ir.IRInt(10)},
			InSet{Field: "category_id", Values: []ir.IRValue{ir.IRInt(1)}},
			Related{Relation: "author", Predicate: Pattern{Field: "name", Kind: PatternStartsWith, Text: "A"}},
			DatePart{Field: "created_at", Part: PartMonth, Value: ir.IRInt(3)},
		},
		Search: []SearchStep{
			{Predicate: Pattern{Field: "name", Kind: PatternContains, Text: "go"}},
			{Connective: ConnectiveOr, Predicate: Equal{Field: "name", Value: ir.IRString("Go")}},
		},
		Rank: []Boost{{Field: "name", Weight: 3, Term: "go"}},
	}

	result := Validate(plan)

	assert.True(t, result.Executable)
	assert.Empty(t, result.Warnings)
}

func TestValidate_Warnings(t *testing.T) {
	tests := []struct {
		name    string
		pred    Predicate
		contain string
	}{
		{"nil", nil, "nil predicate"},
		{"empty field", NullCheck{}, "empty field"},
		{"null equality", Equal{Field: "x", Value: ir.IRNull{}}, "compared to NULL"},
		{"missing operand", Compare{Field: "x", Op: OpGt}, "has no operand"},
		{"bad op", Compare{Field: "x", Op: "~", Value: ir.IRInt(1)}, "unknown comparison operator"},
		{"empty set", InSet{Field: "x"}, "has no values"},
		{"bad pattern", Pattern{Field: "x", Kind: "glob"}, "unknown pattern kind"},
		{"bad part", DatePart{Field: "x", Part: "week", Value: ir.IRInt(1)}, "unknown date part"},
		{"nested related", Related{Relation: "a", Predicate: Related{Relation: "b", Predicate: NullCheck{Field: "c"}}}, "nested inside another Related"},
		{"not of nil", Not{}, "nil predicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(Plan{Filters: []Predicate{tt.pred}})
			assert.False(t, result.Executable)
			require.NotEmpty(t, result.Warnings)
			assert.Contains(t, result.Warnings[0], tt.contain)
		})
	}
}

func TestValidate_SearchConnective(t *testing.T) {
	plan := Plan{Search: []SearchStep{
		{Predicate: NullCheck{Field: "a"}},
		{Connective: "XOR", Predicate: NullCheck{Field: "b"}},
	}}

	result := Validate(plan)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "invalid connective")
}

func TestValidate_AccumulatesAll(t *testing.T) {
	plan := Plan{Filters: []Predicate{
		InSet{Field: "a"},
		Equal{Field: "", Value: ir.IRNull{}},
	}}

	result := Validate(plan)
	assert.Len(t, result.Warnings, 3)
}
