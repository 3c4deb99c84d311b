package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/ir"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []RawClause
	}{
		{
			name: "single clause",
			expr: "price:GT(100)",
			want: []RawClause{{Position: 1, Field: "price", Operator: "GT", Args: []ir.IRValue{ir.IRString("100")}, Source: "price:GT(100)"}},
		},
		{
			name: "two clauses with whitespace",
			expr: " price : BETWEEN( 100 , 500 ) ; category_id:IN(1,2,3) ",
			want: []RawClause{
				{Position: 1, Field: "price", Operator: "BETWEEN", Args: []ir.IRValue{ir.IRString("100"), ir.IRString("500")}, Source: "price : BETWEEN( 100 , 500 )"},
				{Position: 2, Field: "category_id", Operator: "IN", Args: []ir.IRValue{ir.IRString("1"), ir.IRString("2"), ir.IRString("3")}, Source: "category_id:IN(1,2,3)"},
			},
		},
		{
			name: "zero arity without parens",
			expr: "deleted_at:IS_NULL",
			want: []RawClause{{Position: 1, Field: "deleted_at", Operator: "IS_NULL", Source: "deleted_at:IS_NULL"}},
		},
		{
			name: "zero arity with empty parens",
			expr: "deleted_at:IS_NULL()",
			want: []RawClause{{Position: 1, Field: "deleted_at", Operator: "IS_NULL", Source: "deleted_at:IS_NULL()"}},
		},
		{
			name: "empty segments ignored",
			expr: ";;status:EQ(active);;",
			want: []RawClause{{Position: 1, Field: "status", Operator: "EQ", Args: []ir.IRValue{ir.IRString("active")}, Source: "status:EQ(active)"}},
		},
		{
			name: "symbol operator",
			expr: "stock:>=(5)",
			want: []RawClause{{Position: 1, Field: "stock", Operator: ">=", Args: []ir.IRValue{ir.IRString("5")}, Source: "stock:>=(5)"}},
		},
		{
			name: "relation field",
			expr: "author.name:EQ(Ada)",
			want: []RawClause{{Position: 1, Field: "author.name", Operator: "EQ", Args: []ir.IRValue{ir.IRString("Ada")}, Source: "author.name:EQ(Ada)"}},
		},
		{
			name: "nested balanced parens in regex",
			expr: "sku:REGEX(^(AB|CD)-[0-9]+$)",
			want: []RawClause{{Position: 1, Field: "sku", Operator: "REGEX", Args: []ir.IRValue{ir.IRString("^(AB|CD)-[0-9]+$")}, Source: "sku:REGEX(^(AB|CD)-[0-9]+$)"}},
		},
		{
			name: "unknown well-formed operator kept for validation",
			expr: "price:INVALID(100)",
			want: []RawClause{{Position: 1, Field: "price", Operator: "INVALID", Args: []ir.IRValue{ir.IRString("100")}, Source: "price:INVALID(100)"}},
		},
		{
			name: "empty",
			expr: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := Tokenize(tt.expr)
			assert.Empty(t, errs)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenizeParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		message string
	}{
		{"missing parens", "price:GT100", "malformed operator"},
		{"missing colon", "priceGT(100)", "missing ':'"},
		{"missing operator", "price:", "missing operator"},
		{"unbalanced open", "price:GT(100", "unbalanced parentheses"},
		{"unbalanced close", "price:GT100)", "unbalanced parentheses"},
		{"trailing text after group", "price:GT(1)x", "unbalanced parentheses"},
		{"two groups", "price:BETWEEN(1)(2)", "unbalanced parentheses"},
		{"bad field", "pr ice:GT(1)", "invalid field name"},
		{"deep relation", "a.b.c:EQ(1)", "invalid field name"},
		{"known operator without args", "price:GT", "requires an argument list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clauses, errs := Tokenize(tt.expr)
			assert.Empty(t, clauses)
			require.Len(t, errs, 1)
			assert.Equal(t, KindParse, errs[0].Kind)
			assert.Equal(t, CodeParse, errs[0].Code)
			assert.Equal(t, 1, errs[0].Clause)
			assert.Contains(t, errs[0].Message, tt.message)
			assert.ErrorIs(t, errs[0], ErrParse)
		})
	}
}

func TestTokenizeCollectsAllErrors(t *testing.T) {
	clauses, errs := Tokenize("price:GT100;status:EQ(active);x:(1")

	require.Len(t, clauses, 1)
	assert.Equal(t, 2, clauses[0].Position)

	require.Len(t, errs, 2)
	assert.Equal(t, 1, errs[0].Clause)
	assert.Equal(t, 3, errs[1].Clause)
}

func TestSplitArgsKeepsEmptyArguments(t *testing.T) {
	args := splitArgs("1,,2")
	assert.Equal(t, []ir.IRValue{ir.IRString("1"), ir.IRString(""), ir.IRString("2")}, args)
	assert.Nil(t, splitArgs("   "))
}
