package operator

import (
	"fmt"
	"strings"
)

// table is the operator registry. Row order is the order All returns.
var table = []Operator{
	// Comparison
	{Name: "EQ", Aliases: []string{"=", "==", "eq"}, Arity: 1, Kind: KindScalar, Category: CategoryComparison, Coercion: CoerceAuto, Symbol: "="},
	{Name: "NEQ", Aliases: []string{"!=", "<>", "not", "ne"}, Arity: 1, Kind: KindScalar, Category: CategoryComparison, Coercion: CoerceAuto, Symbol: "!="},
	{Name: "GT", Aliases: []string{">", "gt"}, Arity: 1, Kind: KindScalar, Category: CategoryComparison, Coercion: CoerceAuto, Symbol: ">"},
	{Name: "GTE", Aliases: []string{">=", "gte"}, Arity: 1, Kind: KindScalar, Category: CategoryComparison, Coercion: CoerceAuto, Symbol: ">="},
	{Name: "LT", Aliases: []string{"<", "lt"}, Arity: 1, Kind: KindScalar, Category: CategoryComparison, Coercion: CoerceAuto, Symbol: "<"},
	{Name: "LTE", Aliases: []string{"<=", "lte"}, Arity: 1, Kind: KindScalar, Category: CategoryComparison, Coercion: CoerceAuto, Symbol: "<="},

	// Range
	{Name: "BETWEEN", Arity: 2, Kind: KindPair, Category: CategoryRange, Coercion: CoerceNumericOrDate},
	{Name: "NOT_BETWEEN", Arity: 2, Kind: KindPair, Category: CategoryRange, Coercion: CoerceNumericOrDate, Negated: true},

	// Set
	{Name: "IN", Arity: Variadic, Kind: KindList, Category: CategorySet, Coercion: CoerceAuto},
	{Name: "NOT_IN", Aliases: []string{"nin"}, Arity: Variadic, Kind: KindList, Category: CategorySet, Coercion: CoerceAuto, Negated: true},

	// Pattern
	{Name: "LIKE", Arity: 1, Kind: KindScalar, Category: CategoryPattern, Coercion: CoerceNone, Symbol: "like"},
	{Name: "NOT_LIKE", Arity: 1, Kind: KindScalar, Category: CategoryPattern, Coercion: CoerceNone, Symbol: "like", Negated: true},
	{Name: "STARTS_WITH", Arity: 1, Kind: KindScalar, Category: CategoryPattern, Coercion: CoerceNone, Symbol: "starts_with"},
	{Name: "ENDS_WITH", Arity: 1, Kind: KindScalar, Category: CategoryPattern, Coercion: CoerceNone, Symbol: "ends_with"},
	{Name: "CONTAINS", Arity: 1, Kind: KindScalar, Category: CategoryPattern, Coercion: CoerceNone, Symbol: "contains"},
	{Name: "NOT_CONTAINS", Arity: 1, Kind: KindScalar, Category: CategoryPattern, Coercion: CoerceNone, Symbol: "contains", Negated: true},

	// Null check
	{Name: "IS_NULL", Aliases: []string{"null"}, Arity: 0, Kind: KindNone, Category: CategoryNullCheck, Coercion: CoerceNone},
	{Name: "IS_NOT_NULL", Aliases: []string{"not_null"}, Arity: 0, Kind: KindNone, Category: CategoryNullCheck, Coercion: CoerceNone, Negated: true},

	// Date
	{Name: "DATE_EQ", Aliases: []string{"date"}, Arity: 1, Kind: KindScalar, Category: CategoryDatePart, Coercion: CoerceDate, Symbol: "="},
	{Name: "DATE_GT", Arity: 1, Kind: KindScalar, Category: CategoryDatePart, Coercion: CoerceDate, Symbol: ">"},
	{Name: "DATE_GTE", Arity: 1, Kind: KindScalar, Category: CategoryDatePart, Coercion: CoerceDate, Symbol: ">="},
	{Name: "DATE_LT", Arity: 1, Kind: KindScalar, Category: CategoryDatePart, Coercion: CoerceDate, Symbol: "<"},
	{Name: "DATE_LTE", Arity: 1, Kind: KindScalar, Category: CategoryDatePart, Coercion: CoerceDate, Symbol: "<="},
	{Name: "DATE_BETWEEN", Arity: 2, Kind: KindPair, Category: CategoryDatePart, Coercion: CoerceDate},
	{Name: "YEAR", Arity: 1, Kind: KindScalar, Category: CategoryDatePart, Coercion: CoerceInteger, Symbol: "year"},
	{Name: "MONTH", Arity: 1, Kind: KindScalar, Category: CategoryDatePart, Coercion: CoerceInteger, Symbol: "month"},
	{Name: "DAY", Arity: 1, Kind: KindScalar, Category: CategoryDatePart, Coercion: CoerceInteger, Symbol: "day"},

	// JSON
	{Name: "JSON_CONTAINS", Arity: 1, Kind: KindScalar, Category: CategoryJSON, Coercion: CoerceAuto},
	{Name: "JSON_LENGTH", Arity: 1, Kind: KindScalar, Category: CategoryJSON, Coercion: CoerceInteger},

	// Regex
	{Name: "REGEX", Aliases: []string{"REGEXP"}, Arity: 1, Kind: KindScalar, Category: CategoryRegex, Coercion: CoerceNone},
}

// index maps lower-cased names and aliases to table rows.
var index = buildIndex(table)

func buildIndex(rows []Operator) map[string]*Operator {
	idx := make(map[string]*Operator, len(rows)*3)
	for i := range rows {
		op := &rows[i]
		for _, key := range append([]string{op.Name}, op.Aliases...) {
			k := strings.ToLower(key)
			prev, dup := idx[k]
			if dup && prev == op {
				continue
			}
			if dup {
				panic(fmt.Sprintf("operator: %q registered by both %s and %s", key, prev.Name, op.Name))
			}
			idx[k] = op
		}
	}
	return idx
}
