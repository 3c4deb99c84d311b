package operator

import (
	"fmt"
	"strings"
)

// Variadic marks an operator that accepts one or more operands.
const Variadic = -1

// Kind describes the shape of an operator's operand list.
type Kind int

const (
	KindNone   Kind = iota // no operands
	KindScalar             // exactly one operand
	KindPair               // exactly two operands (low, high)
	KindList               // one or more operands
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindScalar:
		return "scalar"
	case KindPair:
		return "pair"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Category is the abstract predicate family an operator compiles into.
type Category string

const (
	CategoryComparison Category = "comparison"
	CategoryRange      Category = "range"
	CategorySet        Category = "set"
	CategoryPattern    Category = "pattern"
	CategoryNullCheck  Category = "null-check"
	CategoryDatePart   Category = "date-part"
	CategoryJSON       Category = "json"
	CategoryRegex      Category = "regex"
)

// Coercion selects how raw operand text is typed before compilation.
type Coercion int

const (
	// CoerceAuto turns numeric-looking text into numbers and the literal
	// null into IRNull; everything else stays a string.
	CoerceAuto Coercion = iota

	// CoerceNumericOrDate tries a number first, then an ISO-8601 date.
	CoerceNumericOrDate

	// CoerceDate tries an ISO-8601 date.
	CoerceDate

	// CoerceInteger tries a base-10 integer.
	CoerceInteger

	// CoerceNone keeps operands as literal text.
	CoerceNone
)

func (c Coercion) String() string {
	switch c {
	case CoerceAuto:
		return "auto"
	case CoerceNumericOrDate:
		return "numeric-or-date"
	case CoerceDate:
		return "date"
	case CoerceInteger:
		return "integer"
	case CoerceNone:
		return "none"
	default:
		return fmt.Sprintf("coercion(%d)", int(c))
	}
}

// Operator is an immutable operator descriptor.
//
// Symbol is the backend-facing selector within the category:
//   - comparison and date compare: "=", "!=", ">", ">=", "<", "<="
//   - pattern: "like", "starts_with", "ends_with", "contains"
//   - date part: "year", "month", "day"
//
// Negated flips the category primitive (NOT_IN, NOT_BETWEEN, NOT_LIKE,
// NOT_CONTAINS, IS_NOT_NULL).
type Operator struct {
	Name     string
	Aliases  []string
	Arity    int
	Kind     Kind
	Category Category
	Coercion Coercion
	Symbol   string
	Negated  bool
}

// AcceptsArity reports whether n operands satisfy the operator.
func (o *Operator) AcceptsArity(n int) bool {
	if o.Arity == Variadic {
		return n >= 1
	}
	return n == o.Arity
}

// ArityString renders the arity for error messages.
func (o *Operator) ArityString() string {
	if o.Arity == Variadic {
		return "at least 1"
	}
	return fmt.Sprintf("%d", o.Arity)
}

// IsDate reports whether the operator compares calendar dates.
func (o *Operator) IsDate() bool {
	return o.Category == CategoryDatePart && o.Coercion == CoerceDate
}

// Lookup resolves a canonical name or alias, case-insensitively.
func Lookup(name string) (*Operator, bool) {
	op, ok := index[strings.ToLower(strings.TrimSpace(name))]
	return op, ok
}

// MustLookup is like Lookup but panics when the operator does not exist.
// Use only with compile-time constant names.
func MustLookup(name string) *Operator {
	op, ok := Lookup(name)
	if !ok {
		panic(fmt.Sprintf("operator: unknown operator %q", name))
	}
	return op
}

// All returns every operator in table order.
// The returned slice is a copy; the operators it points to are shared.
func All() []*Operator {
	out := make([]*Operator, len(table))
	for i := range table {
		out[i] = &table[i]
	}
	return out
}
