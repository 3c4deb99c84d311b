package filter

import (
	"strings"

	"github.com/roach88/sieve/internal/ir"
)

// Build renders clauses as a canonical Form B expression.
//
// Canonical names are always used, never aliases. Zero-arity operators
// render without parentheses. Build(Parse(s)) is a fixed point after one
// pass.
func Build(clauses []Clause) string {
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		parts = append(parts, buildClause(c))
	}
	return strings.Join(parts, ";")
}

func buildClause(c Clause) string {
	var b strings.Builder
	b.WriteString(c.Field)
	b.WriteByte(':')
	b.WriteString(c.Operator.Name)
	if c.Operator.Arity == 0 {
		return b.String()
	}

	b.WriteByte('(')
	for i, v := range c.Operands {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(ir.Text(v))
	}
	b.WriteByte(')')
	return b.String()
}

// Canonicalize parses expr strictly and renders it back in canonical form.
func Canonicalize(expr string) (string, error) {
	clauses, err := Parse(expr)
	if err != nil {
		return "", err
	}
	return Build(clauses), nil
}
