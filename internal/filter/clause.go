package filter

import (
	"regexp"
	"strings"

	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/operator"
)

// fieldPattern accepts a plain identifier or one level of relation path.
var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ValidField reports whether name is an acceptable clause field.
func ValidField(name string) bool {
	return fieldPattern.MatchString(name)
}

// RawClause is a tokenized clause whose operator is not yet resolved and
// whose operands are not yet coerced.
type RawClause struct {
	Position int          // 1-based position in the input
	Field    string       // field or relation.field
	Operator string       // operator token as written
	Args     []ir.IRValue // uncoerced operands
	Source   string       // clause text or map key
}

// Clause is one validated filter instruction.
// Invariant: Operator.AcceptsArity(len(Operands)).
type Clause struct {
	Field    string
	Operator *operator.Operator
	Operands []ir.IRValue
}

// BaseField returns the part of Field before any relation dot.
func (c Clause) BaseField() string {
	base, _, _ := strings.Cut(c.Field, ".")
	return base
}

// Relation splits a relation-qualified field into relation and column.
// ok is false for plain fields.
func (c Clause) Relation() (relation, column string, ok bool) {
	return strings.Cut(c.Field, ".")
}

// FilterSet is an ordered list of clauses, conjoined when compiled.
type FilterSet []Clause

// Fields returns the clause fields in order, without duplicates.
func (fs FilterSet) Fields() []string {
	seen := make(map[string]bool, len(fs))
	var out []string
	for _, c := range fs {
		if !seen[c.Field] {
			seen[c.Field] = true
			out = append(out, c.Field)
		}
	}
	return out
}
