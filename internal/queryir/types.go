package queryir

import "github.com/roach88/sieve/internal/ir"

// Predicate is one executor-agnostic condition over a record.
//
// This is a sealed interface - only types in this package implement it.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Comparison operator symbols used by Compare and DateCompare.
const (
	OpEq  = "="
	OpNeq = "!="
	OpGt  = ">"
	OpGte = ">="
	OpLt  = "<"
	OpLte = "<="
)

// Equal matches records whose field equals Value.
//
// Value is never IRNull; null equality compiles to NullCheck.
type Equal struct {
	Field string
	Value ir.IRValue
}

func (Equal) predicateNode() {}

// Compare matches records where `field Op value` holds.
//
// Semantics follow the executor's ordering for the operand type: numbers
// compare numerically, strings lexically (ISO-8601 text sorts
// chronologically).
type Compare struct {
	Field string
	Op    string // one of OpEq..OpLte
	Value ir.IRValue
}

func (Compare) predicateNode() {}

// InRange matches Low <= field <= High, inclusive on both ends.
// Negate selects the complement (NOT BETWEEN).
type InRange struct {
	Field  string
	Low    ir.IRValue
	High   ir.IRValue
	Negate bool
}

func (InRange) predicateNode() {}

// InSet matches records whose field equals any of Values.
// Negate selects the complement (NOT IN). Values is never empty.
type InSet struct {
	Field  string
	Values []ir.IRValue
	Negate bool
}

func (InSet) predicateNode() {}

// PatternKind selects how Pattern.Text is applied.
type PatternKind string

const (
	// PatternLike uses Text verbatim as a LIKE pattern (% and _ are wildcards).
	PatternLike PatternKind = "like"

	// PatternStartsWith, PatternEndsWith and PatternContains wrap Text in
	// wildcards. Wildcard characters inside Text are NOT escaped.
	PatternStartsWith PatternKind = "starts_with"
	PatternEndsWith   PatternKind = "ends_with"
	PatternContains   PatternKind = "contains"
)

// Pattern matches a string field against a wildcard pattern.
//
// CRITICAL: Text is not wildcard-escaped. "100%" used with
// PatternContains matches "100" followed by anything.
type Pattern struct {
	Field  string
	Kind   PatternKind
	Text   string
	Negate bool
}

func (Pattern) predicateNode() {}

// LikePattern returns the LIKE pattern Kind and Text describe.
func (p Pattern) LikePattern() string {
	switch p.Kind {
	case PatternStartsWith:
		return p.Text + "%"
	case PatternEndsWith:
		return "%" + p.Text
	case PatternContains:
		return "%" + p.Text + "%"
	default:
		return p.Text
	}
}

// NullCheck matches records where field is (IsNull) or is not null.
type NullCheck struct {
	Field  string
	IsNull bool
}

func (NullCheck) predicateNode() {}

// DateCompare compares the calendar date of field against Value.
// Value is an ir.IRTime, or an ir.IRString when coercion fell back.
type DateCompare struct {
	Field string
	Op    string
	Value ir.IRValue
}

func (DateCompare) predicateNode() {}

// DateRange matches Low <= date(field) <= High.
type DateRange struct {
	Field string
	Low   ir.IRValue
	High  ir.IRValue
}

func (DateRange) predicateNode() {}

// Date parts extracted by DatePart.
const (
	PartYear  = "year"
	PartMonth = "month"
	PartDay   = "day"
)

// DatePart matches records whose date field has the given year, month or
// day component.
type DatePart struct {
	Field string
	Part  string
	Value ir.IRValue
}

func (DatePart) predicateNode() {}

// JSONContains matches records whose JSON array field contains Value.
type JSONContains struct {
	Field string
	Value ir.IRValue
}

func (JSONContains) predicateNode() {}

// JSONLength matches records whose JSON array field has Length elements.
type JSONLength struct {
	Field  string
	Length ir.IRValue
}

func (JSONLength) predicateNode() {}

// Regex matches records whose field matches Pattern (RE2 syntax).
type Regex struct {
	Field   string
	Pattern string
}

func (Regex) predicateNode() {}

// Related matches records with at least one related record satisfying
// Predicate. Field names inside Predicate refer to the related record.
//
// Example: the clause author.name:EQ(Ada) compiles to
//
//	Related{Relation: "author", Predicate: Equal{Field: "name", Value: "Ada"}}
//
// Executors implement it as an existence sub-query.
type Related struct {
	Relation  string
	Predicate Predicate
}

func (Related) predicateNode() {}

// And is a conjunction. An empty And is always true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Or is a disjunction. An empty Or is always false.
type Or struct {
	Predicates []Predicate
}

func (Or) predicateNode() {}

// Not negates Predicate.
type Not struct {
	Predicate Predicate
}

func (Not) predicateNode() {}
