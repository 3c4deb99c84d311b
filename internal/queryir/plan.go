package queryir

import "strings"

// Search step connectives.
const (
	ConnectiveAnd = "AND"
	ConnectiveOr  = "OR"
)

// SearchStep is one compiled search term.
//
// Connective is empty for the first step and AND or OR afterwards.
// Exclude negates the step and forces it to fold with AND, whatever its
// Connective: "a OR b -c" folds to ((a OR b) AND NOT c).
type SearchStep struct {
	Connective string
	Exclude    bool
	Predicate  Predicate
}

// Boost adds Weight to a record's relevance when Field contains Term.
type Boost struct {
	Field  string
	Weight int
	Term   string
}

// Predicate returns the match condition the boost scores: Field contains
// Term, through the relation when Field is "relation.column".
func (b Boost) Predicate() Predicate {
	relation, column, ok := strings.Cut(b.Field, ".")
	if !ok {
		return Pattern{Field: b.Field, Kind: PatternContains, Text: b.Term}
	}
	return Related{
		Relation:  relation,
		Predicate: Pattern{Field: column, Kind: PatternContains, Text: b.Term},
	}
}

// Plan is the ordered instruction list produced by the compiler.
type Plan struct {
	Filters []Predicate
	Search  []SearchStep
	Rank    []Boost
}

// Len returns the number of instructions (filters plus search steps).
func (p Plan) Len() int {
	return len(p.Filters) + len(p.Search)
}

// Empty reports whether the plan selects every record.
func (p Plan) Empty() bool {
	return p.Len() == 0
}

// Predicate folds the plan into a single predicate tree:
//
//	And(filter1, ..., filterN, fold(search))
//
// Returns nil when the plan is empty (match everything).
func (p Plan) Predicate() Predicate {
	parts := make([]Predicate, 0, len(p.Filters)+1)
	parts = append(parts, p.Filters...)
	if s := FoldSearch(p.Search); s != nil {
		parts = append(parts, s)
	}

	switch len(parts) {
	case 0:
		return nil
	case 1:
		return parts[0]
	default:
		return And{Predicates: parts}
	}
}

// FoldSearch combines search steps strictly left to right with no
// grouping. Returns nil for no steps.
func FoldSearch(steps []SearchStep) Predicate {
	var acc Predicate
	for i, step := range steps {
		pred := step.Predicate
		if step.Exclude {
			pred = Not{Predicate: pred}
		}

		if i == 0 {
			acc = pred
			continue
		}

		if !step.Exclude && step.Connective == ConnectiveOr {
			acc = appendOr(acc, pred)
		} else {
			acc = appendAnd(acc, pred)
		}
	}
	return acc
}

// appendAnd extends a top-level And instead of nesting (AND is associative).
func appendAnd(acc, pred Predicate) Predicate {
	if a, ok := acc.(And); ok {
		return And{Predicates: append(append([]Predicate{}, a.Predicates...), pred)}
	}
	return And{Predicates: []Predicate{acc, pred}}
}

// appendOr extends a top-level Or instead of nesting (OR is associative).
func appendOr(acc, pred Predicate) Predicate {
	if o, ok := acc.(Or); ok {
		return Or{Predicates: append(append([]Predicate{}, o.Predicates...), pred)}
	}
	return Or{Predicates: []Predicate{acc, pred}}
}
