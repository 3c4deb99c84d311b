// Package compiler turns validated filter clauses and search terms into a
// queryir.Plan.
//
// The compiler runs after validation and authorization. It assumes every
// clause satisfies its operator's arity; an un-validated clause compiles to
// an instruction queryir.Validate flags, never to a panic.
package compiler

import (
	"github.com/roach88/sieve/internal/fields"
	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/operator"
	"github.com/roach88/sieve/internal/queryir"
	"github.com/roach88/sieve/internal/search"
)

// Input is everything one compilation needs.
type Input struct {
	Filters filter.FilterSet
	Search  search.Query
	Fields  fields.Config
}

// Output is the compiled plan plus what the whitelist removed.
type Output struct {
	Plan           queryir.Plan
	DroppedClauses filter.FilterSet
	DroppedFields  []string
}

// Compile authorizes the input against the field whitelist and compiles
// what remains.
//
// Steps:
//  1. Drop clauses whose base field is not whitelisted or whose
//     relation is not declared
//  2. Compile each kept clause to one filter instruction, in order
//  3. Resolve search fields: caller-supplied fields are whitelisted,
//     otherwise the configured searchable fields are used
//  4. Compile each search term to one search step, in order
//  5. Emit relevance boosts for weighted fields and non-excluded terms
func Compile(in Input) Output {
	kept, dropped := in.Fields.Authorize(in.Filters)

	out := Output{DroppedClauses: dropped}
	out.Plan.Filters = make([]queryir.Predicate, 0, len(kept))
	for _, c := range kept {
		out.Plan.Filters = append(out.Plan.Filters, CompileClause(c))
	}

	searchFields := in.Fields.Searchable
	if len(in.Search.Fields) > 0 {
		searchFields, out.DroppedFields = in.Fields.AuthorizeSearch(in.Search.Fields)
	}
	if len(searchFields) == 0 {
		return out
	}

	for _, t := range in.Search.Terms {
		out.Plan.Search = append(out.Plan.Search, queryir.SearchStep{
			Connective: t.Combinator,
			Exclude:    t.Exclude,
			Predicate:  CompileTerm(t, searchFields),
		})

		if t.Exclude {
			continue
		}
		for _, f := range searchFields {
			if w := in.Fields.Weights[f]; w > 0 {
				out.Plan.Rank = append(out.Plan.Rank, queryir.Boost{Field: f, Weight: w, Term: t.Text})
			}
		}
	}

	return out
}

// CompileClause compiles one clause. Relation-qualified fields become a
// Related instruction wrapping the column predicate.
func CompileClause(c filter.Clause) queryir.Predicate {
	if relation, column, ok := c.Relation(); ok {
		return queryir.Related{
			Relation:  relation,
			Predicate: compileColumn(column, c.Operator, c.Operands),
		}
	}
	return compileColumn(c.Field, c.Operator, c.Operands)
}

// CompileTerm compiles one search term: it matches when any field does.
// Exact terms use equality, others a contains pattern.
func CompileTerm(t search.Term, searchFields []string) queryir.Predicate {
	preds := make([]queryir.Predicate, 0, len(searchFields))
	for _, f := range searchFields {
		preds = append(preds, termPredicate(t, f))
	}
	if len(preds) == 1 {
		return preds[0]
	}
	return queryir.Or{Predicates: preds}
}

func termPredicate(t search.Term, field string) queryir.Predicate {
	relation, column, related := filter.Clause{Field: field}.Relation()
	if !related {
		column = field
	}

	var pred queryir.Predicate
	if t.Exact {
		pred = queryir.Equal{Field: column, Value: ir.IRString(t.Text)}
	} else {
		pred = queryir.Pattern{Field: column, Kind: queryir.PatternContains, Text: t.Text}
	}

	if related {
		return queryir.Related{Relation: relation, Predicate: pred}
	}
	return pred
}

// compileColumn dispatches on the operator's category.
func compileColumn(field string, op *operator.Operator, operands []ir.IRValue) queryir.Predicate {
	arg := func(i int) ir.IRValue {
		if i < len(operands) {
			return operands[i]
		}
		return nil
	}

	switch op.Category {
	case operator.CategoryComparison:
		return compileComparison(field, op, arg(0))

	case operator.CategoryRange:
		return queryir.InRange{Field: field, Low: arg(0), High: arg(1), Negate: op.Negated}

	case operator.CategorySet:
		return queryir.InSet{Field: field, Values: operands, Negate: op.Negated}

	case operator.CategoryPattern:
		return queryir.Pattern{
			Field:  field,
			Kind:   queryir.PatternKind(op.Symbol),
			Text:   text(arg(0)),
			Negate: op.Negated,
		}

	case operator.CategoryNullCheck:
		return queryir.NullCheck{Field: field, IsNull: !op.Negated}

	case operator.CategoryDatePart:
		switch {
		case op.Kind == operator.KindPair:
			return queryir.DateRange{Field: field, Low: arg(0), High: arg(1)}
		case op.IsDate():
			return queryir.DateCompare{Field: field, Op: op.Symbol, Value: arg(0)}
		default:
			return queryir.DatePart{Field: field, Part: op.Symbol, Value: arg(0)}
		}

	case operator.CategoryJSON:
		if op.Name == "JSON_LENGTH" {
			return queryir.JSONLength{Field: field, Length: arg(0)}
		}
		return queryir.JSONContains{Field: field, Value: arg(0)}

	case operator.CategoryRegex:
		return queryir.Regex{Field: field, Pattern: text(arg(0))}

	default:
		return nil
	}
}

// compileComparison maps EQ/NEQ against null onto NullCheck.
func compileComparison(field string, op *operator.Operator, v ir.IRValue) queryir.Predicate {
	if _, isNull := v.(ir.IRNull); isNull {
		switch op.Symbol {
		case queryir.OpEq:
			return queryir.NullCheck{Field: field, IsNull: true}
		case queryir.OpNeq:
			return queryir.NullCheck{Field: field, IsNull: false}
		}
	}
	if op.Symbol == queryir.OpEq {
		return queryir.Equal{Field: field, Value: v}
	}
	return queryir.Compare{Field: field, Op: op.Symbol, Value: v}
}

func text(v ir.IRValue) string {
	if v == nil {
		return ""
	}
	return ir.Text(v)
}
