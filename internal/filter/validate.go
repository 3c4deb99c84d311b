package filter

import (
	"fmt"
	"slices"

	"github.com/roach88/sieve/internal/operator"
)

// ValidationResult is the outcome of a pre-flight check.
// Valid is true only when Errors is empty. Clauses holds every clause that
// parsed and validated, even when other clauses failed.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Errors  []ValidationError `json:"errors"`
	Clauses FilterSet         `json:"clauses"`
}

// Messages returns the error messages in order.
func (r ValidationResult) Messages() []string {
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Error()
	}
	return out
}

// Validate resolves operators, checks arity and coerces operands for each
// raw clause. All errors are collected; it does not stop at the first one.
func Validate(raws []RawClause) (FilterSet, []ValidationError) {
	var (
		clauses FilterSet
		errs    []ValidationError
	)

	for _, raw := range raws {
		op, ok := operator.Lookup(raw.Operator)
		if !ok {
			errs = append(errs, ValidationError{
				Kind:     KindUnsupportedOperator,
				Code:     CodeUnsupportedOperator,
				Clause:   raw.Position,
				Field:    raw.Field,
				Operator: raw.Operator,
				Message:  fmt.Sprintf("unsupported operator %q", raw.Operator),
			})
			continue
		}

		if !op.AcceptsArity(len(raw.Args)) {
			errs = append(errs, ValidationError{
				Kind:     KindArity,
				Code:     CodeArity,
				Clause:   raw.Position,
				Field:    raw.Field,
				Operator: op.Name,
				Message:  fmt.Sprintf("operator %s expects %s operand(s), got %d", op.Name, op.ArityString(), len(raw.Args)),
			})
			continue
		}

		clauses = append(clauses, Clause{
			Field:    raw.Field,
			Operator: op,
			Operands: CoerceAll(op, raw.Args),
		})
	}

	return clauses, errs
}

// ValidateFilterString runs the Form B tokenizer and validator.
// It never fails; problems are reported in the result.
func ValidateFilterString(expr string) ValidationResult {
	raws, parseErrs := Tokenize(expr)
	return result(raws, parseErrs)
}

// ValidatePairs runs the Form A tokenizer and validator over ordered pairs.
func ValidatePairs(pairs []Pair) ValidationResult {
	raws, parseErrs := ParsePairs(pairs)
	return result(raws, parseErrs)
}

// ValidateMap runs the Form A tokenizer and validator over a map.
func ValidateMap(m map[string]any) ValidationResult {
	raws, parseErrs := ParseMap(m)
	return result(raws, parseErrs)
}

// Parse is the strict Form B entry point. It returns the clauses only when
// the whole expression is valid; otherwise the error is ValidationErrors.
func Parse(expr string) (FilterSet, error) {
	res := ValidateFilterString(expr)
	if !res.Valid {
		return nil, ValidationErrors(res.Errors)
	}
	return res.Clauses, nil
}

func result(raws []RawClause, parseErrs []ValidationError) ValidationResult {
	clauses, errs := Validate(raws)

	all := append(slices.Clone(parseErrs), errs...)
	slices.SortStableFunc(all, func(a, b ValidationError) int {
		return a.Clause - b.Clause
	})

	if clauses == nil {
		clauses = FilterSet{}
	}
	if all == nil {
		all = []ValidationError{}
	}

	return ValidationResult{
		Valid:   len(all) == 0,
		Errors:  all,
		Clauses: clauses,
	}
}
