package filter

import (
	"sort"
	"strings"

	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/operator"
)

// Pair is one Form A entry: a field or field:operator key and its value.
type Pair struct {
	Key   string
	Value any
}

// ParseMap tokenizes a Form A map. Keys are processed in sorted order so
// that positions and output are deterministic.
func ParseMap(m map[string]any) ([]RawClause, []ValidationError) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Pair, len(keys))
	for i, k := range keys {
		pairs[i] = Pair{Key: k, Value: m[k]}
	}
	return ParsePairs(pairs)
}

// ParsePairs tokenizes ordered Form A pairs.
//
// Rules:
//   - the key is split on the first ':'; the left part is the field
//   - without an operator, arrays default to IN, nil to IS_NULL and
//     everything else to EQ
//   - a null-check whose value is a false flag is skipped
//   - for pair and list operators a string value is split on ','
func ParsePairs(pairs []Pair) ([]RawClause, []ValidationError) {
	var (
		clauses []RawClause
		errs    []ValidationError
	)

	pos := 0
	for _, p := range pairs {
		pos++
		fieldPart, opToken, hasOp := strings.Cut(p.Key, ":")
		field := strings.TrimSpace(fieldPart)
		opToken = strings.TrimSpace(opToken)

		if !ValidField(field) {
			errs = append(errs, parseError(pos, field, opToken, "invalid field name %q", field))
			continue
		}
		if hasOp && opToken == "" {
			errs = append(errs, parseError(pos, field, "", "missing operator after ':' in %q", p.Key))
			continue
		}

		value, err := ir.FromGo(p.Value)
		if err != nil {
			errs = append(errs, parseError(pos, field, opToken, "unsupported value: %v", err))
			continue
		}

		if !hasOp {
			opToken = defaultOperator(value)
		}

		op, known := operator.Lookup(opToken)
		if known && op.Kind == operator.KindNone {
			if isFalseFlag(value) {
				continue
			}
			clauses = append(clauses, RawClause{Position: pos, Field: field, Operator: opToken, Source: p.Key})
			continue
		}

		clauses = append(clauses, RawClause{
			Position: pos,
			Field:    field,
			Operator: opToken,
			Args:     mapArgs(op, value),
			Source:   p.Key,
		})
	}

	return clauses, errs
}

func defaultOperator(v ir.IRValue) string {
	switch v.(type) {
	case ir.IRArray:
		return "IN"
	case ir.IRNull:
		return "IS_NULL"
	default:
		return "EQ"
	}
}

// mapArgs spreads a Form A value into operands for op. op may be nil when
// the operator is unknown; the value is then kept as given.
func mapArgs(op *operator.Operator, v ir.IRValue) []ir.IRValue {
	if arr, ok := v.(ir.IRArray); ok {
		return []ir.IRValue(arr)
	}
	if op != nil && (op.Kind == operator.KindPair || op.Kind == operator.KindList) {
		if s, ok := v.(ir.IRString); ok {
			return splitArgs(string(s))
		}
	}
	return []ir.IRValue{v}
}

// isFalseFlag reports whether a null-check flag disables the clause.
func isFalseFlag(v ir.IRValue) bool {
	switch val := v.(type) {
	case ir.IRBool:
		return !bool(val)
	case ir.IRInt:
		return val == 0
	case ir.IRString:
		s := strings.ToLower(strings.TrimSpace(string(val)))
		return s == "false" || s == "0"
	default:
		return false
	}
}
