package filter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/operator"
)

var (
	numericPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)
	integerPattern = regexp.MustCompile(`^[+-]?\d+$`)
)

// Coerce types one operand for op.
//
// Only string operands are coerced. Coercion never fails: text that does
// not match the operator's expectation is returned unchanged and compares
// as a string downstream.
func Coerce(op *operator.Operator, v ir.IRValue) ir.IRValue {
	s, ok := v.(ir.IRString)
	if !ok {
		return v
	}
	text := string(s)

	switch op.Coercion {
	case operator.CoerceAuto:
		if isEquality(op) && strings.EqualFold(text, "null") {
			return ir.IRNull{}
		}
		if n, ok := coerceNumber(text); ok {
			return n
		}
	case operator.CoerceNumericOrDate:
		if n, ok := coerceNumber(text); ok {
			return n
		}
		if t, ok := ir.ParseTime(text); ok {
			return t
		}
	case operator.CoerceDate:
		if t, ok := ir.ParseTime(text); ok {
			return t
		}
	case operator.CoerceInteger:
		if integerPattern.MatchString(text) {
			if n, err := strconv.ParseInt(text, 10, 64); err == nil {
				return ir.IRInt(n)
			}
		}
	case operator.CoerceNone:
	}

	return v
}

// isEquality reports whether op is EQ or NEQ, the only operators for which
// the text null means SQL NULL (they compile to null checks).
func isEquality(op *operator.Operator) bool {
	return op.Category == operator.CategoryComparison && (op.Symbol == "=" || op.Symbol == "!=")
}

// CoerceAll coerces every operand for op.
func CoerceAll(op *operator.Operator, args []ir.IRValue) []ir.IRValue {
	if len(args) == 0 {
		return nil
	}
	out := make([]ir.IRValue, len(args))
	for i, a := range args {
		out[i] = Coerce(op, a)
	}
	return out
}

// coerceNumber converts numeric-looking text to IRInt when its value is
// integral and fits in int64, and to IRDecimal otherwise. "100.0" is
// IRInt(100), so it reads back the same after Build writes "100".
func coerceNumber(text string) (ir.IRValue, bool) {
	if !numericPattern.MatchString(text) {
		return nil, false
	}
	if integerPattern.MatchString(text) {
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return ir.IRInt(n), true
		}
	}
	d, err := ir.ParseDecimal(text)
	if err != nil {
		return nil, false
	}
	if reduced := d.String(); integerPattern.MatchString(reduced) {
		if n, err := strconv.ParseInt(reduced, 10, 64); err == nil {
			return ir.IRInt(n), true
		}
	}
	return d, true
}
