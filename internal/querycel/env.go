package querycel

import (
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"

	"github.com/roach88/sieve/internal/ir"
)

// newEnv declares the evaluation environment shared by every program.
func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("record", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("params", cel.ListType(cel.DynType)),
		cel.CrossTypeNumericComparisons(true),
		cel.Function("dateOf",
			cel.Overload("dateOf_dyn", []*cel.Type{cel.DynType}, cel.StringType,
				cel.UnaryBinding(dateOf),
			),
		),
		cel.Function("datePart",
			cel.Overload("datePart_dyn_string", []*cel.Type{cel.DynType, cel.StringType}, cel.IntType,
				cel.BinaryBinding(datePart),
			),
		),
	)
}

// dateOf returns the UTC calendar day of a date or timestamp string, or ""
// when the value is not one.
func dateOf(v ref.Val) ref.Val {
	t, ok := parseTime(v)
	if !ok {
		return types.String("")
	}
	return types.String(t.Time.Format(ir.DateLayout))
}

// datePart extracts "year", "month" or "day" from a date or timestamp
// string. Returns -1 when the value is not a date.
func datePart(v, part ref.Val) ref.Val {
	t, ok := parseTime(v)
	if !ok {
		return types.Int(-1)
	}
	switch part.Value() {
	case "year":
		return types.Int(t.Time.Year())
	case "month":
		return types.Int(t.Time.Month())
	case "day":
		return types.Int(t.Time.Day())
	default:
		return types.Int(-1)
	}
}

func parseTime(v ref.Val) (ir.IRTime, bool) {
	s, ok := v.Value().(string)
	if !ok {
		return ir.IRTime{}, false
	}
	return ir.ParseTime(s)
}
