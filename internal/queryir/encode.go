package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/sieve/internal/ir"
)

// ToIR renders a predicate as an ir.IRObject tree. The encoding is stable
// and is what plan identity (ir.PlanKey) and JSON output are computed from.
func ToIR(p Predicate) ir.IRValue {
	switch pred := p.(type) {
	case nil:
		return ir.IRNull{}
	case Equal:
		return node("equal", ir.O("field", ir.IRString(pred.Field)), ir.O("value", value(pred.Value)))
	case Compare:
		return node("compare", ir.O("field", ir.IRString(pred.Field)), ir.O("op", ir.IRString(pred.Op)), ir.O("value", value(pred.Value)))
	case InRange:
		return node("in_range", ir.O("field", ir.IRString(pred.Field)), ir.O("low", value(pred.Low)), ir.O("high", value(pred.High)), ir.O("negate", ir.IRBool(pred.Negate)))
	case InSet:
		return node("in_set", ir.O("field", ir.IRString(pred.Field)), ir.O("values", values(pred.Values)), ir.O("negate", ir.IRBool(pred.Negate)))
	case Pattern:
		return node("pattern", ir.O("field", ir.IRString(pred.Field)), ir.O("kind", ir.IRString(pred.Kind)), ir.O("text", ir.IRString(pred.Text)), ir.O("negate", ir.IRBool(pred.Negate)))
	case NullCheck:
		return node("null_check", ir.O("field", ir.IRString(pred.Field)), ir.O("is_null", ir.IRBool(pred.IsNull)))
	case DateCompare:
		return node("date_compare", ir.O("field", ir.IRString(pred.Field)), ir.O("op", ir.IRString(pred.Op)), ir.O("value", value(pred.Value)))
	case DateRange:
		return node("date_range", ir.O("field", ir.IRString(pred.Field)), ir.O("low", value(pred.Low)), ir.O("high", value(pred.High)))
	case DatePart:
		return node("date_part", ir.O("field", ir.IRString(pred.Field)), ir.O("part", ir.IRString(pred.Part)), ir.O("value", value(pred.Value)))
	case JSONContains:
		return node("json_contains", ir.O("field", ir.IRString(pred.Field)), ir.O("value", value(pred.Value)))
	case JSONLength:
		return node("json_length", ir.O("field", ir.IRString(pred.Field)), ir.O("length", value(pred.Length)))
	case Regex:
		return node("regex", ir.O("field", ir.IRString(pred.Field)), ir.O("pattern", ir.IRString(pred.Pattern)))
	case Related:
		return node("related", ir.O("relation", ir.IRString(pred.Relation)), ir.O("predicate", ToIR(pred.Predicate)))
	case And:
		return node("and", ir.O("predicates", predicates(pred.Predicates)))
	case Or:
		return node("or", ir.O("predicates", predicates(pred.Predicates)))
	case Not:
		return node("not", ir.O("predicate", ToIR(pred.Predicate)))
	default:
		return node("unknown", ir.O("type", ir.IRString(fmt.Sprintf("%T", p))))
	}
}

// PlanIR renders a whole plan for hashing and JSON output.
func PlanIR(p Plan) ir.IRObject {
	filters := make(ir.IRArray, len(p.Filters))
	for i, f := range p.Filters {
		filters[i] = ToIR(f)
	}

	search := make(ir.IRArray, len(p.Search))
	for i, s := range p.Search {
		search[i] = ir.NewIRObjectFromPairs(
			ir.O("connective", ir.IRString(s.Connective)),
			ir.O("exclude", ir.IRBool(s.Exclude)),
			ir.O("predicate", ToIR(s.Predicate)),
		)
	}

	rank := make(ir.IRArray, len(p.Rank))
	for i, b := range p.Rank {
		rank[i] = ir.NewIRObjectFromPairs(
			ir.O("field", ir.IRString(b.Field)),
			ir.O("weight", ir.IRInt(b.Weight)),
			ir.O("term", ir.IRString(b.Term)),
		)
	}

	return ir.NewIRObjectFromPairs(
		ir.O("filters", filters),
		ir.O("search", search),
		ir.O("rank", rank),
	)
}

// Format renders a predicate in the instruction notation used in logs and
// CLI text output, e.g. `InRange(price, 100, 500)`.
func Format(p Predicate) string {
	switch pred := p.(type) {
	case nil:
		return "True"
	case Equal:
		return fmt.Sprintf("Equal(%s, %s)", pred.Field, formatValue(pred.Value))
	case Compare:
		return fmt.Sprintf("Compare(%s %s %s)", pred.Field, pred.Op, formatValue(pred.Value))
	case InRange:
		return negated(pred.Negate, fmt.Sprintf("InRange(%s, %s, %s)", pred.Field, formatValue(pred.Low), formatValue(pred.High)))
	case InSet:
		vals := make([]string, len(pred.Values))
		for i, v := range pred.Values {
			vals[i] = formatValue(v)
		}
		return negated(pred.Negate, fmt.Sprintf("InSet(%s, [%s])", pred.Field, strings.Join(vals, ", ")))
	case Pattern:
		return negated(pred.Negate, fmt.Sprintf("Pattern(%s, %s, %q)", pred.Field, pred.Kind, pred.Text))
	case NullCheck:
		if pred.IsNull {
			return fmt.Sprintf("IsNull(%s)", pred.Field)
		}
		return fmt.Sprintf("IsNotNull(%s)", pred.Field)
	case DateCompare:
		return fmt.Sprintf("DateCompare(%s %s %s)", pred.Field, pred.Op, formatValue(pred.Value))
	case DateRange:
		return fmt.Sprintf("DateRange(%s, %s, %s)", pred.Field, formatValue(pred.Low), formatValue(pred.High))
	case DatePart:
		return fmt.Sprintf("DatePart(%s, %s, %s)", pred.Field, pred.Part, formatValue(pred.Value))
	case JSONContains:
		return fmt.Sprintf("JsonContains(%s, %s)", pred.Field, formatValue(pred.Value))
	case JSONLength:
		return fmt.Sprintf("JsonLength(%s, %s)", pred.Field, formatValue(pred.Length))
	case Regex:
		return fmt.Sprintf("Regex(%s, %q)", pred.Field, pred.Pattern)
	case Related:
		return fmt.Sprintf("Related(%s, %s)", pred.Relation, Format(pred.Predicate))
	case And:
		return formatGroup("And", pred.Predicates)
	case Or:
		return formatGroup("Or", pred.Predicates)
	case Not:
		return fmt.Sprintf("Not(%s)", Format(pred.Predicate))
	default:
		return fmt.Sprintf("Unknown(%T)", p)
	}
}

func node(op string, pairs ...ir.IRPair) ir.IRObject {
	return ir.NewIRObjectFromPairs(append([]ir.IRPair{ir.O("op", ir.IRString(op))}, pairs...)...)
}

func value(v ir.IRValue) ir.IRValue {
	if v == nil {
		return ir.IRNull{}
	}
	return v
}

func values(vs []ir.IRValue) ir.IRArray {
	out := make(ir.IRArray, len(vs))
	for i, v := range vs {
		out[i] = value(v)
	}
	return out
}

func predicates(ps []Predicate) ir.IRArray {
	out := make(ir.IRArray, len(ps))
	for i, p := range ps {
		out[i] = ToIR(p)
	}
	return out
}

func formatValue(v ir.IRValue) string {
	if s, ok := v.(ir.IRString); ok {
		return fmt.Sprintf("%q", string(s))
	}
	return ir.Text(v)
}

func negated(neg bool, s string) string {
	if neg {
		return "Not" + s
	}
	return s
}

func formatGroup(name string, ps []Predicate) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = Format(p)
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}
