package querycel

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/queryir"
)

// builder accumulates operand values while rendering an expression.
type builder struct {
	params []any
}

// Expression renders a predicate as CEL text plus its params list.
// A nil predicate renders as "true".
func Expression(p queryir.Predicate) (string, []any, error) {
	b := &builder{}
	if p == nil {
		return "true", b.params, nil
	}
	expr, err := b.predicate(p, "record", false)
	if err != nil {
		return "", nil, err
	}
	return expr, b.params, nil
}

// param binds v and returns its reference.
func (b *builder) param(v any) string {
	b.params = append(b.params, v)
	return fmt.Sprintf("params[%d]", len(b.params)-1)
}

func (b *builder) value(v ir.IRValue) (string, error) {
	if v == nil {
		return "", fmt.Errorf("missing operand")
	}
	switch v.(type) {
	case ir.IRArray, ir.IRObject:
		return "", fmt.Errorf("%T cannot be used as an operand directly", v)
	}
	return b.param(ir.ToGo(v)), nil
}

// predicate renders p against the map variable scope. nested is true
// inside a relation.
func (b *builder) predicate(p queryir.Predicate, scope string, nested bool) (string, error) {
	field := func(name string) (col, present string) {
		key := strconv.Quote(name)
		col = scope + "[" + key + "]"
		present = "(" + key + " in " + scope + " && " + col + " != null)"
		return col, present
	}

	switch pred := p.(type) {
	case queryir.Equal:
		col, present := field(pred.Field)
		v, err := b.value(pred.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s && %s == %s)", present, col, v), nil

	case queryir.Compare:
		op, err := celOperator(pred.Op)
		if err != nil {
			return "", err
		}
		col, present := field(pred.Field)
		v, err := b.value(pred.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s && %s %s %s)", present, col, op, v), nil

	case queryir.InRange:
		col, present := field(pred.Field)
		lo, err := b.value(pred.Low)
		if err != nil {
			return "", err
		}
		hi, err := b.value(pred.High)
		if err != nil {
			return "", err
		}
		between := fmt.Sprintf("%s >= %s && %s <= %s", col, lo, col, hi)
		if pred.Negate {
			return fmt.Sprintf("(%s && !(%s))", present, between), nil
		}
		return fmt.Sprintf("(%s && %s)", present, between), nil

	case queryir.InSet:
		if len(pred.Values) == 0 {
			return "", fmt.Errorf("field %q: IN requires at least one value", pred.Field)
		}
		col, present := field(pred.Field)
		values := make([]any, 0, len(pred.Values))
		for _, v := range pred.Values {
			if v == nil {
				return "", fmt.Errorf("missing operand")
			}
			values = append(values, ir.ToGo(v))
		}
		list := b.param(values)
		if pred.Negate {
			return fmt.Sprintf("(%s && !(%s in %s))", present, col, list), nil
		}
		return fmt.Sprintf("(%s && %s in %s)", present, col, list), nil

	case queryir.Pattern:
		col, present := field(pred.Field)
		re := b.param(likeToRegexp(pred.LikePattern()))
		if pred.Negate {
			return fmt.Sprintf("(%s && !string(%s).matches(%s))", present, col, re), nil
		}
		return fmt.Sprintf("(%s && string(%s).matches(%s))", present, col, re), nil

	case queryir.NullCheck:
		_, present := field(pred.Field)
		if pred.IsNull {
			return "!" + present, nil
		}
		return present, nil

	case queryir.DateCompare:
		op, err := celOperator(pred.Op)
		if err != nil {
			return "", err
		}
		col, present := field(pred.Field)
		v, err := b.value(pred.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(`(%s && dateOf(%s) != "" && dateOf(%s) %s dateOf(%s))`,
			present, col, col, op, v), nil

	case queryir.DateRange:
		col, present := field(pred.Field)
		lo, err := b.value(pred.Low)
		if err != nil {
			return "", err
		}
		hi, err := b.value(pred.High)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(`(%s && dateOf(%s) != "" && dateOf(%s) >= dateOf(%s) && dateOf(%s) <= dateOf(%s))`,
			present, col, col, lo, col, hi), nil

	case queryir.DatePart:
		switch pred.Part {
		case queryir.PartYear, queryir.PartMonth, queryir.PartDay:
		default:
			return "", fmt.Errorf("unsupported date part %q", pred.Part)
		}
		col, present := field(pred.Field)
		v, err := b.value(pred.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s && datePart(%s, %s) == %s)", present, col, strconv.Quote(pred.Part), v), nil

	case queryir.JSONContains:
		col, present := field(pred.Field)
		v, err := b.value(pred.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s && type(%s) == list && %s in %s)", present, col, v, col), nil

	case queryir.JSONLength:
		col, present := field(pred.Field)
		v, err := b.value(pred.Length)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s && type(%s) == list && size(%s) == %s)", present, col, col, v), nil

	case queryir.Regex:
		if _, err := regexp.Compile(pred.Pattern); err != nil {
			return "", fmt.Errorf("field %q: invalid regex: %w", pred.Field, err)
		}
		col, present := field(pred.Field)
		return fmt.Sprintf("(%s && string(%s).matches(%s))", present, col, b.param(pred.Pattern)), nil

	case queryir.Related:
		if nested {
			return "", fmt.Errorf("relation %q: nested relations are not supported", pred.Relation)
		}
		if pred.Predicate == nil {
			return "", fmt.Errorf("relation %q: predicate is required", pred.Relation)
		}
		col, present := field(pred.Relation)
		inner, err := b.predicate(pred.Predicate, "rel", true)
		if err != nil {
			return "", fmt.Errorf("relation %q: %w", pred.Relation, err)
		}
		// A belongs-to relation holds one object, a has-many relation a list.
		return fmt.Sprintf("(%s && (type(%s) == list ? %s : [%s]).exists(rel, %s))",
			present, col, col, col, inner), nil

	case queryir.And:
		return b.group(pred.Predicates, " && ", "true", scope, nested)

	case queryir.Or:
		return b.group(pred.Predicates, " || ", "false", scope, nested)

	case queryir.Not:
		if pred.Predicate == nil {
			return "", fmt.Errorf("NOT requires a predicate")
		}
		inner, err := b.predicate(pred.Predicate, scope, nested)
		if err != nil {
			return "", err
		}
		return "!(" + inner + ")", nil

	default:
		return "", fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (b *builder) group(preds []queryir.Predicate, sep, empty, scope string, nested bool) (string, error) {
	if len(preds) == 0 {
		return empty, nil
	}
	parts := make([]string, 0, len(preds))
	for _, p := range preds {
		expr, err := b.predicate(p, scope, nested)
		if err != nil {
			return "", err
		}
		parts = append(parts, expr)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

// celOperator maps a queryir comparison to its CEL spelling.
func celOperator(op string) (string, error) {
	switch op {
	case queryir.OpEq:
		return "==", nil
	case queryir.OpNeq, queryir.OpGt, queryir.OpGte, queryir.OpLt, queryir.OpLte:
		return op, nil
	default:
		return "", fmt.Errorf("unsupported comparison operator %q", op)
	}
}

// likeToRegexp translates a LIKE pattern to an anchored, case-insensitive
// RE2 expression: % matches any run of characters and _ exactly one.
func likeToRegexp(pattern string) string {
	var b strings.Builder
	b.WriteString("(?is)^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return b.String()
}
