// Package querysql compiles queryir plans to parameterized SQLite.
//
// CRITICAL: Operand values are NEVER interpolated. Every value is bound
// through a ? placeholder; only identifiers (quoted) and configuration
// weights appear in the SQL text.
//
// CRITICAL: Every query ends with ORDER BY and a deterministic id
// tiebreaker.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/queryir"
)

// relatedAlias qualifies columns inside a relation sub-query.
const relatedAlias = "rel"

// Relation describes how a related table joins to the target table:
//
//	<Table>.<ForeignKey> = <target>.<LocalKey>
//
// belongs-to: {Table: "authors", LocalKey: "author_id", ForeignKey: "id"}
// has-many:   {Table: "reviews", LocalKey: "id", ForeignKey: "product_id"}
type Relation struct {
	Table      string
	LocalKey   string
	ForeignKey string
}

// Target is the table a plan is compiled against.
type Target struct {
	Table     string
	Relations map[string]Relation
}

// SQLCompiler compiles queryir plans to parameterized SQL for SQLite.
// The zero value is ready to use.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a plan to a SELECT over target.
// Returns (sql, params, error) tuple.
//
// MANDATORY: Every query includes ORDER BY with a deterministic tiebreaker.
// MANDATORY: All values are parameterized (never interpolated).
func (c *SQLCompiler) Compile(target Target, plan queryir.Plan) (string, []any, error) {
	if target.Table == "" {
		return "", nil, fmt.Errorf("compile: target table is required")
	}

	var (
		b      strings.Builder
		params []any
	)
	b.WriteString("SELECT * FROM ")
	b.WriteString(quoteIdent(target.Table))

	if pred := plan.Predicate(); pred != nil {
		where, whereParams, err := c.compilePredicate(target, pred, "")
		if err != nil {
			return "", nil, fmt.Errorf("compile where: %w", err)
		}
		b.WriteString(" WHERE ")
		b.WriteString(where)
		params = append(params, whereParams...)
	}

	order, orderParams, err := c.orderBy(target, plan.Rank)
	if err != nil {
		return "", nil, fmt.Errorf("compile order: %w", err)
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(order)
	params = append(params, orderParams...)

	return b.String(), params, nil
}

// CompileWhere compiles a single predicate to a WHERE fragment.
// A nil predicate compiles to "1 = 1".
func (c *SQLCompiler) CompileWhere(target Target, p queryir.Predicate) (string, []any, error) {
	if p == nil {
		return "1 = 1", nil, nil
	}
	return c.compilePredicate(target, p, "")
}

// orderBy returns the ORDER BY clause: relevance first when the plan
// carries boosts, then the stable id key.
func (c *SQLCompiler) orderBy(target Target, rank []queryir.Boost) (string, []any, error) {
	if len(rank) == 0 {
		return stableOrderKey(), nil, nil
	}

	var (
		terms  []string
		params []any
	)
	for _, boost := range rank {
		match, matchParams, err := c.compilePredicate(target, boost.Predicate(), "")
		if err != nil {
			return "", nil, err
		}
		terms = append(terms, fmt.Sprintf("CASE WHEN %s THEN %d ELSE 0 END", match, boost.Weight))
		params = append(params, matchParams...)
	}

	return "(" + strings.Join(terms, " + ") + ") DESC, " + stableOrderKey(), params, nil
}

// stableOrderKey is the deterministic tiebreaker every query ends with.
func stableOrderKey() string {
	return `"id" ASC`
}

// compilePredicate compiles a predicate to a SQL fragment.
// qualifier is the table alias for column references ("" at top level).
// CRITICAL: Values NEVER interpolated - always use ? placeholders.
func (c *SQLCompiler) compilePredicate(target Target, p queryir.Predicate, qualifier string) (string, []any, error) {
	col := func(field string) string {
		if qualifier == "" {
			return quoteIdent(field)
		}
		return qualifier + "." + quoteIdent(field)
	}

	switch pred := p.(type) {
	case queryir.Equal:
		return bind(col(pred.Field)+" = ?", pred.Value)

	case queryir.Compare:
		op, err := sqlOperator(pred.Op)
		if err != nil {
			return "", nil, err
		}
		return bind(col(pred.Field)+" "+op+" ?", pred.Value)

	case queryir.InRange:
		kw := "BETWEEN"
		if pred.Negate {
			kw = "NOT BETWEEN"
		}
		return bind(col(pred.Field)+" "+kw+" ? AND ?", pred.Low, pred.High)

	case queryir.InSet:
		if len(pred.Values) == 0 {
			return "", nil, fmt.Errorf("field %q: IN requires at least one value", pred.Field)
		}
		kw := "IN"
		if pred.Negate {
			kw = "NOT IN"
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(pred.Values)), ", ")
		return bind(col(pred.Field)+" "+kw+" ("+placeholders+")", pred.Values...)

	case queryir.Pattern:
		kw := "LIKE"
		if pred.Negate {
			kw = "NOT LIKE"
		}
		return col(pred.Field) + " " + kw + " ?", []any{pred.LikePattern()}, nil

	case queryir.NullCheck:
		if pred.IsNull {
			return col(pred.Field) + " IS NULL", nil, nil
		}
		return col(pred.Field) + " IS NOT NULL", nil, nil

	case queryir.DateCompare:
		op, err := sqlOperator(pred.Op)
		if err != nil {
			return "", nil, err
		}
		return bind("date("+col(pred.Field)+") "+op+" date(?)", pred.Value)

	case queryir.DateRange:
		return bind("date("+col(pred.Field)+") BETWEEN date(?) AND date(?)", pred.Low, pred.High)

	case queryir.DatePart:
		format, err := strftimeFormat(pred.Part)
		if err != nil {
			return "", nil, err
		}
		return bind("CAST(strftime('"+format+"', "+col(pred.Field)+") AS INTEGER) = ?", pred.Value)

	case queryir.JSONContains:
		return bind("EXISTS (SELECT 1 FROM json_each("+col(pred.Field)+") WHERE json_each.value = ?)", pred.Value)

	case queryir.JSONLength:
		return bind("json_array_length("+col(pred.Field)+") = ?", pred.Length)

	case queryir.Regex:
		return col(pred.Field) + " REGEXP ?", []any{pred.Pattern}, nil

	case queryir.Related:
		return c.compileRelated(target, pred, qualifier)

	case queryir.And:
		return c.compileGroup(target, pred.Predicates, " AND ", "1 = 1", qualifier)

	case queryir.Or:
		return c.compileGroup(target, pred.Predicates, " OR ", "1 = 0", qualifier)

	case queryir.Not:
		if pred.Predicate == nil {
			return "", nil, fmt.Errorf("NOT requires a predicate")
		}
		inner, params, err := c.compilePredicate(target, pred.Predicate, qualifier)
		if err != nil {
			return "", nil, err
		}
		// An unknown (NULL) inner result counts as false, as in the
		// in-memory evaluator.
		return "NOT COALESCE(" + inner + ", 0)", params, nil

	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// compileGroup compiles a conjunction or disjunction.
// empty is the identity element returned for no predicates.
func (c *SQLCompiler) compileGroup(target Target, preds []queryir.Predicate, sep, empty, qualifier string) (string, []any, error) {
	if len(preds) == 0 {
		return empty, nil, nil
	}

	parts := make([]string, 0, len(preds))
	var params []any
	for _, p := range preds {
		sql, ps, err := c.compilePredicate(target, p, qualifier)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		params = append(params, ps...)
	}

	if len(parts) == 1 {
		return parts[0], params, nil
	}
	return "(" + strings.Join(parts, sep) + ")", params, nil
}

// compileRelated compiles a Related predicate to a correlated EXISTS.
func (c *SQLCompiler) compileRelated(target Target, rel queryir.Related, qualifier string) (string, []any, error) {
	if qualifier != "" {
		return "", nil, fmt.Errorf("relation %q: nested relations are not supported", rel.Relation)
	}
	r, ok := target.Relations[rel.Relation]
	if !ok {
		return "", nil, fmt.Errorf("unknown relation %q on table %q", rel.Relation, target.Table)
	}
	if rel.Predicate == nil {
		return "", nil, fmt.Errorf("relation %q: predicate is required", rel.Relation)
	}

	inner, params, err := c.compilePredicate(target, rel.Predicate, relatedAlias)
	if err != nil {
		return "", nil, fmt.Errorf("relation %q: %w", rel.Relation, err)
	}

	sql := fmt.Sprintf("EXISTS (SELECT 1 FROM %s AS %s WHERE %s.%s = %s.%s AND %s)",
		quoteIdent(r.Table), relatedAlias,
		relatedAlias, quoteIdent(r.ForeignKey),
		quoteIdent(target.Table), quoteIdent(r.LocalKey),
		inner)
	return sql, params, nil
}

// bind converts operands to driver parameters for a fragment.
func bind(sql string, values ...ir.IRValue) (string, []any, error) {
	params := make([]any, 0, len(values))
	for _, v := range values {
		p, err := irValueToParam(v)
		if err != nil {
			return "", nil, err
		}
		params = append(params, p)
	}
	return sql, params, nil
}

func sqlOperator(op string) (string, error) {
	switch op {
	case queryir.OpEq, queryir.OpNeq, queryir.OpGt, queryir.OpGte, queryir.OpLt, queryir.OpLte:
		return op, nil
	default:
		return "", fmt.Errorf("unsupported comparison operator %q", op)
	}
}

func strftimeFormat(part string) (string, error) {
	switch part {
	case queryir.PartYear:
		return "%Y", nil
	case queryir.PartMonth:
		return "%m", nil
	case queryir.PartDay:
		return "%d", nil
	default:
		return "", fmt.Errorf("unsupported date part %q", part)
	}
}

// quoteIdent quotes an identifier for SQLite.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// irValueToParam converts an ir.IRValue to a Go native type for SQL parameter.
// Decimals bind as float64 and dates as ISO-8601 text, matching how the
// store writes them.
func irValueToParam(v ir.IRValue) (any, error) {
	switch val := v.(type) {
	case ir.IRString:
		return string(val), nil
	case ir.IRInt:
		return int64(val), nil
	case ir.IRDecimal:
		return val.Float64(), nil
	case ir.IRTime:
		return val.String(), nil
	case ir.IRBool:
		return bool(val), nil
	case ir.IRNull:
		return nil, nil
	case nil:
		return nil, fmt.Errorf("missing operand")
	case ir.IRArray:
		return nil, fmt.Errorf("IRArray cannot be used as SQL parameter directly")
	case ir.IRObject:
		return nil, fmt.Errorf("IRObject cannot be used as SQL parameter directly")
	default:
		return nil, fmt.Errorf("unsupported IRValue type for SQL parameter: %T", v)
	}
}
