package querycel

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/queryir"
)

// Evaluator compiles plans to CEL programs and caches the programs by
// expression text.
type Evaluator struct {
	env      *cel.Env
	prgCache sync.Map // map[string]cel.Program
}

// NewEvaluator creates an Evaluator with the standard environment.
func NewEvaluator() (*Evaluator, error) {
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// Query is a compiled plan ready to run against records.
type Query struct {
	expr   string
	params []any
	prg    cel.Program
	boosts []boostProgram
}

type boostProgram struct {
	weight int
	params []any
	prg    cel.Program
}

// Compile turns plan into a Query. Boosts compile to separate programs
// whose matches add their weight to a record's score.
func (e *Evaluator) Compile(plan queryir.Plan) (*Query, error) {
	expr, params, err := Expression(plan.Predicate())
	if err != nil {
		return nil, fmt.Errorf("compile plan: %w", err)
	}
	prg, err := e.program(expr)
	if err != nil {
		return nil, err
	}

	q := &Query{expr: expr, params: params, prg: prg}
	for _, b := range plan.Rank {
		bexpr, bparams, err := Expression(b.Predicate())
		if err != nil {
			return nil, fmt.Errorf("compile boost %q: %w", b.Field, err)
		}
		bprg, err := e.program(bexpr)
		if err != nil {
			return nil, err
		}
		q.boosts = append(q.boosts, boostProgram{weight: b.Weight, params: bparams, prg: bprg})
	}
	return q, nil
}

// program returns the cached program for expr, compiling it on a miss.
func (e *Evaluator) program(expr string) (cel.Program, error) {
	if val, ok := e.prgCache.Load(expr); ok {
		return val.(cel.Program), nil
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %s", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program construction error: %s", err)
	}

	e.prgCache.Store(expr, prg)
	return prg, nil
}

// Expr returns the CEL source of the query's filter program.
func (q *Query) Expr() string {
	return q.expr
}

// Params returns the operand values bound to params.
func (q *Query) Params() []any {
	return q.params
}

// Match reports whether record satisfies the query. Evaluation errors
// count as no match.
func (q *Query) Match(record map[string]any) bool {
	return eval(q.prg, record, q.params)
}

// Score sums the weights of the boosts record matches.
func (q *Query) Score(record map[string]any) int {
	score := 0
	for _, b := range q.boosts {
		if eval(b.prg, record, b.params) {
			score += b.weight
		}
	}
	return score
}

// Filter returns the matching records, highest score first, then by
// ascending "id".
func (q *Query) Filter(records []ir.IRObject) []ir.IRObject {
	type scored struct {
		record ir.IRObject
		native map[string]any
		score  int
	}

	var matched []scored
	for _, rec := range records {
		native, _ := ir.ToGo(rec).(map[string]any)
		if native == nil {
			native = map[string]any{}
		}
		if !q.Match(native) {
			continue
		}
		matched = append(matched, scored{record: rec, native: native, score: q.Score(native)})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].score != matched[j].score {
			return matched[i].score > matched[j].score
		}
		return idLess(matched[i].native["id"], matched[j].native["id"])
	})

	out := make([]ir.IRObject, 0, len(matched))
	for _, m := range matched {
		out = append(out, m.record)
	}
	return out
}

func eval(prg cel.Program, record map[string]any, params []any) bool {
	out, _, err := prg.Eval(map[string]any{
		"record": record,
		"params": params,
	})
	if err != nil {
		return false
	}
	result, ok := out.Value().(bool)
	return ok && result
}

// idLess orders ids the way SQLite sorts mixed columns: NULL first, then
// numbers, then text.
func idLess(a, b any) bool {
	ra, rb := idRank(a), idRank(b)
	if ra != rb {
		return ra < rb
	}
	switch ra {
	case 1:
		return toFloat(a) < toFloat(b)
	case 2:
		return fmt.Sprint(a) < fmt.Sprint(b)
	default:
		return false
	}
}

func idRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case int64, float64, int:
		return 1
	default:
		return 2
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}
