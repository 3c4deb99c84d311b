package engine

import (
	"context"

	"github.com/roach88/sieve/internal/ir"
)

// Backend names.
const (
	BackendSQL = "sql"
	BackendCEL = "cel"
)

// Querier runs compiled SQL. *store.Store implements it.
type Querier interface {
	Query(ctx context.Context, query string, params []any) ([]ir.IRObject, error)
}

// SQLQuery is a compiled SELECT with its parameters.
type SQLQuery struct {
	SQL    string  `json:"sql"`
	Params []any   `json:"params"`
	Result *Result `json:"-"`
}

// QueryResult holds the records a plan selected.
type QueryResult struct {
	Records []ir.IRObject
	Result  *Result
}

// CompileSQL compiles req to parameterized SQL for the model's table.
//
// CRITICAL: Operand values appear only in Params, never in SQL.
func (e *Engine) CompileSQL(req Request) (*SQLQuery, error) {
	res, err := e.Compile(req)
	if err != nil {
		return nil, err
	}

	model, _ := e.registry.Get(req.Model)
	sqlStr, params, err := e.sql.Compile(model.Target(), res.Plan)
	if err != nil {
		return nil, &Error{Code: ErrCodeCompileFailed, Message: "compile SQL", Model: req.Model, Err: err}
	}
	if params == nil {
		params = []any{}
	}
	return &SQLQuery{SQL: sqlStr, Params: params, Result: res}, nil
}

// Query compiles req and runs it through q.
//
// Returns zero or more records (empty slice is valid, not an error), in
// relevance order then by id.
func (e *Engine) Query(ctx context.Context, q Querier, req Request) (*QueryResult, error) {
	compiled, err := e.CompileSQL(req)
	if err != nil {
		return nil, err
	}

	start := e.now()
	records, err := q.Query(ctx, compiled.SQL, compiled.Params)
	if err != nil {
		return nil, &Error{Code: ErrCodeExecuteFailed, Message: "execute query", Model: req.Model, Err: err}
	}
	e.metrics.query(BackendSQL, e.now().Sub(start))

	if records == nil {
		records = []ir.IRObject{}
	}
	return &QueryResult{Records: records, Result: compiled.Result}, nil
}

// CELExpression compiles req to its CEL filter expression and params.
func (e *Engine) CELExpression(req Request) (string, []any, *Result, error) {
	res, err := e.Compile(req)
	if err != nil {
		return "", nil, nil, err
	}
	q, err := e.cel.Compile(res.Plan)
	if err != nil {
		return "", nil, nil, &Error{Code: ErrCodeCompileFailed, Message: "compile CEL", Model: req.Model, Err: err}
	}
	return q.Expr(), q.Params(), res, nil
}

// Evaluate compiles req and filters records in memory with CEL.
//
// Records must already embed their relations (see schema.Model.Embed).
// The result is ordered like Query: relevance, then id.
func (e *Engine) Evaluate(req Request, records []ir.IRObject) (*QueryResult, error) {
	res, err := e.Compile(req)
	if err != nil {
		return nil, err
	}

	q, err := e.cel.Compile(res.Plan)
	if err != nil {
		return nil, &Error{Code: ErrCodeCompileFailed, Message: "compile CEL", Model: req.Model, Err: err}
	}

	start := e.now()
	matched := q.Filter(records)
	e.metrics.query(BackendCEL, e.now().Sub(start))

	return &QueryResult{Records: matched, Result: res}, nil
}
