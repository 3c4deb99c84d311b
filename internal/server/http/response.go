package httpserver

import (
	"github.com/roach88/sieve/internal/engine"
	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/queryir"
)

// Request and response types for JSON serialization.

type filterRequest struct {
	Filter string `json:"filter"`
}

type pairRequest struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type compileRequest struct {
	Filter       string        `json:"filter"`
	Pairs        []pairRequest `json:"pairs"`
	Search       string        `json:"search"`
	SearchFields []string      `json:"search_fields"`
	Strict       bool          `json:"strict"`
}

type validateResponse struct {
	Valid     bool                     `json:"valid"`
	Errors    []filter.ValidationError `json:"errors"`
	Clauses   []string                 `json:"clauses"`
	Canonical string                   `json:"canonical"`
}

type canonicalResponse struct {
	Filter string `json:"filter"`
}

type invalidFilterResponse struct {
	Error  string                   `json:"error"`
	Errors []filter.ValidationError `json:"errors"`
}

type modelsResponse struct {
	Models []string `json:"models"`
}

type compileResponse struct {
	Model          string                   `json:"model"`
	PlanKey        string                   `json:"plan_key"`
	Plan           ir.IRObject              `json:"plan"`
	SQL            string                   `json:"sql"`
	Params         []any                    `json:"params"`
	CEL            string                   `json:"cel"`
	CELParams      []any                    `json:"cel_params"`
	Errors         []filter.ValidationError `json:"errors"`
	DroppedClauses []string                 `json:"dropped_clauses"`
	DroppedFields  []string                 `json:"dropped_fields"`
	Warnings       []string                 `json:"warnings"`
}

type queryResponse struct {
	Model          string                   `json:"model"`
	PlanKey        string                   `json:"plan_key"`
	Count          int                      `json:"count"`
	Records        []ir.IRObject            `json:"records"`
	Errors         []filter.ValidationError `json:"errors"`
	DroppedClauses []string                 `json:"dropped_clauses"`
	DroppedFields  []string                 `json:"dropped_fields"`
}

// Converter functions

func (c compileRequest) toEngineRequest(model string) engine.Request {
	req := engine.Request{
		Model:        model,
		Filter:       c.Filter,
		Search:       c.Search,
		SearchFields: c.SearchFields,
		Strict:       c.Strict,
	}
	for _, p := range c.Pairs {
		req.Pairs = append(req.Pairs, filter.Pair{Key: p.Key, Value: p.Value})
	}
	return req
}

// clauseStrings renders each clause in canonical Form B.
func clauseStrings(clauses filter.FilterSet) []string {
	out := make([]string, 0, len(clauses))
	for _, c := range clauses {
		out = append(out, filter.Build(filter.FilterSet{c}))
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func newCompileResponse(sq *engine.SQLQuery, cel string, celParams []any) compileResponse {
	res := sq.Result
	return compileResponse{
		Model:          res.Model,
		PlanKey:        res.PlanKey,
		Plan:           queryir.PlanIR(res.Plan),
		SQL:            sq.SQL,
		Params:         nonNil(sq.Params),
		CEL:            cel,
		CELParams:      nonNil(celParams),
		Errors:         nonNil(res.Errors),
		DroppedClauses: clauseStrings(res.DroppedClauses),
		DroppedFields:  nonNil(res.DroppedFields),
		Warnings:       nonNil(res.Warnings),
	}
}

func newQueryResponse(qr *engine.QueryResult) queryResponse {
	res := qr.Result
	return queryResponse{
		Model:          res.Model,
		PlanKey:        res.PlanKey,
		Count:          len(qr.Records),
		Records:        nonNil(qr.Records),
		Errors:         nonNil(res.Errors),
		DroppedClauses: clauseStrings(res.DroppedClauses),
		DroppedFields:  nonNil(res.DroppedFields),
	}
}
