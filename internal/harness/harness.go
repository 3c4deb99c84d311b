package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/sieve/internal/engine"
	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/schema"
	"github.com/roach88/sieve/internal/store"
)

// Harness is the test execution engine.
// It runs every case of a scenario against one seeded store.
type Harness struct {
	store    *store.Store
	engine   *engine.Engine
	registry *schema.Registry
	tables   store.Tables
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
//  1. Load the model registry
//  2. Create a fresh in-memory database and seed the fixture tables
//  3. Run each case through SQL and CEL
//  4. Check expectations and backend agreement
//
// An error is returned only when the scenario itself cannot be set up;
// case failures are reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	registry, err := schema.Load(scenario.Models)
	if err != nil {
		return nil, fmt.Errorf("failed to load models: %w", err)
	}

	tables, err := store.TablesFromGo(scenario.Tables)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.SeedAll(ctx, tables); err != nil {
		return nil, fmt.Errorf("failed to seed tables: %w", err)
	}

	eng, err := engine.New(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	h := &Harness{
		store:    st,
		engine:   eng,
		registry: registry,
		tables:   tables,
	}

	result := NewResult()
	for _, c := range scenario.Cases {
		cr := h.runCase(ctx, c)
		cr.Failures = append(cr.Failures, CheckCase(c.Expect, cr)...)
		result.AddCase(cr)
	}
	return result, nil
}

// runCase runs one case on both backends.
func (h *Harness) runCase(ctx context.Context, c Case) CaseResult {
	cr := CaseResult{Name: c.Name, SQLIDs: []string{}, CELIDs: []string{}}
	req := c.Request.toRequest()

	compiled, err := h.engine.CompileSQL(req)
	if err != nil {
		cr.Error = errorCode(err)
		return cr
	}
	res := compiled.Result
	cr.SQL = compiled.SQL
	cr.Params = compiled.Params
	cr.PlanKey = res.PlanKey
	for _, ve := range res.Errors {
		cr.ValidationErrors = append(cr.ValidationErrors, ve.Code)
	}
	for _, dc := range res.DroppedClauses {
		cr.DroppedClauses = append(cr.DroppedClauses, dc.Field)
	}
	cr.DroppedFields = res.DroppedFields

	sqlResult, err := h.engine.Query(ctx, h.store, req)
	if err != nil {
		cr.Error = errorCode(err)
		return cr
	}
	cr.SQLIDs = idTexts(sqlResult.Records)

	cr.CEL, cr.CELParams, _, err = h.engine.CELExpression(req)
	if err != nil {
		cr.Error = errorCode(err)
		return cr
	}

	model, _ := h.registry.Get(req.Model)
	celResult, err := h.engine.Evaluate(req, model.Embed(h.tables))
	if err != nil {
		cr.Error = errorCode(err)
		return cr
	}
	cr.CELIDs = idTexts(celResult.Records)

	return cr
}

func (r RequestSpec) toRequest() engine.Request {
	req := engine.Request{
		Model:        r.Model,
		Filter:       r.Filter,
		Search:       r.Search,
		SearchFields: r.SearchFields,
		Strict:       r.Strict,
	}
	for _, p := range r.Pairs {
		req.Pairs = append(req.Pairs, filter.Pair{Key: p.Key, Value: p.Value})
	}
	return req
}

// errorCode returns the engine error code of err, or its message.
func errorCode(err error) string {
	var engErr *engine.Error
	if errors.As(err, &engErr) {
		return string(engErr.Code)
	}
	return err.Error()
}

func idTexts(records []ir.IRObject) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, ir.Text(r["id"]))
	}
	return ids
}
