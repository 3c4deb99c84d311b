package engine

import (
	"slices"

	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/queryir"
)

// Request is one compile request.
type Request struct {
	// Model names the registered model whose field configuration applies.
	Model string

	// Filter is a Form B expression, e.g. "price:GT(100);status:EQ(active)".
	Filter string

	// Pairs are Form A entries, compiled after Filter's clauses.
	Pairs []filter.Pair

	// Search is free text in the search mini-language.
	Search string

	// SearchFields overrides the model's searchable fields. Overrides are
	// checked against the filter whitelist.
	SearchFields []string

	// Strict fails the request on any validation error.
	Strict bool
}

// Result is the outcome of compiling a request.
type Result struct {
	Model string `json:"model"`

	// Plan is the compiled instruction list.
	Plan queryir.Plan `json:"-"`

	// PlanKey is the content hash of Plan (ir.PlanKey).
	PlanKey string `json:"plan_key"`

	// Clauses are the validated clauses, before authorization.
	Clauses filter.FilterSet `json:"-"`

	// Errors are the validation errors of elided clauses.
	Errors []filter.ValidationError `json:"errors"`

	// DroppedClauses were removed by the whitelist.
	DroppedClauses filter.FilterSet `json:"-"`

	// DroppedFields are search fields removed by the whitelist.
	DroppedFields []string `json:"dropped_fields"`

	// Warnings are structural findings from queryir.Validate.
	Warnings []string `json:"warnings"`
}

// clone copies r down to its slices so a caller mutating one result cannot
// reach the cached one. Slice elements are values or immutable predicates.
func (r *Result) clone() *Result {
	c := *r
	c.Plan = queryir.Plan{
		Filters: slices.Clone(r.Plan.Filters),
		Search:  slices.Clone(r.Plan.Search),
		Rank:    slices.Clone(r.Plan.Rank),
	}
	c.Clauses = slices.Clone(r.Clauses)
	c.Errors = slices.Clone(r.Errors)
	c.DroppedClauses = slices.Clone(r.DroppedClauses)
	c.DroppedFields = slices.Clone(r.DroppedFields)
	c.Warnings = slices.Clone(r.Warnings)
	return &c
}

// Valid reports whether every clause validated.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// cacheKey returns the canonical identity of req. ok is false when a Form A
// value has no canonical form; such requests are not cached.
func (req Request) cacheKey() (key string, ok bool) {
	pairs := make(ir.IRArray, 0, len(req.Pairs))
	for _, p := range req.Pairs {
		v, err := ir.FromGo(p.Value)
		if err != nil {
			return "", false
		}
		pairs = append(pairs, ir.IRArray{ir.IRString(p.Key), v})
	}

	searchFields := make(ir.IRArray, 0, len(req.SearchFields))
	for _, f := range req.SearchFields {
		searchFields = append(searchFields, ir.IRString(f))
	}

	key, err := ir.RequestKey(ir.NewIRObjectFromPairs(
		ir.O("model", ir.IRString(req.Model)),
		ir.O("filter", ir.IRString(req.Filter)),
		ir.O("pairs", pairs),
		ir.O("search", ir.IRString(req.Search)),
		ir.O("search_fields", searchFields),
	))
	if err != nil {
		return "", false
	}
	return key, true
}
