package engine

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/roach88/sieve/internal/compiler"
	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/observability"
	"github.com/roach88/sieve/internal/querycel"
	"github.com/roach88/sieve/internal/queryir"
	"github.com/roach88/sieve/internal/querysql"
	"github.com/roach88/sieve/internal/schema"
	"github.com/roach88/sieve/internal/search"
)

// DefaultCacheSize is the default number of cached compile results.
const DefaultCacheSize = 256

// Engine compiles and executes filter requests for a set of models.
//
// Thread-safety model:
//   - All methods are safe for concurrent use
//   - The model registry is read-only after construction
//   - The plan cache is an internally locked LRU
type Engine struct {
	registry  *schema.Registry
	cache     *lru.Cache[string, *Result] // nil when caching is disabled
	cacheSize int
	sql       *querysql.SQLCompiler
	cel       *querycel.Evaluator
	logger    zerolog.Logger
	metrics   *metricsRecorder
	now       func() time.Time
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithCacheSize sets the plan cache size. 0 disables caching.
//
// Default: 256 entries (DefaultCacheSize)
func WithCacheSize(size int) Option {
	return func(e *Engine) {
		e.cacheSize = size
	}
}

// WithLogger sets the logger. Default: a disabled logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics sets the metrics sink. Default: no metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = &metricsRecorder{m: m}
	}
}

// WithClock overrides the time source used for durations.
//
// Default: time.Now. Tests pass a deterministic clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an Engine serving the models in registry.
func New(registry *schema.Registry, opts ...Option) (*Engine, error) {
	if registry == nil {
		return nil, fmt.Errorf("engine: registry is required")
	}

	cel, err := querycel.NewEvaluator()
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	e := &Engine{
		registry:  registry,
		cacheSize: DefaultCacheSize,
		sql:       querysql.NewSQLCompiler(),
		cel:       cel,
		logger:    zerolog.Nop(),
		metrics:   &metricsRecorder{},
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.cacheSize < 0 {
		return nil, fmt.Errorf("engine: cache size must be >= 0, got %d", e.cacheSize)
	}
	if e.cacheSize > 0 {
		cache, err := lru.New[string, *Result](e.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("engine: create plan cache: %w", err)
		}
		e.cache = cache
	}

	return e, nil
}

// Models returns the registered model names, sorted.
func (e *Engine) Models() []string {
	return e.registry.Names()
}

// Model returns the named model.
func (e *Engine) Model(name string) (schema.Model, bool) {
	return e.registry.Get(name)
}

// ValidateFilterString checks a Form B expression without compiling it.
// It never fails; problems are reported in the result.
func (e *Engine) ValidateFilterString(expr string) filter.ValidationResult {
	res := filter.ValidateFilterString(expr)
	e.metrics.validationErrors(res.Errors)
	return res
}

// BuildFilterString serializes clauses to a Form B expression.
func (e *Engine) BuildFilterString(clauses filter.FilterSet) string {
	return filter.Build(clauses)
}

// Compile runs the pipeline for req.
//
// Steps:
//  1. Resolve the model (unknown model is an error)
//  2. Return a copy of the cached result for an identical request, if any
//  3. Tokenize and validate Filter and Pairs, collecting all errors
//  4. Parse Search
//  5. Authorize and compile against the model's field configuration
//  6. Hash the plan and check it structurally
//
// In strict mode any validation error fails the request.
func (e *Engine) Compile(req Request) (*Result, error) {
	model, ok := e.registry.Get(req.Model)
	if !ok {
		return nil, newUnknownModelError(req.Model)
	}

	res, err := e.compileCached(model, req)
	if err != nil {
		return nil, err
	}

	if req.Strict && !res.Valid() {
		return nil, &Error{
			Code:    ErrCodeInvalidFilter,
			Message: "filter has validation errors",
			Model:   req.Model,
			Err:     filter.ValidationErrors(res.Errors),
		}
	}
	return res, nil
}

func (e *Engine) compileCached(model schema.Model, req Request) (*Result, error) {
	key, cacheable := req.cacheKey()
	if e.cache != nil && cacheable {
		if res, ok := e.cache.Get(key); ok {
			e.metrics.cacheHit()
			e.metrics.validationErrors(res.Errors)
			e.metrics.dropped(model.Name, len(res.DroppedClauses)+len(res.DroppedFields))
			e.metrics.compiled(len(res.Clauses) - len(res.DroppedClauses))
			return res.clone(), nil
		}
		e.metrics.cacheMiss()
	}

	res, err := e.compile(model, req)
	if err != nil {
		return nil, err
	}

	if e.cache != nil && cacheable {
		e.cache.Add(key, res)
		return res.clone(), nil
	}
	return res, nil
}

func (e *Engine) compile(model schema.Model, req Request) (*Result, error) {
	start := e.now()
	logger := e.logger.With().Str("model", model.Name).Logger()

	var (
		clauses filter.FilterSet
		errs    []filter.ValidationError
	)
	if req.Filter != "" {
		res := filter.ValidateFilterString(req.Filter)
		clauses = append(clauses, res.Clauses...)
		errs = append(errs, res.Errors...)
	}
	if len(req.Pairs) > 0 {
		res := filter.ValidatePairs(req.Pairs)
		clauses = append(clauses, res.Clauses...)
		errs = append(errs, res.Errors...)
	}
	e.metrics.validationErrors(errs)
	for _, ve := range errs {
		logger.Debug().
			Str("code", ve.Code).
			Int("clause", ve.Clause).
			Str("field", ve.Field).
			Msg(ve.Message)
	}

	out := compiler.Compile(compiler.Input{
		Filters: clauses,
		Search:  search.Parse(req.Search, req.SearchFields),
		Fields:  model.FieldConfig(),
	})

	for _, c := range out.DroppedClauses {
		logger.Warn().
			Str("field", c.Field).
			Str("operator", c.Operator.Name).
			Msg("dropped clause the model does not allow")
	}
	for _, f := range out.DroppedFields {
		logger.Warn().
			Str("field", f).
			Msg("dropped search field the model does not allow")
	}
	e.metrics.dropped(model.Name, len(out.DroppedClauses)+len(out.DroppedFields))
	e.metrics.compiled(len(clauses) - len(out.DroppedClauses))

	planKey, err := ir.PlanKey(queryir.PlanIR(out.Plan))
	if err != nil {
		return nil, &Error{Code: ErrCodeCompileFailed, Message: "hash plan", Model: model.Name, Err: err}
	}

	check := queryir.Validate(out.Plan)

	if clauses == nil {
		clauses = filter.FilterSet{}
	}
	if errs == nil {
		errs = []filter.ValidationError{}
	}
	res := &Result{
		Model:          model.Name,
		Plan:           out.Plan,
		PlanKey:        planKey,
		Clauses:        clauses,
		Errors:         errs,
		DroppedClauses: out.DroppedClauses,
		DroppedFields:  out.DroppedFields,
		Warnings:       check.Warnings,
	}

	elapsed := e.now().Sub(start)
	e.metrics.compileDuration(elapsed)
	logger.Debug().
		Str("plan_key", planKey).
		Int("filters", len(out.Plan.Filters)).
		Int("search_steps", len(out.Plan.Search)).
		Int("errors", len(errs)).
		Dur("elapsed", elapsed).
		Msg("compiled request")

	return res, nil
}
