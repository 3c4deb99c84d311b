// Package engine is the facade over the filter pipeline.
//
// A request names a model and carries a Form B filter string, Form A
// pairs, and free-text search. The engine runs the pipeline
//
//	tokenize → validate/coerce → authorize → compile → plan
//
// against the model's field configuration, then executes the plan on one
// of two backends: SQLite (parameterized SQL through the store) or CEL
// (in-memory records).
//
// COMPILE MODES:
//
// Best effort (default): malformed clauses are elided from the plan and
// reported in Result.Errors. The remaining clauses still filter.
//
// Strict (Request.Strict): any validation error fails the request with an
// INVALID_FILTER error wrapping filter.ValidationErrors.
//
// CACHING:
//
// Results are cached in an LRU keyed by the SHA-256 of the canonical
// request (ir.RequestKey). Identical requests return the same *Result;
// callers must not modify it. Requests whose Form A values cannot be
// represented canonically bypass the cache.
//
// Whitelist drops are never errors. Each dropped clause or search field is
// logged at warn level and counted in ClausesDropped.
package engine
