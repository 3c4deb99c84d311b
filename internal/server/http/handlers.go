package httpserver

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/roach88/sieve/internal/engine"
	"github.com/roach88/sieve/internal/filter"
)

// validateFilter handles POST /v1/filters/validate.
// Invalid filters are a 200 response with valid=false.
func (s *Server) validateFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := decodeBody(w, r, filterSchema, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	res := s.engine.ValidateFilterString(req.Filter)
	writeJSON(w, http.StatusOK, validateResponse{
		Valid:     res.Valid,
		Errors:    nonNil(res.Errors),
		Clauses:   clauseStrings(res.Clauses),
		Canonical: s.engine.BuildFilterString(res.Clauses),
	})
}

// canonicalFilter handles POST /v1/filters/canonical.
func (s *Server) canonicalFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := decodeBody(w, r, filterSchema, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	canonical, err := filter.Canonicalize(req.Filter)
	if err != nil {
		var verrs filter.ValidationErrors
		if errors.As(err, &verrs) {
			writeJSON(w, http.StatusUnprocessableEntity, invalidFilterResponse{
				Error:  "filter has validation errors",
				Errors: verrs,
			})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, canonicalResponse{Filter: canonical})
}

// listModels handles GET /v1/models.
func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, modelsResponse{Models: nonNil(s.engine.Models())})
}

// compileBody handles POST /v1/models/{model}/compile.
func (s *Server) compileBody(w http.ResponseWriter, r *http.Request) {
	var body compileRequest
	if err := decodeBody(w, r, compileSchema, &body); err != nil {
		writeRequestError(w, err)
		return
	}
	s.compile(w, body.toEngineRequest(chi.URLParam(r, "model")))
}

// compileQuery handles GET /v1/models/{model}/compile with Form A
// parameters:
//
//	?filter[price:GT]=100&filter[status]=active&search=lamp&search_fields=name,sku
//
// A Form B expression may be passed as expr=...
func (s *Server) compileQuery(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromQuery(chi.URLParam(r, "model"), r)
	if err != nil {
		writeRequestError(w, err)
		return
	}
	s.compile(w, req)
}

func (s *Server) compile(w http.ResponseWriter, req engine.Request) {
	sq, err := s.engine.CompileSQL(req)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	cel, celParams, _, err := s.engine.CELExpression(req)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCompileResponse(sq, cel, celParams))
}

// runQuery handles POST /v1/models/{model}/query.
func (s *Server) runQuery(w http.ResponseWriter, r *http.Request) {
	if s.querier == nil {
		writeError(w, http.StatusNotImplemented, "no database configured")
		return
	}

	var body compileRequest
	if err := decodeBody(w, r, compileSchema, &body); err != nil {
		writeRequestError(w, err)
		return
	}

	qr, err := s.engine.Query(r.Context(), s.querier, body.toEngineRequest(chi.URLParam(r, "model")))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newQueryResponse(qr))
}

// requestFromQuery decodes Form A filter[...] parameters in key order.
// A parameter given more than once becomes a list value.
func requestFromQuery(model string, r *http.Request) (engine.Request, error) {
	values := r.URL.Query()
	req := engine.Request{
		Model:  model,
		Filter: values.Get("expr"),
		Search: values.Get("search"),
	}

	if fields := values.Get("search_fields"); fields != "" {
		for _, f := range strings.Split(fields, ",") {
			if f = strings.TrimSpace(f); f != "" {
				req.SearchFields = append(req.SearchFields, f)
			}
		}
	}

	if strict := values.Get("strict"); strict != "" {
		b, err := strconv.ParseBool(strict)
		if err != nil {
			return engine.Request{}, &requestError{Message: "strict must be a boolean", Details: []string{err.Error()}}
		}
		req.Strict = b
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if strings.HasPrefix(k, "filter[") && strings.HasSuffix(k, "]") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := strings.TrimSuffix(strings.TrimPrefix(k, "filter["), "]")
		if key == "" {
			return engine.Request{}, &requestError{Message: "empty filter key", Details: []string{k}}
		}
		vals := values[k]
		if len(vals) == 1 {
			req.Pairs = append(req.Pairs, filter.Pair{Key: key, Value: vals[0]})
			continue
		}
		list := make([]any, len(vals))
		for i, v := range vals {
			list[i] = v
		}
		req.Pairs = append(req.Pairs, filter.Pair{Key: key, Value: list})
	}

	return req, nil
}

// writeEngineError maps engine error codes to HTTP statuses.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	var engErr *engine.Error
	if !errors.As(err, &engErr) {
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	switch engErr.Code {
	case engine.ErrCodeUnknownModel:
		writeError(w, http.StatusNotFound, engErr.Error())
	case engine.ErrCodeInvalidFilter:
		var verrs filter.ValidationErrors
		errors.As(err, &verrs)
		writeJSON(w, http.StatusUnprocessableEntity, invalidFilterResponse{
			Error:  engErr.Message,
			Errors: nonNil([]filter.ValidationError(verrs)),
		})
	default:
		s.logger.Error().Err(err).Str("code", string(engErr.Code)).Msg("request failed")
		writeError(w, http.StatusInternalServerError, engErr.Error())
	}
}

func writeRequestError(w http.ResponseWriter, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		writeJSON(w, http.StatusBadRequest, reqErr)
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
