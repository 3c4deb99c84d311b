package harness

// CaseResult is what one case produced on both backends.
type CaseResult struct {
	Name string `json:"name"`

	// SQL and Params are the compiled statement; empty when the engine
	// rejected the request.
	SQL    string `json:"sql,omitempty"`
	Params []any  `json:"params,omitempty"`

	// CEL and CELParams are the compiled in-memory filter.
	CEL       string `json:"cel,omitempty"`
	CELParams []any  `json:"cel_params,omitempty"`

	PlanKey string `json:"plan_key,omitempty"`

	// SQLIDs and CELIDs are the selected ids as text, in order.
	SQLIDs []string `json:"sql_ids"`
	CELIDs []string `json:"cel_ids"`

	// ValidationErrors are the codes of elided clauses.
	ValidationErrors []string `json:"validation_errors,omitempty"`

	DroppedClauses []string `json:"dropped_clauses,omitempty"`
	DroppedFields  []string `json:"dropped_fields,omitempty"`

	// Error is the engine error code when the request failed.
	Error string `json:"error,omitempty"`

	// Failures are the expectation mismatches for this case.
	Failures []string `json:"failures,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every case met its expectations and the backends agreed.
	Pass bool `json:"pass"`

	// Cases holds one entry per scenario case, in order.
	Cases []CaseResult `json:"cases"`

	// Errors contains validation error messages, prefixed by case name.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddCase appends a case result, recording its failures.
func (r *Result) AddCase(c CaseResult) {
	r.Cases = append(r.Cases, c)
	for _, f := range c.Failures {
		r.AddError(c.Name + ": " + f)
	}
}
