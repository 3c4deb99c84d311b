package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/engine"
	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/queryir"
)

// Backends selectable with --backend.
const (
	backendSQL = "sql"
	backendCEL = "cel"
	backendAll = "all"
)

// requestFlags are the request-shaping flags shared by compile and query.
type requestFlags struct {
	Filter       string
	Pairs        []string // key=value
	Search       string
	SearchFields []string
	Strict       bool
}

func (r *requestFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&r.Filter, "filter", "f", "", `Form B filter, e.g. "price:GT(100);status:EQ(active)"`)
	cmd.Flags().StringArrayVarP(&r.Pairs, "pair", "p", nil, `Form A pair key=value, repeatable, e.g. -p "price:GT=100"`)
	cmd.Flags().StringVarP(&r.Search, "search", "s", "", "free-text search")
	cmd.Flags().StringSliceVar(&r.SearchFields, "search-fields", nil, "override the model's searchable fields")
	cmd.Flags().BoolVar(&r.Strict, "strict", false, "fail on any validation error")
}

// request builds the engine request. Pairs keep their flag order.
func (r *requestFlags) request(model string) (engine.Request, error) {
	req := engine.Request{
		Model:        model,
		Filter:       r.Filter,
		Search:       r.Search,
		SearchFields: r.SearchFields,
		Strict:       r.Strict,
	}
	for _, p := range r.Pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return engine.Request{}, fmt.Errorf("invalid --pair %q: expected key=value", p)
		}
		req.Pairs = append(req.Pairs, filter.Pair{Key: key, Value: value})
	}
	return req, nil
}

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	requestFlags
	Backend string // sql | cel | all
	Output  string // output file path
}

// CompileOutput is the compiled form of one request.
type CompileOutput struct {
	Model          string                   `json:"model"`
	PlanKey        string                   `json:"plan_key"`
	Plan           ir.IRObject              `json:"plan"`
	SQL            string                   `json:"sql,omitempty"`
	Params         []any                    `json:"params,omitempty"`
	CEL            string                   `json:"cel,omitempty"`
	CELParams      []any                    `json:"cel_params,omitempty"`
	Errors         []filter.ValidationError `json:"errors,omitempty"`
	DroppedClauses []string                 `json:"dropped_clauses,omitempty"`
	DroppedFields  []string                 `json:"dropped_fields,omitempty"`
	Warnings       []string                 `json:"warnings,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <model>",
		Short: "Compile a filter and search request to SQL and CEL",
		Long: `Compile a filter and search request against a model's field
configuration and print the parameterized SQL, the CEL expression and the
plan.

Clauses on fields outside the model's whitelist are dropped. Invalid
clauses are elided and reported unless --strict is set.

Examples:
  sieve compile products -f "price:GT(100);status:EQ(active)"
  sieve compile products -p "price:LT=50" -p "tags:JSON_CONTAINS=sale"
  sieve compile products -s 'lamp -shade' --backend sql --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	opts.requestFlags.bind(cmd)
	cmd.Flags().StringVar(&opts.Backend, "backend", backendAll, "backend to compile for (sql|cel|all)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "also write the JSON output to a file")

	return cmd
}

func runCompile(opts *CompileOptions, model string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	switch opts.Backend {
	case backendSQL, backendCEL, backendAll:
	default:
		return formatter.fail(ExitCommandError, ErrCodeBadFlag, fmt.Sprintf("invalid backend %q: must be sql, cel or all", opts.Backend), nil)
	}

	req, err := opts.request(model)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeInvalidInput, err.Error(), nil)
	}

	env, err := loadEnvironment(opts.RootOptions, cmd.ErrOrStderr(), formatter)
	if err != nil {
		return err
	}

	out, err := compileRequest(env.engine, req, opts.Backend)
	if err != nil {
		return engineFailure(formatter, err)
	}
	formatter.VerboseLog("Compiled plan %s", out.PlanKey)

	if opts.Output != "" {
		if err := writeJSONFile(opts.Output, out); err != nil {
			return formatter.fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	if formatter.JSON() {
		return formatter.Success(out)
	}
	printCompileText(formatter, out)
	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "Wrote compiled output to %s\n", opts.Output)
	}
	return nil
}

// compileRequest compiles req for the selected backends.
func compileRequest(eng *engine.Engine, req engine.Request, backend string) (*CompileOutput, error) {
	res, err := eng.Compile(req)
	if err != nil {
		return nil, err
	}

	out := &CompileOutput{
		Model:          res.Model,
		PlanKey:        res.PlanKey,
		Plan:           queryir.PlanIR(res.Plan),
		Errors:         res.Errors,
		DroppedClauses: clauseStrings(res.DroppedClauses),
		DroppedFields:  res.DroppedFields,
		Warnings:       res.Warnings,
	}

	if backend != backendCEL {
		sq, err := eng.CompileSQL(req)
		if err != nil {
			return nil, err
		}
		out.SQL, out.Params = sq.SQL, sq.Params
	}
	if backend != backendSQL {
		out.CEL, out.CELParams, _, err = eng.CELExpression(req)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// printCompileText writes the human-readable compile output.
func printCompileText(f *OutputFormatter, out *CompileOutput) {
	w := f.Writer
	fmt.Fprintf(w, "✓ Compiled %s (plan %s)\n\n", out.Model, shortKey(out.PlanKey))

	if out.SQL != "" {
		fmt.Fprintf(w, "SQL:    %s\n", out.SQL)
		fmt.Fprintf(w, "Params: %s\n", formatParams(out.Params))
	}
	if out.CEL != "" {
		fmt.Fprintf(w, "CEL:    %s\n", out.CEL)
		fmt.Fprintf(w, "Params: %s\n", formatParams(out.CELParams))
	}

	printDiagnostics(w, out.Errors, out.DroppedClauses, out.DroppedFields)
	for _, warning := range out.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}

// clauseStrings renders each clause in canonical Form B.
func clauseStrings(clauses filter.FilterSet) []string {
	if len(clauses) == 0 {
		return nil
	}
	out := make([]string, 0, len(clauses))
	for _, c := range clauses {
		out = append(out, filter.Build(filter.FilterSet{c}))
	}
	return out
}

// formatParams renders driver parameters as JSON.
func formatParams(params []any) string {
	if len(params) == 0 {
		return "[]"
	}
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprint(params)
	}
	return string(data)
}

// shortKey abbreviates a plan key for text output.
func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}

// writeJSONFile writes v as indented JSON.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
