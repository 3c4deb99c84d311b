package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/filter"
)

// ValidationOutput is the result of validating a filter expression.
type ValidationOutput struct {
	Valid     bool                     `json:"valid"`
	Errors    []filter.ValidationError `json:"errors,omitempty"`
	Clauses   []string                 `json:"clauses"`
	Canonical string                   `json:"canonical"`
}

// ModelsOutput lists the models a descriptor path declares.
type ModelsOutput struct {
	Valid  bool     `json:"valid"`
	Models []string `json:"models"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [filter]",
		Short: "Validate a filter expression or the model descriptors",
		Long: `Validate a Form B filter expression without compiling it.

Every clause is checked independently: parse errors (E201), unknown
operators (E202) and arity errors (E203) are reported with the 1-based
clause position, and the valid clauses are printed in canonical form.

Without a filter argument, validate loads the model descriptors instead
(--models or the configured models path) and reports load errors.

Exit codes:
  0 - Valid
  1 - Validation errors
  2 - Command error

Examples:
  sieve validate "price:GT(100);status:EQ(active)"
  sieve validate --models ./models`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runValidateModels(rootOpts, cmd)
			}
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, expr string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	res := filter.ValidateFilterString(expr)
	out := ValidationOutput{
		Valid:     res.Valid,
		Errors:    res.Errors,
		Clauses:   nonNilStrings(clauseStrings(res.Clauses)),
		Canonical: filter.Build(res.Clauses),
	}
	formatter.VerboseLog("Validated %d clause(s), %d error(s)", len(res.Clauses)+len(res.Errors), len(res.Errors))

	if out.Valid {
		if formatter.JSON() {
			return formatter.Success(out)
		}
		fmt.Fprintf(formatter.Writer, "✓ Filter valid (%d clause(s))\n", len(out.Clauses))
		for _, c := range out.Clauses {
			fmt.Fprintf(formatter.Writer, "  %s\n", c)
		}
		return nil
	}

	return outputValidationErrors(formatter, out)
}

// outputValidationErrors outputs every validation error with its clause.
func outputValidationErrors(formatter *OutputFormatter, out ValidationOutput) error {
	exitErr := reportedExit(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(out.Errors)))

	if formatter.JSON() {
		first := out.Errors[0]
		if err := formatter.Encode(CLIResponse{
			Status: "error",
			Data:   out,
			Error: &CLIError{
				Code:    first.Code,
				Message: first.Message,
			},
		}); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	printValidationErrors(formatter.Writer, out.Errors)
	if len(out.Clauses) > 0 {
		fmt.Fprintf(formatter.Writer, "Valid clauses: %s\n", out.Canonical)
	}
	return exitErr
}

func runValidateModels(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	env, err := loadEnvironment(opts, cmd.ErrOrStderr(), formatter)
	if err != nil {
		return err
	}

	out := ModelsOutput{Valid: true, Models: env.registry.Names()}
	if formatter.JSON() {
		return formatter.Success(out)
	}
	fmt.Fprintf(formatter.Writer, "✓ %d model(s) valid\n", len(out.Models))
	for _, name := range out.Models {
		model, _ := env.registry.Get(name)
		filterable := "all fields"
		if model.Filterable != nil {
			filterable = fmt.Sprintf("%d field(s)", len(model.Filterable))
		}
		fmt.Fprintf(formatter.Writer, "  %s: table %s, filterable %s, %d searchable\n",
			name, model.Table, filterable, len(model.Searchable))
	}
	return nil
}

// printValidationErrors writes one line per error.
func printValidationErrors(w io.Writer, errs []filter.ValidationError) {
	for _, e := range errs {
		fmt.Fprintf(w, "  clause %d: %s: %s\n", e.Clause, e.Code, e.Message)
	}
	fmt.Fprintln(w)
}

// printDiagnostics writes elided clauses and whitelist drops after a
// successful compile.
func printDiagnostics(w io.Writer, errs []filter.ValidationError, droppedClauses, droppedFields []string) {
	if len(errs) > 0 {
		fmt.Fprintf(w, "\nElided %d invalid clause(s):\n", len(errs))
		printValidationErrors(w, errs)
	}
	for _, c := range droppedClauses {
		fmt.Fprintf(w, "dropped clause: %s\n", c)
	}
	for _, f := range droppedFields {
		fmt.Fprintf(w, "dropped search field: %s\n", f)
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
