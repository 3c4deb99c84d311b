package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/filter"
)

// CanonOutput is the canonical form of a filter expression.
type CanonOutput struct {
	Input     string `json:"input"`
	Canonical string `json:"canonical"`
}

// NewCanonCommand creates the canon command.
func NewCanonCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canon <filter>",
		Short: "Print a filter expression in canonical form",
		Long: `Parse a Form B filter expression strictly and print it back with
canonical operator names, normalized operands and no extra whitespace.

Any invalid clause fails the command with exit code 1.

Example:
  sieve canon " price : >(100) ; status:eq(active)"
  # price:GT(100);status:EQ(active)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCanon(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runCanon(opts *RootOptions, expr string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	res := filter.ValidateFilterString(expr)
	if !res.Valid {
		return outputValidationErrors(formatter, ValidationOutput{
			Valid:     false,
			Errors:    res.Errors,
			Clauses:   nonNilStrings(clauseStrings(res.Clauses)),
			Canonical: filter.Build(res.Clauses),
		})
	}

	out := CanonOutput{Input: expr, Canonical: filter.Build(res.Clauses)}
	if formatter.JSON() {
		return formatter.Success(out)
	}
	fmt.Fprintln(formatter.Writer, out.Canonical)
	return nil
}
