package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/search"
)

// SearchOutput is a tokenized search query.
type SearchOutput struct {
	Input      string        `json:"input"`
	Normalized string        `json:"normalized"`
	Terms      []search.Term `json:"terms"`
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Tokenize free-text search input",
		Long: `Tokenize search text into terms and show how they combine.

Syntax: words are ANDed; OR between two terms makes them alternatives;
a leading - excludes a term; "double quotes" match a phrase exactly.
Terms fold strictly left to right and exclusions always apply with AND:
"a OR b -c" means ((a OR b) AND NOT c).

Text that starts with - must follow -- so it is not read as a flag.

Examples:
  sieve search 'lamp OR chair -"office chair"'
  sieve search -- -shade`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runSearch(opts *RootOptions, text string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	q := search.Parse(text, nil)
	out := SearchOutput{
		Input:      text,
		Normalized: q.String(),
		Terms:      q.Terms,
	}
	if out.Terms == nil {
		out.Terms = []search.Term{}
	}

	if formatter.JSON() {
		return formatter.Success(out)
	}

	if q.Empty() {
		fmt.Fprintln(formatter.Writer, "No search terms.")
		return nil
	}
	fmt.Fprintf(formatter.Writer, "%d term(s): %s\n", len(out.Terms), out.Normalized)
	for i, t := range out.Terms {
		fmt.Fprintf(formatter.Writer, "  %d. %s%s\n", i+1, describeConnective(i, t), describeTerm(t))
	}
	return nil
}

func describeConnective(i int, t search.Term) string {
	switch {
	case i == 0 && t.Exclude:
		return "NOT "
	case i == 0:
		return ""
	case t.Exclude:
		return "AND NOT "
	default:
		return t.Combinator + " "
	}
}

func describeTerm(t search.Term) string {
	if t.Exact {
		return fmt.Sprintf("%q (exact)", t.Text)
	}
	return fmt.Sprintf("%q", t.Text)
}
