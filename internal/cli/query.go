package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/engine"
	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/schema"
	"github.com/roach88/sieve/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	requestFlags
	DB      string // database path (overrides config)
	Seed    string // YAML seed file loaded before querying
	Backend string // sql | cel
}

// QueryOutput holds the records a query selected.
type QueryOutput struct {
	Model          string        `json:"model"`
	Backend        string        `json:"backend"`
	PlanKey        string        `json:"plan_key"`
	Count          int           `json:"count"`
	Records        []ir.IRObject `json:"records"`
	Errors         []string      `json:"errors,omitempty"`
	DroppedClauses []string      `json:"dropped_clauses,omitempty"`
	DroppedFields  []string      `json:"dropped_fields,omitempty"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <model>",
		Short: "Run a filter and search request against a SQLite database",
		Long: `Compile a request and run it against the model's table.

The sql backend executes the compiled statement in SQLite. The cel
backend reads the model and relation tables and filters them in memory;
both return records in relevance order, then by id.

--seed loads tables from a YAML file (table name -> list of records)
before querying, which makes the default in-memory database useful.

Examples:
  sieve query products --seed fixtures.yaml -f "status:EQ(active)" -s lamp
  sieve query products --db catalog.db -p "price:BETWEEN=10,50" --backend cel`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	opts.requestFlags.bind(cmd)
	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database path (default: config database)")
	cmd.Flags().StringVar(&opts.Seed, "seed", "", "YAML file of tables to load before querying")
	cmd.Flags().StringVar(&opts.Backend, "backend", backendSQL, "execution backend (sql|cel)")

	return cmd
}

func runQuery(opts *QueryOptions, model string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if opts.Backend != backendSQL && opts.Backend != backendCEL {
		return formatter.fail(ExitCommandError, ErrCodeBadFlag, fmt.Sprintf("invalid backend %q: must be sql or cel", opts.Backend), nil)
	}
	req, err := opts.request(model)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeInvalidInput, err.Error(), nil)
	}

	env, err := loadEnvironment(opts.RootOptions, cmd.ErrOrStderr(), formatter)
	if err != nil {
		return err
	}

	st, err := openStore(cmd.Context(), env, opts.DB, opts.Seed, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	var qr *engine.QueryResult
	if opts.Backend == backendSQL {
		qr, err = env.engine.Query(cmd.Context(), st, req)
	} else {
		qr, err = evaluateFromStore(cmd.Context(), env.engine, st, req)
	}
	if err != nil {
		var engErr *engine.Error
		if errors.As(err, &engErr) {
			return engineFailure(formatter, err)
		}
		return formatter.fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
	}

	out := newQueryOutput(opts.Backend, qr)
	if formatter.JSON() {
		return formatter.Success(out)
	}
	return printQueryText(formatter, out)
}

// openStore opens the configured (or overridden) database and applies
// the seed file, if any.
func openStore(ctx context.Context, env *environment, dbPath, seedPath string, f *OutputFormatter) (*store.Store, error) {
	if dbPath == "" {
		dbPath = env.config.Database
	}
	f.VerboseLog("Opening database %s", dbPath)
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, f.fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err.Error())
	}
	if seedPath == "" {
		return st, nil
	}

	tables, err := store.LoadTables(seedPath)
	if err != nil {
		st.Close()
		return nil, f.fail(ExitCommandError, ErrCodeSeedFailed, err.Error(), nil)
	}
	if err := st.SeedAll(ctx, tables); err != nil {
		st.Close()
		return nil, f.fail(ExitCommandError, ErrCodeSeedFailed, err.Error(), nil)
	}
	f.VerboseLog("Seeded %d table(s) from %s", len(tables), seedPath)
	return st, nil
}

// evaluateFromStore loads the model's tables and evaluates req with CEL.
func evaluateFromStore(ctx context.Context, eng *engine.Engine, st *store.Store, req engine.Request) (*engine.QueryResult, error) {
	model, ok := eng.Model(req.Model)
	if !ok {
		// Let the engine report the unknown model.
		return eng.Evaluate(req, nil)
	}

	tables, err := readModelTables(ctx, st, model)
	if err != nil {
		return nil, err
	}
	qr, err := eng.Evaluate(req, model.Embed(tables))
	if err != nil {
		return nil, err
	}

	// Embedded relations are an evaluation detail; print the table rows.
	for _, rec := range qr.Records {
		for name := range model.Relations {
			delete(rec, name)
		}
	}
	return qr, nil
}

func readModelTables(ctx context.Context, st *store.Store, model schema.Model) (store.Tables, error) {
	names := []string{model.Table}
	for _, rel := range model.Relations {
		names = append(names, rel.Table)
	}

	tables := make(store.Tables, len(names))
	for _, name := range names {
		if _, done := tables[name]; done {
			continue
		}
		rows, err := st.Query(ctx, "SELECT * FROM "+quoteIdent(name), nil)
		if err != nil {
			return nil, fmt.Errorf("read table %q: %w", name, err)
		}
		tables[name] = rows
	}
	return tables, nil
}

func newQueryOutput(backend string, qr *engine.QueryResult) QueryOutput {
	res := qr.Result
	out := QueryOutput{
		Model:          res.Model,
		Backend:        backend,
		PlanKey:        res.PlanKey,
		Count:          len(qr.Records),
		Records:        qr.Records,
		DroppedClauses: clauseStrings(res.DroppedClauses),
		DroppedFields:  res.DroppedFields,
	}
	for _, e := range res.Errors {
		out.Errors = append(out.Errors, fmt.Sprintf("clause %d: %s: %s", e.Clause, e.Code, e.Message))
	}
	return out
}

// printQueryText writes one canonical JSON line per record.
func printQueryText(f *OutputFormatter, out QueryOutput) error {
	fmt.Fprintf(f.Writer, "%d record(s) from %s (%s)\n", out.Count, out.Model, out.Backend)
	for _, rec := range out.Records {
		line, err := ir.MarshalCanonical(rec)
		if err != nil {
			return fmt.Errorf("render record: %w", err)
		}
		fmt.Fprintf(f.Writer, "  %s\n", line)
	}
	for _, e := range out.Errors {
		fmt.Fprintf(f.Writer, "elided %s\n", e)
	}
	for _, c := range out.DroppedClauses {
		fmt.Fprintf(f.Writer, "dropped clause: %s\n", c)
	}
	for _, fld := range out.DroppedFields {
		fmt.Fprintf(f.Writer, "dropped search field: %s\n", fld)
	}
	return nil
}

// quoteIdent quotes a table name for SQLite.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
