package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/sieve/internal/ir"
)

// Snapshot renders the compiled output of every case as stable text:
//
//	== price_over_100
//	sql: SELECT * FROM "products" WHERE "price" > ? ORDER BY "id" ASC
//	params: [100]
//	cel: (("price" in record && record["price"] != null) && record["price"] > params[0])
//	cel_params: [100]
//	ids: [2, 4]
//
// Parameters are written as canonical JSON. Plan keys are left out so
// that snapshots do not change when the plan encoding does.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", scenarioName)

	for _, c := range result.Cases {
		fmt.Fprintf(&b, "\n== %s\n", c.Name)
		if c.Error != "" {
			fmt.Fprintf(&b, "error: %s\n", c.Error)
			continue
		}

		params, err := canonicalParams(c.Params)
		if err != nil {
			return nil, fmt.Errorf("case %s: params: %w", c.Name, err)
		}
		celParams, err := canonicalParams(c.CELParams)
		if err != nil {
			return nil, fmt.Errorf("case %s: cel params: %w", c.Name, err)
		}

		fmt.Fprintf(&b, "sql: %s\n", c.SQL)
		fmt.Fprintf(&b, "params: %s\n", params)
		fmt.Fprintf(&b, "cel: %s\n", c.CEL)
		fmt.Fprintf(&b, "cel_params: %s\n", celParams)
		fmt.Fprintf(&b, "ids: %s\n", formatIDs(c.SQLIDs))
		if len(c.ValidationErrors) > 0 {
			fmt.Fprintf(&b, "validation_errors: %s\n", strings.Join(c.ValidationErrors, ", "))
		}
		if len(c.DroppedClauses) > 0 || len(c.DroppedFields) > 0 {
			fmt.Fprintf(&b, "dropped: %s\n", strings.Join(append(append([]string{}, c.DroppedClauses...), c.DroppedFields...), ", "))
		}
	}
	return []byte(b.String()), nil
}

// canonicalParams renders driver parameters as canonical JSON. Binary
// floats are converted to their shortest decimal text first.
func canonicalParams(params []any) (string, error) {
	arr := make(ir.IRArray, 0, len(params))
	for _, p := range params {
		v, err := ir.FromGo(p)
		if err != nil {
			return "", err
		}
		arr = append(arr, v)
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's snapshot against a golden
// file without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, snapshot)
	return nil
}
