package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogScenario(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/catalog.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Cases, len(scenario.Cases))

	for _, c := range result.Cases {
		if c.Error != "" {
			continue
		}
		assert.Equal(t, c.SQLIDs, c.CELIDs, "case %s", c.Name)
		assert.NotEmpty(t, c.PlanKey, "case %s", c.Name)
	}
}

func TestRunReportsFailedExpectations(t *testing.T) {
	dir := t.TempDir()
	models, err := filepath.Abs("testdata/models")
	require.NoError(t, err)

	path := filepath.Join(dir, "wrong.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: wrong
description: "expects the wrong ids"
models: `+models+`
tables:
  products:
    - { id: 1, name: "Desk Lamp", price: 10 }
    - { id: 2, name: "Chair", price: 200 }
cases:
  - name: gt
    request:
      model: products
      filter: "price:GT(100)"
    expect:
      ids: [1]
  - name: not_an_error
    request:
      model: products
    expect:
      error: INVALID_FILTER
`), 0o644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "gt: expected ids [1], got [2]", result.Errors[0])
	assert.Equal(t, "not_an_error: expected error INVALID_FILTER, got none", result.Errors[1])
}

func TestRunFailsOnMissingModels(t *testing.T) {
	_, err := Run(&Scenario{
		Name:        "broken",
		Description: "models do not exist",
		Models:      filepath.Join(t.TempDir(), "nope"),
		Cases:       []Case{{Name: "x", Request: RequestSpec{Model: "products"}}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load models")
}
