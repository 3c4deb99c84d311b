package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	harnessScenarios = "../harness/testdata/scenarios"
	harnessGolden    = "../harness/testdata/golden"
)

func TestTestCommandPasses(t *testing.T) {
	res := execute(t, "test", harnessScenarios, "--golden", harnessGolden)
	require.NoError(t, res.err, res.stdout)

	assert.Contains(t, res.stdout, "✓ catalog (")
	assert.Contains(t, res.stdout, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, res.stdout, "✓ All scenarios passed")
}

func TestTestCommandJSON(t *testing.T) {
	res := execute(t, "--format", "json", "test", harnessScenarios)
	require.NoError(t, res.err, res.stdout)

	resp, data := decodeResponse(t, res.stdout)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, float64(1), data["passed"])
	assert.Equal(t, float64(0), data["failed"])
}

func TestTestCommandUpdateWritesGolden(t *testing.T) {
	golden := filepath.Join(t.TempDir(), "golden")

	res := execute(t, "test", harnessScenarios, "--golden", golden, "--update")
	require.NoError(t, res.err, res.stdout)
	assert.Contains(t, res.stdout, "golden updated")

	written, err := os.ReadFile(filepath.Join(golden, "catalog.golden"))
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join(harnessGolden, "catalog.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(written))
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	golden := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(golden, "catalog.golden"), []byte("stale\n"), 0o644))

	res := execute(t, "test", harnessScenarios, "--golden", golden)
	require.Error(t, res.err)
	assert.Equal(t, ExitFailure, GetExitCode(res.err))
	assert.Contains(t, res.stdout, "✗ catalog")
	assert.Contains(t, res.stdout, "does not match golden file")
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := t.TempDir()
	models, err := filepath.Abs("../harness/testdata/models")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.yaml"), []byte(`
name: wrong
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
`), 0o644))

	res := execute(t, "--format", "json", "test", dir)
	require.Error(t, res.err)
	assert.Equal(t, ExitFailure, GetExitCode(res.err))

	resp, data := decodeResponse(t, res.stdout)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
	assert.Equal(t, float64(1), data["failed"])
}

func TestTestCommandFilter(t *testing.T) {
	res := execute(t, "test", harnessScenarios, "--filter", "nothing*")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "No scenarios found.")
}

func TestTestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing directory", []string{"test", "/nonexistent/scenarios"}},
		{"update without golden", []string{"test", harnessScenarios, "--update"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, tt.args...)
			require.Error(t, res.err)
			assert.Equal(t, ExitCommandError, GetExitCode(res.err))
		})
	}
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"alpha.yaml", "beta.yml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("name: x\n"), 0o644))
	}

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = findScenarioFiles(dir, "al*")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "alpha.yaml", filepath.Base(files[0]))

	_, err = findScenarioFiles(dir, "[")
	assert.Error(t, err)
}
