package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenarioResolvesModels(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/catalog.yaml")
	require.NoError(t, err)

	assert.Equal(t, "catalog", scenario.Name)
	assert.Equal(t, filepath.Join("testdata", "models"), scenario.Models)
	assert.Len(t, scenario.Tables["products"], 4)
	assert.Len(t, scenario.Tables["authors"], 2)
	require.NotEmpty(t, scenario.Cases)
	assert.Equal(t, "price_over_100", scenario.Cases[0].Name)
	assert.Equal(t, []any{2, 4}, scenario.Cases[0].Expect.IDs)
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenarioMissingModels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: s
description: d
models: ./nowhere
cases:
  - name: c
    request: { model: products }
`), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "models not found")
}

func TestParseScenarioValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    "name: s\ndescription: d\nmodels: m\ncase: []\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing name",
			yaml:    "description: d\nmodels: m\ncases: [{name: c, request: {model: p}}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: s\nmodels: m\ncases: [{name: c, request: {model: p}}]\n",
			wantErr: "description is required",
		},
		{
			name:    "missing models",
			yaml:    "name: s\ndescription: d\ncases: [{name: c, request: {model: p}}]\n",
			wantErr: "models is required",
		},
		{
			name:    "no cases",
			yaml:    "name: s\ndescription: d\nmodels: m\n",
			wantErr: "cases list is required",
		},
		{
			name:    "row without id",
			yaml:    "name: s\ndescription: d\nmodels: m\ntables: {p: [{name: x}]}\ncases: [{name: c, request: {model: p}}]\n",
			wantErr: "tables.p[0]: id is required",
		},
		{
			name:    "case without name",
			yaml:    "name: s\ndescription: d\nmodels: m\ncases: [{request: {model: p}}]\n",
			wantErr: "cases[0]: name is required",
		},
		{
			name:    "duplicate case",
			yaml:    "name: s\ndescription: d\nmodels: m\ncases: [{name: c, request: {model: p}}, {name: c, request: {model: p}}]\n",
			wantErr: `duplicate case name "c"`,
		},
		{
			name:    "case without model",
			yaml:    "name: s\ndescription: d\nmodels: m\ncases: [{name: c, request: {filter: x}}]\n",
			wantErr: "request.model is required",
		},
		{
			name:    "pair without key",
			yaml:    "name: s\ndescription: d\nmodels: m\ncases: [{name: c, request: {model: p, pairs: [{value: 1}]}}]\n",
			wantErr: "pairs[0]: key is required",
		},
		{
			name:    "ids and error",
			yaml:    "name: s\ndescription: d\nmodels: m\ncases: [{name: c, request: {model: p}, expect: {ids: [1], error: X}}]\n",
			wantErr: "mutually exclusive",
		},
		{
			name: "valid",
			yaml: "name: s\ndescription: d\nmodels: m\ncases: [{name: c, request: {model: p, strict: true}}]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseScenario([]byte(tt.yaml))
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.True(t, s.Cases[0].Request.Strict)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
