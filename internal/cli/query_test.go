package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryBackendsAgree(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantIDs []float64
	}{
		{
			name:    "filter and search",
			args:    []string{"-f", "status:EQ(active)", "-s", "lamp"},
			wantIDs: []float64{1, 3},
		},
		{
			name:    "relation filter",
			args:    []string{"-f", "author.name:EQ(Ann Lee)"},
			wantIDs: []float64{1, 3},
		},
		{
			name:    "pairs",
			args:    []string{"-p", "price:GT=100"},
			wantIDs: []float64{2, 4},
		},
		{
			name:    "excluded term",
			args:    []string{"-s", "lamp -shade"},
			wantIDs: []float64{1, 2},
		},
		{
			name:    "no filter",
			args:    nil,
			wantIDs: []float64{1, 2, 3, 4},
		},
	}

	for _, tt := range tests {
		for _, backend := range []string{backendSQL, backendCEL} {
			t.Run(tt.name+"/"+backend, func(t *testing.T) {
				args := append([]string{"--format", "json", "query", "products", "--seed", testSeed, "--backend", backend}, tt.args...)
				res := execute(t, args...)
				require.NoError(t, res.err, res.stdout)

				_, data := decodeResponse(t, res.stdout)
				assert.Equal(t, backend, data["backend"])
				assert.Equal(t, tt.wantIDs, recordIDs(t, data))
				assert.Equal(t, float64(len(tt.wantIDs)), data["count"])
			})
		}
	}
}

func TestQueryCELOmitsEmbeddedRelations(t *testing.T) {
	res := execute(t, "--format", "json", "query", "products", "--seed", testSeed, "--backend", "cel", "-f", "id:EQ(1)")
	require.NoError(t, res.err, res.stdout)

	_, data := decodeResponse(t, res.stdout)
	records := data["records"].([]any)
	require.Len(t, records, 1)
	rec := records[0].(map[string]any)
	assert.NotContains(t, rec, "author")
	assert.Equal(t, "Desk Lamp", rec["name"])
}

func TestQueryText(t *testing.T) {
	res := execute(t, "query", "products", "--seed", testSeed, "-f", "status:EQ(active);cost:GT(1)", "-s", "lamp")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "2 record(s) from products (sql)")
	assert.Contains(t, res.stdout, `"name":"Desk Lamp"`)
	assert.Contains(t, res.stdout, "dropped clause: cost:GT(1)")
}

func TestQueryFailures(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantExit int
		wantCode string
	}{
		{
			name:     "missing seed file",
			args:     []string{"query", "products", "--seed", "testdata/missing.yaml"},
			wantExit: ExitCommandError,
			wantCode: ErrCodeSeedFailed,
		},
		{
			name:     "bad backend",
			args:     []string{"query", "products", "--backend", "all"},
			wantExit: ExitCommandError,
			wantCode: ErrCodeBadFlag,
		},
		{
			name:     "unknown model",
			args:     []string{"query", "widgets", "--seed", testSeed},
			wantExit: ExitCommandError,
			wantCode: "UNKNOWN_MODEL",
		},
		{
			name:     "unknown model cel",
			args:     []string{"query", "widgets", "--seed", testSeed, "--backend", "cel"},
			wantExit: ExitCommandError,
			wantCode: "UNKNOWN_MODEL",
		},
		{
			name:     "strict",
			args:     []string{"query", "products", "--seed", testSeed, "--strict", "-f", "price:GT100"},
			wantExit: ExitFailure,
			wantCode: "INVALID_FILTER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, append([]string{"--format", "json"}, tt.args...)...)
			require.Error(t, res.err)
			assert.Equal(t, tt.wantExit, GetExitCode(res.err))

			resp, _ := decodeResponse(t, res.stdout)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}
