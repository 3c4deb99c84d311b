package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	fixtures "github.com/roach88/sieve/internal/testutil"
)

const (
	testModels = "testdata/models"
	testSeed   = "testdata/seed.yaml"
	testTrace  = "trace-0001"
)

// syncBuffer is a bytes.Buffer safe for the server goroutine's logs.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type execResult struct {
	stdout string
	stderr string
	err    error
}

// execute runs the root command with a fixed trace id and the test models.
func execute(t *testing.T, args ...string) execResult {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) execResult {
	t.Helper()

	cmd := NewRootCommandWith(&RootOptions{IDs: fixtures.NewFixedIDGenerator(testTrace)})
	stdout := &syncBuffer{}
	stderr := &syncBuffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append([]string{"--models", testModels}, args...))

	err := cmd.ExecuteContext(ctx)
	return execResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// decodeResponse parses JSON output into a CLIResponse with a map payload.
func decodeResponse(t *testing.T, out string) (CLIResponse, map[string]any) {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	data, _ := resp.Data.(map[string]any)
	return resp, data
}

func recordIDs(t *testing.T, data map[string]any) []float64 {
	t.Helper()
	records, ok := data["records"].([]any)
	require.True(t, ok, "records missing: %v", data)
	ids := make([]float64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.(map[string]any)["id"].(float64))
	}
	return ids
}
