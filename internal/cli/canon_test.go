package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanon(t *testing.T) {
	res := execute(t, "canon", " price : >(100) ; status:eq(active)")
	require.NoError(t, res.err)
	assert.Equal(t, "price:GT(100);status:EQ(active)\n", res.stdout)
}

func TestCanonJSON(t *testing.T) {
	res := execute(t, "--format", "json", "canon", "price:gte(10)")
	require.NoError(t, res.err)

	resp, data := decodeResponse(t, res.stdout)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "price:gte(10)", data["input"])
	assert.Equal(t, "price:GTE(10)", data["canonical"])
}

func TestCanonRejectsInvalidClause(t *testing.T) {
	res := execute(t, "canon", "status:EQ(active);price:GT100")
	require.Error(t, res.err)
	assert.Equal(t, ExitFailure, GetExitCode(res.err))
	assert.Contains(t, res.stdout, "✗ Validation failed")
	assert.Contains(t, res.stdout, "clause 2: E201")
}
