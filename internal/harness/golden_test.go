package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	result := &Result{Cases: []CaseResult{
		{
			Name:      "decimal",
			SQL:       `SELECT * FROM "t" WHERE "price" > ? ORDER BY "id" ASC`,
			Params:    []any{19.5},
			CEL:       `record["price"] > params[0]`,
			CELParams: []any{19.5},
			SQLIDs:    []string{"1"},
		},
		{Name: "failed", Error: "UNKNOWN_MODEL"},
	}}

	got, err := Snapshot("demo", result)
	require.NoError(t, err)

	want := "# demo\n" +
		"\n== decimal\n" +
		"sql: SELECT * FROM \"t\" WHERE \"price\" > ? ORDER BY \"id\" ASC\n" +
		"params: [19.5]\n" +
		"cel: record[\"price\"] > params[0]\n" +
		"cel_params: [19.5]\n" +
		"ids: [1]\n" +
		"\n== failed\n" +
		"error: UNKNOWN_MODEL\n"
	assert.Equal(t, want, string(got))
}

func TestCanonicalParams(t *testing.T) {
	got, err := canonicalParams([]any{"a\"b", int64(3), nil, true, []any{"x", int64(1)}})
	require.NoError(t, err)
	assert.Equal(t, `["a\"b",3,null,true,["x",1]]`, got)

	got, err = canonicalParams(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}
