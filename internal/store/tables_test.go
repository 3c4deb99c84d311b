package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/ir"
)

func TestLoadTablesAndSeedAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
products:
  - {id: 1, name: Desk Lamp, price: 19.99, tags: [sale, home], author_id: 10}
  - {id: 2, name: Office Chair, price: 120, deleted_at: null}
authors:
  - {id: 10, name: Ann Lee}
`), 0o644))

	tables, err := LoadTables(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"authors", "products"}, tables.Names())
	assert.Equal(t, ir.MustDecimal("19.99"), tables["products"][0]["price"])
	assert.Equal(t, ir.IRNull{}, tables["products"][1]["deleted_at"])

	s := createTestStore(t)
	require.NoError(t, s.SeedAll(context.Background(), tables))

	ids, err := s.QueryIDs(context.Background(), `SELECT * FROM "products" WHERE "author_id" = ? ORDER BY "id" ASC`, []any{int64(10)})
	require.NoError(t, err)
	assert.Equal(t, []ir.IRValue{ir.IRInt(1)}, ids)
}

func TestLoadTablesErrors(t *testing.T) {
	_, err := LoadTables(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read seed file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products: {id: 1}\n"), 0o644))
	_, err = LoadTables(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse seed file")
}
