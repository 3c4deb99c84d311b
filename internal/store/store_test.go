package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/ir"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedProducts(t *testing.T, s *Store) {
	t.Helper()
	err := s.Seed(context.Background(), "products", []ir.IRObject{
		{
			"id":         ir.IRInt(1),
			"name":       ir.IRString("Desk Lamp"),
			"price":      ir.MustDecimal("19.99"),
			"tags":       ir.IRArray{ir.IRString("sale"), ir.IRString("home")},
			"created_at": ir.IRString("2024-01-15T10:30:00Z"),
			"sku":        ir.IRString("A123"),
		},
		{
			"id":         ir.IRInt(2),
			"name":       ir.IRString("Office Chair"),
			"price":      ir.IRInt(120),
			"tags":       ir.IRArray{},
			"created_at": ir.IRString("2023-06-01"),
			"deleted_at": ir.IRNull{},
		},
	})
	require.NoError(t, err)
}

func TestOpenAppliesPragmas(t *testing.T) {
	s := createTestStore(t)
	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	seedProducts(t, s)
	ids, err := s.QueryIDs(context.Background(), `SELECT * FROM "products" ORDER BY "id" ASC`, nil)
	require.NoError(t, err)
	assert.Equal(t, []ir.IRValue{ir.IRInt(1), ir.IRInt(2)}, ids)
}

func TestSeedAndQueryRoundTrip(t *testing.T) {
	s := createTestStore(t)
	seedProducts(t, s)

	records, err := s.Query(context.Background(), `SELECT * FROM "products" WHERE "id" = ? ORDER BY "id" ASC`, []any{int64(1)})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, ir.IRInt(1), rec["id"])
	assert.Equal(t, ir.IRString("Desk Lamp"), rec["name"])
	assert.Equal(t, ir.MustDecimal("19.99"), rec["price"])
	assert.Equal(t, ir.IRArray{ir.IRString("sale"), ir.IRString("home")}, rec["tags"])
	assert.Equal(t, ir.IRNull{}, rec["deleted_at"])
}

func TestQueryEmptyResultIsNotNil(t *testing.T) {
	s := createTestStore(t)
	seedProducts(t, s)

	records, err := s.Query(context.Background(), `SELECT * FROM "products" WHERE "id" = ?`, []any{int64(99)})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestSQLiteFunctions(t *testing.T) {
	s := createTestStore(t)
	seedProducts(t, s)

	tests := []struct {
		name   string
		where  string
		params []any
		want   []ir.IRValue
	}{
		{"regexp", `"sku" REGEXP ?`, []any{"^A[0-9]+$"}, []ir.IRValue{ir.IRInt(1)}},
		{"regexp null never matches", `"deleted_at" REGEXP ?`, []any{".*"}, []ir.IRValue{}},
		{"json_each", `EXISTS (SELECT 1 FROM json_each("tags") WHERE json_each.value = ?)`, []any{"home"}, []ir.IRValue{ir.IRInt(1)}},
		{"json_array_length", `json_array_length("tags") = ?`, []any{int64(0)}, []ir.IRValue{ir.IRInt(2)}},
		{"date", `date("created_at") = date(?)`, []any{"2024-01-15"}, []ir.IRValue{ir.IRInt(1)}},
		{"strftime", `CAST(strftime('%Y', "created_at") AS INTEGER) = ?`, []any{int64(2023)}, []ir.IRValue{ir.IRInt(2)}},
		{"like is case insensitive", `"name" LIKE ?`, []any{"%LAMP%"}, []ir.IRValue{ir.IRInt(1)}},
		{"mixed numeric compare", `"price" > ?`, []any{20.5}, []ir.IRValue{ir.IRInt(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := s.QueryIDs(context.Background(), `SELECT * FROM "products" WHERE `+tt.where+` ORDER BY "id" ASC`, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestRegexpInvalidPatternErrors(t *testing.T) {
	s := createTestStore(t)
	seedProducts(t, s)

	_, err := s.Query(context.Background(), `SELECT * FROM "products" WHERE "sku" REGEXP ?`, []any{"("})
	require.Error(t, err)
}

func TestSeedRejectsEmptyRecords(t *testing.T) {
	s := createTestStore(t)
	require.Error(t, s.Seed(context.Background(), "empty", nil))
}

func TestColumnsOf(t *testing.T) {
	cols := columnsOf([]ir.IRObject{
		{"name": ir.IRString("a"), "id": ir.IRInt(1)},
		{"alpha": ir.IRInt(2)},
	})
	assert.Equal(t, []string{"id", "alpha", "name"}, cols)
}

func TestMarshalColumn(t *testing.T) {
	tests := []struct {
		input ir.IRValue
		want  any
	}{
		{ir.IRNull{}, nil},
		{ir.IRString("x"), "x"},
		{ir.IRInt(3), int64(3)},
		{ir.MustDecimal("2.5"), 2.5},
		{ir.IRBool(true), true},
		{ir.IRObject{"b": ir.IRInt(1), "a": ir.IRInt(2)}, `{"a":2,"b":1}`},
	}

	for _, tt := range tests {
		got, err := marshalColumn(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestUnmarshalColumnKeepsPlainText(t *testing.T) {
	v, err := unmarshalColumn("[draft")
	require.NoError(t, err)
	assert.Equal(t, ir.IRString("[draft"), v)
}

func TestRegexpMatchNullArguments(t *testing.T) {
	registerDriver()

	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"untyped nil", nil, false},
		{"nil blob from driver", []byte(nil), false},
		{"text", "A123", true},
		{"blob", []byte("A123"), true},
		{"integer", int64(123), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := regexpMatch("^A[0-9]+$", tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
