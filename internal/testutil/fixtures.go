package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/schema"
	"github.com/roach88/sieve/internal/store"
)

// ProductsModel returns the "products" model used across tests.
//
// Searchable: name (weight 3), description (weight 1), author.name
// Filterable: everything except "cost"
func ProductsModel() schema.Model {
	return schema.Model{
		Name:       "products",
		Table:      "products",
		Searchable: []string{"name", "description", "author.name"},
		Weights:    map[string]int{"name": 3, "description": 1},
		Filterable: []string{
			"id", "name", "description", "price", "stock", "status", "tags",
			"sku", "created_at", "deleted_at", "author", "reviews",
		},
		Relations: map[string]schema.Relation{
			"author":  {Table: "authors", LocalKey: "author_id", ForeignKey: "id"},
			"reviews": {Table: "reviews", LocalKey: "id", ForeignKey: "product_id"},
		},
	}
}

// Registry returns a registry holding ProductsModel.
func Registry(t testing.TB) *schema.Registry {
	t.Helper()
	reg, err := schema.NewRegistry(ProductsModel())
	require.NoError(t, err)
	return reg
}

// ProductTables returns the rows of the products, authors and reviews
// tables.
func ProductTables() map[string][]ir.IRObject {
	return map[string][]ir.IRObject{
		"products": {
			{
				"id":          ir.IRInt(1),
				"name":        ir.IRString("Desk Lamp"),
				"description": ir.IRString("Adjustable LED lamp"),
				"price":       ir.MustDecimal("19.99"),
				"cost":        ir.MustDecimal("7.5"),
				"stock":       ir.IRInt(5),
				"status":      ir.IRString("active"),
				"tags":        ir.IRArray{ir.IRString("sale"), ir.IRString("home")},
				"sku":         ir.IRString("A123"),
				"created_at":  ir.IRString("2024-01-15T10:30:00Z"),
				"deleted_at":  ir.IRNull{},
				"author_id":   ir.IRInt(10),
			},
			{
				"id":          ir.IRInt(2),
				"name":        ir.IRString("Office Chair"),
				"description": ir.IRString("Ergonomic chair with lamp hook"),
				"price":       ir.IRInt(120),
				"cost":        ir.IRInt(60),
				"stock":       ir.IRInt(0),
				"status":      ir.IRString("archived"),
				"tags":        ir.IRArray{},
				"sku":         ir.IRString("B200"),
				"created_at":  ir.IRString("2023-06-01"),
				"deleted_at":  ir.IRString("2024-02-01"),
				"author_id":   ir.IRInt(11),
			},
			{
				"id":          ir.IRInt(3),
				"name":        ir.IRString("Lamp Shade"),
				"description": ir.IRString("Linen shade"),
				"price":       ir.MustDecimal("8.5"),
				"cost":        ir.IRInt(3),
				"stock":       ir.IRInt(12),
				"status":      ir.IRString("active"),
				"tags":        ir.IRArray{ir.IRString("home")},
				"sku":         ir.IRString("A777"),
				"created_at":  ir.IRString("2024-03-02T00:00:00Z"),
				"deleted_at":  ir.IRNull{},
				"author_id":   ir.IRInt(10),
			},
			{
				"id":          ir.IRInt(4),
				"name":        ir.IRString("Bookshelf"),
				"description": ir.IRNull{},
				"price":       ir.IRInt(250),
				"cost":        ir.IRInt(100),
				"stock":       ir.IRInt(2),
				"status":      ir.IRString("draft"),
				"tags":        ir.IRArray{ir.IRString("sale")},
				"sku":         ir.IRString("C-1"),
				"created_at":  ir.IRString("2024-01-31T23:59:59Z"),
				"deleted_at":  ir.IRNull{},
				"author_id":   ir.IRNull{},
			},
		},
		"authors": {
			{"id": ir.IRInt(10), "name": ir.IRString("Ann Lee")},
			{"id": ir.IRInt(11), "name": ir.IRString("Bob Stone")},
		},
		"reviews": {
			{"id": ir.IRInt(100), "product_id": ir.IRInt(1), "rating": ir.IRInt(5)},
			{"id": ir.IRInt(101), "product_id": ir.IRInt(1), "rating": ir.IRInt(2)},
			{"id": ir.IRInt(102), "product_id": ir.IRInt(3), "rating": ir.IRInt(3)},
		},
	}
}

// SeedTables seeds every table into s, in sorted table order.
func SeedTables(t testing.TB, s *store.Store, tables map[string][]ir.IRObject) {
	t.Helper()
	require.NoError(t, s.SeedAll(context.Background(), tables))
}

// ProductStore opens an in-memory store seeded with ProductTables.
func ProductStore(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	SeedTables(t, s, ProductTables())
	return s
}

// IDs returns the "id" of each record, in order.
func IDs(records []ir.IRObject) []ir.IRValue {
	out := make([]ir.IRValue, 0, len(records))
	for _, r := range records {
		out = append(out, r["id"])
	}
	return out
}

// IntIDs is like IDs for integer ids.
func IntIDs(records []ir.IRObject) []int64 {
	out := make([]int64, 0, len(records))
	for _, r := range records {
		if id, ok := r["id"].(ir.IRInt); ok {
			out = append(out, int64(id))
		}
	}
	return out
}
