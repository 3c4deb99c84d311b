package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/sieve/internal/ir"
)

// Seed creates table (if needed) and inserts records into it.
//
// The table gets one untyped column per key found in any record, with
// "id" first when present. Missing keys insert NULL. Seeding an existing
// table adds no columns; keys it does not have are an error.
func (s *Store) Seed(ctx context.Context, table string, records []ir.IRObject) error {
	columns := columnsOf(records)
	if len(columns) == 0 {
		return fmt.Errorf("seed %q: no columns", table)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed %q: begin: %w", table, err)
	}
	defer tx.Rollback()

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}

	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(table), strings.Join(quoted, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("seed %q: create: %w", table, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(table), strings.Join(quoted, ", "), placeholders)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("seed %q: prepare: %w", table, err)
	}
	defer stmt.Close()

	for i, rec := range records {
		args := make([]any, len(columns))
		for j, c := range columns {
			v, ok := rec[c]
			if !ok {
				continue
			}
			arg, err := marshalColumn(v)
			if err != nil {
				return fmt.Errorf("seed %q: record %d column %q: %w", table, i, c, err)
			}
			args[j] = arg
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("seed %q: insert record %d: %w", table, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed %q: commit: %w", table, err)
	}
	return nil
}

// columnsOf returns the union of record keys, "id" first, the rest sorted.
func columnsOf(records []ir.IRObject) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			seen[k] = struct{}{}
		}
	}

	columns := make([]string, 0, len(seen))
	for k := range seen {
		if k != "id" {
			columns = append(columns, k)
		}
	}
	sort.Strings(columns)
	if _, ok := seen["id"]; ok {
		columns = append([]string{"id"}, columns...)
	}
	return columns
}

// quoteIdent quotes an identifier for SQLite.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
