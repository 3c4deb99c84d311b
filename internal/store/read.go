package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/sieve/internal/ir"
)

// Query runs a compiled SELECT and decodes every row to an IRObject keyed
// by column name. Row order is the query's ORDER BY.
//
// Returns an empty slice (not nil) if no rows match.
func (s *Store) Query(ctx context.Context, query string, params []any) ([]ir.IRObject, error) {
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}

	if records == nil {
		records = []ir.IRObject{}
	}
	return records, nil
}

// QueryIDs runs a compiled SELECT and returns the "id" column of each row
// in order. Rows without an id are skipped.
func (s *Store) QueryIDs(ctx context.Context, query string, params []any) ([]ir.IRValue, error) {
	records, err := s.Query(ctx, query, params)
	if err != nil {
		return nil, err
	}

	ids := make([]ir.IRValue, 0, len(records))
	for _, rec := range records {
		if id, ok := rec["id"]; ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func scanRecords(rows *sql.Rows) ([]ir.IRObject, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var records []ir.IRObject
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		rec := make(ir.IRObject, len(columns))
		for i, col := range columns {
			v, err := unmarshalColumn(values[i])
			if err != nil {
				return nil, fmt.Errorf("decode column %q: %w", col, err)
			}
			rec[col] = v
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}
