package store

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sieve/internal/ir"
)

// Tables maps table names to their records.
type Tables map[string][]ir.IRObject

// TablesFromGo converts decoded YAML or JSON rows to IR records.
func TablesFromGo(raw map[string][]map[string]any) (Tables, error) {
	tables := make(Tables, len(raw))
	for name, rows := range raw {
		converted := make([]ir.IRObject, 0, len(rows))
		for i, row := range rows {
			obj := make(ir.IRObject, len(row))
			for k, v := range row {
				val, err := ir.FromGo(v)
				if err != nil {
					return nil, fmt.Errorf("tables.%s[%d].%s: %w", name, i, k, err)
				}
				obj[k] = val
			}
			converted = append(converted, obj)
		}
		tables[name] = converted
	}
	return tables, nil
}

// LoadTables reads a YAML (or JSON) seed file of the form
//
//	products:
//	  - {id: 1, name: Desk Lamp, price: 19.99}
//	authors:
//	  - {id: 10, name: Ann Lee}
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var raw map[string][]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return TablesFromGo(raw)
}

// Names returns the table names, sorted.
func (t Tables) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SeedAll seeds every table in name order.
func (s *Store) SeedAll(ctx context.Context, tables Tables) error {
	for _, name := range tables.Names() {
		if err := s.Seed(ctx, name, tables[name]); err != nil {
			return err
		}
	}
	return nil
}
