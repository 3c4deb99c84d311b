package schema

import "github.com/roach88/sieve/internal/ir"

// Embed attaches related rows to each record of the model table, the
// shape the in-memory evaluator reads. Every relation becomes a list
// under its name: the rows of the related table whose ForeignKey equals
// the record's LocalKey. Records are copied; tables is not modified.
func (m Model) Embed(tables map[string][]ir.IRObject) []ir.IRObject {
	rows := tables[m.Table]
	out := make([]ir.IRObject, 0, len(rows))
	for _, row := range rows {
		rec := make(ir.IRObject, len(row)+len(m.Relations))
		for k, v := range row {
			rec[k] = v
		}
		for name, rel := range m.Relations {
			related := ir.IRArray{}
			key, ok := row[rel.LocalKey]
			if ok && !isNull(key) {
				for _, candidate := range tables[rel.Table] {
					if fk, ok := candidate[rel.ForeignKey]; ok && sameValue(fk, key) {
						related = append(related, candidate)
					}
				}
			}
			rec[name] = related
		}
		out = append(out, rec)
	}
	return out
}

func isNull(v ir.IRValue) bool {
	_, null := v.(ir.IRNull)
	return v == nil || null
}

// sameValue compares join keys by their text rendering.
func sameValue(a, b ir.IRValue) bool {
	if isNull(a) || isNull(b) {
		return false
	}
	return ir.Text(a) == ir.Text(b)
}
