// Package fields holds per-model field configuration and the whitelist
// authorizer.
//
// A nil *Whitelist permits every field. A non-nil whitelist is checked by
// base field: "author.name" is allowed iff "author" is. Fields outside the
// whitelist are dropped, never reported as errors; callers that need
// strict behavior compare the dropped list against their input.
package fields

import (
	"sort"
	"strings"

	"github.com/roach88/sieve/internal/filter"
)

// Whitelist is an immutable set of allowed base field names.
type Whitelist struct {
	allowed map[string]struct{}
}

// NewWhitelist builds a whitelist. Entries are normalized to their base
// field, so "author.name" allows the whole "author" relation.
func NewWhitelist(names ...string) *Whitelist {
	w := &Whitelist{allowed: make(map[string]struct{}, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		w.allowed[Base(n)] = struct{}{}
	}
	return w
}

// Allows reports whether field may be used. A nil whitelist allows all.
func (w *Whitelist) Allows(field string) bool {
	if w == nil {
		return true
	}
	_, ok := w.allowed[Base(field)]
	return ok
}

// Names returns the allowed base names, sorted.
func (w *Whitelist) Names() []string {
	if w == nil {
		return nil
	}
	out := make([]string, 0, len(w.allowed))
	for n := range w.allowed {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Base returns the part of field before the first relation dot.
func Base(field string) string {
	base, _, _ := strings.Cut(field, ".")
	return base
}

// Config is the explicit field configuration for one record type.
type Config struct {
	// Searchable lists the fields (or relation.field paths) free-text
	// search terms match against.
	Searchable []string

	// Weights boosts relevance per searchable field. Fields without a
	// weight do not contribute to ranking.
	Weights map[string]int

	// Filterable is the filter whitelist; nil permits every field.
	Filterable *Whitelist

	// Relations names the declared relations a dotted field may go
	// through; nil accepts any relation path.
	Relations *Whitelist
}

// Resolves reports whether field can be compiled against the record
// type: plain fields always resolve, "relation.column" only through a
// declared relation.
func (c Config) Resolves(field string) bool {
	relation, _, dotted := strings.Cut(field, ".")
	if !dotted || c.Relations == nil {
		return true
	}
	return c.Relations.Allows(relation)
}

// Authorize splits clauses into the kept and the dropped ones. A clause is
// kept when its base field is filterable and its relation, if any, is
// declared. Order is preserved in both.
func (c Config) Authorize(clauses filter.FilterSet) (kept, dropped filter.FilterSet) {
	kept = make(filter.FilterSet, 0, len(clauses))
	for _, cl := range clauses {
		if c.Filterable.Allows(cl.Field) && c.Resolves(cl.Field) {
			kept = append(kept, cl)
		} else {
			dropped = append(dropped, cl)
		}
	}
	return kept, dropped
}

// AuthorizeSearch is Authorize for caller-supplied search fields.
func (c Config) AuthorizeSearch(names []string) (kept, dropped []string) {
	for _, n := range names {
		if c.Filterable.Allows(n) && c.Resolves(n) {
			kept = append(kept, n)
		} else {
			dropped = append(dropped, n)
		}
	}
	return kept, dropped
}
