package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/sieve/internal/ir"
)

// CheckCase compares a case result against its expectation and reports
// every mismatch. Backend agreement is always checked.
func CheckCase(expect *Expect, cr CaseResult) []string {
	var failures []string

	if expect != nil && expect.Error != "" {
		if cr.Error != expect.Error {
			failures = append(failures, fmt.Sprintf("expected error %s, got %s", expect.Error, orNone(cr.Error)))
		}
		return failures
	}

	if cr.Error != "" {
		return append(failures, fmt.Sprintf("unexpected error %s", cr.Error))
	}

	if !slices.Equal(cr.SQLIDs, cr.CELIDs) {
		failures = append(failures, fmt.Sprintf("backends disagree: sql selected %s, cel selected %s",
			formatIDs(cr.SQLIDs), formatIDs(cr.CELIDs)))
	}

	if expect == nil {
		return failures
	}

	if expect.IDs != nil {
		want, err := expectedIDs(expect.IDs)
		if err != nil {
			failures = append(failures, err.Error())
		} else if !slices.Equal(want, cr.SQLIDs) {
			failures = append(failures, fmt.Sprintf("expected ids %s, got %s", formatIDs(want), formatIDs(cr.SQLIDs)))
		}
	}

	if expect.ValidationErrors != nil && !slices.Equal(expect.ValidationErrors, cr.ValidationErrors) {
		failures = append(failures, fmt.Sprintf("expected validation errors %v, got %v", expect.ValidationErrors, cr.ValidationErrors))
	}
	if expect.DroppedClauses != nil && !slices.Equal(expect.DroppedClauses, cr.DroppedClauses) {
		failures = append(failures, fmt.Sprintf("expected dropped clauses %v, got %v", expect.DroppedClauses, cr.DroppedClauses))
	}
	if expect.DroppedFields != nil && !slices.Equal(expect.DroppedFields, cr.DroppedFields) {
		failures = append(failures, fmt.Sprintf("expected dropped fields %v, got %v", expect.DroppedFields, cr.DroppedFields))
	}

	return failures
}

// expectedIDs renders YAML ids the way record ids are rendered.
func expectedIDs(raw []any) ([]string, error) {
	out := make([]string, 0, len(raw))
	for i, v := range raw {
		val, err := ir.FromGo(v)
		if err != nil {
			return nil, fmt.Errorf("expect.ids[%d]: %w", i, err)
		}
		out = append(out, ir.Text(val))
	}
	return out, nil
}

func formatIDs(ids []string) string {
	return "[" + strings.Join(ids, ", ") + "]"
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
