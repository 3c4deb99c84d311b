package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupResolvesAliases(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"EQ", "EQ"},
		{"=", "EQ"},
		{"==", "EQ"},
		{"eq", "EQ"},
		{"!=", "NEQ"},
		{"<>", "NEQ"},
		{"not", "NEQ"},
		{"ne", "NEQ"},
		{">", "GT"},
		{">=", "GTE"},
		{"gte", "GTE"},
		{"<", "LT"},
		{"<=", "LTE"},
		{"lte", "LTE"},
		{"between", "BETWEEN"},
		{"nin", "NOT_IN"},
		{"null", "IS_NULL"},
		{"not_null", "IS_NOT_NULL"},
		{"date", "DATE_EQ"},
		{"REGEXP", "REGEX"},
		{"regexp", "REGEX"},
		{" in ", "IN"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			op, ok := Lookup(tt.token)
			require.True(t, ok)
			assert.Equal(t, tt.want, op.Name)
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	for _, token := range []string{"INVALID", "", "GT100", "=~"} {
		_, ok := Lookup(token)
		assert.False(t, ok, token)
	}
}

func TestMustLookupPanics(t *testing.T) {
	assert.NotPanics(t, func() { MustLookup("IN") })
	assert.Panics(t, func() { MustLookup("NOPE") })
}

func TestArity(t *testing.T) {
	tests := []struct {
		name   string
		accept []int
		reject []int
	}{
		{"EQ", []int{1}, []int{0, 2}},
		{"BETWEEN", []int{2}, []int{1, 3}},
		{"IN", []int{1, 2, 10}, []int{0}},
		{"IS_NULL", []int{0}, []int{1}},
		{"DATE_BETWEEN", []int{2}, []int{1}},
		{"JSON_LENGTH", []int{1}, []int{0, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := MustLookup(tt.name)
			for _, n := range tt.accept {
				assert.True(t, op.AcceptsArity(n), "%s should accept %d", tt.name, n)
			}
			for _, n := range tt.reject {
				assert.False(t, op.AcceptsArity(n), "%s should reject %d", tt.name, n)
			}
		})
	}

	assert.Equal(t, "at least 1", MustLookup("NOT_IN").ArityString())
	assert.Equal(t, "2", MustLookup("NOT_BETWEEN").ArityString())
}

func TestKindMatchesArity(t *testing.T) {
	for _, op := range All() {
		switch op.Kind {
		case KindNone:
			assert.Equal(t, 0, op.Arity, op.Name)
		case KindScalar:
			assert.Equal(t, 1, op.Arity, op.Name)
		case KindPair:
			assert.Equal(t, 2, op.Arity, op.Name)
		case KindList:
			assert.Equal(t, Variadic, op.Arity, op.Name)
		}
	}
}

func TestTableCategories(t *testing.T) {
	counts := map[Category]int{}
	for _, op := range All() {
		counts[op.Category]++
	}

	assert.Equal(t, 6, counts[CategoryComparison])
	assert.Equal(t, 2, counts[CategoryRange])
	assert.Equal(t, 2, counts[CategorySet])
	assert.Equal(t, 6, counts[CategoryPattern])
	assert.Equal(t, 2, counts[CategoryNullCheck])
	assert.Equal(t, 9, counts[CategoryDatePart])
	assert.Equal(t, 2, counts[CategoryJSON])
	assert.Equal(t, 1, counts[CategoryRegex])
}

func TestIsDate(t *testing.T) {
	assert.True(t, MustLookup("DATE_GTE").IsDate())
	assert.True(t, MustLookup("DATE_BETWEEN").IsDate())
	assert.False(t, MustLookup("YEAR").IsDate())
	assert.False(t, MustLookup("GT").IsDate())
}

func TestBuildIndexRejectsDuplicates(t *testing.T) {
	rows := []Operator{
		{Name: "A", Aliases: []string{"x"}},
		{Name: "B", Aliases: []string{"X"}},
	}
	assert.Panics(t, func() { buildIndex(rows) })
}

func TestAllIsCopy(t *testing.T) {
	all := All()
	all[0] = nil
	assert.NotNil(t, All()[0])
}

func TestBuildIndex(t *testing.T) {
	t.Run("alias spelled like its own name", func(t *testing.T) {
		rows := []Operator{{Name: "GT", Aliases: []string{">", "gt"}, Arity: 1}}
		var idx map[string]*Operator
		require.NotPanics(t, func() { idx = buildIndex(rows) })
		assert.Len(t, idx, 2)
		assert.Same(t, &rows[0], idx["gt"])
	})

	t.Run("two rows claim one key", func(t *testing.T) {
		rows := []Operator{
			{Name: "EQ", Aliases: []string{"="}},
			{Name: "IS", Aliases: []string{"="}},
		}
		assert.Panics(t, func() { buildIndex(rows) })
	})

	t.Run("package table", func(t *testing.T) {
		assert.NotPanics(t, func() { buildIndex(table) })
	})
}
