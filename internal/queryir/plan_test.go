package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/sieve/internal/ir"
)

func term(text string) Predicate {
	return Pattern{Field: "name", Kind: PatternContains, Text: text}
}

func TestFoldSearchLeftToRight(t *testing.T) {
	tests := []struct {
		name  string
		steps []SearchStep
		want  Predicate
	}{
		{
			name:  "empty",
			steps: nil,
			want:  nil,
		},
		{
			name:  "single",
			steps: []SearchStep{{Predicate: term("a")}},
			want:  term("a"),
		},
		{
			name: "and chain flattens",
			steps: []SearchStep{
				{Predicate: term("a")},
				{Connective: ConnectiveAnd, Predicate: term("b")},
				{Connective: ConnectiveAnd, Predicate: term("c")},
			},
			want: And{Predicates: []Predicate{term("a"), term("b"), term("c")}},
		},
		{
			name: "a OR b -c binds exclusion to the whole expression",
			steps: []SearchStep{
				{Predicate: term("a")},
				{Connective: ConnectiveOr, Predicate: term("b")},
				{Connective: ConnectiveAnd, Exclude: true, Predicate: term("c")},
			},
			want: And{Predicates: []Predicate{
				Or{Predicates: []Predicate{term("a"), term("b")}},
				Not{Predicate: term("c")},
			}},
		},
		{
			name: "excluded term ignores OR connective",
			steps: []SearchStep{
				{Predicate: term("a")},
				{Connective: ConnectiveOr, Exclude: true, Predicate: term("b")},
			},
			want: And{Predicates: []Predicate{term("a"), Not{Predicate: term("b")}}},
		},
		{
			name: "a AND b OR c has no precedence",
			steps: []SearchStep{
				{Predicate: term("a")},
				{Connective: ConnectiveAnd, Predicate: term("b")},
				{Connective: ConnectiveOr, Predicate: term("c")},
			},
			want: Or{Predicates: []Predicate{
				And{Predicates: []Predicate{term("a"), term("b")}},
				term("c"),
			}},
		},
		{
			name:  "excluded first term",
			steps: []SearchStep{{Exclude: true, Predicate: term("a")}},
			want:  Not{Predicate: term("a")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FoldSearch(tt.steps))
		})
	}
}

func TestPlanPredicate(t *testing.T) {
	price := Compare{Field: "price", Op: OpGt, Value: ir.IRInt(10)}
	stock := NullCheck{Field: "stock", IsNull: false}

	assert.Nil(t, Plan{}.Predicate())
	assert.True(t, Plan{}.Empty())
	assert.Equal(t, price, Plan{Filters: []Predicate{price}}.Predicate())

	p := Plan{
		Filters: []Predicate{price, stock},
		Search:  []SearchStep{{Predicate: term("a")}},
	}
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, And{Predicates: []Predicate{price, stock, term("a")}}, p.Predicate())
}

func TestFoldDoesNotAliasInputs(t *testing.T) {
	steps := []SearchStep{
		{Predicate: term("a")},
		{Connective: ConnectiveAnd, Predicate: term("b")},
	}
	first := FoldSearch(steps).(And)
	steps = append(steps, SearchStep{Connective: ConnectiveAnd, Predicate: term("c")})
	_ = FoldSearch(steps)

	assert.Len(t, first.Predicates, 2)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "go%", Pattern{Kind: PatternStartsWith, Text: "go"}.LikePattern())
	assert.Equal(t, "%go", Pattern{Kind: PatternEndsWith, Text: "go"}.LikePattern())
	assert.Equal(t, "%100%%", Pattern{Kind: PatternContains, Text: "100%"}.LikePattern())
	assert.Equal(t, "g_o", Pattern{Kind: PatternLike, Text: "g_o"}.LikePattern())
}

func TestBoostPredicate(t *testing.T) {
	assert.Equal(t,
		Pattern{Field: "name", Kind: PatternContains, Text: "lamp"},
		Boost{Field: "name", Weight: 3, Term: "lamp"}.Predicate())

	assert.Equal(t,
		Related{Relation: "author", Predicate: Pattern{Field: "name", Kind: PatternContains, Text: "lee"}},
		Boost{Field: "author.name", Weight: 1, Term: "lee"}.Predicate())
}
