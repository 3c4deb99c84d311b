package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Term
	}{
		{
			name:  "phrase, connective and exclusion",
			input: `"web development" AND modern -legacy`,
			want: []Term{
				{Text: "web development", Exact: true},
				{Text: "modern", Combinator: And},
				{Text: "legacy", Exclude: true, Combinator: And},
			},
		},
		{
			name:  "default combinator is AND",
			input: "go rust",
			want: []Term{
				{Text: "go"},
				{Text: "rust", Combinator: And},
			},
		},
		{
			name:  "OR case-insensitive",
			input: "go or rust",
			want: []Term{
				{Text: "go"},
				{Text: "rust", Combinator: Or},
			},
		},
		{
			name:  "lone dash excludes next term",
			input: "go - java",
			want: []Term{
				{Text: "go"},
				{Text: "java", Exclude: true, Combinator: And},
			},
		},
		{
			name:  "excluded phrase",
			input: `go -"enterprise java"`,
			want: []Term{
				{Text: "go"},
				{Text: "enterprise java", Exact: true, Exclude: true, Combinator: And},
			},
		},
		{
			name:  "unterminated quote stays literal",
			input: `"web development`,
			want: []Term{
				{Text: `"web`},
				{Text: "development", Combinator: And},
			},
		},
		{
			name:  "leading connective ignored for first term",
			input: "OR go",
			want:  []Term{{Text: "go"}},
		},
		{
			name:  "last connective wins",
			input: "a AND OR b",
			want: []Term{
				{Text: "a"},
				{Text: "b", Combinator: Or},
			},
		},
		{
			name:  "empty quotes skipped",
			input: `a "" b`,
			want: []Term{
				{Text: "a"},
				{Text: "b", Combinator: And},
			},
		},
		{
			name:  "quoted keyword is a term",
			input: `"AND"`,
			want:  []Term{{Text: "AND", Exact: true}},
		},
		{
			name:  "blank",
			input: "   ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestParseKeepsFields(t *testing.T) {
	q := Parse("widget", []string{"name", "description"})
	assert.Equal(t, []string{"name", "description"}, q.Fields)
	assert.False(t, q.Empty())
	assert.True(t, Parse("AND OR", nil).Empty())
}

func TestQueryString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"web development" and modern -legacy`, `"web development" modern -legacy`},
		{"go OR rust", "go OR rust"},
		{"go - java", "go -java"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			q := Parse(tt.input, nil)
			assert.Equal(t, tt.want, q.String())
			assert.Equal(t, q.Terms, Parse(q.String(), nil).Terms)
		})
	}
}
