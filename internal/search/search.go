// Package search parses free-text search queries.
//
// Grammar (whitespace separated, no grouping):
//
//	query := term (connective? term)*
//	connective := "AND" | "OR"            (case-insensitive)
//	term := ["-"] ( '"' phrase '"' | word )
//
// Terms are evaluated strictly left to right. A connective applies to the
// term that follows it; without one, AND is assumed. A leading '-' (or a
// lone '-' token) marks the next term as excluded. A complete pair of
// double quotes marks an exact phrase; an unterminated quote is kept as a
// literal character.
package search

import (
	"regexp"
	"strings"
)

// Combinator values. The first term of a query has no combinator.
const (
	And = "AND"
	Or  = "OR"
)

// tokenPattern matches a complete quoted phrase (optionally negated) or a
// run of non-space characters.
var tokenPattern = regexp.MustCompile(`-?"[^"]*"|\S+`)

// Term is one search term.
type Term struct {
	Text       string `json:"text"`
	Exact      bool   `json:"exact"`
	Exclude    bool   `json:"exclude"`
	Combinator string `json:"combinator,omitempty"`
}

// Query is an ordered term list plus the fields the terms match against.
type Query struct {
	Terms  []Term   `json:"terms"`
	Fields []string `json:"fields,omitempty"`
}

// Parse tokenizes text into a Query over fields.
// Parse never fails; an empty or all-connective input yields no terms.
func Parse(text string, fields []string) Query {
	return Query{Terms: Tokenize(text), Fields: fields}
}

// Tokenize splits text into terms.
func Tokenize(text string) []Term {
	var (
		terms       []Term
		pending     string
		excludeNext bool
	)

	for _, tok := range tokenPattern.FindAllString(text, -1) {
		switch strings.ToUpper(tok) {
		case And, Or:
			pending = strings.ToUpper(tok)
			continue
		case "-":
			excludeNext = true
			continue
		}

		exclude := excludeNext
		excludeNext = false
		if strings.HasPrefix(tok, "-") {
			exclude = true
			tok = tok[1:]
		}

		exact := false
		if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
			exact = true
			tok = strings.TrimSpace(tok[1 : len(tok)-1])
		}
		if tok == "" {
			continue
		}

		term := Term{Text: tok, Exact: exact, Exclude: exclude}
		if len(terms) > 0 {
			term.Combinator = And
			if pending != "" {
				term.Combinator = pending
			}
		}
		pending = ""
		terms = append(terms, term)
	}

	return terms
}

// String renders the query back to search syntax.
func (q Query) String() string {
	var b strings.Builder
	for i, t := range q.Terms {
		if i > 0 {
			b.WriteByte(' ')
			if t.Combinator == Or {
				b.WriteString("OR ")
			}
		}
		if t.Exclude {
			b.WriteByte('-')
		}
		if t.Exact {
			b.WriteByte('"')
			b.WriteString(t.Text)
			b.WriteByte('"')
		} else {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// Empty reports whether the query has no terms.
func (q Query) Empty() bool {
	return len(q.Terms) == 0
}
