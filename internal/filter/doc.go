// Package filter parses, validates and serializes filter expressions.
//
// Two input forms are accepted:
//
// Form A is a structured map of field[:operator] keys to typed values:
//
//	{"price:between": []int{100, 500}, "category_id": []int{1, 2, 3}, "status": "active"}
//
// Form B is the compact string grammar:
//
//	expr    := clause (";" clause)*
//	clause  := field ":" OPERATOR ["(" arglist ")"]
//	arglist := arg ("," arg)*
//
// e.g. "price:BETWEEN(100,500);category_id:IN(1,2,3)".
//
// PIPELINE:
//
//  1. Tokenize (Form B) or ParsePairs/ParseMap (Form A) produce RawClauses
//     and any ParseErrors
//  2. Validate resolves operators, checks arity and coerces operands
//  3. Build renders clauses back to canonical Form B
//
// ERROR CONTRACT:
//
// Nothing in this package panics on bad input. Every problem is a
// ValidationError collected in order; ValidateFilterString reports all of
// them in one pass together with the clauses that did parse. Parse is the
// strict variant and returns the collected errors as a single error value.
//
// KNOWN LIMITATIONS:
//
// Arguments are split on every comma; a literal comma inside an argument
// cannot be expressed. Pattern operands are not wildcard-escaped.
package filter
