// Package querycel evaluates queryir plans in memory with CEL.
//
// A plan compiles to one CEL expression over two variables:
//
//	record  map(string, dyn)  the record under test
//	params  list(dyn)         operand values, referenced as params[i]
//
// Operand values never appear in the expression text, so plans that
// differ only in their values share one compiled program.
//
// Matching follows SQLite semantics closely enough that both backends
// select the same records for well-typed data: a missing or null field
// never satisfies a comparison, LIKE patterns are case-insensitive, and
// date operators compare calendar days in UTC. A record whose evaluation
// errors (for example comparing a string field with a number) does not
// match.
package querycel
