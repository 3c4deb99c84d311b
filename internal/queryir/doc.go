// Package queryir provides the backend-agnostic predicate instruction set
// that compiled filters and searches are expressed in.
//
// ARCHITECTURE:
//
// The instruction set is the abstraction boundary between the filter and
// search front ends and the executors:
//
//	[filter clauses] ─┐
//	                  ├→ [compiler] → [queryir.Plan] → [SQL backend]
//	[search terms]  ──┘                              → [CEL backend]
//
// A Plan holds three ordered parts:
//   - Filters: one instruction per authorized clause, combined by AND
//   - Search: one step per search term, folded strictly left to right
//   - Rank: relevance boosts for weighted searchable fields
//
// INSTRUCTIONS:
//
//	Equal(field, value)               Compare(field, op, value)
//	InRange(field, lo, hi, negate)    InSet(field, values, negate)
//	Pattern(field, kind, text, negate) NullCheck(field, isNull)
//	DateCompare(field, op, value)     DateRange(field, lo, hi)
//	DatePart(field, part, value)      JSONContains(field, value)
//	JSONLength(field, n)              Regex(field, pattern)
//	Related(relation, predicate)      And / Or / Not
//
// SEALED INTERFACE:
//
// Predicate is sealed with a marker method. Backends switch exhaustively
// over the types in this package and report anything else as an error.
//
// OPERAND VALUES:
//
// All literal operands are ir.IRValue. Backends bind them as parameters;
// no operand is ever spliced into backend source text.
package queryir
