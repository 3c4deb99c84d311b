// Package operator defines the static operator table for filter expressions.
//
// Every operator a filter clause may name lives in one immutable table built
// at package initialization. The table is data, not dispatch: adding an
// operator means adding a row, and every later stage (tokenizer, coercion,
// compiler, serializer) reads the row instead of switching on names.
//
// LOOKUP:
//
// Lookup resolves a canonical name or any alias, case-insensitively:
//
//	op, ok := operator.Lookup(">=")   // GTE
//	op, ok := operator.Lookup("nin")  // NOT_IN
//	op, ok := operator.Lookup("regexp") // REGEX
//
// ARITY:
//
// Arity is 0, 1, 2 or Variadic. Variadic operators (IN, NOT_IN) require at
// least one operand.
//
// CONCURRENCY:
//
// The table is never mutated after init. Lookup, All and every Operator
// value are safe for unlimited concurrent readers.
package operator
