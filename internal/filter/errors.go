package filter

import (
	"errors"
	"fmt"
	"strings"
)

// Validation error codes (E200-E299)
const (
	CodeParse               = "E201" // malformed clause syntax
	CodeUnsupportedOperator = "E202" // operator not in the table
	CodeArity               = "E203" // operand count mismatch
)

// ErrorKind names the class of a validation error.
type ErrorKind string

const (
	KindParse               ErrorKind = "ParseError"
	KindUnsupportedOperator ErrorKind = "UnsupportedOperatorError"
	KindArity               ErrorKind = "ArityError"
)

// Sentinel errors for errors.Is matching against ValidationError values.
var (
	ErrParse               = errors.New("parse error")
	ErrUnsupportedOperator = errors.New("unsupported operator")
	ErrArity               = errors.New("arity mismatch")
)

// ValidationError describes one problem found in filter input.
// Clause is the 1-based position of the offending clause.
type ValidationError struct {
	Kind     ErrorKind `json:"kind"`
	Code     string    `json:"code"`
	Clause   int       `json:"clause"`
	Field    string    `json:"field,omitempty"`
	Operator string    `json:"operator,omitempty"`
	Message  string    `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] clause %d (%s): %s", e.Code, e.Clause, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] clause %d: %s", e.Code, e.Clause, e.Message)
}

// Is reports whether target is the sentinel for this error's kind.
func (e ValidationError) Is(target error) bool {
	switch e.Kind {
	case KindParse:
		return target == ErrParse
	case KindUnsupportedOperator:
		return target == ErrUnsupportedOperator
	case KindArity:
		return target == ErrArity
	default:
		return false
	}
}

// ValidationErrors is the error returned by the strict parse path.
type ValidationErrors []ValidationError

// Error joins the individual messages.
func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes each ValidationError to errors.Is and errors.As.
func (errs ValidationErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

func parseError(pos int, field, op, format string, args ...any) ValidationError {
	return ValidationError{
		Kind:     KindParse,
		Code:     CodeParse,
		Clause:   pos,
		Field:    field,
		Operator: op,
		Message:  fmt.Sprintf(format, args...),
	}
}
