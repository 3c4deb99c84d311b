package filter

import (
	"regexp"
	"strings"

	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/operator"
)

// operatorToken accepts bare words (BETWEEN, not_null) and comparison
// symbols (>=, <>). Anything else, such as GT100, is malformed.
var operatorToken = regexp.MustCompile(`^(?:[A-Za-z]+(?:_[A-Za-z]+)*|[=!<>]{1,2})$`)

// Tokenize splits a Form B expression into raw clauses.
//
// Clauses are separated by ';' and empty segments are ignored. Malformed
// clauses produce ParseErrors and are left out of the returned list; every
// other clause is returned even when its operator is unknown, so that
// Validate can report it.
func Tokenize(expr string) ([]RawClause, []ValidationError) {
	var (
		clauses []RawClause
		errs    []ValidationError
	)

	pos := 0
	for _, segment := range strings.Split(expr, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		pos++

		raw, err := tokenizeClause(pos, segment)
		if err != nil {
			errs = append(errs, *err)
			continue
		}
		clauses = append(clauses, raw)
	}

	return clauses, errs
}

// tokenizeClause parses one `field:OPERATOR(args)` segment.
func tokenizeClause(pos int, segment string) (RawClause, *ValidationError) {
	fieldPart, rest, found := strings.Cut(segment, ":")
	if !found {
		e := parseError(pos, "", "", "missing ':' between field and operator in %q", segment)
		return RawClause{}, &e
	}

	field := strings.TrimSpace(fieldPart)
	if !ValidField(field) {
		e := parseError(pos, field, "", "invalid field name %q", field)
		return RawClause{}, &e
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		e := parseError(pos, field, "", "missing operator")
		return RawClause{}, &e
	}

	opToken, argText, hasArgs, perr := splitOperator(rest)
	if perr != "" {
		e := parseError(pos, field, opToken, "%s in %q", perr, segment)
		return RawClause{}, &e
	}

	if !operatorToken.MatchString(opToken) {
		e := parseError(pos, field, opToken, "malformed operator %q (missing parentheses?)", opToken)
		return RawClause{}, &e
	}

	if !hasArgs {
		if op, ok := operator.Lookup(opToken); ok && op.Arity != 0 {
			e := parseError(pos, field, opToken, "operator %s requires an argument list", op.Name)
			return RawClause{}, &e
		}
	}

	return RawClause{
		Position: pos,
		Field:    field,
		Operator: opToken,
		Args:     splitArgs(argText),
		Source:   segment,
	}, nil
}

// splitOperator separates the operator token from its parenthesized
// argument text. The argument group must be balanced and must close at
// the end of the clause. A non-empty problem string means a ParseError.
func splitOperator(rest string) (opToken, argText string, hasArgs bool, problem string) {
	open := strings.IndexByte(rest, '(')
	if open < 0 {
		if strings.IndexByte(rest, ')') >= 0 {
			return rest, "", false, "unbalanced parentheses"
		}
		return rest, "", false, ""
	}

	opToken = strings.TrimSpace(rest[:open])
	group := rest[open:]

	depth := 0
	for i, r := range group {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 || (depth == 0 && i != len(group)-1) {
				return opToken, "", true, "unbalanced parentheses"
			}
		}
	}
	if depth != 0 {
		return opToken, "", true, "unbalanced parentheses"
	}

	return opToken, group[1 : len(group)-1], true, ""
}

// splitArgs splits argument text on every comma and trims each argument.
// Empty text means zero arguments.
func splitArgs(text string) []ir.IRValue {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	parts := strings.Split(text, ",")
	args := make([]ir.IRValue, len(parts))
	for i, p := range parts {
		args[i] = ir.IRString(strings.TrimSpace(p))
	}
	return args
}
