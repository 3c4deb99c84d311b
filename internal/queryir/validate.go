package queryir

import (
	"fmt"

	"github.com/roach88/sieve/internal/ir"
)

// ValidationResult contains the structural analysis of a plan.
//
// Plans produced by the compiler from validated clauses are always
// executable. Hand-built or un-validated plans may not be: executors treat
// those as a caller contract violation, and Validate reports why.
type ValidationResult struct {
	// Executable is true when every backend can run the plan as-is.
	Executable bool

	// Warnings lists each structural problem found.
	// Empty when Executable is true.
	Warnings []string
}

// Validate checks a plan for problems an executor cannot handle:
//  1. Empty field names
//  2. Null operands outside NullCheck
//  3. Empty InSet values
//  4. Unknown comparison operators, pattern kinds or date parts
//  5. Related predicates nested inside Related (one level only)
//  6. Unknown predicate types
//
// Validate is a pure function with no side effects.
func Validate(plan Plan) ValidationResult {
	v := &validator{
		warnings: []string{},
	}

	for _, f := range plan.Filters {
		v.validatePredicate(f, false)
	}
	for i, s := range plan.Search {
		if i > 0 && s.Connective != ConnectiveAnd && s.Connective != ConnectiveOr {
			v.addWarning("search step %d has invalid connective %q", i+1, s.Connective)
		}
		v.validatePredicate(s.Predicate, false)
	}
	for _, b := range plan.Rank {
		if b.Field == "" {
			v.addWarning("rank boost with empty field")
		}
	}

	return ValidationResult{
		Executable: len(v.warnings) == 0,
		Warnings:   v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

// addWarning appends a warning message.
func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

// validatePredicate recursively validates a predicate node.
func (v *validator) validatePredicate(p Predicate, inRelated bool) {
	switch pred := p.(type) {
	case nil:
		v.addWarning("nil predicate")
	case Equal:
		v.checkField(pred.Field)
		v.checkOperand(pred.Field, pred.Value, "Equal")
	case Compare:
		v.checkField(pred.Field)
		v.checkOp(pred.Field, pred.Op)
		v.checkOperand(pred.Field, pred.Value, "Compare")
	case InRange:
		v.checkField(pred.Field)
		v.checkOperand(pred.Field, pred.Low, "InRange")
		v.checkOperand(pred.Field, pred.High, "InRange")
	case InSet:
		v.checkField(pred.Field)
		if len(pred.Values) == 0 {
			v.addWarning("Field '%s' InSet has no values", pred.Field)
		}
	case Pattern:
		v.checkField(pred.Field)
		switch pred.Kind {
		case PatternLike, PatternStartsWith, PatternEndsWith, PatternContains:
		default:
			v.addWarning("Field '%s' has unknown pattern kind %q", pred.Field, pred.Kind)
		}
	case NullCheck:
		v.checkField(pred.Field)
	case DateCompare:
		v.checkField(pred.Field)
		v.checkOp(pred.Field, pred.Op)
		v.checkOperand(pred.Field, pred.Value, "DateCompare")
	case DateRange:
		v.checkField(pred.Field)
		v.checkOperand(pred.Field, pred.Low, "DateRange")
		v.checkOperand(pred.Field, pred.High, "DateRange")
	case DatePart:
		v.checkField(pred.Field)
		switch pred.Part {
		case PartYear, PartMonth, PartDay:
		default:
			v.addWarning("Field '%s' has unknown date part %q", pred.Field, pred.Part)
		}
		v.checkOperand(pred.Field, pred.Value, "DatePart")
	case JSONContains:
		v.checkField(pred.Field)
		v.checkOperand(pred.Field, pred.Value, "JSONContains")
	case JSONLength:
		v.checkField(pred.Field)
		v.checkOperand(pred.Field, pred.Length, "JSONLength")
	case Regex:
		v.checkField(pred.Field)
	case Related:
		if pred.Relation == "" {
			v.addWarning("Related predicate with empty relation")
		}
		if inRelated {
			v.addWarning("Related '%s' nested inside another Related - only one level is supported", pred.Relation)
		}
		v.validatePredicate(pred.Predicate, true)
	case And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub, inRelated)
		}
	case Or:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub, inRelated)
		}
	case Not:
		v.validatePredicate(pred.Predicate, inRelated)
	default:
		v.addWarning("Unknown predicate type: %T", p)
	}
}

func (v *validator) checkField(field string) {
	if field == "" {
		v.addWarning("predicate with empty field")
	}
}

func (v *validator) checkOp(field, op string) {
	switch op {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte:
	default:
		v.addWarning("Field '%s' has unknown comparison operator %q", field, op)
	}
}

// checkOperand rejects missing and null operands; NULL never compares.
func (v *validator) checkOperand(field string, val ir.IRValue, kind string) {
	switch val.(type) {
	case nil:
		v.addWarning("Field '%s' %s has no operand", field, kind)
	case ir.IRNull:
		v.addWarning("Field '%s' %s compared to NULL - use NullCheck", field, kind)
	}
}
