package engine

import (
	"errors"
	"fmt"
)

// Error represents a request the engine could not serve.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Model names the requested model, when known.
	Model string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeUnknownModel indicates the request names no registered model.
	ErrCodeUnknownModel ErrorCode = "UNKNOWN_MODEL"

	// ErrCodeInvalidFilter indicates a strict request had validation errors.
	ErrCodeInvalidFilter ErrorCode = "INVALID_FILTER"

	// ErrCodeCompileFailed indicates a backend could not compile the plan.
	ErrCodeCompileFailed ErrorCode = "COMPILE_FAILED"

	// ErrCodeExecuteFailed indicates the backend failed while running the plan.
	ErrCodeExecuteFailed ErrorCode = "EXECUTE_FAILED"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Model != "" {
		return fmt.Sprintf("%s: %s (model=%s)", e.Code, msg, e.Model)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsUnknownModel returns true if err is an unknown model error.
// Uses errors.As to handle wrapped errors.
func IsUnknownModel(err error) bool {
	return hasCode(err, ErrCodeUnknownModel)
}

// IsInvalidFilter returns true if err is a strict-mode validation failure.
func IsInvalidFilter(err error) bool {
	return hasCode(err, ErrCodeInvalidFilter)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

func newUnknownModelError(model string) *Error {
	return &Error{
		Code:    ErrCodeUnknownModel,
		Message: "model is not registered",
		Model:   model,
	}
}
