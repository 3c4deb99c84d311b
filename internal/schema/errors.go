package schema

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error codes for model loading.
const (
	ErrCodeNotFound        = "E301" // Path not found
	ErrCodeNoFiles         = "E302" // No model files found
	ErrCodeLoadFailed      = "E303" // CUE load or YAML decode failed
	ErrCodeBuildFailed     = "E304" // CUE build or schema check failed
	ErrCodeInvalidModel    = "E305" // Model failed field checks
	ErrCodeUnknownRelation = "E306" // Dotted field uses an undeclared relation
	ErrCodeDuplicateModel  = "E307" // Same model declared twice
)

// LoadError represents an error that occurred during model loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(code string, err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}

	// Report the first error with position info
	first := errs[0]
	loadErr := &LoadError{Code: code, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}
