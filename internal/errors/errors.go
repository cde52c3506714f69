package errors

import (
	"context"
	stderrors "errors"
	"fmt"

	"healthstudy/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// GetCode returns the error code carried anywhere in the chain, or "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Classify attaches the code matching a domain error. Errors already carrying
// a code and context cancellations pass through unchanged. The original error
// stays in the chain, so errors.Is checks against the domain sentinels keep
// working on the classified error.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return err
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}

	code := CodeInternalError
	switch {
	case core.IsParseError(err):
		code = CodeParseError
	case core.IsLoadError(err):
		code = CodeLoadError
	case core.IsInsufficientDataError(err):
		code = CodeInsufficientData
	case core.IsSingularMatrixError(err):
		code = CodeSingularMatrix
	case stderrors.Is(err, core.ErrInvalidInput):
		code = CodeInvalidInput
	}
	return &AppError{Code: code, Cause: err}
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeLoadError        = "LOAD_ERROR"
	CodeParseError       = "PARSE_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeSingularMatrix   = "SINGULAR_MATRIX"
	CodeInternalError    = "INTERNAL_ERROR"
)

// ConfigInvalid flags a configuration value that fails validation
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}
