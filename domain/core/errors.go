package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Loading errors
	ErrLoad  = errors.New("dataset load failed")
	ErrParse = errors.New("value parse failed")

	// Analysis errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrSingularMatrix   = errors.New("design matrix is singular")
	ErrInvalidInput     = errors.New("invalid input")

	// Schema errors
	ErrColumnNotFound = errors.New("column not found")
	ErrColumnMismatch = errors.New("column count mismatch")
)

// Error constructors with context
func NewLoadError(path string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrLoad, path, cause)
}

func NewParseError(column string, line int, value string) error {
	return fmt.Errorf("%w: column %q line %d: %q is not numeric", ErrParse, column, line, value)
}

func NewInsufficientDataError(operation string, got, need int) error {
	return fmt.Errorf("%w: %s needs at least %d observations, got %d", ErrInsufficientData, operation, need, got)
}

func NewInvalidInputError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, field, reason)
}

func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: %s", ErrColumnNotFound, column)
}

// Error checking helpers
func IsLoadError(err error) bool {
	return errors.Is(err, ErrLoad) ||
		errors.Is(err, ErrColumnMismatch) ||
		errors.Is(err, ErrColumnNotFound)
}

func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}

func IsInsufficientDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsSingularMatrixError(err error) bool {
	return errors.Is(err, ErrSingularMatrix)
}
