package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// IO errors
	ErrIO = errors.New("input/output failure")

	// Validation errors
	ErrValidation     = errors.New("validation failed")
	ErrUnknownColumn  = fmt.Errorf("%w: unknown column", ErrValidation)
	ErrSchemaMismatch = fmt.Errorf("%w: schema mismatch", ErrValidation)

	// Configuration errors
	ErrConfiguration = errors.New("invalid configuration")

	// Resampling errors
	ErrDegenerateFold = errors.New("degenerate fold: class missing from partition")
)

// Error constructors with context
func NewIOError(stage string, err error) error {
	return fmt.Errorf("%s: %w: %v", stage, ErrIO, err)
}

func NewValidationError(stage, column, reason string) error {
	return fmt.Errorf("%s: %w: column %s: %s", stage, ErrValidation, column, reason)
}

func NewRowValidationError(stage, column string, firstRow, lastRow int, reason string) error {
	if firstRow == lastRow {
		return fmt.Errorf("%s: %w: column %s, row %d: %s", stage, ErrValidation, column, firstRow, reason)
	}
	return fmt.Errorf("%s: %w: column %s, rows %d-%d: %s", stage, ErrValidation, column, firstRow, lastRow, reason)
}

func NewUnknownColumnError(stage, column string) error {
	return fmt.Errorf("%s: %w: %s", stage, ErrUnknownColumn, column)
}

func NewConfigurationError(field, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfiguration, field, reason)
}

func NewDegenerateFoldError(repeat, fold int, class string) error {
	return fmt.Errorf("%w: repeat %d fold %d has no %q instances", ErrDegenerateFold, repeat, fold, class)
}

// Error checking helpers
func IsIOError(err error) bool {
	return errors.Is(err, ErrIO)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsDegenerateFoldError(err error) bool {
	return errors.Is(err, ErrDegenerateFold)
}
