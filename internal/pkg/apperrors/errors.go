package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrStudentNotFound = errors.New("student not found")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Import errors
	ErrMalformedRow         = errors.New("malformed import row")
	ErrUnsupportedImportFmt = errors.New("unsupported import file format")

	// Aggregate errors
	ErrNoData = errors.New("no data for query")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new custom error for validation failures with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}
