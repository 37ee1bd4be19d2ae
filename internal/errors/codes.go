package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a specific error type for availability operations.
type ErrorCode string

const (
	// ErrCodeValidationFailed indicates a query failed structural or range checks.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	// ErrCodeMigrationFailed indicates a stored date entry matched no known shape.
	ErrCodeMigrationFailed ErrorCode = "MIGRATION_FAILED"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeUnknownVersion indicates a stored calendar with an unrecognized schema version.
	ErrCodeUnknownVersion ErrorCode = "UNKNOWN_VERSION"
	// ErrCodeParserUnavailable indicates the natural-language parser is not available.
	ErrCodeParserUnavailable ErrorCode = "PARSER_UNAVAILABLE"
	// ErrCodeStoreUnavailable indicates the persistence backend is not reachable.
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	// ErrCodeNotFound indicates the requested calendar or entry does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Error represents a structured error for availability operations.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetCode returns the error code.
func (e *Error) GetCode() ErrorCode {
	return e.Code
}

// Convenience constructors for common error types.

// ValidationFailed creates a validation error.
func ValidationFailed(msg string) *Error {
	return &Error{Code: ErrCodeValidationFailed, Message: msg}
}

// ValidationFailedf creates a validation error with a formatted message.
func ValidationFailedf(format string, args ...interface{}) *Error {
	return &Error{Code: ErrCodeValidationFailed, Message: fmt.Sprintf(format, args...)}
}

// MigrationFailed creates a migration error.
func MigrationFailed(msg string) *Error {
	return &Error{Code: ErrCodeMigrationFailed, Message: msg}
}

// MigrationFailedf creates a migration error with a formatted message.
func MigrationFailedf(format string, args ...interface{}) *Error {
	return &Error{Code: ErrCodeMigrationFailed, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *Error {
	return &Error{Code: ErrCodeInvalidArgument, Message: msg}
}

// UnknownVersion creates an unknown store version error.
func UnknownVersion(version int) *Error {
	return &Error{
		Code:    ErrCodeUnknownVersion,
		Message: fmt.Sprintf("unknown availability store version: %d", version),
	}
}

// ParserUnavailable creates a parser unavailable error.
func ParserUnavailable(msg string, cause error) *Error {
	return &Error{Code: ErrCodeParserUnavailable, Message: msg, Cause: cause}
}

// StoreUnavailable creates a store unavailable error.
func StoreUnavailable(msg string, cause error) *Error {
	return &Error{Code: ErrCodeStoreUnavailable, Message: msg, Cause: cause}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: msg}
}

// Wrap wraps an existing error with additional context.
func Wrap(cause error, code ErrorCode, msg string) *Error {
	return &Error{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error (or any error in its chain) carries a specific code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not an *Error.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return defaultCode
}
