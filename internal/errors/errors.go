package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTransport    ErrorType = "TRANSPORT"
	ErrDecode       ErrorType = "DECODE"
	ErrSchema       ErrorType = "SCHEMA"
	ErrIO           ErrorType = "IO"
	ErrInvalidInput ErrorType = "INVALID_INPUT"
)

// Process exit codes, one per error type.
const (
	ExitOK           = 0
	ExitGeneric      = 1
	ExitTransport    = 2
	ExitDecode       = 3
	ExitSchema       = 4
	ExitIO           = 5
	ExitInvalidInput = 6
)

// AppError represents an application error
type AppError struct {
	Type       ErrorType
	Message    string
	Cause      error
	StatusCode int
	Timestamp  time.Time
}

func (e *AppError) Error() string {
	if e.StatusCode != 0 {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s (status %d, caused by: %v)", e.Type, e.Message, e.StatusCode, e.Cause)
		}
		return fmt.Sprintf("%s: %s (status %d)", e.Type, e.Message, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:      errType,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// NewTransportError creates an error for a failed network call or a non-success HTTP status.
// statusCode is 0 when no response was received.
func NewTransportError(message string, statusCode int, cause error) *AppError {
	err := New(ErrTransport, message, cause)
	err.StatusCode = statusCode
	return err
}

// NewDecodeError creates an error for an upstream body that could not be decoded
func NewDecodeError(message string, cause error) *AppError {
	return New(ErrDecode, message, cause)
}

// NewSchemaError creates an error for a persisted file with an unusable structure
func NewSchemaError(message string, cause error) *AppError {
	return New(ErrSchema, message, cause)
}

// NewIOError creates an error for a failed filesystem operation
func NewIOError(message string, cause error) *AppError {
	return New(ErrIO, message, cause)
}

// NewValidationError creates a new validation error
func NewValidationError(message string, err error) *AppError {
	return New(ErrInvalidInput, message, err)
}

// isType walks the whole error tree, including joined errors, since
// errors.As stops at the first *AppError it meets.
func isType(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}
	if appErr, ok := err.(*AppError); ok && appErr.Type == errType {
		return true
	}
	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if isType(inner, errType) {
				return true
			}
		}
		return false
	default:
		return isType(stderrors.Unwrap(err), errType)
	}
}

// IsTransport checks if the error is a transport error
func IsTransport(err error) bool {
	return isType(err, ErrTransport)
}

// IsDecode checks if the error is a decode error
func IsDecode(err error) bool {
	return isType(err, ErrDecode)
}

// IsSchema checks if the error is a schema error
func IsSchema(err error) bool {
	return isType(err, ErrSchema)
}

// IsIO checks if the error is a filesystem error
func IsIO(err error) bool {
	return isType(err, ErrIO)
}

// IsInvalidInput checks if the error is an invalid input error
func IsInvalidInput(err error) bool {
	return isType(err, ErrInvalidInput)
}

// ExitCode maps an error to the process exit status. Joined errors resolve
// to the most severe type they contain.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsSchema(err):
		return ExitSchema
	case IsDecode(err):
		return ExitDecode
	case IsTransport(err):
		return ExitTransport
	case IsIO(err):
		return ExitIO
	case IsInvalidInput(err):
		return ExitInvalidInput
	default:
		return ExitGeneric
	}
}
