// Package errors provides structured error handling for the SDK. It defines
// error types that map to JSON-RPC error codes and let callers distinguish
// transport failures from protocol violations programmatically.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Category classifies an error for handling decisions.
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryTransport  Category = "transport"
	CategoryProtocol   Category = "protocol"
	CategoryInternal   Category = "internal"
	CategoryCancelled  Category = "cancelled"
)

// Severity indicates how critical an error is.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// MCPError is the interface implemented by all structured SDK errors.
type MCPError interface {
	error

	// Code returns the JSON-RPC error code
	Code() int

	// Message returns a human-readable error message
	Message() string

	// Detail returns additional technical detail for debugging
	Detail() string

	// Data returns structured error data for programmatic handling
	Data() interface{}

	// Category returns the error category for classification
	Category() Category

	// Severity returns the error severity level
	Severity() Severity

	// WithDetail returns a copy of the error with additional detail
	WithDetail(detail string) MCPError

	// WithData returns a copy of the error with structured data
	WithData(data interface{}) MCPError

	// Unwrap returns the underlying cause, if any
	Unwrap() error
}

type baseError struct {
	code     int
	message  string
	detail   string
	data     interface{}
	category Category
	severity Severity
	cause    error
}

func (e *baseError) Error() string {
	if e.detail != "" {
		return fmt.Sprintf("%s: %s", e.message, e.detail)
	}
	return e.message
}

func (e *baseError) Code() int          { return e.code }
func (e *baseError) Message() string    { return e.message }
func (e *baseError) Detail() string     { return e.detail }
func (e *baseError) Data() interface{}  { return e.data }
func (e *baseError) Category() Category { return e.category }
func (e *baseError) Severity() Severity { return e.severity }
func (e *baseError) Unwrap() error      { return e.cause }

func (e *baseError) WithDetail(detail string) MCPError {
	copied := *e
	if copied.detail != "" {
		copied.detail = fmt.Sprintf("%s; %s", copied.detail, detail)
	} else {
		copied.detail = detail
	}
	return &copied
}

func (e *baseError) WithData(data interface{}) MCPError {
	copied := *e
	copied.data = data
	return &copied
}

// NewError creates a new MCPError.
func NewError(code int, message string, category Category, severity Severity) MCPError {
	return &baseError{
		code:     code,
		message:  message,
		category: category,
		severity: severity,
	}
}

// NewErrorf creates a new MCPError with a formatted message.
func NewErrorf(code int, category Category, severity Severity, format string, args ...interface{}) MCPError {
	return &baseError{
		code:     code,
		message:  fmt.Sprintf(format, args...),
		category: category,
		severity: severity,
	}
}

// WrapError wraps an existing error as an MCPError, preserving it as the cause
// for errors.Is/As traversal.
func WrapError(err error, code int, message string, category Category, severity Severity) MCPError {
	return &baseError{
		code:     code,
		message:  message,
		category: category,
		severity: severity,
		cause:    err,
	}
}

// AsMCPError extracts an MCPError from anywhere in err's chain.
func AsMCPError(err error) (MCPError, bool) {
	var mcpErr MCPError
	if stderrors.As(err, &mcpErr) {
		return mcpErr, true
	}
	return nil, false
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, category Category) bool {
	if mcpErr, ok := AsMCPError(err); ok {
		return mcpErr.Category() == category
	}
	return false
}

// IsCode reports whether err carries the given JSON-RPC error code.
func IsCode(err error, code int) bool {
	if mcpErr, ok := AsMCPError(err); ok {
		return mcpErr.Code() == code
	}
	return false
}
