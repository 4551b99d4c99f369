package errors

import "fmt"

// TransportErrorData carries context for transport-level failures.
type TransportErrorData struct {
	Endpoint  string `json:"endpoint,omitempty"`
	Method    string `json:"method,omitempty"`
	Retryable bool   `json:"retryable"`
}

// TransportError wraps a low-level transport failure. The cause is preserved
// so callers can still match it with errors.Is/As.
func TransportError(cause error, method string) MCPError {
	message := "transport error"
	if method != "" {
		message = fmt.Sprintf("transport error during %s", method)
	}
	return WrapError(
		cause,
		CodeTransportError,
		message,
		CategoryTransport,
		SeverityError,
	).WithData(&TransportErrorData{
		Method:    method,
		Retryable: true,
	})
}

// ConnectionFailed creates an error for a connection that could not be
// established.
func ConnectionFailed(endpoint string, cause error) MCPError {
	return WrapError(
		cause,
		CodeConnectionFailed,
		fmt.Sprintf("failed to connect to %s", endpoint),
		CategoryTransport,
		SeverityCritical,
	).WithData(&TransportErrorData{
		Endpoint:  endpoint,
		Retryable: true,
	})
}

// ConnectionLost creates an error for a connection dropped mid-operation.
func ConnectionLost(cause error) MCPError {
	return WrapError(
		cause,
		CodeConnectionLost,
		"connection lost",
		CategoryTransport,
		SeverityError,
	)
}

// RequestTimeout creates an error for a request that did not complete in time.
func RequestTimeout(method string, timeout string) MCPError {
	return NewError(
		CodeOperationTimeout,
		fmt.Sprintf("request %q timed out after %s", method, timeout),
		CategoryTransport,
		SeverityError,
	).WithData(&TransportErrorData{
		Method:    method,
		Retryable: true,
	})
}

// IsTransportError reports whether err originated in the transport layer.
func IsTransportError(err error) bool {
	return IsCategory(err, CategoryTransport)
}
