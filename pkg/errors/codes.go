package errors

// JSON-RPC 2.0 standard error codes.
const (
	// CodeParseError indicates invalid JSON was received
	CodeParseError int = -32700

	// CodeInvalidRequest indicates the JSON sent is not a valid Request object
	CodeInvalidRequest int = -32600

	// CodeMethodNotFound indicates the method does not exist
	CodeMethodNotFound int = -32601

	// CodeInvalidParams indicates invalid method parameter(s)
	CodeInvalidParams int = -32602

	// CodeInternalError indicates an internal JSON-RPC error
	CodeInternalError int = -32603
)

// SDK-specific error codes, grouped in bands.
const (
	// Operation errors (-32300 to -32399)
	CodeOperationCancelled int = -32300 // Operation was cancelled
	CodeOperationTimeout   int = -32301 // Operation timed out

	// Transport errors (-32500 to -32599)
	CodeTransportError    int = -32500 // Generic transport error
	CodeConnectionFailed  int = -32501 // Failed to establish connection
	CodeConnectionLost    int = -32502 // Connection lost during operation
	CodeConnectionTimeout int = -32503 // Connection timed out

	// Pagination errors (-32800 to -32899)
	CodeInvalidCursor     int = -32801 // Cursor has an invalid format
	CodeDuplicateCursor   int = -32803 // Server repeated a cursor within one traversal
	CodePageLimitExceeded int = -32804 // Traversal requested more pages than allowed

	// Protocol errors (-32900 to -32999)
	CodeProtocolError   int = -32900 // Generic protocol error
	CodeVersionMismatch int = -32901 // Protocol version mismatch
)
