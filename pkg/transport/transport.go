// Package transport provides the message transports the client paginates
// over: stdio for subprocess servers and plain HTTP for remote ones. The
// pagination core never sees any of this; it consumes pages through the
// client, which consumes Transport.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	mcperrors "github.com/cursorsafe/mcp-client-go/pkg/errors"
	"github.com/cursorsafe/mcp-client-go/pkg/logging"
	"github.com/cursorsafe/mcp-client-go/pkg/protocol"
)

// Transport is the core interface for exchanging JSON-RPC messages with a
// server.
type Transport interface {
	// Initialize prepares the transport for use
	Initialize(ctx context.Context) error

	// SendRequest sends a request and waits for the matching response,
	// returning its raw result
	SendRequest(ctx context.Context, method string, params interface{}) (json.RawMessage, error)

	// SendNotification sends a notification (no response expected)
	SendNotification(ctx context.Context, method string, params interface{}) error

	// RegisterNotificationHandler registers a handler for incoming
	// notifications of the given method
	RegisterNotificationHandler(method string, handler NotificationHandler)

	// Start runs the transport's receive loop until the context is done or
	// Stop is called
	Start(ctx context.Context) error

	// Stop shuts the transport down
	Stop(ctx context.Context) error
}

// NotificationHandler handles incoming notifications.
type NotificationHandler func(ctx context.Context, params json.RawMessage) error

// TransportType identifies the transport implementation.
type TransportType string

const (
	TransportTypeStdio TransportType = "stdio"
	TransportTypeHTTP  TransportType = "http"
)

// ErrUnsupportedTransportType is returned for unknown transport types.
var ErrUnsupportedTransportType = errors.New("unsupported transport type")

// TransportConfig is the unified configuration for all transports.
type TransportConfig struct {
	// Type of transport to create
	Type TransportType `json:"type"`

	// Endpoint for HTTP transports
	Endpoint string `json:"endpoint,omitempty"`

	// RequestTimeout bounds each request/response round trip
	RequestTimeout time.Duration `json:"request_timeout"`

	// Logger for transport events; nil disables logging
	Logger logging.Logger `json:"-"`
}

// DefaultTransportConfig returns a configuration with sensible defaults.
func DefaultTransportConfig(transportType TransportType) TransportConfig {
	return TransportConfig{
		Type:           transportType,
		RequestTimeout: 30 * time.Second,
	}
}

// NewTransport creates a transport from its configuration.
func NewTransport(config TransportConfig) (Transport, error) {
	switch config.Type {
	case TransportTypeStdio:
		return NewStdioTransport(config), nil
	case TransportTypeHTTP:
		if config.Endpoint == "" {
			return nil, errors.New("endpoint is required for HTTP transports")
		}
		return NewHTTPTransport(config), nil
	default:
		return nil, ErrUnsupportedTransportType
	}
}

// BaseTransport provides request/response correlation and handler
// registration shared by all transport implementations.
type BaseTransport struct {
	mu                   sync.Mutex
	notificationHandlers map[string]NotificationHandler
	pendingRequests      map[string]chan *protocol.Response
	nextID               int64
	logger               logging.Logger
}

// NewBaseTransport creates a BaseTransport.
func NewBaseTransport(logger logging.Logger) *BaseTransport {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &BaseTransport{
		notificationHandlers: make(map[string]NotificationHandler),
		pendingRequests:      make(map[string]chan *protocol.Response),
		nextID:               1,
		logger:               logger,
	}
}

// RegisterNotificationHandler registers a handler for incoming notifications.
func (t *BaseTransport) RegisterNotificationHandler(method string, handler NotificationHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notificationHandlers[method] = handler
}

// GenerateID returns the next unique request ID.
func (t *BaseTransport) GenerateID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	return fmt.Sprintf("req_%d", id)
}

// RegisterPending registers a response channel for the given request ID.
func (t *BaseTransport) RegisterPending(id string) chan *protocol.Response {
	ch := make(chan *protocol.Response, 1)
	t.mu.Lock()
	t.pendingRequests[id] = ch
	t.mu.Unlock()
	return ch
}

// UnregisterPending removes a pending request, e.g. after cancellation.
func (t *BaseTransport) UnregisterPending(id string) {
	t.mu.Lock()
	delete(t.pendingRequests, id)
	t.mu.Unlock()
}

// HandleResponse routes an incoming response to its waiting request.
func (t *BaseTransport) HandleResponse(response *protocol.Response) {
	id := fmt.Sprintf("%v", response.ID)
	t.mu.Lock()
	ch, ok := t.pendingRequests[id]
	if ok {
		delete(t.pendingRequests, id)
	}
	t.mu.Unlock()

	if ok {
		ch <- response
	} else {
		t.logger.Warn("response for unknown request", logging.String("id", id))
	}
}

// HandleNotification dispatches an incoming notification to its handler.
// Panics in handlers are recovered and converted to errors.
func (t *BaseTransport) HandleNotification(ctx context.Context, notification *protocol.Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error processing notification %s: %v", notification.Method, r)
		}
	}()

	t.mu.Lock()
	handler, ok := t.notificationHandlers[notification.Method]
	t.mu.Unlock()

	if !ok {
		t.logger.Debug("no handler for notification", logging.String("method", notification.Method))
		return nil
	}
	return handler(ctx, notification.Params)
}

// WaitForResponse blocks until the response for id arrives or the context is
// done.
func (t *BaseTransport) WaitForResponse(ctx context.Context, id string, ch chan *protocol.Response) (*protocol.Response, error) {
	select {
	case response := <-ch:
		return response, nil
	case <-ctx.Done():
		t.UnregisterPending(id)
		return nil, ctx.Err()
	}
}

// Cleanup closes all pending request channels.
func (t *BaseTransport) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, ch := range t.pendingRequests {
		close(ch)
	}
	t.pendingRequests = make(map[string]chan *protocol.Response)
}

// resultOrError unpacks a response into its raw result, converting a JSON-RPC
// error object into an SDK error.
func resultOrError(method string, response *protocol.Response) (json.RawMessage, error) {
	if response == nil {
		return nil, mcperrors.ConnectionLost(errors.New("transport closed while awaiting response"))
	}
	if response.Error != nil {
		return nil, mcperrors.TransportError(response.Error, method)
	}
	return response.Result, nil
}
