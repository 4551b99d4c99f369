// Package client connects to an MCP server and enumerates its collections.
// All list operations paginate defensively: a server that repeats cursors or
// never stops producing pages is detected and reported instead of looping.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"sync"
	"time"

	mcperrors "github.com/cursorsafe/mcp-client-go/pkg/errors"
	"github.com/cursorsafe/mcp-client-go/pkg/logging"
	"github.com/cursorsafe/mcp-client-go/pkg/observability"
	"github.com/cursorsafe/mcp-client-go/pkg/paginate"
	"github.com/cursorsafe/mcp-client-go/pkg/protocol"
	"github.com/cursorsafe/mcp-client-go/pkg/transport"
)

// ListChangedCallback is invoked when the server announces that one of its
// collections changed.
type ListChangedCallback func(collection string)

// Client talks to one MCP server over a Transport.
type Client struct {
	transport transport.Transport

	name     string
	version  string
	maxPages int
	logger   logging.Logger
	metrics  observability.MetricsProvider
	tracing  *observability.TracingProvider

	mu           sync.RWMutex
	initialized  bool
	capabilities map[string]bool
	serverInfo   *protocol.ServerInfo
	listChanged  ListChangedCallback
}

// Option configures a Client.
type Option func(*Client)

// WithName sets the client name reported during initialization.
func WithName(name string) Option {
	return func(c *Client) {
		c.name = name
	}
}

// WithVersion sets the client version reported during initialization.
func WithVersion(version string) Option {
	return func(c *Client) {
		c.version = version
	}
}

// WithMaxPages overrides the per-traversal page limit.
func WithMaxPages(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics attaches a metrics provider.
func WithMetrics(metrics observability.MetricsProvider) Option {
	return func(c *Client) {
		if metrics != nil {
			c.metrics = metrics
		}
	}
}

// WithTracing attaches a tracing provider.
func WithTracing(tracing *observability.TracingProvider) Option {
	return func(c *Client) {
		c.tracing = tracing
	}
}

// New creates a client on top of the given transport.
func New(t transport.Transport, options ...Option) *Client {
	c := &Client{
		transport:    t,
		name:         "mcp-client-go",
		version:      "0.1.0",
		maxPages:     paginate.DefaultMaxPages,
		logger:       logging.NewNop(),
		metrics:      observability.NopMetricsProvider{},
		capabilities: make(map[string]bool),
	}
	for _, option := range options {
		option(c)
	}

	for _, method := range []string{
		protocol.MethodToolsChanged,
		protocol.MethodPromptsChanged,
		protocol.MethodResourcesChanged,
		protocol.MethodRootsChanged,
	} {
		c.registerListChanged(method)
	}
	return c
}

func (c *Client) registerListChanged(method string) {
	collection := collectionFromNotification(method)
	c.transport.RegisterNotificationHandler(method, func(ctx context.Context, params json.RawMessage) error {
		c.logger.WithContext(ctx).Debug("collection changed",
			logging.String("collection", collection))

		c.mu.RLock()
		callback := c.listChanged
		c.mu.RUnlock()
		if callback != nil {
			callback(collection)
		}
		return nil
	})
}

// collectionFromNotification maps "notifications/tools/list_changed" to
// "tools".
func collectionFromNotification(method string) string {
	const prefix = "notifications/"
	const suffix = "/list_changed"
	if len(method) > len(prefix)+len(suffix) {
		return method[len(prefix) : len(method)-len(suffix)]
	}
	return method
}

// SetListChangedCallback registers a callback for list-changed notifications.
func (c *Client) SetListChangedCallback(callback ListChangedCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listChanged = callback
}

// Initialize performs the protocol handshake: capability negotiation followed
// by the initialized notification.
func (c *Client) Initialize(ctx context.Context) error {
	if err := c.transport.Initialize(ctx); err != nil {
		return fmt.Errorf("initializing transport: %w", err)
	}

	params := &protocol.InitializeParams{
		ProtocolVersion: protocol.ProtocolRevision,
		Capabilities:    map[string]bool{},
		ClientInfo: &protocol.ClientInfo{
			Name:     c.name,
			Version:  c.version,
			Platform: runtime.GOOS + "/" + runtime.GOARCH,
		},
	}

	var result protocol.InitializeResult
	if err := c.call(ctx, protocol.MethodInitialize, params, &result); err != nil {
		return fmt.Errorf("initialize handshake failed: %w", err)
	}
	if result.ProtocolVersion == "" {
		return mcperrors.NewError(
			mcperrors.CodeProtocolError,
			"server reported no protocol version",
			mcperrors.CategoryProtocol,
			mcperrors.SeverityError,
		)
	}

	c.mu.Lock()
	c.initialized = true
	c.capabilities = result.Capabilities
	c.serverInfo = result.ServerInfo
	c.mu.Unlock()

	if err := c.transport.SendNotification(ctx, protocol.MethodInitialized, nil); err != nil {
		return fmt.Errorf("sending initialized notification: %w", err)
	}

	c.logger.WithContext(ctx).Info("client initialized",
		logging.String("protocol_version", result.ProtocolVersion))
	return nil
}

// Start runs the transport's receive loop. It blocks until the context is
// cancelled or Close is called.
func (c *Client) Start(ctx context.Context) error {
	return c.transport.Start(ctx)
}

// Close shuts the client and its transport down.
func (c *Client) Close(ctx context.Context) error {
	return c.transport.Stop(ctx)
}

// ServerInfo returns the server's self-description, or nil before Initialize.
func (c *Client) ServerInfo() *protocol.ServerInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverInfo
}

// HasCapability reports whether the server advertised the given capability.
// Before Initialize it optimistically returns true.
func (c *Client) HasCapability(capability protocol.CapabilityType) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.initialized {
		return true
	}
	enabled, ok := c.capabilities[string(capability)]
	return ok && enabled
}

// Capabilities returns a copy of the server's advertised capabilities.
func (c *Client) Capabilities() map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	capabilities := make(map[string]bool, len(c.capabilities))
	for k, v := range c.capabilities {
		capabilities[k] = v
	}
	return capabilities
}

// Ping checks that the server is responsive.
func (c *Client) Ping(ctx context.Context) error {
	params := &protocol.PingParams{Timestamp: time.Now().UnixMilli()}
	var result protocol.PingResult
	return c.call(ctx, protocol.MethodPing, params, &result)
}

// call performs one JSON-RPC round trip and unmarshals the result.
func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	start := time.Now()
	raw, err := c.transport.SendRequest(ctx, method, params)
	status := observability.StatusOK
	if err != nil {
		status = observability.StatusError
	}
	c.metrics.RecordRequest(ctx, method, status, time.Since(start))

	if err != nil {
		return err
	}
	if result == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return mcperrors.WrapError(
			err,
			mcperrors.CodeProtocolError,
			fmt.Sprintf("malformed %s result", method),
			mcperrors.CategoryProtocol,
			mcperrors.SeverityError,
		)
	}
	return nil
}

// requireCapability returns an error when the server has declared the
// capability absent.
func (c *Client) requireCapability(capability protocol.CapabilityType) error {
	if c.HasCapability(capability) {
		return nil
	}
	return mcperrors.NewErrorf(
		mcperrors.CodeProtocolError,
		mcperrors.CategoryProtocol,
		mcperrors.SeverityWarning,
		"server does not support %s", capability,
	)
}
