package mcp

import (
	"github.com/cursorsafe/mcp-client-go/pkg/client"
	"github.com/cursorsafe/mcp-client-go/pkg/protocol"
	"github.com/cursorsafe/mcp-client-go/pkg/transport"
)

// Version represents the current version of the SDK
const Version = "0.1.0"

// ClientOption configures a client created with NewClient.
type ClientOption = client.Option

// These exports provide direct access to the core SDK components
var (
	// NewClient creates a new MCP client
	NewClient = client.New

	// NewStdioTransport creates a new stdio transport
	NewStdioTransport = transport.NewStdioTransport

	// NewHTTPTransport creates a new HTTP transport
	NewHTTPTransport = transport.NewHTTPTransport

	// NewTransport creates a transport from a TransportConfig
	NewTransport = transport.NewTransport
)

// Protocol constants for capabilities
const (
	CapabilityTools     = protocol.CapabilityTools
	CapabilityPrompts   = protocol.CapabilityPrompts
	CapabilityResources = protocol.CapabilityResources
	CapabilityRoots     = protocol.CapabilityRoots
	CapabilityLogging   = protocol.CapabilityLogging
)

// Client options
var (
	WithClientName    = client.WithName
	WithClientVersion = client.WithVersion
	WithMaxPages      = client.WithMaxPages
	WithLogger        = client.WithLogger
	WithMetrics       = client.WithMetrics
	WithTracing       = client.WithTracing
)
