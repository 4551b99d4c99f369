package protocol

const (
	// ProtocolRevision is the protocol revision this client speaks.
	ProtocolRevision = "2025-03-26"

	// Methods for lifecycle management
	MethodInitialize  = "initialize"
	MethodInitialized = "initialized"

	// Methods for listable server collections
	MethodListTools             = "tools/list"
	MethodListPrompts           = "prompts/list"
	MethodListResources         = "resources/list"
	MethodListResourceTemplates = "resources/templates/list"
	MethodListRoots             = "roots/list"

	// Notifications for collection changes
	MethodToolsChanged     = "notifications/tools/list_changed"
	MethodPromptsChanged   = "notifications/prompts/list_changed"
	MethodResourcesChanged = "notifications/resources/list_changed"
	MethodRootsChanged     = "notifications/roots/list_changed"

	// Methods for utilities
	MethodPing   = "ping"
	MethodCancel = "cancel"
)

// CapabilityType identifies a capability advertised during initialization.
type CapabilityType string

const (
	// CapabilityTools indicates the server supports tools
	CapabilityTools CapabilityType = "tools"

	// CapabilityPrompts indicates the server supports prompts
	CapabilityPrompts CapabilityType = "prompts"

	// CapabilityResources indicates the server supports resources
	CapabilityResources CapabilityType = "resources"

	// CapabilityRoots indicates the server supports roots
	CapabilityRoots CapabilityType = "roots"

	// CapabilityLogging indicates the server supports log forwarding
	CapabilityLogging CapabilityType = "logging"
)

// InitializeParams defines the parameters for the initialize request.
type InitializeParams struct {
	ProtocolVersion string          `json:"protocolVersion"`
	Capabilities    map[string]bool `json:"capabilities"`
	ClientInfo      *ClientInfo     `json:"clientInfo,omitempty"`
}

// ClientInfo identifies the connecting client.
type ClientInfo struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Platform string `json:"platform,omitempty"`
}

// InitializeResult defines the response for the initialize request.
type InitializeResult struct {
	ProtocolVersion string          `json:"protocolVersion"`
	Capabilities    map[string]bool `json:"capabilities"`
	ServerInfo      *ServerInfo     `json:"serverInfo,omitempty"`
}

// ServerInfo identifies the responding server.
type ServerInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// PingParams defines parameters for the ping request.
type PingParams struct {
	Timestamp int64 `json:"timestamp,omitempty"`
}

// PingResult is the response for ping.
type PingResult struct {
	Timestamp int64 `json:"timestamp"`
}

// CancelParams defines parameters for the cancel request.
type CancelParams struct {
	ID interface{} `json:"id"`
}

// CancelResult is the response for cancel.
type CancelResult struct {
	Cancelled bool `json:"cancelled"`
}

// PaginatedParams is embedded by every list request. The cursor is an opaque
// continuation token from a previous result; empty means start from the
// beginning.
type PaginatedParams struct {
	Cursor string `json:"cursor,omitempty"`
}

// PaginatedResult is embedded by every list result. An empty NextCursor means
// there are no further pages.
type PaginatedResult struct {
	NextCursor string `json:"nextCursor,omitempty"`
}

// ListChangedParams is the (empty) payload of list-changed notifications.
type ListChangedParams struct{}
