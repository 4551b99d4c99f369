package protocol

import "encoding/json"

// Tool describes an operation the server can perform on the client's behalf.
type Tool struct {
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	InputSchema  json.RawMessage `json:"inputSchema,omitempty"`
	OutputSchema json.RawMessage `json:"outputSchema,omitempty"`
	Annotations  map[string]any  `json:"annotations,omitempty"`
}

// ListToolsParams are the parameters for tools/list.
type ListToolsParams struct {
	PaginatedParams
}

// ListToolsResult is one page of the tool collection.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
	PaginatedResult
}
