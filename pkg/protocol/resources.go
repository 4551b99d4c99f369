package protocol

// Resource describes a piece of server-side data addressable by URI.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// ResourceTemplate describes a parameterized family of resources.
type ResourceTemplate struct {
	URITemplate string `json:"uriTemplate"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ListResourcesParams are the parameters for resources/list.
type ListResourcesParams struct {
	PaginatedParams
}

// ListResourcesResult is one page of the resource collection.
type ListResourcesResult struct {
	Resources []Resource `json:"resources"`
	PaginatedResult
}

// ListResourceTemplatesParams are the parameters for resources/templates/list.
type ListResourceTemplatesParams struct {
	PaginatedParams
}

// ListResourceTemplatesResult is one page of the resource template collection.
type ListResourceTemplatesResult struct {
	ResourceTemplates []ResourceTemplate `json:"resourceTemplates"`
	PaginatedResult
}
