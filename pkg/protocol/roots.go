package protocol

// Root describes a top-level entry point the server exposes.
type Root struct {
	URI  string `json:"uri"`
	Name string `json:"name,omitempty"`
}

// ListRootsParams are the parameters for roots/list.
type ListRootsParams struct {
	PaginatedParams
}

// ListRootsResult is one page of the root collection.
type ListRootsResult struct {
	Roots []Root `json:"roots"`
	PaginatedResult
}
