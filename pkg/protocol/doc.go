// Package protocol defines the JSON-RPC 2.0 message types and the MCP
// request/result shapes the client exchanges with a server.
//
// The listable collections (tools, prompts, resources, resource templates and
// roots) share a common pagination contract: a request carries an optional
// opaque cursor, a result carries the items of one page plus an optional
// nextCursor. An absent or empty nextCursor means the collection is exhausted.
// The cursor itself is server-defined and must not be interpreted by clients.
package protocol
