// Package mcp is the root of an MCP client SDK for Go built around one idea:
// pagination cursors returned by a server are untrusted input.
//
// The Model Context Protocol (MCP) exposes its server collections (tools,
// prompts, resources, resource templates, and roots) through paginated list
// operations. A conforming server eventually returns a page without a next
// cursor. A broken or hostile one can repeat cursors forever or hand out an
// endless chain of fresh ones. This SDK treats both as protocol violations:
// every traversal tracks the cursors it has followed and aborts with a
// structured error on the first repeat, or once a page limit is reached.
//
// # Sub-packages
//
//   - pkg/client: the MCP client with eager and lazy collection enumeration
//   - pkg/protocol: JSON-RPC 2.0 and MCP message types
//   - pkg/transport: stdio and HTTP transports
//   - pkg/paginate: the generic cursor traversal engine
//   - pkg/errors: structured errors distinguishing transport failures from
//     protocol violations
//   - pkg/logging: structured logging with per-traversal IDs
//   - pkg/observability: Prometheus metrics and OpenTelemetry tracing
//
// # Quick start
//
//	import (
//	    "context"
//	    "log"
//
//	    mcp "github.com/cursorsafe/mcp-client-go"
//	    "github.com/cursorsafe/mcp-client-go/pkg/transport"
//	)
//
//	func main() {
//	    t, err := mcp.NewTransport(transport.DefaultTransportConfig(transport.TransportTypeStdio))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    c := mcp.NewClient(t, mcp.WithClientName("example"))
//
//	    ctx := context.Background()
//	    go c.Start(ctx)
//	    if err := c.Initialize(ctx); err != nil {
//	        log.Fatal(err)
//	    }
//	    defer c.Close(ctx)
//
//	    tools, err := c.ListAllTools(ctx)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    log.Printf("server exposes %d tools", len(tools))
//	}
package mcp
