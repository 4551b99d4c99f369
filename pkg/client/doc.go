// Package client implements an MCP client focused on safe enumeration of
// server collections: tools, prompts, resources, resource templates, and
// roots.
//
// A client is created on top of a transport, initialized once, and then used
// for any number of list operations:
//
//	t, err := transport.NewTransport(transport.DefaultTransportConfig(transport.TransportTypeStdio))
//	if err != nil {
//		log.Fatal(err)
//	}
//	c := client.New(t, client.WithName("my-app"))
//
//	go c.Start(ctx)
//	if err := c.Initialize(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	tools, err := c.ListAllTools(ctx)
//
// Every traversal is defensive. Cursors returned by the server are opaque and
// untrusted: a repeated cursor or an endless page chain terminates the
// traversal with a protocol error instead of looping. The eager ListAll*
// methods fetch every page up front; the lazy iterators (Tools, Prompts,
// Resources, ResourceTemplates, Roots) fetch pages on demand and never read
// ahead, so breaking out of the loop stops all further requests:
//
//	for tool, err := range c.Tools(ctx) {
//		if err != nil {
//			return err
//		}
//		fmt.Println(tool.Name)
//	}
package client
