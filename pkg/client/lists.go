package client

import (
	"context"
	"errors"
	"iter"
	"time"

	"golang.org/x/sync/errgroup"

	mcperrors "github.com/cursorsafe/mcp-client-go/pkg/errors"
	"github.com/cursorsafe/mcp-client-go/pkg/logging"
	"github.com/cursorsafe/mcp-client-go/pkg/observability"
	"github.com/cursorsafe/mcp-client-go/pkg/paginate"
	"github.com/cursorsafe/mcp-client-go/pkg/protocol"
)

// Collection label values used in logs, metrics, and spans.
const (
	collectionTools             = "tools"
	collectionPrompts           = "prompts"
	collectionResources         = "resources"
	collectionResourceTemplates = "resource_templates"
	collectionRoots             = "roots"
)

// ListTools fetches one page of the tool collection. An empty cursor requests
// the first page.
func (c *Client) ListTools(ctx context.Context, cursor string) (*protocol.ListToolsResult, error) {
	if err := c.requireCapability(protocol.CapabilityTools); err != nil {
		return nil, err
	}
	params := &protocol.ListToolsParams{}
	params.Cursor = cursor
	var result protocol.ListToolsResult
	if err := c.call(ctx, protocol.MethodListTools, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListPrompts fetches one page of the prompt collection.
func (c *Client) ListPrompts(ctx context.Context, cursor string) (*protocol.ListPromptsResult, error) {
	if err := c.requireCapability(protocol.CapabilityPrompts); err != nil {
		return nil, err
	}
	params := &protocol.ListPromptsParams{}
	params.Cursor = cursor
	var result protocol.ListPromptsResult
	if err := c.call(ctx, protocol.MethodListPrompts, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListResources fetches one page of the resource collection.
func (c *Client) ListResources(ctx context.Context, cursor string) (*protocol.ListResourcesResult, error) {
	if err := c.requireCapability(protocol.CapabilityResources); err != nil {
		return nil, err
	}
	params := &protocol.ListResourcesParams{}
	params.Cursor = cursor
	var result protocol.ListResourcesResult
	if err := c.call(ctx, protocol.MethodListResources, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListResourceTemplates fetches one page of the resource template collection.
func (c *Client) ListResourceTemplates(ctx context.Context, cursor string) (*protocol.ListResourceTemplatesResult, error) {
	if err := c.requireCapability(protocol.CapabilityResources); err != nil {
		return nil, err
	}
	params := &protocol.ListResourceTemplatesParams{}
	params.Cursor = cursor
	var result protocol.ListResourceTemplatesResult
	if err := c.call(ctx, protocol.MethodListResourceTemplates, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListRoots fetches one page of the root collection.
func (c *Client) ListRoots(ctx context.Context, cursor string) (*protocol.ListRootsResult, error) {
	if err := c.requireCapability(protocol.CapabilityRoots); err != nil {
		return nil, err
	}
	params := &protocol.ListRootsParams{}
	params.Cursor = cursor
	var result protocol.ListRootsResult
	if err := c.call(ctx, protocol.MethodListRoots, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) toolsFetch() paginate.FetchFunc[protocol.Tool] {
	return func(ctx context.Context, cursor string) (paginate.Page[protocol.Tool], error) {
		result, err := c.ListTools(ctx, cursor)
		if err != nil {
			return paginate.Page[protocol.Tool]{}, err
		}
		return paginate.Page[protocol.Tool]{Items: result.Tools, NextCursor: result.NextCursor}, nil
	}
}

func (c *Client) promptsFetch() paginate.FetchFunc[protocol.Prompt] {
	return func(ctx context.Context, cursor string) (paginate.Page[protocol.Prompt], error) {
		result, err := c.ListPrompts(ctx, cursor)
		if err != nil {
			return paginate.Page[protocol.Prompt]{}, err
		}
		return paginate.Page[protocol.Prompt]{Items: result.Prompts, NextCursor: result.NextCursor}, nil
	}
}

func (c *Client) resourcesFetch() paginate.FetchFunc[protocol.Resource] {
	return func(ctx context.Context, cursor string) (paginate.Page[protocol.Resource], error) {
		result, err := c.ListResources(ctx, cursor)
		if err != nil {
			return paginate.Page[protocol.Resource]{}, err
		}
		return paginate.Page[protocol.Resource]{Items: result.Resources, NextCursor: result.NextCursor}, nil
	}
}

func (c *Client) resourceTemplatesFetch() paginate.FetchFunc[protocol.ResourceTemplate] {
	return func(ctx context.Context, cursor string) (paginate.Page[protocol.ResourceTemplate], error) {
		result, err := c.ListResourceTemplates(ctx, cursor)
		if err != nil {
			return paginate.Page[protocol.ResourceTemplate]{}, err
		}
		return paginate.Page[protocol.ResourceTemplate]{Items: result.ResourceTemplates, NextCursor: result.NextCursor}, nil
	}
}

func (c *Client) rootsFetch() paginate.FetchFunc[protocol.Root] {
	return func(ctx context.Context, cursor string) (paginate.Page[protocol.Root], error) {
		result, err := c.ListRoots(ctx, cursor)
		if err != nil {
			return paginate.Page[protocol.Root]{}, err
		}
		return paginate.Page[protocol.Root]{Items: result.Roots, NextCursor: result.NextCursor}, nil
	}
}

// ListAllTools follows every page of the tool collection.
func (c *Client) ListAllTools(ctx context.Context) ([]protocol.Tool, error) {
	return listAll(ctx, c, collectionTools, c.toolsFetch())
}

// ListAllPrompts follows every page of the prompt collection.
func (c *Client) ListAllPrompts(ctx context.Context) ([]protocol.Prompt, error) {
	return listAll(ctx, c, collectionPrompts, c.promptsFetch())
}

// ListAllResources follows every page of the resource collection.
func (c *Client) ListAllResources(ctx context.Context) ([]protocol.Resource, error) {
	return listAll(ctx, c, collectionResources, c.resourcesFetch())
}

// ListAllResourceTemplates follows every page of the resource template
// collection.
func (c *Client) ListAllResourceTemplates(ctx context.Context) ([]protocol.ResourceTemplate, error) {
	return listAll(ctx, c, collectionResourceTemplates, c.resourceTemplatesFetch())
}

// ListAllRoots follows every page of the root collection.
func (c *Client) ListAllRoots(ctx context.Context) ([]protocol.Root, error) {
	return listAll(ctx, c, collectionRoots, c.rootsFetch())
}

// Tools lazily enumerates the tool collection. Pages are fetched on demand;
// stopping early fetches nothing further. A traversal failure is yielded as
// the terminal element after all items already fetched.
func (c *Client) Tools(ctx context.Context) iter.Seq2[protocol.Tool, error] {
	return enumerate(ctx, c, collectionTools, c.toolsFetch())
}

// Prompts lazily enumerates the prompt collection.
func (c *Client) Prompts(ctx context.Context) iter.Seq2[protocol.Prompt, error] {
	return enumerate(ctx, c, collectionPrompts, c.promptsFetch())
}

// Resources lazily enumerates the resource collection.
func (c *Client) Resources(ctx context.Context) iter.Seq2[protocol.Resource, error] {
	return enumerate(ctx, c, collectionResources, c.resourcesFetch())
}

// ResourceTemplates lazily enumerates the resource template collection.
func (c *Client) ResourceTemplates(ctx context.Context) iter.Seq2[protocol.ResourceTemplate, error] {
	return enumerate(ctx, c, collectionResourceTemplates, c.resourceTemplatesFetch())
}

// Roots lazily enumerates the root collection.
func (c *Client) Roots(ctx context.Context) iter.Seq2[protocol.Root, error] {
	return enumerate(ctx, c, collectionRoots, c.rootsFetch())
}

// traversalOptions builds the pagination options for one traversal and wires
// page-level metrics through the observer.
func (c *Client) traversalOptions(ctx context.Context, collection string, pages *int) []paginate.Option {
	return []paginate.Option{
		paginate.WithMaxPages(c.maxPages),
		paginate.WithLogger(c.logger),
		paginate.WithPageObserver(func(itemCount int) {
			*pages++
			c.metrics.RecordPage(ctx, collection, itemCount)
		}),
	}
}

// finishTraversal records the traversal's outcome in metrics, spans, and logs.
func (c *Client) finishTraversal(ctx context.Context, collection string, pages int, start time.Time, err error) {
	status := observability.StatusOK
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = observability.StatusCancelled
	case err != nil:
		status = observability.StatusError
	}
	c.metrics.RecordTraversal(ctx, collection, status, pages, time.Since(start))

	switch {
	case mcperrors.IsDuplicateCursor(err):
		c.metrics.RecordProtocolViolation(ctx, observability.ViolationDuplicateCursor)
	case mcperrors.IsPageLimitExceeded(err):
		c.metrics.RecordProtocolViolation(ctx, observability.ViolationPageLimitExceeded)
	}

	if c.tracing != nil && err != nil {
		c.tracing.RecordError(ctx, err)
	}

	log := c.logger.WithContext(ctx).WithFields(
		logging.String("collection", collection),
		logging.Int("pages", pages),
		logging.Duration("elapsed", time.Since(start)),
	)
	if err != nil {
		log.WithError(err).Warn("traversal failed")
	} else {
		log.Debug("traversal complete")
	}
}

// listAll runs one eager traversal with observability wrapped around the
// pagination core.
func listAll[T any](ctx context.Context, c *Client, collection string, fetch paginate.FetchFunc[T]) ([]T, error) {
	ctx, _ = logging.ContextWithNewTraversalID(ctx)

	var endSpan func()
	if c.tracing != nil {
		spanCtx, span := c.tracing.StartTraversalSpan(ctx, collection)
		ctx = spanCtx
		endSpan = func() { span.End() }
	}

	pages := 0
	start := time.Now()
	items, err := paginate.ListAll(ctx, fetch, c.traversalOptions(ctx, collection, &pages)...)
	c.finishTraversal(ctx, collection, pages, start, err)
	if endSpan != nil {
		endSpan()
	}
	return items, err
}

// enumerate runs one lazy traversal. Observability is finalized when the
// sequence terminates, whether by exhaustion, error, or early break.
func enumerate[T any](ctx context.Context, c *Client, collection string, fetch paginate.FetchFunc[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		ctx, _ := logging.ContextWithNewTraversalID(ctx)

		var endSpan func()
		if c.tracing != nil {
			spanCtx, span := c.tracing.StartTraversalSpan(ctx, collection)
			ctx = spanCtx
			endSpan = func() { span.End() }
		}

		pages := 0
		start := time.Now()
		var terminal error
		seq := paginate.Enumerate(ctx, fetch, c.traversalOptions(ctx, collection, &pages)...)
		for item, err := range seq {
			if err != nil {
				terminal = err
			}
			if !yield(item, err) {
				break
			}
		}
		c.finishTraversal(ctx, collection, pages, start, terminal)
		if endSpan != nil {
			endSpan()
		}
	}
}

// Catalog is a snapshot of everything a server exposes.
type Catalog struct {
	Tools             []protocol.Tool
	Prompts           []protocol.Prompt
	Resources         []protocol.Resource
	ResourceTemplates []protocol.ResourceTemplate
}

// Catalog enumerates all supported collections concurrently and returns the
// combined snapshot. Collections the server does not advertise are left
// empty. Each traversal keeps its own cursor state; the first failure cancels
// the rest.
func (c *Client) Catalog(ctx context.Context) (*Catalog, error) {
	catalog := &Catalog{}
	g, gctx := errgroup.WithContext(ctx)

	if c.HasCapability(protocol.CapabilityTools) {
		g.Go(func() error {
			tools, err := c.ListAllTools(gctx)
			if err != nil {
				return err
			}
			catalog.Tools = tools
			return nil
		})
	}
	if c.HasCapability(protocol.CapabilityPrompts) {
		g.Go(func() error {
			prompts, err := c.ListAllPrompts(gctx)
			if err != nil {
				return err
			}
			catalog.Prompts = prompts
			return nil
		})
	}
	if c.HasCapability(protocol.CapabilityResources) {
		g.Go(func() error {
			resources, err := c.ListAllResources(gctx)
			if err != nil {
				return err
			}
			catalog.Resources = resources
			return nil
		})
		g.Go(func() error {
			templates, err := c.ListAllResourceTemplates(gctx)
			if err != nil {
				return err
			}
			catalog.ResourceTemplates = templates
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return catalog, nil
}
