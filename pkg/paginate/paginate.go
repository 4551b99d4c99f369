package paginate

import (
	"context"
	"iter"

	"github.com/cursorsafe/mcp-client-go/pkg/logging"
)

// DefaultMaxPages is the maximum number of pages one traversal may follow
// unless overridden with WithMaxPages. Servers with legitimately longer
// collections need an explicit override.
const DefaultMaxPages = 10000

// Page is one fetched batch: the items plus the raw next-cursor token as the
// server returned it. An absent cursor and an empty string are equivalent.
type Page[T any] struct {
	Items      []T
	NextCursor string
}

// FetchFunc fetches a single page. An empty cursor requests the first page.
// Errors are returned to the caller unchanged; this package never retries.
type FetchFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

type config struct {
	maxPages int
	logger   logging.Logger
	observer func(itemCount int)
}

// Option configures a traversal.
type Option func(*config)

// WithMaxPages overrides the page limit for one traversal.
func WithMaxPages(n int) Option {
	return func(c *config) {
		c.maxPages = n
	}
}

// WithLogger attaches a logger; each fetched page is logged at debug level.
func WithLogger(logger logging.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPageObserver registers a callback invoked once per fetched page with
// the page's item count. Callers use it to drive metrics.
func WithPageObserver(fn func(itemCount int)) Option {
	return func(c *config) {
		c.observer = fn
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		maxPages: DefaultMaxPages,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// NormalizeCursor maps a raw cursor value to its canonical form. The boolean
// reports whether a cursor is present at all: an empty string means the
// server signalled termination, which some implementations express as an
// absent field and others as "".
func NormalizeCursor(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	return raw, true
}

// walk runs the traversal loop: fetch, deliver, validate the next cursor,
// repeat. emit returns false when the consumer wants no more items, which
// ends the traversal cleanly before any further fetch.
func walk[T any](ctx context.Context, fetch FetchFunc[T], cfg config, emit func(items []T) bool) error {
	guard := NewGuard(cfg.maxPages)
	log := cfg.logger.WithContext(ctx)
	cursor := ""

	for {
		// Cancellation is observed between fetches; a cancelled traversal
		// must not issue another request.
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := fetch(ctx, cursor)
		if err != nil {
			return err
		}
		if cfg.observer != nil {
			cfg.observer(len(page.Items))
		}
		log.Debug("fetched page",
			logging.Int("items", len(page.Items)),
			logging.Int("pages_admitted", guard.Admitted()),
		)

		if !emit(page.Items) {
			return nil
		}

		next, ok := NormalizeCursor(page.NextCursor)
		if !ok {
			return nil
		}
		if err := guard.Admit(next); err != nil {
			log.WithError(err).Error("pagination contract violated")
			return err
		}
		cursor = next
	}
}

// ListAll fetches every page of a collection and returns the concatenated
// items. On failure the error is returned and no partial result.
func ListAll[T any](ctx context.Context, fetch FetchFunc[T], opts ...Option) ([]T, error) {
	cfg := newConfig(opts)

	// Grown by append on purpose: sizing from the first page misleads when
	// later pages differ in length.
	var all []T
	err := walk(ctx, fetch, cfg, func(items []T) bool {
		all = append(all, items...)
		return true
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// Enumerate returns a lazy sequence over a collection. The sequence is finite
// and not restartable: ranging over it a second time yields nothing useful.
//
// Items of the current page are yielded before the next page is requested, so
// a consumer that stops early never triggers another fetch. If the traversal
// fails, the error is yielded as the terminal element after every item
// already fetched.
func Enumerate[T any](ctx context.Context, fetch FetchFunc[T], opts ...Option) iter.Seq2[T, error] {
	cfg := newConfig(opts)

	return func(yield func(T, error) bool) {
		err := walk(ctx, fetch, cfg, func(items []T) bool {
			for _, item := range items {
				if !yield(item, nil) {
					return false
				}
			}
			return true
		})
		if err != nil {
			var zero T
			yield(zero, err)
		}
	}
}
