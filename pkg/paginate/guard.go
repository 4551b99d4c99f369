package paginate

import (
	mcperrors "github.com/cursorsafe/mcp-client-go/pkg/errors"
)

// Guard tracks the cursors admitted during one traversal and enforces the
// page limit. It belongs to exactly one traversal and is discarded at
// termination; it is not safe for concurrent use and never needs to be.
type Guard struct {
	seen  map[string]struct{}
	pages int
	max   int
}

// NewGuard creates a guard for a single traversal. A non-positive maxPages
// falls back to DefaultMaxPages.
func NewGuard(maxPages int) *Guard {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Guard{
		seen: make(map[string]struct{}),
		max:  maxPages,
	}
}

// Admit validates a proposed next cursor. The caller must only pass cursors
// that survived normalization; an absent cursor terminates the traversal
// without consulting the guard.
//
// The counter is checked before the seen-set insert so the limit bounds total
// admissions even when the server duplicates cursors.
func (g *Guard) Admit(cursor string) error {
	g.pages++
	if g.pages > g.max {
		return mcperrors.PageLimitExceeded(g.max)
	}
	if _, dup := g.seen[cursor]; dup {
		return mcperrors.DuplicateCursor(cursor)
	}
	g.seen[cursor] = struct{}{}
	return nil
}

// Admitted returns the number of cursors admitted so far.
func (g *Guard) Admitted() int {
	return len(g.seen)
}
