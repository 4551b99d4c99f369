package paginate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcperrors "github.com/cursorsafe/mcp-client-go/pkg/errors"
)

// scriptedFetcher serves a fixed sequence of pages and counts fetches.
type scriptedFetcher struct {
	pages   []Page[string]
	fetches int
}

func (f *scriptedFetcher) fetch(ctx context.Context, cursor string) (Page[string], error) {
	if f.fetches >= len(f.pages) {
		return Page[string]{}, fmt.Errorf("unexpected fetch %d with cursor %q", f.fetches+1, cursor)
	}
	page := f.pages[f.fetches]
	f.fetches++
	return page, nil
}

func TestListAllSinglePage(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []Page[string]{
		{Items: []string{"a", "b"}},
	}}

	items, err := ListAll(context.Background(), fetcher.fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, items)
	assert.Equal(t, 1, fetcher.fetches)
}

func TestListAllEmptyCursorTerminates(t *testing.T) {
	// An explicit "" next cursor is equivalent to no cursor at all.
	fetcher := &scriptedFetcher{pages: []Page[string]{
		{Items: []string{"A", "B"}, NextCursor: "c1"},
		{Items: []string{"C"}, NextCursor: ""},
	}}

	items, err := ListAll(context.Background(), fetcher.fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, items)
	assert.Equal(t, 2, fetcher.fetches)
}

func TestListAllDuplicateCursor(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []Page[string]{
		{Items: []string{"a"}, NextCursor: "c1"},
		{Items: []string{"b"}, NextCursor: "c1"},
	}}

	items, err := ListAll(context.Background(), fetcher.fetch)
	require.Error(t, err)
	assert.True(t, mcperrors.IsDuplicateCursor(err))
	assert.Nil(t, items)
	// The duplicate is detected on the second page's cursor; no third fetch.
	assert.Equal(t, 2, fetcher.fetches)
}

func TestListAllPageLimit(t *testing.T) {
	// Endless distinct cursors: the limit must cut the traversal off at
	// exactly maxPages admissions, before the next fetch would happen.
	const maxPages = 50
	fetches := 0
	fetch := func(ctx context.Context, cursor string) (Page[int], error) {
		fetches++
		return Page[int]{Items: []int{fetches}, NextCursor: fmt.Sprintf("c%d", fetches)}, nil
	}

	items, err := ListAll(context.Background(), fetch, WithMaxPages(maxPages))
	require.Error(t, err)
	assert.True(t, mcperrors.IsPageLimitExceeded(err))
	assert.Nil(t, items)
	// maxPages cursors are admitted; admission maxPages+1 fails, so exactly
	// maxPages+1 pages were fetched and no more.
	assert.Equal(t, maxPages+1, fetches)
}

func TestListAllTransportErrorPassthrough(t *testing.T) {
	cause := errors.New("connection reset")
	fetch := func(ctx context.Context, cursor string) (Page[string], error) {
		if cursor == "" {
			return Page[string]{Items: []string{"a"}, NextCursor: "c1"}, nil
		}
		return Page[string]{}, cause
	}

	_, err := ListAll(context.Background(), fetch)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.False(t, mcperrors.IsProtocolViolation(err))
}

func TestListAllCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetches := 0
	fetch := func(ctx context.Context, cursor string) (Page[string], error) {
		fetches++
		cancel() // cancelled after the first page is served
		return Page[string]{Items: []string{"a"}, NextCursor: "c1"}, nil
	}

	_, err := ListAll(ctx, fetch)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, fetches)
}

func TestEnumerateYieldsAcrossPages(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []Page[string]{
		{Items: []string{"A", "B"}, NextCursor: "c1"},
		{Items: []string{"C"}},
	}}

	var got []string
	for item, err := range Enumerate(context.Background(), fetcher.fetch) {
		require.NoError(t, err)
		got = append(got, item)
	}
	assert.Equal(t, []string{"A", "B", "C"}, got)
	assert.Equal(t, 2, fetcher.fetches)
}

func TestEnumerateEarlyStopFetchesNothingFurther(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []Page[string]{
		{Items: []string{"A", "B"}, NextCursor: "c1"},
		{Items: []string{"C"}},
	}}

	for item, err := range Enumerate(context.Background(), fetcher.fetch) {
		require.NoError(t, err)
		assert.Equal(t, "A", item)
		break
	}
	assert.Equal(t, 1, fetcher.fetches)
}

func TestEnumerateDeliversItemsBeforeError(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []Page[string]{
		{Items: []string{"a"}, NextCursor: "c1"},
		{Items: []string{"b"}, NextCursor: "c1"},
	}}

	var got []string
	var terminal error
	for item, err := range Enumerate(context.Background(), fetcher.fetch) {
		if err != nil {
			terminal = err
			continue
		}
		got = append(got, item)
	}

	// Both already-fetched pages' items were delivered before the failure.
	assert.Equal(t, []string{"a", "b"}, got)
	require.Error(t, terminal)
	assert.True(t, mcperrors.IsDuplicateCursor(terminal))
}

func TestEnumerateLazyFirstFetch(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []Page[string]{
		{Items: []string{"a"}},
	}}

	seq := Enumerate(context.Background(), fetcher.fetch)
	assert.Equal(t, 0, fetcher.fetches, "creating the sequence must not fetch")

	for range seq {
		break
	}
	assert.Equal(t, 1, fetcher.fetches)
}

func TestTraversalStateIsolation(t *testing.T) {
	// The same cursor may legitimately reappear across traversals; the seen
	// set must not leak from one call to the next.
	pages := []Page[string]{
		{Items: []string{"x"}, NextCursor: "c1"},
		{Items: []string{"y"}},
	}

	for i := 0; i < 2; i++ {
		fetcher := &scriptedFetcher{pages: pages}
		items, err := ListAll(context.Background(), fetcher.fetch)
		require.NoError(t, err, "traversal %d", i+1)
		assert.Equal(t, []string{"x", "y"}, items)
	}
}

func TestWithPageObserver(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []Page[string]{
		{Items: []string{"a", "b"}, NextCursor: "c1"},
		{Items: []string{"c"}},
	}}

	var counts []int
	_, err := ListAll(context.Background(), fetcher.fetch, WithPageObserver(func(n int) {
		counts = append(counts, n)
	}))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, counts)
}

func TestNormalizeCursor(t *testing.T) {
	if c, ok := NormalizeCursor(""); ok || c != "" {
		t.Errorf("expected empty cursor to normalize to absent, got (%q, %v)", c, ok)
	}
	if c, ok := NormalizeCursor("abc"); !ok || c != "abc" {
		t.Errorf("expected %q to pass through, got (%q, %v)", "abc", c, ok)
	}
}
