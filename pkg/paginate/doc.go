// Package paginate drives cursor-based traversals over paginated server
// collections, defending against servers that violate the pagination
// contract.
//
// A traversal starts with no cursor, fetches a page, and follows the page's
// next cursor until the server stops returning one. A conforming server
// terminates every traversal; a broken one may repeat a cursor (an infinite
// loop) or hand out fresh cursors forever (unbounded growth). This package
// bounds both failure modes: every proposed cursor passes through a
// per-traversal guard that rejects duplicates and enforces a page limit.
//
// Two delivery modes are built on the same traversal loop:
//
//   - ListAll fetches every page eagerly and returns the concatenated items.
//   - Enumerate returns an iter.Seq2 that yields items one at a time and
//     fetches the next page only once the current page is exhausted and the
//     consumer asks for more. Stopping early stops all fetching.
//
// Traversal state is created fresh inside each call and never shared, so any
// number of traversals may run concurrently.
package paginate
