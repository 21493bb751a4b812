// Package logbuf holds the merged log of every tailed source and the
// filtered view that the dashboard scrolls through.
//
// # Sequences
//
// Every ingested line enters the merged deque, which is bounded and evicts
// its oldest line on overflow. The filtered deque is an order-preserving
// subsequence of merged holding the lines that pass the active predicate:
//
//   - no search: the line contains none of the hide filters
//   - search: the line contains the search term
//
// Lines injected with AppendSystem skip the predicate when they arrive. A
// later rebuild judges them like any other line, so a notice can drop out of
// view when a search or filter excludes it.
//
// Hide filters form a multiset: adding a token already present appends a
// second copy, and a remove drops one copy, so an add followed by a remove
// always restores the previous view.
//
// Changing filters or entering and leaving search rebuilds the filtered view
// from merged. Eviction prunes filtered by sequence number instead, which
// leaves the surviving filtered lines as they were without an O(n) pass per
// line.
//
// The buffer carries no lock of its own; state.Session owns it and
// serializes every call.
package logbuf
