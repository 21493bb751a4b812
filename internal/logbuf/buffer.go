package logbuf

import (
	"slices"
	"strings"

	"github.com/gammazero/deque"
)

// DefaultMaxLines bounds the merged log when no setting overrides it.
const DefaultMaxLines = 5000

// SystemSource tags lines injected by the client itself.
const SystemSource = -1

// DefaultFilters hides the chattiest bus channels.
var DefaultFilters = []string{"mouth.viseme", "mouth.display", "mouth.icon"}

// Line is one ingested log line.
type Line struct {
	Source int
	Text   string
	Seq    uint64
}

// IsSystem reports whether the line was injected locally.
func (l Line) IsSystem() bool {
	return l.Source == SystemSource
}

// Buffer keeps the merged log and its filtered view. It is not safe for
// concurrent use; callers serialize access.
type Buffer struct {
	max      int
	nextSeq  uint64
	merged   deque.Deque[Line]
	filtered deque.Deque[Line]

	filters   []string
	search    string
	searching bool
}

// New returns a buffer bounded to limit lines (DefaultMaxLines when limit <= 0)
// using the given hide filters. A nil filters slice selects DefaultFilters.
func New(limit int, filters []string) *Buffer {
	if filters == nil {
		filters = DefaultFilters
	}
	b := &Buffer{max: normalizeMax(limit)}
	b.filters = cleanFilters(filters)
	return b
}

func normalizeMax(limit int) int {
	if limit <= 0 {
		return DefaultMaxLines
	}
	return limit
}

// cleanFilters drops empty tokens. Duplicates are kept: each AddFilter is
// undone by exactly one RemoveFilter.
func cleanFilters(in []string) []string {
	out := make([]string, 0, len(in))
	for _, f := range in {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Append adds text from source. It reports whether the line is visible in
// the filtered view.
func (b *Buffer) Append(source int, text string) bool {
	line := b.push(source, text)
	visible := b.admits(line)
	if visible {
		b.filtered.PushBack(line)
	}
	b.trim()
	return visible
}

// AppendSystem adds a local notice that bypasses the active predicate. A
// later Rebuild judges it like any other line.
func (b *Buffer) AppendSystem(text string) {
	line := b.push(SystemSource, text)
	b.filtered.PushBack(line)
	b.trim()
}

func (b *Buffer) push(source int, text string) Line {
	line := Line{Source: source, Text: text, Seq: b.nextSeq}
	b.nextSeq++
	b.merged.PushBack(line)
	return line
}

// admits is the single display predicate. Search replaces the hide filters
// while it is active.
func (b *Buffer) admits(line Line) bool {
	if b.searching {
		return strings.Contains(line.Text, b.search)
	}
	for _, f := range b.filters {
		if strings.Contains(line.Text, f) {
			return false
		}
	}
	return true
}

// trim evicts the oldest merged lines beyond the bound and drops every
// filtered line older than the oldest survivor.
func (b *Buffer) trim() {
	if b.merged.Len() <= b.max {
		return
	}
	for b.merged.Len() > b.max {
		b.merged.PopFront()
	}
	oldest := b.merged.Front().Seq
	for b.filtered.Len() > 0 && b.filtered.Front().Seq < oldest {
		b.filtered.PopFront()
	}
}

// Rebuild recomputes the filtered view from merged.
func (b *Buffer) Rebuild() {
	b.filtered.Clear()
	for i := 0; i < b.merged.Len(); i++ {
		line := b.merged.At(i)
		if b.admits(line) {
			b.filtered.PushBack(line)
		}
	}
}

// AddFilter adds a hide filter, even one already present. It reports false
// when the token is empty.
func (b *Buffer) AddFilter(token string) bool {
	if token == "" {
		return false
	}
	b.filters = append(b.filters, token)
	b.Rebuild()
	return true
}

// RemoveFilter drops the last occurrence of a hide filter. Removing a
// missing token is a no-op.
func (b *Buffer) RemoveFilter(token string) bool {
	idx := lastIndex(b.filters, token)
	if idx < 0 {
		return false
	}
	b.filters = slices.Delete(b.filters, idx, idx+1)
	b.Rebuild()
	return true
}

func lastIndex(s []string, v string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == v {
			return i
		}
	}
	return -1
}

// ResetFilters restores DefaultFilters.
func (b *Buffer) ResetFilters() {
	b.filters = cleanFilters(DefaultFilters)
	b.Rebuild()
}

// Filters returns a copy of the hide filters in insertion order.
func (b *Buffer) Filters() []string {
	return slices.Clone(b.filters)
}

// SetSearch switches the predicate to substring search. The hide filters
// are kept untouched and come back with ClearSearch.
func (b *Buffer) SetSearch(term string) {
	b.search = term
	b.searching = true
	b.Rebuild()
}

// ClearSearch leaves search mode. It reports whether search was active.
func (b *Buffer) ClearSearch() bool {
	if !b.searching {
		return false
	}
	b.search = ""
	b.searching = false
	b.Rebuild()
	return true
}

// Search returns the active search term and whether search mode is on.
func (b *Buffer) Search() (string, bool) {
	return b.search, b.searching
}

// Clear empties both sequences.
func (b *Buffer) Clear() {
	b.merged.Clear()
	b.filtered.Clear()
}

// SetMax changes the bound and trims immediately.
func (b *Buffer) SetMax(limit int) {
	b.max = normalizeMax(limit)
	b.trim()
}

// Max returns the merged bound.
func (b *Buffer) Max() int {
	return b.max
}

// Len is the merged length.
func (b *Buffer) Len() int {
	return b.merged.Len()
}

// FilteredLen is the filtered length.
func (b *Buffer) FilteredLen() int {
	return b.filtered.Len()
}

// FilteredAt returns the i-th filtered line.
func (b *Buffer) FilteredAt(i int) Line {
	return b.filtered.At(i)
}

// Filtered copies filtered[start:end], clamped to the valid range.
func (b *Buffer) Filtered(start, end int) []Line {
	return window(&b.filtered, start, end)
}

// Merged copies the whole merged log.
func (b *Buffer) Merged() []Line {
	return window(&b.merged, 0, b.merged.Len())
}

func window(q *deque.Deque[Line], start, end int) []Line {
	start = max(start, 0)
	end = min(end, q.Len())
	if start >= end {
		return nil
	}
	out := make([]Line, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, q.At(i))
	}
	return out
}
