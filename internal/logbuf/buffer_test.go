package logbuf

import (
	"fmt"
	"reflect"
	"testing"
)

func texts(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Text)
	}
	return out
}

func filteredTexts(b *Buffer) []string {
	return texts(b.Filtered(0, b.FilteredLen()))
}

// rebuilt returns what a full rebuild of b would produce without mutating b.
func rebuilt(b *Buffer) []string {
	var out []string
	for _, l := range b.Merged() {
		if b.admits(l) {
			out = append(out, l.Text)
		}
	}
	return out
}

func assertSubsequence(t *testing.T, b *Buffer) {
	t.Helper()
	merged := b.Merged()
	filtered := b.Filtered(0, b.FilteredLen())
	if len(filtered) > len(merged) {
		t.Fatalf("len(filtered) = %d > len(merged) = %d", len(filtered), len(merged))
	}
	j := 0
	for _, l := range merged {
		if j < len(filtered) && filtered[j].Seq == l.Seq {
			j++
		}
	}
	if j != len(filtered) {
		t.Fatalf("filtered is not an ordered subsequence of merged: matched %d of %d", j, len(filtered))
	}
}

func TestAppend_DefaultFiltersHideVisemes(t *testing.T) {
	b := New(0, nil)
	b.Append(0, "a: hello")
	b.Append(0, "a: mouth.viseme x")
	b.Append(1, "b: error")

	if got, want := filteredTexts(b), []string{"a: hello", "b: error"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("filtered = %v, want %v", got, want)
	}
	if got, want := texts(b.Merged()), []string{"a: hello", "a: mouth.viseme x", "b: error"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("merged = %v, want %v", got, want)
	}
}

func TestAppend_ReportsVisibility(t *testing.T) {
	b := New(0, nil)
	if !b.Append(0, "plain") {
		t.Fatalf("Append(plain) = false, want true")
	}
	if b.Append(0, "mouth.icon") {
		t.Fatalf("Append(mouth.icon) = true, want false")
	}
}

func TestAppend_BoundDropsOldest(t *testing.T) {
	b := New(2, []string{})
	b.Append(0, "one")
	b.Append(0, "two")
	b.Append(0, "three")

	if got, want := texts(b.Merged()), []string{"two", "three"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("merged = %v, want %v", got, want)
	}
	if got, want := filteredTexts(b), []string{"two", "three"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("filtered = %v, want %v", got, want)
	}
}

func TestTrim_FilteredMatchesRebuild(t *testing.T) {
	b := New(7, []string{"skip"})
	for i := 0; i < 50; i++ {
		text := fmt.Sprintf("line %d", i)
		if i%3 == 0 {
			text += " skip"
		}
		if i%11 == 0 {
			b.AppendSystem(fmt.Sprintf("notice %d", i))
		}
		b.Append(i%2, text)

		if b.Len() > 7 {
			t.Fatalf("Len() = %d, want <= 7", b.Len())
		}
		assertSubsequence(t, b)
		if got, want := filteredTexts(b), rebuilt(b); !reflect.DeepEqual(got, want) {
			t.Fatalf("after %d appends filtered = %v, want rebuild %v", i+1, got, want)
		}
	}
}

func TestTrim_DuringSearch(t *testing.T) {
	b := New(4, nil)
	b.SetSearch("x")
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			b.Append(0, fmt.Sprintf("x%d", i))
		} else {
			b.Append(0, fmt.Sprintf("y%d", i))
		}
		assertSubsequence(t, b)
		if got, want := filteredTexts(b), rebuilt(b); !reflect.DeepEqual(got, want) {
			t.Fatalf("filtered = %v, want %v", got, want)
		}
	}
}

func TestAppendSystem_BypassesFiltersAndSearch(t *testing.T) {
	b := New(0, []string{"noise"})
	b.SetSearch("needle")
	b.AppendSystem("noise notice")
	b.Append(0, "noise line")

	if got, want := filteredTexts(b), []string{"noise notice"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("filtered = %v, want %v", got, want)
	}
	if !b.FilteredAt(0).IsSystem() {
		t.Fatalf("FilteredAt(0).IsSystem() = false, want true")
	}
}

func TestSearch_ClearRestoresPreviousView(t *testing.T) {
	b := New(0, nil)
	b.AddFilter("foo")
	for _, s := range []string{"foo 1", "bar 2", "mouth.viseme", "bar foo", "baz"} {
		b.Append(0, s)
	}
	before := filteredTexts(b)

	b.SetSearch("bar")
	if got, want := filteredTexts(b), []string{"bar 2", "bar foo"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("search view = %v, want %v", got, want)
	}
	if term, on := b.Search(); !on || term != "bar" {
		t.Fatalf("Search() = %q, %v; want bar, true", term, on)
	}

	if !b.ClearSearch() {
		t.Fatalf("ClearSearch() = false, want true")
	}
	if got := filteredTexts(b); !reflect.DeepEqual(got, before) {
		t.Fatalf("after clear = %v, want %v", got, before)
	}
	if b.ClearSearch() {
		t.Fatalf("second ClearSearch() = true, want false")
	}
}

func TestFilters_AddRemoveRestoresView(t *testing.T) {
	b := New(0, nil)
	for _, s := range []string{"alpha", "foo beta", "gamma"} {
		b.Append(0, s)
	}
	before := filteredTexts(b)

	if !b.AddFilter("foo") {
		t.Fatalf("AddFilter(foo) = false, want true")
	}
	if got, want := filteredTexts(b), []string{"alpha", "gamma"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("filtered = %v, want %v", got, want)
	}
	if !b.RemoveFilter("foo") {
		t.Fatalf("RemoveFilter(foo) = false, want true")
	}
	if got := filteredTexts(b); !reflect.DeepEqual(got, before) {
		t.Fatalf("filtered = %v, want %v", got, before)
	}
}

func TestFilters_AddExistingDefaultThenRemove(t *testing.T) {
	b := New(0, nil)
	for _, s := range []string{"a: hello", "a: mouth.viseme x", "b: error"} {
		b.Append(0, s)
	}
	before := filteredTexts(b)
	filters := b.Filters()

	if !b.AddFilter("mouth.viseme") {
		t.Fatalf("AddFilter(mouth.viseme) = false, want true")
	}
	if !b.RemoveFilter("mouth.viseme") {
		t.Fatalf("RemoveFilter(mouth.viseme) = false, want true")
	}
	if got := filteredTexts(b); !reflect.DeepEqual(got, before) {
		t.Fatalf("filtered = %v, want %v", got, before)
	}
	if got := b.Filters(); !reflect.DeepEqual(got, filters) {
		t.Fatalf("Filters() = %v, want %v", got, filters)
	}
}

func TestFilters_MultisetSemantics(t *testing.T) {
	b := New(0, []string{"a", "a", "", "b"})
	if got, want := b.Filters(), []string{"a", "a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Filters() = %v, want %v", got, want)
	}
	if !b.AddFilter("b") {
		t.Fatalf("AddFilter duplicate = false, want true")
	}
	if b.AddFilter("") {
		t.Fatalf("AddFilter empty = true, want false")
	}
	if b.RemoveFilter("missing") {
		t.Fatalf("RemoveFilter missing = true, want false")
	}
	if !b.RemoveFilter("a") {
		t.Fatalf("RemoveFilter(a) = false, want true")
	}
	if got, want := b.Filters(), []string{"a", "b", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Filters() = %v, want %v", got, want)
	}

	got := b.Filters()
	got[0] = "mutated"
	if b.Filters()[0] != "a" {
		t.Fatalf("Filters() must return a copy")
	}
}

func TestRebuild_JudgesSystemLines(t *testing.T) {
	b := New(0, []string{})
	b.Append(0, "needle line")
	b.AppendSystem("Filters: []")
	b.AppendSystem("needle notice")

	b.SetSearch("needle")
	if got, want := filteredTexts(b), []string{"needle line", "needle notice"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("search view = %v, want %v", got, want)
	}
	b.ClearSearch()
	if got, want := filteredTexts(b), []string{"needle line", "Filters: []", "needle notice"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after clear = %v, want %v", got, want)
	}
}

func TestResetFilters_Idempotent(t *testing.T) {
	b := New(0, []string{"x"})
	b.ResetFilters()
	once := b.Filters()
	b.ResetFilters()
	if got := b.Filters(); !reflect.DeepEqual(got, once) {
		t.Fatalf("second reset = %v, want %v", got, once)
	}
	if !reflect.DeepEqual(once, DefaultFilters) {
		t.Fatalf("reset filters = %v, want %v", once, DefaultFilters)
	}
}

func TestClearAndSetMax(t *testing.T) {
	b := New(10, []string{})
	for i := 0; i < 8; i++ {
		b.Append(0, fmt.Sprint(i))
	}
	b.SetMax(3)
	if got, want := filteredTexts(b), []string{"5", "6", "7"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after SetMax filtered = %v, want %v", got, want)
	}
	b.Clear()
	if b.Len() != 0 || b.FilteredLen() != 0 {
		t.Fatalf("after Clear Len=%d FilteredLen=%d, want 0 0", b.Len(), b.FilteredLen())
	}
	if b.Max() != 3 {
		t.Fatalf("Max() = %d, want 3", b.Max())
	}
}

func TestFiltered_ClampsRange(t *testing.T) {
	b := New(0, []string{})
	b.Append(0, "a")
	b.Append(0, "b")
	if got := texts(b.Filtered(-5, 99)); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("Filtered(-5, 99) = %v", got)
	}
	if got := b.Filtered(2, 1); got != nil {
		t.Fatalf("Filtered(2, 1) = %v, want nil", got)
	}
}
