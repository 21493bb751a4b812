package state

import (
	"fmt"
	"sync"

	"github.com/OpenVoiceOS/ovos-cli-client/internal/logbuf"
)

// Session owns the log buffer and the view under one lock. Every mutation
// marks the dashboard dirty.
type Session struct {
	mu    sync.Mutex
	logs  *logbuf.Buffer
	view  View
	dirty *Dirty
}

// NewSession wraps logs and view. A nil dirty gets a fresh signal.
func NewSession(logs *logbuf.Buffer, view View, dirty *Dirty) *Session {
	if logs == nil {
		logs = logbuf.New(0, nil)
	}
	if dirty == nil {
		dirty = NewDirty()
	}
	return &Session{logs: logs, view: view, dirty: dirty}
}

// Dirty returns the redraw signal shared by the session.
func (s *Session) Dirty() *Dirty {
	return s.dirty
}

// Append ingests lines from one source. When the user has scrolled back the
// offset grows with every visible line so the window stays put. It returns
// the number of lines appended and marks dirty once if any were.
func (s *Session) Append(source int, lines []string) int {
	if len(lines) == 0 {
		return 0
	}
	s.mu.Lock()
	for _, line := range lines {
		if s.logs.Append(source, line) && !s.view.AutoScroll {
			s.view.LogOffset++
		}
	}
	s.clampOffset()
	s.mu.Unlock()
	s.dirty.Mark()
	return len(lines)
}

// Notice injects a system line and jumps to the newest line.
func (s *Session) Notice(text string) {
	s.mu.Lock()
	s.logs.AppendSystem(text)
	s.view.LogOffset = 0
	s.mu.Unlock()
	s.dirty.Mark()
}

// Noticef formats a Notice.
func (s *Session) Noticef(format string, args ...any) {
	s.Notice(fmt.Sprintf(format, args...))
}

// ClearLogs empties the buffer.
func (s *Session) ClearLogs() {
	s.mu.Lock()
	s.logs.Clear()
	s.view.LogOffset = 0
	s.mu.Unlock()
	s.dirty.Mark()
}

// AddFilter adds a hide filter and rebuilds the view.
func (s *Session) AddFilter(token string) bool {
	return s.mutateLogs(func(b *logbuf.Buffer) bool { return b.AddFilter(token) })
}

// RemoveFilter removes a hide filter and rebuilds the view.
func (s *Session) RemoveFilter(token string) bool {
	return s.mutateLogs(func(b *logbuf.Buffer) bool { return b.RemoveFilter(token) })
}

// ResetFilters restores the default filters.
func (s *Session) ResetFilters() {
	s.mutateLogs(func(b *logbuf.Buffer) bool { b.ResetFilters(); return true })
}

func (s *Session) mutateLogs(fn func(*logbuf.Buffer) bool) bool {
	s.mu.Lock()
	changed := fn(s.logs)
	s.clampOffset()
	s.mu.Unlock()
	if changed {
		s.dirty.Mark()
	}
	return changed
}

// Filters returns the hide filters.
func (s *Session) Filters() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logs.Filters()
}

// SetSearch enters search mode and jumps to the newest match.
func (s *Session) SetSearch(term string) {
	s.mu.Lock()
	s.logs.SetSearch(term)
	s.view.LogOffset = 0
	s.mu.Unlock()
	s.dirty.Mark()
}

// ClearSearch leaves search mode. It reports whether search was active.
func (s *Session) ClearSearch() bool {
	s.mu.Lock()
	ended := s.logs.ClearSearch()
	if ended {
		s.view.LogOffset = 0
	}
	s.mu.Unlock()
	if ended {
		s.dirty.Mark()
	}
	return ended
}

// Searching reports whether search mode is active.
func (s *Session) Searching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, on := s.logs.Search()
	return on
}

// SetMaxLines rebounds the merged log.
func (s *Session) SetMaxLines(n int) {
	s.mutateLogs(func(b *logbuf.Buffer) bool { b.SetMax(n); return true })
}

// MaxLines returns the merged bound.
func (s *Session) MaxLines() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logs.Max()
}

// Scroll moves the log window delta lines back in time (negative moves
// toward the newest line), clamped to [0, len(filtered)].
func (s *Session) Scroll(delta int) {
	s.mu.Lock()
	s.view.LogOffset += delta
	s.clampOffset()
	s.mu.Unlock()
	s.dirty.Mark()
}

func (s *Session) clampOffset() {
	s.view.LogOffset = min(max(s.view.LogOffset, 0), s.logs.FilteredLen())
	s.view.AutoScroll = s.view.LogOffset == 0
}

// Update mutates the view under the lock.
func (s *Session) Update(fn func(*View)) {
	s.mu.Lock()
	fn(&s.view)
	s.clampOffset()
	s.mu.Unlock()
	s.dirty.Mark()
}

// View returns a copy of the view.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Paint runs fn with exclusive access to the buffer and the view. fn must
// not block; the renderer uses it to lay out one frame.
func (s *Session) Paint(fn func(*logbuf.Buffer, *View)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.logs, &s.view)
}
