// Package chat keeps the conversation transcript shown in the History panel
// and the recall list of typed utterances.
package chat

import (
	"slices"
	"sync"
)

// ResponsePrefix marks assistant replies in the transcript.
const ResponsePrefix = ">> "

// Marker signals a transcript change.
type Marker interface {
	Mark()
}

// Log is the append-only transcript. It is safe for concurrent use.
type Log struct {
	mu      sync.RWMutex
	entries []string
	history []string
	dirty   Marker
}

// New returns an empty transcript that marks dirty on every append.
func New(dirty Marker) *Log {
	return &Log{dirty: dirty}
}

// AddResponse appends an assistant reply.
func (l *Log) AddResponse(text string) {
	l.add(ResponsePrefix + text)
}

// AddUtterance appends something the user said or typed.
func (l *Log) AddUtterance(text string) {
	l.add(text)
}

func (l *Log) add(entry string) {
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
	l.mark()
}

// PushHistory records a typed utterance for recall. Empty lines are
// ignored.
func (l *Log) PushHistory(text string) {
	if text == "" {
		return
	}
	l.mu.Lock()
	l.history = append(l.history, text)
	l.mu.Unlock()
}

// Entries copies the transcript, oldest first.
func (l *Log) Entries() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.entries)
}

// Recall moves cursor by delta through the history and returns the new
// cursor and the line to show. Cursor -1 means not browsing and yields an
// empty line; 0 is the newest entry.
func (l *Log) Recall(cursor, delta int) (int, string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cursor = min(max(cursor+delta, -1), len(l.history)-1)
	if cursor < 0 {
		return -1, ""
	}
	return cursor, l.history[len(l.history)-1-cursor]
}

// HistoryLen is the number of recallable utterances.
func (l *Log) HistoryLen() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.history)
}

func (l *Log) mark() {
	if l.dirty != nil {
		l.dirty.Mark()
	}
}
