package render

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/OpenVoiceOS/ovos-cli-client/internal/state"
)

const (
	// DefaultQuantum is how long the renderer sleeps between dirty checks.
	DefaultQuantum = 10 * time.Millisecond
	// DefaultFullRedraw is how often the screen is cleared and repainted
	// whether or not anything changed.
	DefaultFullRedraw = 10 * time.Second
)

// Frame is one painted screen. Full asks the terminal to be cleared first
// so stray output written outside the renderer disappears.
type Frame struct {
	Content string
	Full    bool
}

// Emitter receives painted frames.
type Emitter func(Frame)

// Scheduler repaints when the dirty signal is set.
type Scheduler struct {
	painter    *Painter
	dirty      *state.Dirty
	emit       Emitter
	quantum    time.Duration
	fullRedraw time.Duration
	now        func() time.Time
	lastFull   time.Time
	force      atomic.Bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithQuantum overrides DefaultQuantum.
func WithQuantum(d time.Duration) Option {
	return func(s *Scheduler) { s.quantum = d }
}

// WithFullRedraw overrides DefaultFullRedraw.
func WithFullRedraw(d time.Duration) Option {
	return func(s *Scheduler) { s.fullRedraw = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// NewScheduler paints with painter whenever dirty is set and hands the
// frames to emit.
func NewScheduler(painter *Painter, dirty *state.Dirty, emit Emitter, opts ...Option) *Scheduler {
	s := &Scheduler{
		painter:    painter,
		dirty:      dirty,
		emit:       emit,
		quantum:    DefaultQuantum,
		fullRedraw: DefaultFullRedraw,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastFull = s.now()
	return s
}

// Trigger requests a frame on the next cycle.
func (s *Scheduler) Trigger() {
	s.dirty.Mark()
}

// ForceFull makes the next frame a full redraw. It is safe from any
// goroutine.
func (s *Scheduler) ForceFull() {
	s.force.Store(true)
	s.dirty.Mark()
}

// Step runs one cycle and reports whether a frame was emitted. A frame is
// painted when the dirty flag was set or the full redraw interval passed.
// Step and Run belong to one goroutine.
func (s *Scheduler) Step() bool {
	now := s.now()
	full := s.force.Swap(false) || (s.fullRedraw > 0 && now.Sub(s.lastFull) >= s.fullRedraw)
	if !s.dirty.Take() && !full {
		return false
	}
	if full {
		s.lastFull = now
	}
	s.emit(Frame{Content: s.painter.Frame(), Full: full})
	return true
}

// Run cycles until ctx is cancelled. A Mark wakes it early; otherwise it
// checks every quantum.
func (s *Scheduler) Run(ctx context.Context) {
	quantum := s.quantum
	if quantum <= 0 {
		quantum = DefaultQuantum
	}
	ticker := time.NewTicker(quantum)
	defer ticker.Stop()

	for {
		s.Step()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-s.dirty.Wake():
		}
	}
}
