package render

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/OpenVoiceOS/ovos-cli-client/internal/logbuf"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/state"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestScheduler(t *testing.T) (*Scheduler, *state.Session, *fakeClock, *[]Frame) {
	t.Helper()
	view := state.DefaultView()
	view.Width, view.Height = 40, 16
	dirty := state.NewDirty()
	session := state.NewSession(logbuf.New(0, nil), view, dirty)
	painter := NewPainter(session, nil, nil, nil, GetTheme(""))

	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	var frames []Frame
	s := NewScheduler(painter, dirty, func(f Frame) { frames = append(frames, f) }, WithClock(clock.Now), WithQuantum(time.Millisecond))
	return s, session, clock, &frames
}

func TestScheduler_PaintsOnlyWhenDirty(t *testing.T) {
	s, session, _, frames := newTestScheduler(t)

	if !s.Step() {
		t.Fatalf("first Step() = false; a new dirty signal starts set")
	}
	if s.Step() {
		t.Fatalf("Step() without changes painted a frame")
	}

	session.Append(0, []string{"hello scheduler"})
	if !s.Step() {
		t.Fatalf("Step() after Append = false")
	}
	if len(*frames) != 2 {
		t.Fatalf("emitted %d frames, want 2", len(*frames))
	}
	last := (*frames)[1]
	if last.Full || !strings.Contains(last.Content, "hello scheduler") {
		t.Fatalf("frame = %+v", last)
	}
}

func TestScheduler_TriggerForcesExactlyOneFrame(t *testing.T) {
	s, _, _, frames := newTestScheduler(t)
	s.Step()

	s.Trigger()
	s.Trigger()
	if !s.Step() || s.Step() {
		t.Fatalf("two Triggers must yield exactly one frame")
	}
	if len(*frames) != 2 {
		t.Fatalf("emitted %d frames, want 2", len(*frames))
	}
}

func TestScheduler_PeriodicFullRedraw(t *testing.T) {
	s, _, clock, frames := newTestScheduler(t)
	s.Step()

	clock.now = clock.now.Add(DefaultFullRedraw - time.Millisecond)
	if s.Step() {
		t.Fatalf("clean Step() before the redraw interval painted")
	}
	clock.now = clock.now.Add(time.Millisecond)
	if !s.Step() {
		t.Fatalf("Step() at the redraw interval did not paint")
	}
	if !(*frames)[len(*frames)-1].Full {
		t.Fatalf("periodic frame is not a full redraw")
	}
	if s.Step() {
		t.Fatalf("full redraw repeated without the interval passing")
	}

	s.ForceFull()
	if !s.Step() || !(*frames)[len(*frames)-1].Full {
		t.Fatalf("ForceFull did not produce a full frame")
	}
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	view := state.DefaultView()
	view.Width, view.Height = 20, 12
	dirty := state.NewDirty()
	session := state.NewSession(nil, view, dirty)
	painter := NewPainter(session, nil, nil, nil, GetTheme("Nightfox"))

	got := make(chan Frame, 16)
	s := NewScheduler(painter, dirty, func(f Frame) {
		select {
		case got <- f:
		default:
		}
	}, WithQuantum(time.Millisecond), WithFullRedraw(0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not paint the initial frame")
	}
	session.Notice("wake up")
	select {
	case f := <-got:
		if !strings.Contains(f.Content, "wake up") {
			t.Fatalf("frame missing notice: %q", f.Content)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not repaint after Notice")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
