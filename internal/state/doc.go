// Package state provides the shared dashboard state for the CLI client.
//
// # Overview
//
// Session is the single coordination point between the log pollers, the
// command processor, the input controller and the renderer. It owns the
// logbuf.Buffer and the View behind one mutex so that a frame never observes
// a half-applied filter rebuild or a half-appended poll.
//
//	Producers:                     Consumer:
//	┌──────────────────┐          ┌──────────────────┐
//	│ logtail pollers  │          │                  │
//	│ bus handlers     │──Append─→│ Session.Paint()  │
//	│ command / input  │  Notice  │   (renderer)     │
//	│                  │  Update  │                  │
//	└──────────────────┘          └──────────────────┘
//	          │                            ↑
//	          └──────── Dirty.Mark ────────┘
//
// # Dirty signal
//
// Dirty is an atomic flag paired with a one-slot wake channel. Mark never
// blocks, so it is safe to call from pollers and bus callbacks. The renderer
// calls Take before painting; a Mark that lands during a paint leaves the
// flag set for the next cycle.
//
// # Offsets
//
// View.LogOffset counts lines back from the newest filtered line and stays
// within [0, len(filtered)]. While the user is scrolled back, every visible
// appended line increments the offset so the window does not move. Notices
// and search changes jump back to the newest line.
//
// # Locking
//
// Paint callbacks run under the session lock and must not block. Callers
// that talk to the message bus read what they need, release the lock, and
// only then issue the request.
package state
