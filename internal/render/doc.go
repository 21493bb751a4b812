// Package render lays out and paints dashboard frames.
//
// # Frames
//
// A Painter reads the chat transcript and the meter reading first, each under
// its own lock, and then lays out the whole frame inside state.Session.Paint
// so the log window and the view are read at one instant. The result is a
// Canvas, a grid of cells tagged with a colour Class; Render turns it into a
// lipgloss-styled string using the active Theme.
//
// Main screen, top to bottom:
//
//	Log Output:                                  17-26 of 31
//	=================================== ovos-core        ===
//	<log viewport>
//	History =========          Log Output Legend ===  Mic Level
//	<chat>                     DEBUG output             <meter>
//	Input (':' for command, Ctrl+C to quit) ===============
//	> typed text
//
// # Viewport
//
// ComputeWindow maps the view's offset onto the filtered log plus one marker
// row below the newest line. The painter writes the re-clamped offset back
// into the view, so scrolling past the oldest line snaps back.
//
// # Scheduling
//
// Scheduler.Run wakes on the dirty signal or every quantum (10ms), paints when
// the flag was set, and emits a full redraw every 10 seconds to wipe output
// that bypassed the renderer. Step runs exactly one cycle for tests.
package render
