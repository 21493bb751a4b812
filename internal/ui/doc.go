// Package ui runs the dashboard as a Bubble Tea program.
//
// The Model is the input controller. It owns no drawing code: a
// render.Scheduler paints frames on its own goroutine whenever the session
// is dirty and hands them to the program with Send, and View returns the
// most recent one. Every key press turns into a mutation of the shared
// state.Session, which marks the dashboard dirty and so schedules the next
// frame.
//
// Key handling
//
// Keys first pass through an escape decoder. Terminals that report keypad
// keys as ESC O <byte> arrive as separate keys (or as alt+O followed by a
// rune); the decoder reassembles them into arrow and paging keys. A lone
// ESC waits one second for the rest of a sequence and then clears the
// input line, as does ESC ESC.
//
// In Help and Listing mode any key pages forward, returning to the main
// screen after the last page. In the main screen printable keys edit the
// input line and Enter sends it: lines starting with ':' go to the
// command processor, anything else is published as an utterance.
// Commands that need a reply from the messagebus run as tea.Cmd so the
// event loop never blocks on the bus.
//
// Interrupts
//
// The program runs without Bubble Tea's signal handler. The caller raises
// Options.Interrupted on SIGINT and the one second tick handles it exactly
// like ctrl+x: end the search, else cancel command mode, else quit.
package ui
