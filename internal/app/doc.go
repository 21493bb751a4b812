// Package app is the composition root of the OVOS CLI client.
//
// # Overview
//
// This package wires configuration, settings, the shared session, the log
// and meter pollers, the messagebus client and the UI together. Nothing
// here holds domain logic; it decides which pieces run and in what order.
//
// # Startup
//
//  1. Load the core config (mycroft.conf) for the log directory, the IPC
//     directory, the language and the messagebus address
//  2. Load the CLI settings file and build the state.Session from it; a
//     settings file that cannot be parsed becomes a notice in the log
//  3. Note the legacy log directory when it still exists
//  4. Register bus handlers: connection notices, speech and utterances
//  5. Discover *.log files and start one poller per file plus the meter
//  6. Start the messagebus connection loop
//  7. Run the UI until the user quits, then save the settings
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        core config
//	       ├─────> newSession()         settings -> logbuf + view
//	       ├─────> bindBus()            bus events -> session / transcript
//	       ├─────> startPollers()       logtail.Source / meter.Monitor goroutines
//	       ├─────> bus.Client.Run()     reconnecting websocket
//	       └─────> ui.Run()             scheduler + Bubble Tea (blocks)
//
//	Pollers:
//	┌─────────────────────────────────────────┐
//	│ one goroutine per log file              │
//	│  └─> session.Append()  (marks dirty)    │
//	│ one goroutine for the mic level file    │
//	│  └─> monitor reading   (marks dirty)    │
//	└─────────────────────────────────────────┘
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Core config present but unparsable
//   - Invalid messagebus URL
//   - The terminal program failing
//
// Recoverable errors:
//   - Missing log files or directories: polled again next tick
//   - Messagebus down: reconnect with backoff, notices in the log
//   - Settings file unreadable: defaults plus a notice
//
// # Interrupts
//
// SIGINT does not kill the dashboard. It raises a flag that the UI treats
// like ctrl+x. In simple mode SIGINT ends the program.
//
// # Simple Mode
//
// With Options.Simple the client skips the dashboard entirely: each line
// read from stdin is published as an utterance and spoken responses are
// printed with the ">> " prefix.
package app
