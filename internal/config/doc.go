// Package config reads the assistant's core configuration (mycroft.conf).
//
// # Overview
//
// The dashboard needs only a handful of fields from the core config: where
// the services write their logs, where the IPC directory with the
// microphone level file lives, the default language for typed utterances and
// the messagebus websocket endpoint.
//
// # Discovery
//
// Load merges, lowest priority first:
//
//  1. /etc/mycroft/mycroft.conf
//  2. $XDG_CONFIG_HOME/mycroft/mycroft.conf (or ~/.config/mycroft/mycroft.conf)
//
// An explicit path replaces both. Missing files are skipped; a file that
// exists but cannot be parsed is an error. Blank values never override.
//
// # Format
//
// mycroft.conf is JSON that tolerates comments and trailing commas:
//
//	{
//	  // where services write *.log
//	  "log_dir": "~/.local/state/mycroft",
//	  "ipc_path": "/tmp/mycroft/ipc",
//	  "lang": "en-us",
//	  "websocket": {"host": "127.0.0.1", "port": 8181, "route": "/core", "ssl": false},
//	}
//
// # Defaults
//
//   - log_dir: $XDG_STATE_HOME/mycroft (~/.local/state/mycroft)
//   - ipc_path: $TMPDIR/mycroft/ipc
//   - lang: en-us
//   - websocket: ws://127.0.0.1:8181/core
//
// Tilde paths are expanded and relative paths made absolute.
//
// # Legacy logs
//
// Older installs wrote to /var/log/mycroft. LogDirs adds that directory when
// it exists and differs from log_dir so both sets of files are tailed.
package config
