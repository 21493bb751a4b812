// Package logtail follows the assistant's log files.
//
// # Overview
//
// Each *.log file in the log directory becomes a Source. A Source polls the
// file on a fixed interval (DefaultInterval, 100ms) instead of using file
// system notifications, so it works with whatever process writes the log and
// on any platform or mount.
//
// # Poll cycle
//
//  1. Stat the file; an unchanged size and modification time ends the cycle
//  2. If the file shrank (rotation or truncation), restart at offset zero
//  3. Read the complete lines after the saved offset
//  4. Advance the offset past the bytes consumed; a partial last line is
//     left for the next cycle
//
// Errors from a cycle are returned by Poll and dropped by Run. A log viewer
// that logged its own read failures would pollute the view it is showing.
//
// # Backfill
//
// A Source starts at the end of the file. Backfill reads the last n lines
// written before that point with a ring buffer of size n, so it scans the
// file once using O(n) memory:
//
//	lines, err := src.Backfill(200)
//	if err != nil {
//		log.Printf("backfill %s: %v", src.Path, err)
//	}
//
// # Discovery
//
// Discover lists the *.log files of the configured log directory and the
// legacy /var/log/mycroft directory. Source ids follow discovery order and
// pick the colour of each line in the log panel.
package logtail
