// Package command interprets the dashboard's command line: ':' commands
// that change the view, the log filters or skill state, and plain text sent
// to the messagebus as an utterance.
package command
