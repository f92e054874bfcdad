// Package logtail reads the end of dossier's log file.
//
// The TUI owns the terminal, so the standard logger writes to a file
// instead (see the app package). `dossier logs` uses Tail to show the most
// recent lines, optionally filtered by a substring, without loading the
// whole file: lines stream through a fixed-size ring buffer.
package logtail
