// Package app is dossier's composition root.
//
// Run loads configuration, points the standard logger at the log file,
// opens the catalog client, the kv store and optional tracing, restores the
// saved theme and hands control to the ui package until the user quits.
//
// Open builds the same dependencies without the TUI; the one-shot CLI
// commands use it directly.
package app
