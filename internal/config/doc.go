// Package config loads dossier's runtime configuration.
//
// # Resolution
//
// Load reads a TOML file from an explicit path or from
// ~/.config/dossier/config.toml. A missing file is not an error. After the
// file, DOSSIER_* environment variables override individual fields, and
// anything still empty falls back to a default.
//
// # Fields
//
//	api_url           = "https://rickandmortyapi.com/api"
//	request_timeout   = "10s"
//	search_debounce   = "350ms"
//	overlay_animation = "180ms"
//	store             = "bolt"      # bolt, sqlite, file or memory
//	data_dir          = "~/.local/share/dossier"
//	log_file          = "<data_dir>/dossier.log"
//	theme             = "Dracula"
//	otel_endpoint     = ""          # OTLP/HTTP collector; empty disables tracing
//
// Environment overrides: DOSSIER_API_URL, DOSSIER_REQUEST_TIMEOUT,
// DOSSIER_STORE, DOSSIER_DATA_DIR, DOSSIER_LOG_FILE, DOSSIER_OTEL_ENDPOINT.
//
// Paths accept a leading tilde and are returned absolute.
//
// # Errors
//
// Load fails on TOML syntax errors, unparseable or negative durations (both
// reported as "parse config"), malformed environment values ("parse env"),
// and unreadable files other than a missing one.
package config
