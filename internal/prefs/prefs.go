// Package prefs handles dossier user preferences persistence.
// Preferences are stored as a TOML document under the "prefs" key of the
// application's kv store, next to the favorites set.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/dossier/internal/kv"
)

// Prefs holds user preferences for dossier.
type Prefs struct {
	Theme string `toml:"theme"`
}

const (
	// Key is the kv key preferences are stored under.
	Key          = "prefs"
	defaultTheme = "Nightfox"
)

// Default returns the preferences used when nothing is stored.
func Default() Prefs {
	return Prefs{Theme: defaultTheme}
}

// Load reads preferences from store, falling back to defaults if missing.
// Unreadable or malformed data also yields defaults; the error is returned
// alongside so callers can log it.
func Load(ctx context.Context, store kv.Store) (Prefs, error) {
	return LoadOr(ctx, store, Default())
}

// LoadOr is Load with caller-supplied defaults, used when the config file
// names an initial theme.
func LoadOr(ctx context.Context, store kv.Store, fallback Prefs) (Prefs, error) {
	fallback.Theme = strings.TrimSpace(fallback.Theme)
	if fallback.Theme == "" {
		fallback.Theme = defaultTheme
	}
	prefs := fallback

	data, err := store.Get(ctx, Key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("read prefs: %w", err)
	}

	if err := toml.Unmarshal(data, &prefs); err != nil {
		return fallback, fmt.Errorf("parse prefs: %w", err)
	}

	prefs.Theme = strings.TrimSpace(prefs.Theme)
	if prefs.Theme == "" {
		prefs.Theme = fallback.Theme
	}

	return prefs, nil
}

// Save writes preferences to store.
func Save(ctx context.Context, store kv.Store, p Prefs) error {
	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := store.Put(ctx, Key, bytes); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}
