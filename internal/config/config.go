package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds dossier's runtime settings.
type Config struct {
	APIURL           string
	RequestTimeout   time.Duration
	SearchDebounce   time.Duration
	OverlayAnimation time.Duration
	Store            string
	DataDir          string
	LogFile          string
	Theme            string
	OTelEndpoint     string
}

const (
	defaultConfigPath       = "~/.config/dossier/config.toml"
	defaultDataDir          = "~/.local/share/dossier"
	defaultAPIURL           = "https://rickandmortyapi.com/api"
	defaultStore            = "bolt"
	defaultRequestTimeout   = 10 * time.Second
	defaultSearchDebounce   = 350 * time.Millisecond
	defaultOverlayAnimation = 180 * time.Millisecond
	logFileName             = "dossier.log"
)

// envOverrides are read after the file; set variables win.
type envOverrides struct {
	APIURL         string        `env:"DOSSIER_API_URL"`
	RequestTimeout time.Duration `env:"DOSSIER_REQUEST_TIMEOUT"`
	Store          string        `env:"DOSSIER_STORE"`
	DataDir        string        `env:"DOSSIER_DATA_DIR"`
	LogFile        string        `env:"DOSSIER_LOG_FILE"`
	OTelEndpoint   string        `env:"DOSSIER_OTEL_ENDPOINT"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config file at path (or the default location), applies
// environment overrides and fills defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw struct {
		APIURL           string `toml:"api_url"`
		RequestTimeout   string `toml:"request_timeout"`
		SearchDebounce   string `toml:"search_debounce"`
		OverlayAnimation string `toml:"overlay_animation"`
		Store            string `toml:"store"`
		DataDir          string `toml:"data_dir"`
		LogFile          string `toml:"log_file"`
		Theme            string `toml:"theme"`
		OTelEndpoint     string `toml:"otel_endpoint"`
	}

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	cfg := Config{
		APIURL:       strings.TrimSpace(raw.APIURL),
		Store:        strings.ToLower(strings.TrimSpace(raw.Store)),
		DataDir:      strings.TrimSpace(raw.DataDir),
		LogFile:      strings.TrimSpace(raw.LogFile),
		Theme:        strings.TrimSpace(raw.Theme),
		OTelEndpoint: strings.TrimSpace(raw.OTelEndpoint),
	}
	if cfg.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.SearchDebounce, err = parseDuration("search_debounce", raw.SearchDebounce); err != nil {
		return Config{}, err
	}
	if cfg.OverlayAnimation, err = parseDuration("overlay_animation", raw.OverlayAnimation); err != nil {
		return Config{}, err
	}

	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	overrides.apply(&cfg)

	cfg.fillDefaults()
	return cfg, nil
}

func (o envOverrides) apply(cfg *Config) {
	if v := strings.TrimSpace(o.APIURL); v != "" {
		cfg.APIURL = v
	}
	if o.RequestTimeout > 0 {
		cfg.RequestTimeout = o.RequestTimeout
	}
	if v := strings.TrimSpace(o.Store); v != "" {
		cfg.Store = strings.ToLower(v)
	}
	if v := strings.TrimSpace(o.DataDir); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(o.LogFile); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(o.OTelEndpoint); v != "" {
		cfg.OTelEndpoint = v
	}
}

func (c *Config) fillDefaults() {
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.SearchDebounce <= 0 {
		c.SearchDebounce = defaultSearchDebounce
	}
	if c.OverlayAnimation <= 0 {
		c.OverlayAnimation = defaultOverlayAnimation
	}
	if c.Store == "" {
		c.Store = defaultStore
	}
	if c.DataDir == "" {
		c.DataDir = defaultDataDir
	}
	c.DataDir = mustExpand(c.DataDir)
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.DataDir, logFileName)
	}
	c.LogFile = mustExpand(c.LogFile)
}

func parseDuration(field, value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("parse config: %s must not be negative", field)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
