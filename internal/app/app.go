package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/dossier/internal/catalog"
	"github.com/five82/dossier/internal/config"
	"github.com/five82/dossier/internal/kv"
	"github.com/five82/dossier/internal/prefs"
	"github.com/five82/dossier/internal/telemetry"
	"github.com/five82/dossier/internal/ui"
)

// Options configure the dossier application.
type Options struct {
	ConfigPath string
}

// Env holds the dependencies shared by the TUI and the one-shot commands.
type Env struct {
	Config config.Config
	Client *catalog.Client
	Store  kv.Store

	shutdown func(context.Context) error
}

const shutdownTimeout = 5 * time.Second

// Open builds the catalog client, the kv store and tracing from cfg.
// The caller must Close the returned Env.
func Open(ctx context.Context, cfg config.Config) (*Env, error) {
	shutdown, err := telemetry.Setup(ctx, cfg.OTelEndpoint)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	client, err := catalog.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("init catalog client: %w", err)
	}

	store, err := kv.Open(cfg.Store, cfg.DataDir)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}

	return &Env{Config: cfg, Client: client, Store: store, shutdown: shutdown}, nil
}

// Close releases the store and flushes pending spans.
func (e *Env) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Join(e.Store.Close(), e.shutdown(ctx))
}

// Run boots the dossier TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFile, err := startLogging(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	env, err := Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := env.Close(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	userPrefs, err := prefs.LoadOr(ctx, env.Store, prefs.Prefs{Theme: cfg.Theme})
	if err != nil {
		log.Printf("prefs unavailable, using defaults: %v", err)
	}

	log.Printf("dossier starting: api=%s store=%s data=%s", cfg.APIURL, cfg.Store, cfg.DataDir)

	err = ui.Run(ui.Options{
		Context:          ctx,
		Fetcher:          env.Client,
		Store:            env.Store,
		Logger:           log.Default(),
		ThemeName:        userPrefs.Theme,
		SearchDebounce:   cfg.SearchDebounce,
		OverlayAnimation: cfg.OverlayAnimation,
	})
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// startLogging sends the standard logger to path; the terminal belongs to
// the TUI.
func startLogging(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := tea.LogToFile(path, "dossier")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
