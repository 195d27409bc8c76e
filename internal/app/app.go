package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/AJ-Gonzalez/black-orchid/internal/ctxlog"
	"github.com/AJ-Gonzalez/black-orchid/internal/dispatch"
	"github.com/AJ-Gonzalez/black-orchid/internal/mcpserver"
	"github.com/AJ-Gonzalez/black-orchid/internal/registry"
	"github.com/AJ-Gonzalez/black-orchid/internal/skills"
	"github.com/AJ-Gonzalez/black-orchid/internal/store"
)

// App wires the proxy together. Construction is side-effect free apart from
// opening the store; the registry is populated on Run.
type App struct {
	logger     *slog.Logger
	config     *Config
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
	store      *store.Store
	skills     *skills.Library
}

// New builds a fully initialized App with its own isolated logger writing to
// errW.
func New(errW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	reg := registry.New(cfg.Roots)

	return &App{
		logger:     logger,
		config:     cfg,
		registry:   reg,
		dispatcher: dispatch.New(reg),
		store:      st,
		skills:     skills.New(cfg.SkillsDir),
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Close releases the App's resources.
func (a *App) Close() error {
	return a.store.Close()
}

// Run performs the initial full rebuild, starts the watcher when enabled,
// and serves MCP over stdio until ctx is cancelled or stdin closes.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	summary, err := a.registry.RebuildAll(ctx)
	if err != nil {
		return fmt.Errorf("initial rebuild: %w", err)
	}
	a.logger.Info("Initial rebuild complete.",
		"tools", summary.Tools, "units", summary.UnitsLoaded, "rejected", summary.UnitsRejected)

	if a.config.Watch {
		go a.watch(ctx)
	}

	srv := mcpserver.New(mcpserver.Options{
		Registry:   a.registry,
		Dispatcher: a.dispatcher,
		Store:      a.store,
		Skills:     a.skills,
	})
	return srv.ServeStdio(ctx)
}
