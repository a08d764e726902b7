package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/prefillgrid/internal/config"
	"github.com/specialistvlad/prefillgrid/internal/ctxlog"
	"github.com/specialistvlad/prefillgrid/internal/loader"
	"github.com/specialistvlad/prefillgrid/internal/mapping"
	"github.com/specialistvlad/prefillgrid/internal/session"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	cfg        *Config
	model      *config.Model
	session    *session.State
	httpServer *http.Server
}

// NewApp builds an App. Command output goes to outW and logs to logW. A
// configuration that cannot be loaded or is incomplete is a fatal startup
// error and panics; the entrypoint recovers it.
func NewApp(outW, logW io.Writer, appConfig *Config, cfgLoader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := cfgLoader.Load(ctx, appConfig.ConfigPaths...)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	applyOverrides(model, appConfig)
	logger.Debug("Configuration loaded.",
		"blueprint", model.Blueprint.URL,
		"globals", model.GlobalKeys(),
		"port", model.Server.Port,
		"highlight_ttl", model.Server.HighlightTTL,
	)

	if model.Blueprint.URL == "" {
		panic(fmt.Errorf("no blueprint location configured: use -blueprint or a blueprint block"))
	}

	store := mapping.New(mapping.WithHighlightTTL(model.Server.HighlightTTL))

	return &App{
		ctx:     ctx,
		outW:    outW,
		logger:  logger,
		cfg:     appConfig,
		model:   model,
		session: session.New(model.GlobalKeys(), store),
	}
}

// applyOverrides lets command-line values win over file values.
func applyOverrides(m *config.Model, c *Config) {
	if c.BlueprintURL != "" {
		m.Blueprint.URL = c.BlueprintURL
	}
	if c.Port != 0 {
		m.Server.Port = c.Port
	}
	if c.HighlightTTL != nil {
		m.Server.HighlightTTL = *c.HighlightTTL
	}
}

// Session returns the application's session state. This is primarily for testing.
func (a *App) Session() *session.State {
	return a.session
}

// Model returns the merged configuration.
func (a *App) Model() *config.Model {
	return a.model
}

// Run loads the blueprint and executes the configured command. For serve it
// blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.cfg.Command)
	defer a.session.Mappings().Close()

	if err := a.loadBlueprint(ctx); err != nil {
		return err
	}

	var err error
	switch a.cfg.Command {
	case CommandInspect:
		err = a.inspect()
	case CommandSources:
		err = a.sources(a.cfg.NodeID)
	case CommandServe:
		err = a.serve(ctx)
	default:
		err = fmt.Errorf("unknown command %q", a.cfg.Command)
	}

	a.logger.Debug("App.Run method finished.", "error", err)
	return err
}

// loadBlueprint fetches the configured blueprint into the session.
func (a *App) loadBlueprint(ctx context.Context) error {
	l := loader.New(a.model.Blueprint.URL, a.model.Blueprint.Timeout)
	if c, ok := l.(io.Closer); ok {
		defer c.Close()
	}
	return a.session.Load(ctx, l)
}
