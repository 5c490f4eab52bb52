// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/notepad/internal/index"
	"github.com/starford/notepad/internal/session"
	"github.com/starford/notepad/internal/storage"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{
		frontend: FrontendTUI,
		output:   os.Stdout,
		version:  "dev",
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logOut, closeLog, err := app.logWriter()
	if err != nil {
		return err
	}
	defer closeLog()

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("frontend", app.frontend),
		slog.String("storage_path", cfg.Storage.Path),
		slog.String("sqlite_path", cfg.SearchDBPath()),
		slog.String("autosave_interval", cfg.Autosave.Interval.String()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	env, err := newEnvironment(cfg, logger)
	if err != nil {
		return err
	}
	defer env.close()

	switch app.frontend {
	case FrontendTUI:
		return app.runTUI(ctx, env)
	case FrontendServe:
		return app.runServe(ctx, env)
	case FrontendMCP:
		return app.runMCP(ctx, env)
	case FrontendList:
		return app.runList(env)
	case FrontendNew:
		return app.runNew(env)
	case FrontendShow:
		return app.runShow(env)
	case FrontendSearch:
		return app.runSearch(env)
	default:
		return fmt.Errorf("unknown frontend %q", app.frontend)
	}
}

// logWriter picks the log destination. The terminal UI owns the screen and
// the MCP server owns stdout, so neither may log there.
func (a *application) logWriter() (io.Writer, func(), error) {
	switch a.frontend {
	case FrontendTUI:
		path := a.config.LogFilePath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return f, func() { _ = f.Close() }, nil
	case FrontendServe:
		return os.Stdout, func() {}, nil
	default:
		return os.Stderr, func() {}, nil
	}
}

// environment holds what every frontend shares: the store and the optional
// content search index.
type environment struct {
	cfg    *Config
	logger *slog.Logger
	store  *storage.FS
	db     *index.DB
}

func newEnvironment(cfg *Config, logger *slog.Logger) (*environment, error) {
	store, err := storage.NewOSFS(cfg.Storage.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	env := &environment{cfg: cfg, logger: logger, store: store}

	dbPath := cfg.SearchDBPath()
	if dbPath == "" {
		return env, nil
	}
	db, err := index.Open(dbPath)
	if err != nil {
		// The index is a derived cache; the notes stay usable without it.
		logger.Warn("search index unavailable", slog.String("path", dbPath), slog.String("error", err.Error()))
		return env, nil
	}
	env.db = db

	if err := index.Sync(db, store, store.LoadIndex(), logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}
	return env, nil
}

// session opens the editor session with the index observer and any extra observers.
func (e *environment) session(extra ...session.Observer) *session.Session {
	opts := []session.Option{session.WithLogger(e.logger)}
	if e.db != nil {
		opts = append(opts, session.WithObserver(index.Observer(e.db, e.logger)))
	}
	for _, o := range extra {
		opts = append(opts, session.WithObserver(o))
	}
	return session.Open(e.store, opts...)
}

// searchIndex returns the index as an interface value, nil when disabled.
func (e *environment) searchIndex() index.ContentIndex {
	if e.db == nil {
		return nil
	}
	return e.db
}

func (e *environment) close() {
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			e.logger.Warn("close index", slog.String("error", err.Error()))
		}
	}
}
