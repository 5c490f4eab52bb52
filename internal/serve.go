package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/notepad/internal/api"
	"github.com/starford/notepad/internal/eventloop"
	"github.com/starford/notepad/internal/mcpserver"
	"github.com/starford/notepad/internal/noteservice"
	"github.com/starford/notepad/internal/sse"
	"github.com/starford/notepad/internal/tui"
	"github.com/starford/notepad/internal/watcher"
)

func (a *application) newLoop(env *environment, tick func() error) *eventloop.Loop {
	return eventloop.New(eventloop.Config{
		Interval:    env.cfg.Autosave.Interval,
		Tick:        tick,
		FlushOnExit: env.cfg.Autosave.FlushOnExit,
		Logger:      env.logger,
	})
}

func (a *application) runTUI(ctx context.Context, env *environment) error {
	sess := env.session()
	model := tui.New(sess,
		tui.WithInterval(env.cfg.Autosave.Interval),
		tui.WithFlushOnExit(env.cfg.Autosave.FlushOnExit),
		tui.WithLogger(env.logger),
	)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if env.cfg.Storage.Watch {
		wctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			err := watcher.Watch(wctx, env.store.Root(), env.logger, func(kind, name string) {
				p.Send(tui.StoreChangedMsg{Kind: kind, Name: name})
			})
			if err != nil {
				env.logger.Warn("watcher stopped", slog.String("error", err.Error()))
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (a *application) runServe(ctx context.Context, env *environment) error {
	cfg := env.cfg
	logger := env.logger

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	sess := env.session(sse.Observer(broker))
	loop := a.newLoop(env, sess.Tick)
	svc := noteservice.NewService(loop, sess, env.searchIndex())
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		select {
		case <-loop.Done():
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"stopping"}`))
		default:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		}
	})

	r.Mount("/api", apiRouter)

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Request contexts derive from gCtx so open SSE streams end on shutdown.
	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gCtx },
	}

	// Session loop: every API call and the autosave tick run here.
	g.Go(func() error {
		return loop.Run(gCtx)
	})

	if cfg.Storage.Watch {
		g.Go(func() error {
			if err := watcher.Watch(gCtx, env.store.Root(), logger, broker.PublishStoreChange); err != nil {
				logger.Warn("watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Shut down once a signal arrives or another goroutine fails.
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

func (a *application) runMCP(ctx context.Context, env *environment) error {
	sess := env.session()
	loop := a.newLoop(env, sess.Tick)

	loopCtx, cancel := context.WithCancel(ctx)
	go func() { _ = loop.Run(loopCtx) }()
	defer func() {
		cancel()
		<-loop.Done()
	}()

	srv := mcpserver.New(noteservice.NewService(loop, sess, env.searchIndex()), a.version)
	env.logger.Info("MCP server listening on stdio")
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("mcp: %w", err)
	}
	return nil
}
