// Package eventloop serializes session access and the autosave tick onto a
// single goroutine.
//
// Every caller (HTTP handlers, MCP tools) hands work to the loop through Do,
// and the autosave ticker fires on the same goroutine, so the session never
// sees two mutators at once and needs no locks.
package eventloop

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("eventloop: stopped")

// Config configures a Loop.
type Config struct {
	// Interval between autosave ticks. Zero disables the ticker.
	Interval time.Duration
	// Tick is the autosave callback.
	Tick func() error
	// FlushOnExit runs Tick one last time when Run returns.
	FlushOnExit bool
	Logger      *slog.Logger
}

type op struct {
	fn   func() error
	done chan error
}

// Loop owns the goroutine on which all session work runs.
type Loop struct {
	cfg     Config
	ops     chan op
	stopped chan struct{}
}

// New creates a loop. Call Run to start it.
func New(cfg Config) *Loop {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Tick == nil {
		cfg.Tick = func() error { return nil }
	}
	return &Loop{
		cfg:     cfg,
		ops:     make(chan op),
		stopped: make(chan struct{}),
	}
}

// Run processes work and ticks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)

	var tickCh <-chan time.Time
	if l.cfg.Interval > 0 {
		ticker := time.NewTicker(l.cfg.Interval)
		defer ticker.Stop()
		tickCh = ticker.C
	}

	l.cfg.Logger.Debug("eventloop: started", slog.Duration("interval", l.cfg.Interval))

	for {
		select {
		case <-ctx.Done():
			if l.cfg.FlushOnExit {
				l.tick("flush")
			}
			l.cfg.Logger.Debug("eventloop: stopped")
			return nil

		case o := <-l.ops:
			o.done <- o.fn()

		case <-tickCh:
			l.tick("autosave")
		}
	}
}

func (l *Loop) tick(reason string) {
	if err := l.cfg.Tick(); err != nil {
		l.cfg.Logger.Error("eventloop: tick failed",
			slog.String("reason", reason),
			slog.String("error", err.Error()))
	}
}

// Do runs fn on the loop goroutine and returns its error.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	o := op{fn: fn, done: make(chan error, 1)}
	select {
	case l.ops <- o:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		return ErrStopped
	}
	return <-o.done
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.stopped
}
