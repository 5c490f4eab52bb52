// Package watcher reports changes made to the storage directory by other
// processes. It never mutates the registry.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/notepad/internal/models"
	"github.com/starford/notepad/internal/storage"
)

// Change kinds passed to the callback.
const (
	KindChanged = "changed"
	KindRemoved = "removed"
)

// Callback is called for each relevant change. name is the file name inside the root.
type Callback func(kind, name string)

// debounce collapses the burst of events a single save produces.
const debounce = 150 * time.Millisecond

// Watch watches root until ctx is cancelled. Only meta.json and .txt note
// files are reported; temp files from atomic writes are ignored.
func Watch(ctx context.Context, root string, logger *slog.Logger, cb Callback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	pending := make(map[string]string)
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	schedule := func() {
		if flushTimer == nil {
			flushTimer = time.NewTimer(debounce)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-flushCh:
			for name, kind := range pending {
				logger.Debug("watcher: change", slog.String("file", name), slog.String("op", kind))
				if cb != nil {
					cb(kind, name)
				}
			}
			clear(pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !relevant(name) {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				pending[name] = KindChanged
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				pending[name] = KindRemoved
			default:
				continue
			}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func relevant(name string) bool {
	if strings.HasPrefix(name, storage.TempPrefix) {
		return false
	}
	return name == models.IndexFilename || strings.HasSuffix(name, ".txt")
}
