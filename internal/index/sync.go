package index

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/starford/notepad/internal/apperr"
	"github.com/starford/notepad/internal/models"
	"github.com/starford/notepad/internal/session"
	"github.com/starford/notepad/internal/storage"
)

// Sync brings the index up to date with the registry records:
//   - new/changed bodies are upserted
//   - rows for filenames no longer in the registry are deleted
func Sync(db *DB, store storage.Provider, records []models.Note, logger *slog.Logger) error {
	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	known := make(map[string]struct{}, len(records))
	for _, rec := range records {
		known[rec.Filename] = struct{}{}

		body, err := store.ReadContent(rec.Filepath)
		if err != nil {
			if !errors.Is(err, apperr.ErrNotFound) {
				logger.Warn("sync: read failed", slog.String("file", rec.Filename), slog.String("error", err.Error()))
			}
			continue
		}
		cs := digest(body)
		if checksums[rec.Filename] == cs {
			if err := db.UpdateTitle(rec.Filename, rec.Title); err != nil {
				logger.Warn("sync: title update failed", slog.String("file", rec.Filename), slog.String("error", err.Error()))
			}
			continue
		}
		row := NoteRow{Filename: rec.Filename, Title: rec.Title, Checksum: cs, UpdatedAt: time.Now()}
		if err := db.UpsertNote(row, body); err != nil {
			logger.Warn("sync: index failed", slog.String("file", rec.Filename), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("file", rec.Filename))
		}
	}

	for f := range checksums {
		if _, ok := known[f]; !ok {
			if err := db.DeleteNote(f); err != nil {
				logger.Warn("sync: delete failed", slog.String("file", f), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("file", f))
			}
		}
	}

	return nil
}

// Observer returns a session observer that keeps the index current.
// Index failures are logged; they never fail the session operation.
func Observer(db *DB, logger *slog.Logger) session.Observer {
	return func(ev session.Event) {
		var err error
		switch ev.Kind {
		case session.EventCreated, session.EventSaved:
			err = upsertIfChanged(db, ev.Note, ev.Content)
		case session.EventRenamed:
			err = db.UpdateTitle(ev.Note.Filename, ev.Note.Title)
		}
		if err != nil {
			logger.Warn("index: update failed",
				slog.String("event", ev.Kind),
				slog.String("file", ev.Note.Filename),
				slog.String("error", err.Error()))
		}
	}
}

func upsertIfChanged(db *DB, n models.Note, body string) error {
	cs := digest(body)
	stored, err := db.GetChecksum(n.Filename)
	if err != nil {
		return err
	}
	if stored == cs {
		return nil
	}
	return db.UpsertNote(NoteRow{Filename: n.Filename, Title: n.Title, Checksum: cs}, body)
}

// digest is the checksum stored per row; an equal digest means the body is
// already indexed.
func digest(body string) string {
	h := sha256.Sum256([]byte(body))
	return hex.EncodeToString(h[:])
}
