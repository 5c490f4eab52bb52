// Package testutil provides shared test helpers for note stores.
package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/starford/notepad/internal/storage"
)

// Logger returns a logger that discards output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MemStore creates an in-memory store rooted at "Notes".
func MemStore(t *testing.T) (*storage.FS, afero.Fs) {
	t.Helper()
	afs := afero.NewMemMapFs()
	store, err := storage.NewFS(afs, "Notes", Logger())
	if err != nil {
		t.Fatal(err)
	}
	return store, afs
}

// DiskStore creates a store in a temporary directory that is removed after the test.
func DiskStore(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "Notes")
	store, err := storage.NewOSFS(dir, Logger())
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}
