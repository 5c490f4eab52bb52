package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/starford/notepad/internal/apperr"
	"github.com/starford/notepad/internal/models"
)

// TempPrefix marks in-flight atomic writes inside the storage root.
const TempPrefix = ".notepad-tmp-"

// FS implements Provider on top of an afero filesystem.
type FS struct {
	fs     afero.Fs
	root   string
	logger *slog.Logger
}

// NewFS creates a provider rooted at root, creating the directory if needed.
func NewFS(afs afero.Fs, root string, logger *slog.Logger) (*FS, error) {
	if root == "" {
		return nil, errors.New("storage: root is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	root = filepath.Clean(root)
	if err := afs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	info, err := afs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", root)
	}
	return &FS{fs: afs, root: root, logger: logger}, nil
}

// NewOSFS creates a provider backed by the real filesystem.
func NewOSFS(root string, logger *slog.Logger) (*FS, error) {
	return NewFS(afero.NewOsFs(), root, logger)
}

// Root returns the storage root directory.
func (f *FS) Root() string {
	return f.root
}

// NotePath joins filename onto the storage root.
func (f *FS) NotePath(filename string) string {
	return filepath.Join(f.root, filename)
}

func (f *FS) indexPath() string {
	return filepath.Join(f.root, models.IndexFilename)
}

// safePath rejects any path that does not resolve strictly inside the root.
func (f *FS) safePath(p string) (string, error) {
	cleaned := filepath.Clean(p)
	absRoot, err := filepath.Abs(f.root)
	if err != nil {
		return "", fmt.Errorf("storage: resolve root: %w", err)
	}
	abs, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, absRoot+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: %s: %w", p, apperr.ErrOutsideRoot)
	}
	return cleaned, nil
}

// LoadIndex reads the metadata index. A missing or unparsable file yields no records.
func (f *FS) LoadIndex() []models.Note {
	data, err := afero.ReadFile(f.fs, f.indexPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			f.logger.Warn("storage: read index failed", slog.String("path", f.indexPath()), slog.String("error", err.Error()))
		}
		return []models.Note{}
	}
	var records []models.Note
	if err := json.Unmarshal(data, &records); err != nil {
		f.logger.Warn("storage: malformed index, starting empty",
			slog.String("path", f.indexPath()),
			slog.String("error", err.Error()))
		return []models.Note{}
	}
	if records == nil {
		return []models.Note{}
	}
	return records
}

// SaveIndex rewrites the whole metadata index.
func (f *FS) SaveIndex(records []models.Note) error {
	if records == nil {
		records = []models.Note{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode index: %w", err)
	}
	return f.writeAtomic(f.indexPath(), data)
}

// ReadContent returns the text of the note file at path.
func (f *FS) ReadContent(path string) (string, error) {
	p, err := f.safePath(path)
	if err != nil {
		return "", err
	}
	data, err := afero.ReadFile(f.fs, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("storage: read %s: %w", path, apperr.ErrNotFound)
		}
		return "", fmt.Errorf("storage: read %s: %w", path, err)
	}
	return string(data), nil
}

// WriteContent overwrites the note file at path.
func (f *FS) WriteContent(path, text string) error {
	p, err := f.safePath(path)
	if err != nil {
		return err
	}
	return f.writeAtomic(p, []byte(text))
}

// CreateEmptyFile creates a zero-length file, truncating any file already there.
func (f *FS) CreateEmptyFile(path string) error {
	p, err := f.safePath(path)
	if err != nil {
		return err
	}
	if err := f.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}
	file, err := f.fs.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("storage: create %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("storage: close %s: %w", path, err)
	}
	return nil
}

// writeAtomic writes content: tmp file → fsync → rename.
func (f *FS) writeAtomic(p string, content []byte) error {
	dir := filepath.Dir(p)
	if err := f.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := afero.TempFile(f.fs, dir, TempPrefix+"*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = f.fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := f.fs.Rename(tmpName, p); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
