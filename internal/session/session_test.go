package session

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/notepad/internal/apperr"
	"github.com/starford/notepad/internal/models"
	"github.com/starford/notepad/internal/storage"
	"github.com/starford/notepad/internal/testutil"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func newSession(t *testing.T, opts ...Option) (*Session, *storage.FS, afero.Fs) {
	t.Helper()
	store, afs := testutil.MemStore(t)
	opts = append([]Option{WithClock(func() time.Time { return fixedNow }), WithLogger(testutil.Logger())}, opts...)
	return Open(store, opts...), store, afs
}

func TestCreateNote(t *testing.T) {
	s, store, _ := newSession(t)

	n, err := s.CreateNote()
	require.NoError(t, err)
	assert.Equal(t, "New Note - 2026-03-14 09:26", n.Title)
	assert.Equal(t, "not_0.txt", n.Filename)
	assert.Equal(t, store.NotePath("not_0.txt"), n.Filepath)
	assert.Equal(t, 1, s.Len())

	cur, pos, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, n, cur)
	assert.Equal(t, 0, pos)
	assert.Equal(t, "", s.CurrentContent())

	content, err := store.ReadContent(n.Filepath)
	require.NoError(t, err)
	assert.Equal(t, "", content)

	persisted := store.LoadIndex()
	require.Len(t, persisted, 1)
	assert.Equal(t, n, persisted[0])
}

func TestCreateNoteFilenameEncodesSize(t *testing.T) {
	s, _, _ := newSession(t)
	for i := 0; i < 4; i++ {
		before := s.Len()
		n, err := s.CreateNote()
		require.NoError(t, err)
		assert.Equal(t, before+1, s.Len())
		assert.Equal(t, models.ContentFilename(before), n.Filename)
	}
}

func TestSelectOutOfRange(t *testing.T) {
	s, _, _ := newSession(t)
	_, err := s.CreateNote()
	require.NoError(t, err)
	_, err = s.CreateNote()
	require.NoError(t, err)
	s.SetContent("draft")

	err = s.Select(5)
	require.ErrorIs(t, err, apperr.ErrIndexOutOfRange)
	assert.Equal(t, 2, s.Len())
	_, pos, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, 1, pos)
	assert.Equal(t, "draft", s.CurrentContent())

	require.ErrorIs(t, s.Select(-1), apperr.ErrIndexOutOfRange)
}

func TestSelectMissingContentFile(t *testing.T) {
	s, _, afs := newSession(t)
	n, err := s.CreateNote()
	require.NoError(t, err)
	_, err = s.CreateNote()
	require.NoError(t, err)
	require.NoError(t, afs.Remove(n.Filepath))

	err = s.Select(0)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.True(t, IsUserError(err))
	_, pos, _ := s.Current()
	assert.Equal(t, 1, pos, "selection must not change on a failed open")
}

func TestSelectDoesNotSaveOnSwitch(t *testing.T) {
	s, store, _ := newSession(t)
	first, _ := s.CreateNote()
	_, _ = s.CreateNote()

	require.NoError(t, s.Select(0))
	s.SetContent("unsaved words")
	require.NoError(t, s.Select(1))

	content, err := store.ReadContent(first.Filepath)
	require.NoError(t, err)
	assert.Equal(t, "", content)
}

func TestRename(t *testing.T) {
	s, store, _ := newSession(t)
	_, _ = s.CreateNote()

	require.NoError(t, s.Rename("Groceries"))
	cur, _, _ := s.Current()
	assert.Equal(t, "Groceries", cur.Title)
	assert.Equal(t, "Groceries", store.LoadIndex()[0].Title)

	require.NoError(t, s.Rename("   "))
	cur, pos, _ := s.Current()
	assert.Equal(t, models.UntitledTitle, cur.Title)
	assert.Equal(t, 0, pos)
	assert.Equal(t, models.UntitledTitle, store.LoadIndex()[0].Title)
}

func TestRenameWithoutSelection(t *testing.T) {
	s, _, _ := newSession(t)
	assert.ErrorIs(t, s.Rename("x"), apperr.ErrNoSelection)
}

func TestTickNoSelectionIsNoop(t *testing.T) {
	var events []Event
	s, _, _ := newSession(t, WithObserver(func(e Event) { events = append(events, e) }))
	s.SetContent("ignored")
	require.NoError(t, s.Tick())
	assert.Empty(t, events)
}

func TestTickTrimsTrailingWhitespace(t *testing.T) {
	s, store, _ := newSession(t)
	n, _ := s.CreateNote()
	s.SetContent("  indented\nbody \n\n\t")
	require.NoError(t, s.Tick())

	content, err := store.ReadContent(n.Filepath)
	require.NoError(t, err)
	assert.Equal(t, "  indented\nbody", content)
}

func TestTickIdempotent(t *testing.T) {
	s, _, afs := newSession(t)
	n, _ := s.CreateNote()
	s.SetContent("hello\n")

	require.NoError(t, s.Tick())
	first, err := afero.ReadFile(afs, n.Filepath)
	require.NoError(t, err)
	require.NoError(t, s.Tick())
	second, err := afero.ReadFile(afs, n.Filepath)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReopenRoundTrip(t *testing.T) {
	s, store, _ := newSession(t)
	_, _ = s.CreateNote()
	s.SetContent("hello")
	require.NoError(t, s.Tick())

	reopened := Open(store, WithLogger(testutil.Logger()))
	require.Equal(t, 1, reopened.Len())
	require.NoError(t, reopened.Select(0))
	assert.Equal(t, "hello", reopened.CurrentContent())
}

func TestFilterScenario(t *testing.T) {
	s, _, _ := newSession(t)
	_, _ = s.CreateNote()
	require.NoError(t, s.Rename("Groceries"))
	_, _ = s.CreateNote()
	require.NoError(t, s.Rename("Work Plan"))

	assert.Equal(t, []string{"Groceries"}, s.ListTitles("gro"))
	assert.Equal(t, []string{"Groceries", "Work Plan"}, s.ListTitles(""))
}

func TestObserverEvents(t *testing.T) {
	var kinds []string
	s, _, _ := newSession(t, WithObserver(func(e Event) { kinds = append(kinds, e.Kind) }))
	_, _ = s.CreateNote()
	_ = s.Rename("x")
	s.SetContent("body")
	_ = s.Tick()
	assert.Equal(t, []string{EventCreated, EventRenamed, EventSaved}, kinds)
}

func TestReloadClearsSelection(t *testing.T) {
	s, _, _ := newSession(t)
	_, _ = s.CreateNote()
	s.SetContent("pending")
	s.Reload()
	_, _, ok := s.Current()
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "", s.CurrentContent())
}

func TestTickSurfacesWriteError(t *testing.T) {
	store, _ := testutil.MemStore(t)
	s := New(failingStore{Provider: store}, nil, WithLogger(testutil.Logger()))
	s.Reload()
	_, err := s.CreateNote()
	require.NoError(t, err)
	err = s.Tick()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.False(t, IsUserError(err))
}

type failingStore struct {
	storage.Provider
}

func (failingStore) WriteContent(string, string) error {
	return errors.Join(errors.New("disk says no"), os.ErrPermission)
}
