package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/spf13/afero"

	"github.com/starford/notepad/internal/eventloop"
	"github.com/starford/notepad/internal/index"
	"github.com/starford/notepad/internal/noteservice"
	"github.com/starford/notepad/internal/session"
	"github.com/starford/notepad/internal/storage"
	"github.com/starford/notepad/internal/testutil"
)

// testEnv sets up an in-memory store, SQLite index, running event loop, and router.
// An empty authToken means auth is disabled.
func testEnv(t *testing.T, authToken string) (http.Handler, *storage.FS) {
	t.Helper()
	router, store, _ := testEnvFS(t, authToken)
	return router, store
}

func testEnvFS(t *testing.T, authToken string) (http.Handler, *storage.FS, afero.Fs) {
	t.Helper()

	store, afs := testutil.MemStore(t)

	dbFile, err := os.CreateTemp("", "notepad-api-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sess := session.Open(store,
		session.WithLogger(testutil.Logger()),
		session.WithObserver(index.Observer(db, testutil.Logger())))
	loop := eventloop.New(eventloop.Config{Tick: sess.Tick, Logger: testutil.Logger()})
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = loop.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-loop.Done()
	})

	svc := noteservice.NewService(loop, sess, db)
	return NewRouter(svc, authToken != "", authToken, nil), store, afs
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCreateAndGetSession(t *testing.T) {
	router, _ := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/notes", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/session", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var st SessionState
	_ = json.Unmarshal(w.Body.Bytes(), &st)
	if !st.Open || st.Position != 0 || st.Filename != "not_0.txt" {
		t.Errorf("state = %+v", st)
	}
}

func TestRenameAndFilter(t *testing.T) {
	router, _ := testEnv(t, "")

	do(t, router, http.MethodPost, "/notes", nil)
	do(t, router, http.MethodPut, "/session/title", RenameRequest{Title: "Groceries"})
	do(t, router, http.MethodPost, "/notes", nil)
	w := do(t, router, http.MethodPut, "/session/title", RenameRequest{Title: "Work Plan"})
	if w.Code != http.StatusOK {
		t.Fatalf("rename = %d, body = %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/notes?q=gro", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var resp NoteListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Notes) != 1 || resp.Notes[0].Title != "Groceries" {
		t.Errorf("notes = %+v, want only Groceries", resp.Notes)
	}
}

func TestRenameBlankFallsBack(t *testing.T) {
	router, _ := testEnv(t, "")
	do(t, router, http.MethodPost, "/notes", nil)
	w := do(t, router, http.MethodPut, "/session/title", RenameRequest{Title: "   "})
	var st SessionState
	_ = json.Unmarshal(w.Body.Bytes(), &st)
	if st.Title != "Untitled Note" {
		t.Errorf("title = %q, want Untitled Note", st.Title)
	}
}

func TestSelectOutOfRange(t *testing.T) {
	router, _ := testEnv(t, "")
	do(t, router, http.MethodPost, "/notes", nil)
	do(t, router, http.MethodPost, "/notes", nil)

	pos := 5
	w := do(t, router, http.MethodPut, "/session/selection", SelectRequest{Position: &pos})
	if w.Code != http.StatusBadRequest {
		t.Errorf("select = %d, want 400", w.Code)
	}
	var e errorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &e)
	if e.Code != codeOutOfRange || e.Error != "index out of range" {
		t.Errorf("error body = %+v", e)
	}

	w = do(t, router, http.MethodGet, "/session", nil)
	var st SessionState
	_ = json.Unmarshal(w.Body.Bytes(), &st)
	if st.Position != 1 {
		t.Errorf("selection changed to %d after failed select", st.Position)
	}
}

func TestSelectMissingPosition(t *testing.T) {
	router, _ := testEnv(t, "")
	w := do(t, router, http.MethodPut, "/session/selection", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("select = %d, want 400", w.Code)
	}
}

func TestSelectMissingFile(t *testing.T) {
	router, store, afs := testEnvFS(t, "")
	do(t, router, http.MethodPost, "/notes", nil)
	do(t, router, http.MethodPost, "/notes", nil)
	if err := afs.Remove(store.NotePath("not_0.txt")); err != nil {
		t.Fatal(err)
	}

	pos := 0
	w := do(t, router, http.MethodPut, "/session/selection", SelectRequest{Position: &pos})
	if w.Code != http.StatusNotFound {
		t.Errorf("select = %d, want 404", w.Code)
	}
}

func TestRenameWithoutSelection(t *testing.T) {
	router, _ := testEnv(t, "")
	w := do(t, router, http.MethodPut, "/session/title", RenameRequest{Title: "x"})
	if w.Code != http.StatusConflict {
		t.Errorf("rename = %d, want 409", w.Code)
	}
}

func TestContentFlushAndSearch(t *testing.T) {
	router, store := testEnv(t, "")
	do(t, router, http.MethodPost, "/notes", nil)

	w := do(t, router, http.MethodPut, "/session/content", ContentRequest{Content: "uniquetoken here\n\n"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("content = %d", w.Code)
	}
	if got, _ := store.ReadContent(store.NotePath("not_0.txt")); got != "" {
		t.Errorf("content written before tick: %q", got)
	}

	w = do(t, router, http.MethodPost, "/session/flush", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("flush = %d", w.Code)
	}
	if got, _ := store.ReadContent(store.NotePath("not_0.txt")); got != "uniquetoken here" {
		t.Errorf("saved content = %q", got)
	}

	w = do(t, router, http.MethodGet, "/search?q=uniquetoken", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d, body = %s", w.Code, w.Body.String())
	}
	var resp SearchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Results) != 1 || resp.Results[0].Filename != "not_0.txt" {
		t.Errorf("search results = %+v", resp.Results)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	router, _ := testEnv(t, "")
	w := do(t, router, http.MethodGet, "/search", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("search = %d, want 400", w.Code)
	}
}

func TestInvalidJSON(t *testing.T) {
	router, _ := testEnv(t, "")
	req := httptest.NewRequest(http.MethodPut, "/session/title", bytes.NewReader([]byte("{bad")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestReload(t *testing.T) {
	router, _ := testEnv(t, "")
	do(t, router, http.MethodPost, "/notes", nil)
	w := do(t, router, http.MethodPost, "/notes/reload", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("reload = %d", w.Code)
	}
	w = do(t, router, http.MethodGet, "/session", nil)
	var st SessionState
	_ = json.Unmarshal(w.Body.Bytes(), &st)
	if st.Open {
		t.Error("reload should clear the selection")
	}
}

func TestAuthRequired(t *testing.T) {
	router, _ := testEnv(t, "secret")

	w := do(t, router, http.MethodGet, "/notes", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestAuthQueryToken(t *testing.T) {
	router, _ := testEnv(t, "secret")

	w := do(t, router, http.MethodGet, "/notes?access_token=secret", nil)
	if w.Code != http.StatusOK {
		t.Errorf("query token = %d, want 200", w.Code)
	}

	w = do(t, router, http.MethodGet, "/notes?access_token=nope", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong query token = %d, want 401", w.Code)
	}
	var e errorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &e)
	if e.Code != codeUnauthorized {
		t.Errorf("code = %q", e.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Basic secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("non-bearer scheme = %d, want 401", rec.Code)
	}
}
