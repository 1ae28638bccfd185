package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/marqueapp/marque/internal/auth"
	"github.com/marqueapp/marque/internal/domain"
	"github.com/marqueapp/marque/internal/httpserver/deps"
	"github.com/marqueapp/marque/internal/logger"
	redisstore "github.com/marqueapp/marque/internal/store/redis"
)

type fakeBookmarkStore struct {
	rows      []*domain.Bookmark
	inserted  []*domain.Bookmark
	deleted   []string
	listErr   error
	insertErr error
	deleteErr error
}

func (f *fakeBookmarkStore) Insert(ctx context.Context, bookmark *domain.Bookmark) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, bookmark)
	return nil
}

func (f *fakeBookmarkStore) ListByUser(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.rows, nil
}

func (f *fakeBookmarkStore) Delete(ctx context.Context, id, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func testDeps(store *fakeBookmarkStore) deps.Deps {
	return deps.Deps{
		Logger:    logger.Nop(),
		Bookmarks: store,
	}
}

func testSession() *auth.Session {
	return &auth.Session{
		ID:       "session-1",
		UserID:   "user-1",
		Email:    "ada@example.com",
		FullName: "Ada Lovelace",
	}
}

// serveBookmarks routes a request through a chi router with the session
// already in the context, mirroring what the session middleware does.
func serveBookmarks(d deps.Deps, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Get("/", ListBookmarks(d))
		r.Post("/", CreateBookmark(d))
		r.Delete("/{id}", DeleteBookmark(d))
	})

	req = req.WithContext(auth.WithSession(req.Context(), testSession()))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestListBookmarks(t *testing.T) {
	store := &fakeBookmarkStore{
		rows: []*domain.Bookmark{
			{ID: "b2", UserID: "user-1", Title: "Go Blog", URL: "https://go.dev/blog"},
			{ID: "b1", UserID: "user-1", Title: "Wiki", URL: "https://wikipedia.org"},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
	rec := serveBookmarks(testDeps(store), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []*domain.Bookmark
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 bookmarks, got %d", len(got))
	}
	if got[0].ID != "b2" || got[1].ID != "b1" {
		t.Errorf("store order not preserved: got %s, %s", got[0].ID, got[1].ID)
	}
}

func TestListBookmarksWithQuery(t *testing.T) {
	store := &fakeBookmarkStore{
		rows: []*domain.Bookmark{
			{ID: "b1", UserID: "user-1", Title: "Go Blog", URL: "https://go.dev/blog"},
			{ID: "b2", UserID: "user-1", Title: "Wiki", URL: "https://wikipedia.org"},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/bookmarks?q=GO", nil)
	rec := serveBookmarks(testDeps(store), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []*domain.Bookmark
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 1 || got[0].ID != "b1" {
		t.Errorf("expected only b1, got %+v", got)
	}
}

func TestListBookmarksStoreError(t *testing.T) {
	store := &fakeBookmarkStore{listErr: errors.New("redis down")}

	req := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
	rec := serveBookmarks(testDeps(store), req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestCreateBookmark(t *testing.T) {
	store := &fakeBookmarkStore{}

	body := strings.NewReader(`{"title":"  Go Blog  ","url":"go.dev/blog"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/bookmarks", body)
	rec := serveBookmarks(testDeps(store), req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(store.inserted))
	}

	saved := store.inserted[0]
	if saved.Title != "Go Blog" {
		t.Errorf("title not trimmed: %q", saved.Title)
	}
	if saved.URL != "https://go.dev/blog" {
		t.Errorf("url not normalized: %q", saved.URL)
	}
	if saved.UserID != "user-1" {
		t.Errorf("bookmark not owned by caller: %q", saved.UserID)
	}
	if saved.ID == "" {
		t.Error("bookmark has no id")
	}

	var got domain.Bookmark
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ID != saved.ID {
		t.Errorf("response id %q does not match stored id %q", got.ID, saved.ID)
	}
}

func TestCreateBookmarkValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty title", `{"title":"","url":"https://go.dev"}`},
		{"empty url", `{"title":"Go","url":""}`},
		{"whitespace only", `{"title":"   ","url":"  "}`},
		{"malformed json", `{"title":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeBookmarkStore{}

			req := httptest.NewRequest(http.MethodPost, "/api/bookmarks", strings.NewReader(tt.body))
			rec := serveBookmarks(testDeps(store), req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if len(store.inserted) != 0 {
				t.Errorf("store should not be called on invalid input")
			}
		})
	}
}

func TestCreateBookmarkStoreError(t *testing.T) {
	store := &fakeBookmarkStore{insertErr: errors.New("redis down")}

	body := strings.NewReader(`{"title":"Go","url":"https://go.dev"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/bookmarks", body)
	rec := serveBookmarks(testDeps(store), req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestDeleteBookmark(t *testing.T) {
	store := &fakeBookmarkStore{}

	req := httptest.NewRequest(http.MethodDelete, "/api/bookmarks/b1", nil)
	rec := serveBookmarks(testDeps(store), req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "b1" {
		t.Errorf("expected delete of b1, got %v", store.deleted)
	}
}

func TestDeleteBookmarkNotFound(t *testing.T) {
	store := &fakeBookmarkStore{deleteErr: redisstore.ErrNotFound}

	req := httptest.NewRequest(http.MethodDelete, "/api/bookmarks/missing", nil)
	rec := serveBookmarks(testDeps(store), req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteBookmarkStoreError(t *testing.T) {
	store := &fakeBookmarkStore{deleteErr: errors.New("redis down")}

	req := httptest.NewRequest(http.MethodDelete, "/api/bookmarks/b1", nil)
	rec := serveBookmarks(testDeps(store), req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
