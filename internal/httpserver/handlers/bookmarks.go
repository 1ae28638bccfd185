package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/marqueapp/marque/internal/auth"
	"github.com/marqueapp/marque/internal/domain"
	"github.com/marqueapp/marque/internal/httpserver/deps"
	"github.com/marqueapp/marque/internal/logger"
	redisstore "github.com/marqueapp/marque/internal/store/redis"
)

type createBookmarkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ListBookmarks returns the caller's bookmarks, newest first. An optional
// `q` applies the same case-insensitive title-or-URL filter the dashboard
// applies locally.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := auth.FromContext(r.Context())

		bookmarks, err := d.Bookmarks.ListByUser(r.Context(), session.UserID)
		if err != nil {
			// Logged but not surfaced: the dashboard keeps showing its
			// previous list on a failed fetch.
			d.Logger.Error("failed to list bookmarks",
				logger.String("user_id", session.UserID),
				logger.Error(err))
			respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load bookmarks"})
			return
		}

		if q := r.URL.Query().Get("q"); q != "" {
			bookmarks = domain.Filter(bookmarks, q)
		}

		respondJSON(w, http.StatusOK, bookmarks)
	}
}

// CreateBookmark validates, normalizes and stores a new bookmark for the
// caller. The dashboard does not wait for this response; the change event
// triggers its next fetch.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := auth.FromContext(r.Context())

		var req createBookmarkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		title := strings.TrimSpace(req.Title)
		rawURL := strings.TrimSpace(req.URL)
		if title == "" || rawURL == "" {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "title and url are required"})
			return
		}

		bookmark := domain.New(title, rawURL, session.UserID)
		if err := d.Bookmarks.Insert(r.Context(), bookmark); err != nil {
			d.Logger.Error("failed to insert bookmark",
				logger.String("user_id", session.UserID),
				logger.Error(err))
			respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to save bookmark"})
			return
		}

		respondJSON(w, http.StatusCreated, bookmark)
	}
}

// DeleteBookmark removes one of the caller's bookmarks. The dashboard
// removes the row optimistically on 204 and leaves its list unchanged on
// any other status.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := auth.FromContext(r.Context())
		id := chi.URLParam(r, "id")

		if err := d.Bookmarks.Delete(r.Context(), id, session.UserID); err != nil {
			if errors.Is(err, redisstore.ErrNotFound) {
				respondJSON(w, http.StatusNotFound, errorResponse{Error: "bookmark not found"})
				return
			}
			d.Logger.Error("failed to delete bookmark",
				logger.String("user_id", session.UserID),
				logger.String("bookmark_id", id),
				logger.Error(err))
			respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to delete bookmark"})
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
