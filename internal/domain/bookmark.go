package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Bookmark represents a single saved link owned by exactly one user.
//
// It is the canonical record shape exchanged between the store, the HTTP
// API and the dashboard. The store is the only writer of ID and CreatedAt.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier, assigned at creation.
	ID string `json:"id"`

	// UserID is the owning user's identity. Set from the session at
	// creation time, never client-supplied.
	UserID string `json:"user_id"`

	// ─────────────────────────────
	// User-supplied content
	// ─────────────────────────────

	// Title is the display string. Must be non-empty.
	Title string `json:"title"`

	// URL is the saved link, scheme-normalized before storage.
	URL string `json:"url"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is assigned at creation and drives the default
	// newest-first ordering.
	CreatedAt time.Time `json:"created_at"`
}

// New builds a bookmark for the given owner with a fresh ID, a normalized
// URL and the current time as creation timestamp.
func New(title, rawURL, userID string) *Bookmark {
	return &Bookmark{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		URL:       NormalizeURL(rawURL),
		CreatedAt: time.Now(),
	}
}

// NormalizeURL prepends "https://" when the URL lacks a recognized scheme
// prefix. URLs that already start with "http" (http:// or https://) are
// stored unchanged.
func NormalizeURL(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		return "https://" + rawURL
	}
	return rawURL
}

// Filter returns the subset of bookmarks whose title or URL contains the
// query, case-insensitively. An empty query returns the input unchanged.
// Relative ordering is preserved.
func Filter(bookmarks []*Bookmark, query string) []*Bookmark {
	if query == "" {
		return bookmarks
	}

	q := strings.ToLower(query)
	matched := make([]*Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.URL), q) {
			matched = append(matched, b)
		}
	}
	return matched
}
