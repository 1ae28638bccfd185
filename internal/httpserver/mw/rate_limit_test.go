package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marqueapp/marque/internal/auth"
)

func TestRateLimitBurstExhaustion(t *testing.T) {
	handler := RateLimit(RateLimitConfig{Burst: 2, RefillPerMinute: 1})(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/bookmarks", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/bookmarks", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 response missing Retry-After header")
	}
	if rec.Header().Get("X-RateLimit-Limit") != "2" {
		t.Errorf("expected X-RateLimit-Limit 2, got %q", rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimitKeyedByUser(t *testing.T) {
	handler := RateLimit(RateLimitConfig{Burst: 1, RefillPerMinute: 1})(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	// Two different users behind the same address each get their own bucket.
	for _, userID := range []string{"user-1", "user-2"} {
		req := httptest.NewRequest(http.MethodPost, "/api/bookmarks", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req = req.WithContext(auth.WithSession(req.Context(), &auth.Session{ID: "s", UserID: userID}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("user %s: expected 204, got %d", userID, rec.Code)
		}
	}

	// The same user hitting the exhausted bucket again is limited.
	req := httptest.NewRequest(http.MethodPost, "/api/bookmarks", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	req = req.WithContext(auth.WithSession(req.Context(), &auth.Session{ID: "s", UserID: "user-1"}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for exhausted user bucket, got %d", rec.Code)
	}
}
