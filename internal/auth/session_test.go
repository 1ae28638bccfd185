package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeSessionStore keeps sessions in a map.
type fakeSessionStore struct {
	sessions  map[string]*Session
	deleteErr error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*Session)}
}

func (f *fakeSessionStore) SaveSession(_ context.Context, session *Session, _ time.Duration) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionStore) GetSession(_ context.Context, id string) (*Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return session, nil
}

func (f *fakeSessionStore) DeleteSession(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.sessions, id)
	return nil
}

func issueRequestWithCookie(t *testing.T, m *Manager, session *Session) *http.Request {
	t.Helper()

	rec := httptest.NewRecorder()
	if err := m.IssueCookie(rec, session); err != nil {
		t.Fatalf("IssueCookie() error = %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("IssueCookie() set %d cookies, want 1", len(cookies))
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookies[0])
	return req
}

func TestManagerRoundTrip(t *testing.T) {
	store := newFakeSessionStore()
	m := NewManager("test-secret", time.Hour, store, false)

	session, err := m.Create(context.Background(), &Profile{
		ID:       "user-1",
		Email:    "jo@example.com",
		FullName: "Jo Example",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	req := issueRequestWithCookie(t, m, session)

	got, err := m.FromRequest(context.Background(), req)
	if err != nil {
		t.Fatalf("FromRequest() error = %v", err)
	}
	if got.UserID != "user-1" {
		t.Errorf("FromRequest() UserID = %q, want user-1", got.UserID)
	}
	if got.FullName != "Jo Example" {
		t.Errorf("FromRequest() FullName = %q, want Jo Example", got.FullName)
	}
}

func TestFromRequestWithoutCookie(t *testing.T) {
	m := NewManager("test-secret", time.Hour, newFakeSessionStore(), false)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	if _, err := m.FromRequest(context.Background(), req); err == nil {
		t.Error("FromRequest() without cookie should fail")
	}
}

func TestFromRequestRejectsForgedToken(t *testing.T) {
	store := newFakeSessionStore()
	m := NewManager("test-secret", time.Hour, store, false)

	session, err := m.Create(context.Background(), &Profile{ID: "user-1"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Sign the cookie with a different secret
	forger := NewManager("other-secret", time.Hour, store, false)
	req := issueRequestWithCookie(t, forger, session)

	if _, err := m.FromRequest(context.Background(), req); err == nil {
		t.Error("FromRequest() should reject a token signed with another secret")
	}
}

func TestFromRequestExpiredSession(t *testing.T) {
	store := newFakeSessionStore()
	m := NewManager("test-secret", time.Hour, store, false)

	session := &Session{
		ID:        "expired",
		UserID:    "user-1",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(time.Minute), // valid for signing
	}
	if err := store.SaveSession(context.Background(), session, time.Hour); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	req := issueRequestWithCookie(t, m, session)

	// Expire the stored session after the cookie was minted
	session.ExpiresAt = time.Now().Add(-time.Minute)

	if _, err := m.FromRequest(context.Background(), req); err == nil {
		t.Error("FromRequest() should reject an expired session")
	}
}

func TestDestroy(t *testing.T) {
	store := newFakeSessionStore()
	m := NewManager("test-secret", time.Hour, store, false)

	session, err := m.Create(context.Background(), &Profile{ID: "user-1"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	req := issueRequestWithCookie(t, m, session)
	rec := httptest.NewRecorder()

	if err := m.Destroy(context.Background(), rec, req); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}

	if _, ok := store.sessions[session.ID]; ok {
		t.Error("Destroy() should delete the stored session")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Error("Destroy() should expire the session cookie")
	}
}

func TestDestroyExpiresCookieOnStoreError(t *testing.T) {
	store := newFakeSessionStore()
	m := NewManager("test-secret", time.Hour, store, false)

	session, err := m.Create(context.Background(), &Profile{ID: "user-1"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	store.deleteErr = fmt.Errorf("redis unavailable")

	req := issueRequestWithCookie(t, m, session)
	rec := httptest.NewRecorder()

	if err := m.Destroy(context.Background(), rec, req); err == nil {
		t.Error("Destroy() should report the store failure")
	}

	// Even then the browser must end up signed out.
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Error("Destroy() should expire the session cookie despite the store failure")
	}
}

func TestFirstName(t *testing.T) {
	tests := []struct {
		name string
		full string
		want string
	}{
		{name: "two tokens", full: "Ada Lovelace", want: "Ada"},
		{name: "single token", full: "Ada", want: "Ada"},
		{name: "empty", full: "", want: ""},
		{name: "whitespace only", full: "   ", want: ""},
		{name: "extra spaces", full: "  Ada   Lovelace ", want: "Ada"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstName(tt.full); got != tt.want {
				t.Errorf("FirstName(%q) = %q, want %q", tt.full, got, tt.want)
			}
		})
	}
}
