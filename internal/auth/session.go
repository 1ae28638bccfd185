package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the name of the session cookie.
const CookieName = "marque_session"

var (
	// ErrNoSession is returned when the request carries no usable session.
	ErrNoSession = errors.New("no active session")
	// ErrSessionExpired is returned when the referenced session is past its
	// expiry even though the backing store still holds it.
	ErrSessionExpired = errors.New("session expired")
)

// Session is the authenticated identity context issued after a successful
// OAuth callback. It is checked on screen entry and on every API call.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore persists sessions server-side. Implemented by the redis
// store; fakes implement it in tests.
type SessionStore interface {
	SaveSession(ctx context.Context, session *Session, ttl time.Duration) error
	GetSession(ctx context.Context, id string) (*Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// claims is the payload of the signed session cookie. Only the session ID
// travels in the cookie; everything else stays server-side.
type claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager issues and resolves session cookies backed by a SessionStore.
type Manager struct {
	secret        []byte
	ttl           time.Duration
	store         SessionStore
	signingMethod jwt.SigningMethod
	secureCookies bool
}

// NewManager creates a session manager. secureCookies should be true when
// the public origin is served over HTTPS.
func NewManager(secret string, ttl time.Duration, store SessionStore, secureCookies bool) *Manager {
	return &Manager{
		secret:        []byte(secret),
		ttl:           ttl,
		store:         store,
		signingMethod: jwt.SigningMethodHS256,
		secureCookies: secureCookies,
	}
}

// Create persists a fresh session for the given profile.
func (m *Manager) Create(ctx context.Context, profile *Profile) (*Session, error) {
	now := time.Now()
	session := &Session{
		ID:        uuid.NewString(),
		UserID:    profile.ID,
		Email:     profile.Email,
		FullName:  profile.FullName,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.store.SaveSession(ctx, session, m.ttl); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// IssueCookie writes the signed session cookie for an existing session.
func (m *Manager) IssueCookie(w http.ResponseWriter, session *Session) error {
	token := jwt.NewWithClaims(m.signingMethod, claims{
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			Issuer:    "marque",
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("failed to sign session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   m.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// FromRequest resolves the session referenced by the request's cookie.
// Resolution is idempotent and side-effect-free: no session is ever
// created or refreshed here.
func (m *Manager) FromRequest(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrNoSession
	}

	sid, err := m.parseToken(cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	session, err := m.store.GetSession(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, ErrSessionExpired
	}
	return session, nil
}

// Destroy terminates the request's session (if any) and expires the
// cookie. The cookie is expired even when the store delete fails, so a
// logout always signs the browser out.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	session, err := m.FromRequest(ctx, r)

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	if err == nil {
		if delErr := m.store.DeleteSession(ctx, session.ID); delErr != nil {
			return fmt.Errorf("failed to delete session: %w", delErr)
		}
	}
	return nil
}

func (m *Manager) parseToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != m.signingMethod {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method)
		}
		return m.secret, nil
	})
	if err != nil {
		return "", err
	}

	if c, ok := token.Claims.(*claims); ok && token.Valid {
		return c.SessionID, nil
	}
	return "", errors.New("invalid session token")
}

// FirstName extracts the greeting name from a profile's full name: the
// first whitespace-separated token, or "" when the name is absent.
func FirstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

type contextKey struct{}

// WithSession returns a context carrying the session.
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, session)
}

// FromContext returns the session stored by WithSession, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(contextKey{}).(*Session)
	return session, ok
}
