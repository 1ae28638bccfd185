package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/marqueapp/marque/internal/httpserver/deps"
	"github.com/marqueapp/marque/internal/logger"
)

// stateCookieName carries the OAuth state between login and callback.
const stateCookieName = "marque_oauth_state"

// Login hands the visitor off to the identity provider.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := uuid.NewString()

		http.SetCookie(w, &http.Cookie{
			Name:     stateCookieName,
			Value:    state,
			Path:     "/auth",
			MaxAge:   int((5 * time.Minute).Seconds()),
			HttpOnly: true,
			Secure:   d.SecureCookies,
			SameSite: http.SameSiteLaxMode,
		})

		http.Redirect(w, r, d.OAuth.LoginURL(state), http.StatusFound)
	}
}

// Callback completes the handoff: state check, code exchange, session
// creation, then on to the dashboard. Every failure path lands back on
// the landing screen.
func Callback(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		clearStateCookie(w, d.SecureCookies)

		stateCookie, err := r.Cookie(stateCookieName)
		if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
			d.Logger.Warn("oauth callback with missing or mismatched state")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			d.Logger.Warn("oauth callback without code",
				logger.String("error", r.URL.Query().Get("error")))
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		profile, err := d.OAuth.Exchange(ctx, code)
		if err != nil {
			d.Logger.Error("oauth code exchange failed", logger.Error(err))
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		session, err := d.Sessions.Create(ctx, profile)
		if err != nil {
			d.Logger.Error("failed to create session", logger.Error(err))
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		if err := d.Sessions.IssueCookie(w, session); err != nil {
			d.Logger.Error("failed to issue session cookie", logger.Error(err))
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		d.Logger.Info("user signed in",
			logger.String("user_id", session.UserID))
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	}
}

// Logout terminates the session and returns to the landing screen.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Sessions.Destroy(r.Context(), w, r); err != nil {
			d.Logger.Warn("failed to destroy session", logger.Error(err))
		}
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func clearStateCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
