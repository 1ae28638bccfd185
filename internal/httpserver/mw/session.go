package mw

import (
	"net/http"

	"github.com/marqueapp/marque/internal/auth"
	"github.com/marqueapp/marque/internal/logger"
)

// RequireSession resolves the session cookie before the handler runs and
// stores the session in the request context. Without a valid session the
// request is redirected to redirectTo (screen routes), or answered with a
// 401 when redirectTo is empty (API routes). The check happens once on
// entry; a session expiring mid-visit is only noticed by the next request.
func RequireSession(sessions *auth.Manager, log logger.Logger, redirectTo string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := sessions.FromRequest(r.Context(), r)
			if err != nil {
				log.Debug("request without valid session",
					logger.String("path", r.URL.Path),
					logger.Error(err))

				if redirectTo != "" {
					http.Redirect(w, r, redirectTo, http.StatusFound)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"authentication required"}`))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
		})
	}
}
