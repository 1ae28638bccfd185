package handlers

import (
	"bytes"
	"net/http"

	"github.com/marqueapp/marque/internal/auth"
	"github.com/marqueapp/marque/internal/httpserver/deps"
	"github.com/marqueapp/marque/internal/logger"
	"github.com/marqueapp/marque/web"
)

// Landing serves the login screen. An already-authenticated visitor is
// sent straight to the dashboard.
func Landing(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := d.Sessions.FromRequest(r.Context(), r); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}

		render(w, d, "landing.html", nil)
	}
}

type dashboardData struct {
	FirstName string
}

// Dashboard serves the bookmark screen. The session guard middleware has
// already redirected unauthenticated visitors, so the session is present
// in the context; data loading happens from the browser afterwards.
func Dashboard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := auth.FromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		render(w, d, "dashboard.html", dashboardData{
			FirstName: auth.FirstName(session.FullName),
		})
	}
}

// Static serves the embedded assets under /static/.
func Static() http.Handler {
	return http.StripPrefix("/static/", web.StaticHandler())
}

// render executes a template into a buffer first so a render failure
// yields a clean 500 instead of a half-written page.
func render(w http.ResponseWriter, d deps.Deps, name string, data any) {
	var buf bytes.Buffer
	if err := web.Templates.ExecuteTemplate(&buf, name, data); err != nil {
		d.Logger.Error("failed to render template",
			logger.String("template", name),
			logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
