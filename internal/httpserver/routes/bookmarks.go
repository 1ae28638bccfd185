package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marqueapp/marque/internal/httpserver/deps"
	"github.com/marqueapp/marque/internal/httpserver/handlers"
	"github.com/marqueapp/marque/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	rateLimit := mw.RateLimit(mw.RateLimitConfig{
		Burst:           d.RateBurst,
		RefillPerMinute: d.RateRefill,
		TrustProxy:      d.TrustProxy,
	})

	r.With(
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		middleware.Timeout(10*time.Second),
		mw.RequireSession(d.Sessions, d.Logger, ""),
	).Route("/api/bookmarks", func(r chi.Router) {
		r.Get("/", handlers.ListBookmarks(d))
		r.With(rateLimit).Post("/", handlers.CreateBookmark(d))
		r.With(rateLimit).Delete("/{id}", handlers.DeleteBookmark(d))
	})
}
