package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/marqueapp/marque/internal/httpserver/deps"
	"github.com/marqueapp/marque/internal/httpserver/handlers"
	"github.com/marqueapp/marque/internal/httpserver/mw"
)

func init() { Register(registerEvents) }

// No timeout middleware here: the event stream lives as long as the
// dashboard is open.
func registerEvents(r chi.Router, d deps.Deps) {
	r.With(
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.RequireSession(d.Sessions, d.Logger, ""),
	).Get("/api/events", handlers.Events(d))
}
