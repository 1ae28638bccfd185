package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/marqueapp/marque/internal/httpserver/deps"
	"github.com/marqueapp/marque/internal/httpserver/handlers"
	"github.com/marqueapp/marque/internal/httpserver/mw"
)

func init() { Register(registerPages) }

func registerPages(r chi.Router, d deps.Deps) {
	hostGuard := mw.EnforceHost(d.AllowedHosts, d.Logger)

	r.With(hostGuard).Get("/", handlers.Landing(d))
	r.With(hostGuard, mw.RequireSession(d.Sessions, d.Logger, "/")).Get("/dashboard", handlers.Dashboard(d))
	r.With(hostGuard).Handle("/static/*", handlers.Static())
}
