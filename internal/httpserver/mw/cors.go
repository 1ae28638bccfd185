package mw

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows only the configured browser origins. The app is same-origin
// in production, so the list normally holds just the public base URL; dev
// setups add their local server origins through configuration.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
