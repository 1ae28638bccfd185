package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/marqueapp/marque/internal/httpserver/deps"
	"github.com/marqueapp/marque/internal/logger"
)

type readyzResponse struct {
	Ready bool `json:"ready"`
}

// Readyz reports whether the service can reach Redis. Not ready means a
// load balancer should keep traffic away until the ping succeeds again.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		ready := true
		if err := d.RedisClient.Ping(ctx).Err(); err != nil {
			d.Logger.Warn("readiness ping failed", logger.Error(err))
			ready = false
		}

		w.Header().Set("Content-Type", "application/json")
		if ready {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(readyzResponse{Ready: ready})
	}
}
