package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/marqueapp/marque/internal/httpserver/deps"
	"github.com/marqueapp/marque/internal/logger"
)

// heartbeatInterval keeps intermediaries from closing idle streams.
const heartbeatInterval = 25 * time.Second

// Events streams bookmark change notifications over Server-Sent Events.
// Every connected client gets every event; the browser reacts to any of
// them by re-fetching its own list.
func Events(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		sub := d.Hub.Subscribe()
		defer d.Hub.Unsubscribe(sub.ID)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		// Immediate comment line so the client sees the stream open.
		fmt.Fprint(w, ": connected\n\n")
		flusher.Flush()

		d.Logger.Debug("event stream opened", logger.String("subscriber_id", sub.ID))

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case <-r.Context().Done():
				d.Logger.Debug("event stream closed", logger.String("subscriber_id", sub.ID))
				return
			case <-heartbeat.C:
				fmt.Fprint(w, ": keepalive\n\n")
				flusher.Flush()
			case event, open := <-sub.C:
				if !open {
					return
				}
				payload, err := json.Marshal(event)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
				flusher.Flush()
			}
		}
	}
}
