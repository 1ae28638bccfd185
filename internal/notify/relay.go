package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/marqueapp/marque/internal/logger"
)

// Relay consumes the redis change channel and fans events out to the hub.
// One relay runs per process for the lifetime of the server.
type Relay struct {
	client *redis.Client
	hub    *Hub
	logger logger.Logger
	pubsub *redis.PubSub
	stopCh chan struct{}
}

// NewRelay creates a relay between the redis change channel and the hub.
func NewRelay(client *redis.Client, hub *Hub, log logger.Logger) *Relay {
	return &Relay{
		client: client,
		hub:    hub,
		logger: log,
		stopCh: make(chan struct{}),
	}
}

// Start subscribes to the change channel and begins forwarding events.
func (r *Relay) Start(ctx context.Context) error {
	r.pubsub = r.client.Subscribe(ctx, Channel)

	// Force the subscription handshake so a broken redis surfaces now
	// rather than on the first missed event.
	if _, err := r.pubsub.Receive(ctx); err != nil {
		return err
	}

	ch := r.pubsub.Channel()
	go func() {
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					r.logger.Warn("discarding malformed change event",
						logger.String("payload", msg.Payload),
						logger.Error(err))
					continue
				}
				r.logger.Debug("change event received",
					logger.String("table", event.Table),
					logger.String("action", event.Action),
					logger.String("id", event.ID))
				r.hub.Broadcast(event)
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop tears down the subscription and the forwarding goroutine.
func (r *Relay) Stop() {
	close(r.stopCh)
	if r.pubsub != nil {
		_ = r.pubsub.Close()
	}
}
