package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Feed publishes change events over redis Pub/Sub.
type Feed struct {
	client *redis.Client
}

// NewFeed creates a redis-backed change feed publisher.
func NewFeed(client *redis.Client) *Feed {
	return &Feed{client: client}
}

// Publish emits one event on the shared change channel.
func (f *Feed) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	if err := f.client.Publish(ctx, Channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}
