package redis

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/marqueapp/marque/internal/notify"
)

// ErrNotFound is returned when a requested row does not exist or is not
// owned by the caller.
var ErrNotFound = errors.New("not found")

// Store handles Redis operations for bookmarks and sessions.
type Store struct {
	client *redis.Client
	feed   notify.Publisher
}

// NewStore creates a new Redis store. feed may be nil; change events are
// then skipped (useful for one-shot tooling like the seed import).
func NewStore(client *redis.Client, feed notify.Publisher) *Store {
	return &Store{
		client: client,
		feed:   feed,
	}
}
