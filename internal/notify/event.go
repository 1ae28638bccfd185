package notify

import "context"

// Channel is the redis Pub/Sub channel carrying bookmark table changes.
// Deliberately shared by all users: subscribers treat any event as a
// trigger to re-fetch their own set, never as a payload source.
const Channel = "marque:changes:bookmarks"

// Change actions.
const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Event describes one row-level change on the bookmarks table.
type Event struct {
	Table  string `json:"table"`
	Action string `json:"action"`
	ID     string `json:"id"`
}

// Publisher emits change events after successful mutations.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
