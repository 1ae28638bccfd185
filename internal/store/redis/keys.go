package redis

const (
	// KeyPrefixBookmark is the prefix for bookmark row keys
	KeyPrefixBookmark = "marque:bookmark:"
	// KeyPrefixUserBookmarks is the prefix for the per-user ordered ID set
	KeyPrefixUserBookmarks = "marque:user:"
	// KeyPrefixSession is the prefix for session keys
	KeyPrefixSession = "marque:session:"
)

// BookmarkKey returns the Redis key for a bookmark row by ID
func BookmarkKey(id string) string {
	return KeyPrefixBookmark + id
}

// UserBookmarksKey returns the Redis key for a user's ordered bookmark set
func UserBookmarksKey(userID string) string {
	return KeyPrefixUserBookmarks + userID + ":bookmarks"
}

// SessionKey returns the Redis key for a session by ID
func SessionKey(id string) string {
	return KeyPrefixSession + id
}
