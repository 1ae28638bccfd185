package seed

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/marqueapp/marque/internal/domain"
)

// Mapper converts seed file entries to domain bookmarks owned by a
// designated user.
type Mapper struct {
	userID string
}

// NewMapper creates a mapper binding imported bookmarks to userID.
func NewMapper(userID string) *Mapper {
	return &Mapper{userID: userID}
}

// Map converts a seed File to domain bookmarks. Entries without an href
// are skipped; titles fall back to the href. IDs are derived from the
// owner and URL so re-importing the same file stays idempotent.
func (m *Mapper) Map(file File) ([]*domain.Bookmark, error) {
	bookmarks := make([]*domain.Bookmark, 0)
	now := time.Now()

	for _, category := range file {
		for _, entries := range category {
			for _, entry := range entries {
				if entry.Href == "" {
					continue
				}

				title := entry.Title
				if title == "" {
					title = entry.Href
				}

				url := domain.NormalizeURL(entry.Href)
				bookmarks = append(bookmarks, &domain.Bookmark{
					ID:        seedBookmarkID(m.userID, url),
					UserID:    m.userID,
					Title:     title,
					URL:       url,
					CreatedAt: now,
				})
			}
		}
	}

	if len(bookmarks) == 0 {
		return nil, fmt.Errorf("no valid bookmarks found in seed file")
	}

	return bookmarks, nil
}

// seedBookmarkID creates a stable ID from the owner and URL so the same
// seed entry always maps to the same row.
func seedBookmarkID(userID, url string) string {
	hash := sha256.Sum256([]byte(userID + "|" + url))
	return hex.EncodeToString(hash[:])[:16]
}
