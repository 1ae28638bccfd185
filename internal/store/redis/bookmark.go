package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/marqueapp/marque/internal/domain"
	"github.com/marqueapp/marque/internal/notify"
)

// Insert stores a bookmark and adds it to the owner's ordered set.
// A change event is emitted on success.
func (s *Store) Insert(ctx context.Context, bookmark *domain.Bookmark) error {
	data, err := json.Marshal(bookmark)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, BookmarkKey(bookmark.ID), data, 0)
	pipe.ZAdd(ctx, UserBookmarksKey(bookmark.UserID), redis.Z{
		Score:  float64(bookmark.CreatedAt.UnixNano()),
		Member: bookmark.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}

	s.publish(ctx, notify.ActionInsert, bookmark.ID)
	return nil
}

// GetBookmark retrieves a bookmark row by ID.
func (s *Store) GetBookmark(ctx context.Context, id string) (*domain.Bookmark, error) {
	data, err := s.client.Get(ctx, BookmarkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("bookmark %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}

	var bookmark domain.Bookmark
	if err := json.Unmarshal(data, &bookmark); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}

	return &bookmark, nil
}

// ListByUser retrieves all of a user's bookmarks, newest first. The
// per-user set is scored by creation time, so a reverse range yields
// created_at-descending order without a sort.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	ids, err := s.client.ZRevRange(ctx, UserBookmarksKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark IDs: %w", err)
	}

	bookmarks := make([]*domain.Bookmark, 0, len(ids))
	for _, id := range ids {
		bookmark, err := s.GetBookmark(ctx, id)
		if err != nil {
			// A row removed between the range and the get is fine to
			// skip; anything else must fail the whole fetch so callers
			// never mistake a partial list for the authoritative set.
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		bookmarks = append(bookmarks, bookmark)
	}

	return bookmarks, nil
}

// Delete removes a bookmark by ID, scoped to the caller's rows. Deleting
// a row owned by someone else reports ErrNotFound. A change event is
// emitted on success.
func (s *Store) Delete(ctx context.Context, id, userID string) error {
	bookmark, err := s.GetBookmark(ctx, id)
	if err != nil {
		return err
	}
	if bookmark.UserID != userID {
		return fmt.Errorf("bookmark %s: %w", id, ErrNotFound)
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, BookmarkKey(id))
	pipe.ZRem(ctx, UserBookmarksKey(userID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	s.publish(ctx, notify.ActionDelete, id)
	return nil
}

// InsertMany stores multiple bookmarks in one pipeline (bulk seed import).
// No change events are emitted; importing happens before any subscriber
// exists.
func (s *Store) InsertMany(ctx context.Context, bookmarks []*domain.Bookmark) error {
	pipe := s.client.Pipeline()

	for _, bookmark := range bookmarks {
		data, err := json.Marshal(bookmark)
		if err != nil {
			return fmt.Errorf("failed to marshal bookmark %s: %w", bookmark.ID, err)
		}

		pipe.Set(ctx, BookmarkKey(bookmark.ID), data, 0)
		pipe.ZAdd(ctx, UserBookmarksKey(bookmark.UserID), redis.Z{
			Score:  float64(bookmark.CreatedAt.UnixNano()),
			Member: bookmark.ID,
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save bookmarks: %w", err)
	}

	return nil
}

// publish emits a change event, best effort. Mutations must not fail
// because the feed is unavailable.
func (s *Store) publish(ctx context.Context, action, id string) {
	if s.feed == nil {
		return
	}
	_ = s.feed.Publish(ctx, notify.Event{
		Table:  "bookmarks",
		Action: action,
		ID:     id,
	})
}
