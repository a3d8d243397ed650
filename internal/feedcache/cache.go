package feedcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/AnthoniusHendriyanto/social-core/internal/event"
	"github.com/AnthoniusHendriyanto/social-core/internal/post/domain"
)

const keyPrefix = "feed:"

// Cache is the derived feed view. It is purely an optimization in front of
// the feed computation: every entry is reconstructible, every write is a
// full overwrite or a full delete, so last-writer-wins is safe.
type Cache struct {
	client *goredis.Client
	ttl    time.Duration
}

func New(client *goredis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(userID string) string {
	return keyPrefix + userID
}

// Get returns the cached feed and whether the key was present.
func (c *Cache) Get(ctx context.Context, userID string) ([]domain.Post, bool, error) {
	val, err := c.client.Get(ctx, c.key(userID)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var posts []domain.Post
	if err := json.Unmarshal([]byte(val), &posts); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached feed: %w", err)
	}

	return posts, true, nil
}

func (c *Cache) Put(ctx context.Context, userID string, posts []domain.Post) error {
	data, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("failed to encode feed: %w", err)
	}

	return c.client.Set(ctx, c.key(userID), data, c.ttl).Err()
}

// Invalidate deletes the entry. Deleting an absent key is a no-op.
func (c *Cache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}

// HandlePostCreated is the event-driven invalidation: only the author's own
// key is dropped. Followers keep their cached feeds until TTL; that
// staleness is the accepted trade for hit rate.
func (c *Cache) HandlePostCreated(ctx context.Context, payload []byte) error {
	ev, err := event.DecodePostCreated(payload)
	if err != nil {
		return err
	}

	if err := c.Invalidate(ctx, ev.UserID); err != nil {
		return fmt.Errorf("failed to invalidate feed for %s: %w", ev.UserID, err)
	}

	log.Printf("feed cache invalidated for user %s", ev.UserID)

	return nil
}
