package feedcache_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/AnthoniusHendriyanto/social-core/internal/errors"
	"github.com/AnthoniusHendriyanto/social-core/internal/event"
	"github.com/AnthoniusHendriyanto/social-core/internal/feedcache"
	"github.com/AnthoniusHendriyanto/social-core/internal/post/domain"
)

func newCache(t *testing.T) (*feedcache.Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return feedcache.New(client, time.Hour), mr
}

func somePosts() []domain.Post {
	return []domain.Post{
		{ID: "p2", UserID: "b", Caption: "later", CreatedAt: time.Now().UTC().Truncate(time.Millisecond)},
		{ID: "p1", UserID: "a", Caption: "earlier", CreatedAt: time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)},
	}
}

func TestCache_RoundTrip(t *testing.T) {
	cache, _ := newCache(t)
	ctx := context.Background()
	posts := somePosts()

	_, ok, err := cache.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Put(ctx, "user-1", posts))

	got, ok, err := cache.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, posts, got)
}

func TestCache_Invalidate(t *testing.T) {
	cache, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "user-1", somePosts()))
	require.NoError(t, cache.Invalidate(ctx, "user-1"))

	_, ok, err := cache.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is a no-op.
	assert.NoError(t, cache.Invalidate(ctx, "user-1"))
}

func TestCache_TTLExpiry(t *testing.T) {
	cache, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "user-1", somePosts()))

	mr.FastForward(2 * time.Hour)

	_, ok, err := cache.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_HandlePostCreated(t *testing.T) {
	ctx := context.Background()

	t.Run("invalidates only the author's key", func(t *testing.T) {
		cache, _ := newCache(t)

		require.NoError(t, cache.Put(ctx, "author", somePosts()))
		require.NoError(t, cache.Put(ctx, "follower", somePosts()))

		payload, err := json.Marshal(event.PostCreated{UserID: "author", PostID: "p9", MediaURL: "u"})
		require.NoError(t, err)

		require.NoError(t, cache.HandlePostCreated(ctx, payload))

		_, ok, err := cache.Get(ctx, "author")
		require.NoError(t, err)
		assert.False(t, ok)

		// The follower's cached feed is deliberately left to age out.
		_, ok, err = cache.Get(ctx, "follower")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		cache, _ := newCache(t)

		err := cache.HandlePostCreated(ctx, []byte("{not json"))
		assert.ErrorIs(t, err, apperr.ErrInvalidPayload)

		err = cache.HandlePostCreated(ctx, []byte(`{"caption":"no ids"}`))
		assert.ErrorIs(t, err, apperr.ErrInvalidPayload)
	})
}
