package session

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// replaceScript swaps the stored refresh token only when the caller still
// holds the current one, resetting the expiry to a full TTL.
var replaceScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("SET", KEYS[1], ARGV[2], "EX", ARGV[3])
	return 1
end
return 0
`)

type RedisStore struct {
	client *goredis.Client
}

func NewRedisStore(client *goredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) key(userID string) string {
	return keyPrefix + userID
}

func (s *RedisStore) Put(ctx context.Context, userID, refreshToken string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(userID), refreshToken, ttl).Err()
}

// Get returns "" with no error when the user has no live session.
func (s *RedisStore) Get(ctx context.Context, userID string) (string, error) {
	val, err := s.client.Get(ctx, s.key(userID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return val, nil
}

func (s *RedisStore) Replace(ctx context.Context, userID, current, next string, ttl time.Duration) (bool, error) {
	seconds := int(ttl.Seconds())
	if seconds < 1 {
		seconds = 1
	}

	swapped, err := replaceScript.Run(ctx, s.client, []string{s.key(userID)}, current, next, seconds).Int()
	if err != nil {
		return false, err
	}

	return swapped == 1, nil
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, s.key(userID)).Err()
}
