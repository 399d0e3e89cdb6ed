package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps refresh tokens in Redis under refresh:<token>,
// expiring with the token's TTL.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Save(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	return s.client.Set(ctx, "refresh:"+token, strconv.FormatInt(userID, 10), ttl).Err()
}

func (s *RedisSessionStore) Lookup(ctx context.Context, token string) (int64, error) {
	val, err := s.client.Get(ctx, "refresh:"+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, "refresh:"+token).Err()
}
