package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshStore remembers which refresh tokens are still live, keyed by jti.
type RefreshStore interface {
	Save(ctx context.Context, jti, subject string, ttl time.Duration) error
	// Take returns the subject and removes the entry, so a token can be used once.
	Take(ctx context.Context, jti string) (string, error)
	Delete(ctx context.Context, jti string) error
}

type RedisRefreshStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisRefreshStore(rdb *redis.Client) *RedisRefreshStore {
	return &RedisRefreshStore{rdb: rdb, prefix: "storefront:refresh:"}
}

func (s *RedisRefreshStore) key(jti string) string { return s.prefix + jti }

func (s *RedisRefreshStore) Save(ctx context.Context, jti, subject string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, s.key(jti), subject, ttl).Err(); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// Take returns ErrRefreshRevoked when the token was never stored, expired or was
// already used. GETDEL makes the read and the removal one step.
func (s *RedisRefreshStore) Take(ctx context.Context, jti string) (string, error) {
	sub, err := s.rdb.GetDel(ctx, s.key(jti)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrRefreshRevoked
	}
	if err != nil {
		return "", fmt.Errorf("take refresh token: %w", err)
	}
	return sub, nil
}

func (s *RedisRefreshStore) Delete(ctx context.Context, jti string) error {
	if err := s.rdb.Del(ctx, s.key(jti)).Err(); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}
