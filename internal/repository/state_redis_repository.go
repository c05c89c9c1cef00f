package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/pkg/cache"
)

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStateRepository stores envelopes as plain Redis strings without expiry.
type RedisStateRepository struct {
	client redisKV
	prefix string
}

// NewRedisStateRepository constructs a Redis-backed state repository.
func NewRedisStateRepository(client redisKV, prefix string) *RedisStateRepository {
	return &RedisStateRepository{client: client, prefix: prefix}
}

// Load fetches and decodes the blob of key.
func (r *RedisStateRepository) Load(ctx context.Context, key string) (*models.StateRecord, error) {
	raw, err := r.client.Get(ctx, r.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("redis get state %s: %w", key, err)
	}
	return decodeBlob(key, raw)
}

// Save overwrites the blob of rec.Key.
func (r *RedisStateRepository) Save(ctx context.Context, rec models.StateRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	data, err := encodeBlob(rec)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.redisKey(rec.Key), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set state %s: %w", rec.Key, err)
	}
	return nil
}

func (r *RedisStateRepository) redisKey(key string) string {
	return cache.Key(r.prefix, "state", key)
}
