package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Set sets a key-value pair in Redis. A zero ttl keeps the key forever.
func Set(ctx context.Context, client *redis.Client, key string, value interface{}, ttl time.Duration) error {
	return client.Set(ctx, key, value, ttl).Err()
}

// Get retrieves the value of a key. found is false when the key does not exist.
func Get(ctx context.Context, client *redis.Client, key string) (value []byte, found bool, err error) {
	value, err = client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Del deletes a key from Redis.
func Del(ctx context.Context, client *redis.Client, key string) error {
	return client.Del(ctx, key).Err()
}
