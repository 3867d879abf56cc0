package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/octabyte/prediction-portal/db/redis"
	"github.com/octabyte/prediction-portal/models"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

type redisStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewRedisStore keeps each session as a JSON string that expires ttl after its last save.
func NewRedisStore(client *goredis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func (r *redisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	raw, found, err := redis.Get(ctx, r.client, keyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}

	var s models.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	s.ID = id
	return &s, nil
}

func (r *redisStore) Save(ctx context.Context, s *models.Session) error {
	if s.ID == "" {
		return errors.New("session id is required")
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := redis.Set(ctx, r.client, keyPrefix+s.ID, raw, r.ttl); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (r *redisStore) Delete(ctx context.Context, id string) error {
	if err := redis.Del(ctx, r.client, keyPrefix+id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
