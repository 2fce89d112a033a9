package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/encoding/json"
)

const keyPrefix = "session:"

// RedisStore keeps sessions in Redis, expiring them with the key TTL.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(addr, password string, db int) *RedisStore {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &RedisStore{client: redis.NewClient(opts)}
}

func sessionKey(id string) string {
	return keyPrefix + id
}

func (s *RedisStore) Create(ctx context.Context, userID string, ttl time.Duration) (*models.Session, error) {
	now := time.Now()
	session := &models.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := s.client.Set(ctx, sessionKey(session.ID), payload, ttl).Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	return session, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	session := &models.Session{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, errors.WithStack(err)
	}
	if session.IsExpired(time.Now()) {
		return nil, nil
	}
	return session, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return errors.WithStack(s.client.Del(ctx, sessionKey(id)).Err())
}

// Ping checks that Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return errors.WithStack(s.client.Ping(ctx).Err())
}

func (s *RedisStore) Close() error {
	return errors.WithStack(s.client.Close())
}
