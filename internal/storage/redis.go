package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/recipe-parser/internal/domain"
	"github.com/user/recipe-parser/pkg/utils"
)

const statusKeyPrefix = "extraction:status:"

// RedisStore keeps the last extraction outcome per URL. It is diagnostic only;
// extractions never read from it.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) statusKey(url string) string {
	return statusKeyPrefix + utils.HashURL(url)
}

// RecordStatus overwrites the stored outcome for status.URL and refreshes its TTL.
func (s *RedisStore) RecordStatus(ctx context.Context, status *domain.ExtractionStatus) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	return s.client.Set(ctx, s.statusKey(status.URL), payload, s.ttl).Err()
}

// GetStatus returns domain.ErrNotFound when no outcome is recorded for url.
func (s *RedisStore) GetStatus(ctx context.Context, url string) (*domain.ExtractionStatus, error) {
	payload, err := s.client.Get(ctx, s.statusKey(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}
	var status domain.ExtractionStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &status, nil
}
