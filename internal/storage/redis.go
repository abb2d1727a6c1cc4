package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pricewatch/internal/domain"
)

// RedisStore mirrors sink documents into Redis and holds the job status
// records backing the async scrape acknowledgement contract.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisStore{client: rdb}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Put stores a named JSON document under doc:{name}.
func (s *RedisStore) Put(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", name, err)
	}
	return s.client.Set(ctx, "doc:"+name, data, 0).Err()
}

// Get reads a named document into out.
func (s *RedisStore) Get(ctx context.Context, name string, out any) error {
	data, err := s.client.Get(ctx, "doc:"+name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, name)
		}
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode document %s: %w", name, err)
	}
	return nil
}

// SetJob writes a job status record with a TTL so finished jobs age out.
func (s *RedisStore) SetJob(ctx context.Context, status *domain.JobStatus, ttl time.Duration) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshal job %s: %w", status.ID, err)
	}
	return s.client.Set(ctx, "job:"+status.ID, data, ttl).Err()
}

// GetJob reads a job status record by id.
func (s *RedisStore) GetJob(ctx context.Context, id string) (*domain.JobStatus, error) {
	data, err := s.client.Get(ctx, "job:"+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, id)
		}
		return nil, err
	}
	var status domain.JobStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &status, nil
}
