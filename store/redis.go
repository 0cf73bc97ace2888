package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vidcheck/types"
)

// RunStore mirrors run records to Redis so restarts and sibling
// instances can serve run lookups. Records expire after the TTL.
type RunStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRunStore connects to Redis and verifies the connection
func NewRunStore(ctx context.Context, addr, password string, ttl time.Duration) (*RunStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RunStore{client: client, ttl: ttl}, nil
}

func runKey(runID string) string {
	return "vidcheck:run:" + runID
}

// Save writes a run record snapshot
func (s *RunStore) Save(ctx context.Context, record types.RunRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode run record: %w", err)
	}
	if err := s.client.Set(ctx, runKey(record.RunID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}
	return nil
}

// Get fetches a run record by id; the second return is false when the
// record does not exist or has expired.
func (s *RunStore) Get(ctx context.Context, runID string) (*types.RunRecord, bool, error) {
	payload, err := s.client.Get(ctx, runKey(runID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch run record: %w", err)
	}
	var record types.RunRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, false, fmt.Errorf("failed to decode run record: %w", err)
	}
	return &record, true, nil
}

func (s *RunStore) Close() error {
	return s.client.Close()
}
