package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rudazy/warden-yield-agent/internal/state"
)

// Redis keys.
const (
	keyPoolSnapshot = "yields:pools"
	keyGasPrefix    = "gas:"
)

// Default snapshot lifetimes.
const (
	DefaultPoolTTL = 5 * time.Minute
	DefaultGasTTL  = 2 * time.Minute
)

// ErrNotFound means the snapshot is absent or expired.
var ErrNotFound = errors.New("snapshot not found")

// SnapshotStore caches enrichment data between requests: the mapped
// DefiLlama pool universe and per-chain gas estimates. Stages treat it as
// best-effort; a cold or unreachable cache just means a refetch.
type SnapshotStore struct {
	client redis.Cmdable
}

// NewSnapshotStore wraps a Redis client.
func NewSnapshotStore(client redis.Cmdable) (*SnapshotStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	return &SnapshotStore{client: client}, nil
}

// PutPools stores the opportunity universe with a TTL.
func (s *SnapshotStore) PutPools(ctx context.Context, pools []state.YieldOpportunity, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultPoolTTL
	}
	b, err := json.Marshal(pools)
	if err != nil {
		return fmt.Errorf("marshal pool snapshot: %w", err)
	}
	if err := s.client.Set(ctx, keyPoolSnapshot, b, ttl).Err(); err != nil {
		return fmt.Errorf("store pool snapshot: %w", err)
	}
	return nil
}

// GetPools loads the cached opportunity universe.
func (s *SnapshotStore) GetPools(ctx context.Context) ([]state.YieldOpportunity, error) {
	val, err := s.client.Get(ctx, keyPoolSnapshot).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pool snapshot: %w", err)
	}
	var pools []state.YieldOpportunity
	if err := json.Unmarshal([]byte(val), &pools); err != nil {
		return nil, fmt.Errorf("unmarshal pool snapshot: %w", err)
	}
	return pools, nil
}

// PutGas stores one chain's gas estimate with a TTL.
func (s *SnapshotStore) PutGas(ctx context.Context, est state.GasEstimate, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultGasTTL
	}
	b, err := json.Marshal(est)
	if err != nil {
		return fmt.Errorf("marshal gas estimate: %w", err)
	}
	if err := s.client.Set(ctx, gasKey(est.Chain), b, ttl).Err(); err != nil {
		return fmt.Errorf("store gas estimate: %w", err)
	}
	return nil
}

// GetGas loads the cached gas estimate for a chain key.
func (s *SnapshotStore) GetGas(ctx context.Context, chain string) (state.GasEstimate, error) {
	val, err := s.client.Get(ctx, gasKey(chain)).Result()
	if err == redis.Nil {
		return state.GasEstimate{}, ErrNotFound
	}
	if err != nil {
		return state.GasEstimate{}, fmt.Errorf("get gas estimate: %w", err)
	}
	var est state.GasEstimate
	if err := json.Unmarshal([]byte(val), &est); err != nil {
		return state.GasEstimate{}, fmt.Errorf("unmarshal gas estimate: %w", err)
	}
	return est, nil
}

func gasKey(chain string) string {
	return keyGasPrefix + chain
}
