package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

const latestSnapshotKey = "snapshot:latest"

// SnapshotCache implements domain.SnapshotCache as a single JSON string key
// with a TTL, so a stale scanner stops serving old opportunities.
type SnapshotCache struct {
	c   *Client
	ttl time.Duration
}

// NewSnapshotCache creates a SnapshotCache. ttl <= 0 keeps entries forever.
func NewSnapshotCache(c *Client, ttl time.Duration) *SnapshotCache {
	if ttl < 0 {
		ttl = 0
	}
	return &SnapshotCache{c: c, ttl: ttl}
}

// SetLatest replaces the cached snapshot.
func (sc *SnapshotCache) SetLatest(ctx context.Context, snap domain.CycleSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redis: marshal snapshot %s: %w", snap.RunID, err)
	}
	if err := sc.c.rdb.Set(ctx, sc.c.key(latestSnapshotKey), data, sc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set snapshot %s: %w", snap.RunID, err)
	}
	return nil
}

// GetLatest returns the cached snapshot or domain.ErrNotFound.
func (sc *SnapshotCache) GetLatest(ctx context.Context) (domain.CycleSnapshot, error) {
	data, err := sc.c.rdb.Get(ctx, sc.c.key(latestSnapshotKey)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.CycleSnapshot{}, domain.ErrNotFound
		}
		return domain.CycleSnapshot{}, fmt.Errorf("redis: get snapshot: %w", err)
	}

	var snap domain.CycleSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.CycleSnapshot{}, fmt.Errorf("redis: unmarshal snapshot: %w", err)
	}
	return snap, nil
}

var _ domain.SnapshotCache = (*SnapshotCache)(nil)
