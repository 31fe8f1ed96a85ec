package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// SeenSet implements domain.SeenSet with SET NX so scanners sharing a Redis
// notify each opportunity once across restarts.
type SeenSet struct {
	c   *Client
	ttl time.Duration
}

// NewSeenSet creates a SeenSet whose entries expire after ttl (0 = never).
func NewSeenSet(c *Client, ttl time.Duration) *SeenSet {
	return &SeenSet{c: c, ttl: ttl}
}

// MarkSeen reports true only for the first caller marking id.
func (s *SeenSet) MarkSeen(ctx context.Context, id string) (bool, error) {
	ok, err := s.c.rdb.SetNX(ctx, s.c.key("seen:"+id), 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis: mark seen %s: %w", id, err)
	}
	return ok, nil
}

var _ domain.SeenSet = (*SeenSet)(nil)
