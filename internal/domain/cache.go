package domain

import (
	"context"
	"time"
)

// SnapshotCache holds the most recent cycle for fast reads.
type SnapshotCache interface {
	SetLatest(ctx context.Context, snap CycleSnapshot) error
	GetLatest(ctx context.Context) (CycleSnapshot, error)
}

// SeenSet records ids that have already been acted on. MarkSeen reports
// true only the first time an id is marked.
type SeenSet interface {
	MarkSeen(ctx context.Context, id string) (bool, error)
}

// StreamMessage represents a single entry from a Redis stream.
type StreamMessage struct {
	ID      string
	Payload []byte
}

// SignalBus provides pub/sub and durable streams.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	StreamAppend(ctx context.Context, stream string, payload []byte) error
	StreamRead(ctx context.Context, stream string, lastID string, count int) ([]StreamMessage, error)
}

// LockManager provides distributed locking.
type LockManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}
