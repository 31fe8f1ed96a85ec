package domain

import (
	"context"
	"io"
)

// BlobWriter uploads data to object storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
	PutMultipart(ctx context.Context, path string, data io.Reader, contentType string, partSize int64) error
}

// SnapshotArchiver writes cycle snapshots to cold storage.
type SnapshotArchiver interface {
	Archive(ctx context.Context, snap CycleSnapshot) (string, error)
}
