package s3blob

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// DefaultMultipartThreshold is the compressed size above which snapshots
// go through the multipart uploader.
const DefaultMultipartThreshold int64 = 8 * 1024 * 1024

// SnapshotArchiver implements domain.SnapshotArchiver. Snapshots are written
// as gzip-compressed JSON under <prefix>/YYYY/MM/DD/<run_id>.json.gz.
type SnapshotArchiver struct {
	writer domain.BlobWriter
	prefix string
	// SkipEmpty drops snapshots that carry no opportunities and no failures.
	SkipEmpty bool
	// MultipartThreshold switches to PutMultipart for larger payloads.
	MultipartThreshold int64
	// PartSize is passed to PutMultipart; the writer clamps it to the S3
	// minimum.
	PartSize int64
}

// NewSnapshotArchiver creates a SnapshotArchiver writing through w. An empty
// prefix uses "snapshots".
func NewSnapshotArchiver(w domain.BlobWriter, prefix string) *SnapshotArchiver {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "snapshots"
	}
	return &SnapshotArchiver{
		writer:             w,
		prefix:             prefix,
		MultipartThreshold: DefaultMultipartThreshold,
		PartSize:           MinPartSize,
	}
}

// SnapshotKey returns the object key for snap.
func (a *SnapshotArchiver) SnapshotKey(snap domain.CycleSnapshot) string {
	t := snap.StartedAt.UTC()
	return path.Join(a.prefix, t.Format("2006"), t.Format("01"), t.Format("02"), snap.RunID+".json.gz")
}

// Archive uploads snap and returns its key. A skipped snapshot returns an
// empty key and no error.
func (a *SnapshotArchiver) Archive(ctx context.Context, snap domain.CycleSnapshot) (string, error) {
	if a.SkipEmpty && len(snap.Opportunities) == 0 && len(snap.Failures) == 0 {
		return "", nil
	}
	if snap.RunID == "" {
		return "", fmt.Errorf("s3blob: archive snapshot: missing run id")
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if err := json.NewEncoder(gz).Encode(snap); err != nil {
		return "", fmt.Errorf("s3blob: encode snapshot %s: %w", snap.RunID, err)
	}
	if err := gz.Close(); err != nil {
		return "", fmt.Errorf("s3blob: compress snapshot %s: %w", snap.RunID, err)
	}

	key := a.SnapshotKey(snap)
	var err error
	if a.MultipartThreshold > 0 && int64(buf.Len()) > a.MultipartThreshold {
		err = a.writer.PutMultipart(ctx, key, &buf, snapshotContentType, a.PartSize)
	} else {
		err = a.writer.Put(ctx, key, &buf, snapshotContentType)
	}
	if err != nil {
		return "", fmt.Errorf("s3blob: archive snapshot %s: %w", snap.RunID, err)
	}
	return key, nil
}

const snapshotContentType = "application/gzip"

var _ domain.SnapshotArchiver = (*SnapshotArchiver)(nil)
