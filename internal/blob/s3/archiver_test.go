package s3blob

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

type memWriter struct {
	objects   map[string][]byte
	types     map[string]string
	multipart map[string]int64
	err       error
}

func (m *memWriter) Put(_ context.Context, p string, data io.Reader, contentType string) error {
	if m.err != nil {
		return m.err
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if m.objects == nil {
		m.objects, m.types = map[string][]byte{}, map[string]string{}
	}
	m.objects[p] = b
	m.types[p] = contentType
	return nil
}

func (m *memWriter) PutMultipart(ctx context.Context, p string, data io.Reader, contentType string, partSize int64) error {
	if err := m.Put(ctx, p, data, contentType); err != nil {
		return err
	}
	if m.multipart == nil {
		m.multipart = map[string]int64{}
	}
	m.multipart[p] = partSize
	return nil
}

func sampleSnapshot() domain.CycleSnapshot {
	return domain.CycleSnapshot{
		RunID:         "8a2f",
		StartedAt:     time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC),
		MatchedPairs:  3,
		Opportunities: []domain.Opportunity{{ID: "opp-1", ProfitMarginPercent: 1.5}},
	}
}

func TestSnapshotArchiver_WritesGzipJSON(t *testing.T) {
	w := &memWriter{}
	a := NewSnapshotArchiver(w, "/arb/")

	key, err := a.Archive(context.Background(), sampleSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "arb/2026/10/18/8a2f.json.gz", key)
	assert.Equal(t, "application/gzip", w.types[key])

	gz, err := gzip.NewReader(bytes.NewReader(w.objects[key]))
	require.NoError(t, err)
	var got domain.CycleSnapshot
	require.NoError(t, json.NewDecoder(gz).Decode(&got))
	assert.Equal(t, "8a2f", got.RunID)
	require.Len(t, got.Opportunities, 1)
	assert.Equal(t, "opp-1", got.Opportunities[0].ID)
}

func TestSnapshotArchiver_LargeSnapshotUsesMultipart(t *testing.T) {
	w := &memWriter{}
	a := NewSnapshotArchiver(w, "")
	a.MultipartThreshold = 16

	key, err := a.Archive(context.Background(), sampleSnapshot())
	require.NoError(t, err)
	require.Contains(t, w.multipart, key)
	assert.Equal(t, MinPartSize, w.multipart[key])
	assert.Equal(t, "application/gzip", w.types[key])

	small := &memWriter{}
	_, err = NewSnapshotArchiver(small, "").Archive(context.Background(), sampleSnapshot())
	require.NoError(t, err)
	assert.Empty(t, small.multipart)
	assert.Len(t, small.objects, 1)
}

func TestSnapshotArchiver_DefaultPrefixAndSkipEmpty(t *testing.T) {
	w := &memWriter{}
	a := NewSnapshotArchiver(w, "")
	a.SkipEmpty = true

	empty := sampleSnapshot()
	empty.Opportunities = nil
	key, err := a.Archive(context.Background(), empty)
	require.NoError(t, err)
	assert.Empty(t, key)
	assert.Empty(t, w.objects)

	assert.Equal(t, "snapshots/2026/10/18/8a2f.json.gz", a.SnapshotKey(sampleSnapshot()))
}

func TestSnapshotArchiver_WriterError(t *testing.T) {
	a := NewSnapshotArchiver(&memWriter{err: errors.New("denied")}, "")
	_, err := a.Archive(context.Background(), sampleSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}

func TestNormaliseEndpoint(t *testing.T) {
	assert.Equal(t, "http://localhost:9000", normaliseEndpoint("http://localhost:9000", true))
	assert.Equal(t, "https://e2.example.com", normaliseEndpoint("e2.example.com", true))
	assert.Equal(t, "http://minio:9000", normaliseEndpoint("minio:9000", false))
}
