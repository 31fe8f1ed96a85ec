package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := New(context.Background(), ClientConfig{Addr: mr.Addr(), KeyPrefix: "test:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestSnapshotCache_RoundTripAndExpiry(t *testing.T) {
	c, mr := newTestClient(t)
	cache := NewSnapshotCache(c, time.Minute)
	ctx := context.Background()

	_, err := cache.GetLatest(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	snap := domain.CycleSnapshot{
		RunID:         "run-1",
		MatchedPairs:  2,
		Opportunities: []domain.Opportunity{{ID: "o1", ProfitMarginPercent: 4.5}},
	}
	require.NoError(t, cache.SetLatest(ctx, snap))
	assert.True(t, mr.Exists("test:snapshot:latest"))

	got, err := cache.GetLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.RunID)
	require.Len(t, got.Opportunities, 1)
	assert.Equal(t, "o1", got.Opportunities[0].ID)

	mr.FastForward(2 * time.Minute)
	_, err = cache.GetLatest(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSeenSet_FirstMarkWins(t *testing.T) {
	c, _ := newTestClient(t)
	seen := NewSeenSet(c, time.Hour)
	ctx := context.Background()

	first, err := seen.MarkSeen(ctx, "opp-1")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := seen.MarkSeen(ctx, "opp-1")
	require.NoError(t, err)
	assert.False(t, again)
}

func TestLockManager_ExclusiveUntilUnlock(t *testing.T) {
	c, _ := newTestClient(t)
	lm := NewLockManager(c)
	ctx := context.Background()

	unlock, err := lm.Acquire(ctx, "cycle", time.Minute)
	require.NoError(t, err)

	_, err = lm.Acquire(ctx, "cycle", time.Minute)
	assert.ErrorIs(t, err, domain.ErrLockHeld)

	unlock()
	unlock()

	unlock2, err := lm.Acquire(ctx, "cycle", time.Minute)
	require.NoError(t, err)
	unlock2()
}

func TestSignalBus_StreamAppendAndRead(t *testing.T) {
	c, _ := newTestClient(t)
	bus := NewSignalBus(c, 10)
	ctx := context.Background()

	msgs, err := bus.StreamRead(ctx, "opps", "0", 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	require.NoError(t, bus.StreamAppend(ctx, "opps", []byte(`{"run_id":"a"}`)))
	require.NoError(t, bus.StreamAppend(ctx, "opps", []byte(`{"run_id":"b"}`)))

	msgs, err = bus.StreamRead(ctx, "opps", "0", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.JSONEq(t, `{"run_id":"b"}`, string(msgs[1].Payload))

	rest, err := bus.StreamRead(ctx, "opps", msgs[0].ID, 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, msgs[1].ID, rest[0].ID)
}

func TestSignalBus_PublishSubscribe(t *testing.T) {
	c, _ := newTestClient(t)
	bus := NewSignalBus(c, 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx, "opportunities")
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, "opportunities", []byte("hello")))
	select {
	case got := <-ch:
		assert.Equal(t, "hello", string(got))
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}

	cancel()
	for range ch {
	}
}
