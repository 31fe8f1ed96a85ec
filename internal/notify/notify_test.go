package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rediscache "github.com/alanyoungcy/sportsarb/internal/cache/redis"
	"github.com/alanyoungcy/sportsarb/internal/domain"
)

type recordingSender struct {
	mu     sync.Mutex
	name   string
	err    error
	titles []string
}

func (r *recordingSender) Send(_ context.Context, title, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title)
	return r.err
}

func (r *recordingSender) Name() string { return r.name }

func sampleOpportunity() domain.Opportunity {
	return domain.Opportunity{
		ID:                  "polymarket:pm-1|kalshi:K-ATL|kalshi:K-IND",
		Sport:               domain.SportNFL,
		Kind:                domain.KindMoneyline,
		MatchLabel:          "Atlanta Falcons vs Indianapolis Colts",
		ProfitMarginPercent: 45.5,
		ChosenOption:        domain.OptionA,
		CostA:               0.545,
		CostB:               1.005,
		Legs: [2]domain.Leg{
			{Platform: domain.PlatformPolymarket, MarketID: "pm-1", Side: "yes", Price: 0.275, Stake: 27.5},
			{Platform: domain.PlatformKalshi, MarketID: "K-IND", Side: "no", Price: 0.27, Stake: 27},
		},
		TotalStake:    54.5,
		TargetPayout:  100,
		ProfitAmount:  45.5,
		StakeStrategy: domain.StakeEqual,
		DetectedAt:    time.Date(2026, 10, 18, 17, 0, 0, 0, time.UTC),
	}
}

func TestNotifier_FiltersEvents(t *testing.T) {
	s := &recordingSender{name: "rec"}
	n := NewNotifier([]Sender{s}, []string{EventOpportunity}, nil)

	require.NoError(t, n.Notify(context.Background(), EventCycleFailed, "ignored", ""))
	require.NoError(t, n.Notify(context.Background(), EventOpportunity, "kept", ""))
	assert.Equal(t, []string{"kept"}, s.titles)
}

func TestNotifier_OneSenderFailureDoesNotStopOthers(t *testing.T) {
	bad := &recordingSender{name: "bad", err: errors.New("boom")}
	good := &recordingSender{name: "good"}
	n := NewNotifier([]Sender{bad, good}, nil, nil)

	err := n.Notify(context.Background(), EventOpportunity, "t", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad: boom")
	assert.Len(t, good.titles, 1)
}

func TestOpportunityNotifier_OncePerID(t *testing.T) {
	s := &recordingSender{name: "rec"}
	on := NewOpportunityNotifier(NewNotifier([]Sender{s}, nil, nil), nil)
	opp := sampleOpportunity()

	sent, err := on.Notify(context.Background(), opp)
	require.NoError(t, err)
	assert.True(t, sent)

	sent, err = on.Notify(context.Background(), opp)
	require.NoError(t, err)
	assert.False(t, sent)

	other := opp
	other.ID = "polymarket:pm-2|kalshi:K-NO|kalshi:K-CAR"
	sent, err = on.Notify(context.Background(), other)
	require.NoError(t, err)
	assert.True(t, sent)

	assert.Len(t, s.titles, 2)
}

func TestOpportunityNotifier_SharedEntryExpiryDoesNotResend(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := rediscache.New(context.Background(), rediscache.ClientConfig{Addr: mr.Addr(), KeyPrefix: "test:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	s := &recordingSender{name: "rec"}
	on := NewOpportunityNotifier(NewNotifier([]Sender{s}, nil, nil), rediscache.NewSeenSet(rc, time.Hour))
	opp := sampleOpportunity()

	sent, err := on.Notify(context.Background(), opp)
	require.NoError(t, err)
	assert.True(t, sent)

	mr.FastForward(2 * time.Hour)
	require.False(t, mr.Exists("test:seen:"+opp.ID))

	sent, err = on.Notify(context.Background(), opp)
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Len(t, s.titles, 1)

	// A second process sharing the set is suppressed while the entry lives.
	other := NewOpportunityNotifier(NewNotifier([]Sender{s}, nil, nil), rediscache.NewSeenSet(rc, time.Hour))
	next := opp
	next.ID = "polymarket:pm-9|kalshi:K-A|kalshi:K-B"
	sent, err = on.Notify(context.Background(), next)
	require.NoError(t, err)
	assert.True(t, sent)
	sent, err = other.Notify(context.Background(), next)
	require.NoError(t, err)
	assert.False(t, sent)
}

type failingSeenSet struct{ calls int }

func (f *failingSeenSet) MarkSeen(context.Context, string) (bool, error) {
	f.calls++
	return false, errors.New("redis down")
}

func TestOpportunityNotifier_SharedOutageRetriesNextCycle(t *testing.T) {
	s := &recordingSender{name: "rec"}
	shared := &failingSeenSet{}
	on := NewOpportunityNotifier(NewNotifier([]Sender{s}, nil, nil), shared)

	_, err := on.Notify(context.Background(), sampleOpportunity())
	require.Error(t, err)
	_, err = on.Notify(context.Background(), sampleOpportunity())
	require.Error(t, err)
	assert.Equal(t, 2, shared.calls)
	assert.Empty(t, s.titles)
}

func TestOpportunityNotifier_NoSendersDoesNotConsumeID(t *testing.T) {
	seen := NewMemorySeenSet()
	on := NewOpportunityNotifier(NewNotifier(nil, nil, nil), seen)

	sent, err := on.Notify(context.Background(), sampleOpportunity())
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Zero(t, seen.Len())
}

func TestMemorySeenSet_Concurrent(t *testing.T) {
	seen := NewMemorySeenSet()
	var wg sync.WaitGroup
	var mu sync.Mutex
	firsts := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _ := seen.MarkSeen(context.Background(), "same")
			if ok {
				mu.Lock()
				firsts++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, firsts)
}

func TestFormatOpportunity(t *testing.T) {
	title, body := FormatOpportunity(sampleOpportunity())
	assert.Equal(t, "NFL arb 45.50%: Atlanta Falcons vs Indianapolis Colts", title)
	assert.Contains(t, body, "polymarket YES @ 0.275 stake $27.50 (pm-1)")
	assert.Contains(t, body, "kalshi NO @ 0.270 stake $27.00 (K-IND)")
	assert.Contains(t, body, "profit $45.50")
}

func TestTelegramSender_PostsMessage(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	s := NewTelegramSender("TOKEN", "42")
	s.apiBase = srv.URL
	require.NoError(t, s.Send(context.Background(), "title", "body"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "title\nbody", got["text"])
}

func TestDiscordSender_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad webhook", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewDiscordSender(srv.URL).Send(context.Background(), "t", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 400")
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	WriteReport(&buf, domain.CycleSnapshot{
		RunID:         "run-1",
		MatchedPairs:  1,
		Opportunities: []domain.Opportunity{sampleOpportunity()},
		Failures:      []string{"kalshi/nfl: upstream unavailable"},
	})
	out := buf.String()
	assert.Contains(t, out, "run run-1")
	assert.Contains(t, out, "failed: kalshi/nfl")
	assert.Contains(t, out, "45.50%")
}

func TestOpportunityNotifier_NotifyFailures(t *testing.T) {
	s := &recordingSender{name: "rec"}
	on := NewOpportunityNotifier(NewNotifier([]Sender{s}, nil, nil), nil)
	ctx := context.Background()

	require.NoError(t, on.NotifyFailures(ctx, domain.CycleSnapshot{RunID: "clean"}))
	assert.Empty(t, s.titles)

	snap := domain.CycleSnapshot{RunID: "r1", Failures: []string{"kalshi/nfl: upstream unavailable: timeout"}}
	require.NoError(t, on.NotifyFailures(ctx, snap))
	assert.Equal(t, []string{"Scan cycle r1 degraded"}, s.titles)

	filtered := NewOpportunityNotifier(NewNotifier([]Sender{s}, []string{EventOpportunity}, nil), nil)
	require.NoError(t, filtered.NotifyFailures(ctx, snap))
	assert.Len(t, s.titles, 1)
}
