package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/sportsarb/internal/catalog"
	"github.com/alanyoungcy/sportsarb/internal/domain"
	"github.com/alanyoungcy/sportsarb/internal/server/handler"
	"github.com/alanyoungcy/sportsarb/internal/server/ws"
)

type fakeLatest struct {
	snap *domain.CycleSnapshot
}

func (f *fakeLatest) GetLatest(context.Context) (domain.CycleSnapshot, error) {
	if f.snap == nil {
		return domain.CycleSnapshot{}, domain.ErrNotFound
	}
	return *f.snap, nil
}

type fakeStore struct {
	opps []domain.Opportunity
	err  error
}

func (f *fakeStore) InsertBatch(context.Context, string, []domain.Opportunity) error { return nil }

func (f *fakeStore) ListRecent(_ context.Context, limit int) ([]domain.Opportunity, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.opps) {
		return f.opps[:limit], nil
	}
	return f.opps, nil
}

func testSnapshot() *domain.CycleSnapshot {
	return &domain.CycleSnapshot{
		RunID:  "run-1",
		Sports: []domain.Sport{domain.SportNFL, domain.SportNBA},
		Opportunities: []domain.Opportunity{
			{ID: "a", Sport: domain.SportNFL, MatchLabel: "ATL vs IND", ProfitMarginPercent: 4.5},
			{ID: "b", Sport: domain.SportNBA, MatchLabel: "BOS vs LAL", ProfitMarginPercent: 0.8},
		},
	}
}

func newTestRouter(cfg Config, deps Deps) http.Handler {
	if deps.Latest == nil {
		deps.Latest = &fakeLatest{}
	}
	if deps.Catalogs == nil {
		deps.Catalogs = catalog.Default()
	}
	return NewRouter(cfg, deps, nil)
}

func get(t *testing.T, h http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestRouter(Config{}, Deps{})
	rec := get(t, h, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHealth_DegradedDependency(t *testing.T) {
	h := newTestRouter(Config{}, Deps{Checks: map[string]handler.Pinger{
		"redis":    func(context.Context) error { return errors.New("connection refused") },
		"postgres": func(context.Context) error { return nil },
	}})
	rec := get(t, h, "/api/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Status       string            `json:"status"`
		Dependencies map[string]string `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "ok", body.Dependencies["postgres"])
	assert.Equal(t, "connection refused", body.Dependencies["redis"])
}

func TestOpportunities_NoCycleYet(t *testing.T) {
	h := newTestRouter(Config{}, Deps{})
	rec := get(t, h, "/api/opportunities")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOpportunities_LatestWithFilters(t *testing.T) {
	h := newTestRouter(Config{}, Deps{Latest: &fakeLatest{snap: testSnapshot()}})

	decode := func(rec *httptest.ResponseRecorder) domain.CycleSnapshot {
		t.Helper()
		require.Equal(t, http.StatusOK, rec.Code)
		var snap domain.CycleSnapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
		return snap
	}

	all := decode(get(t, h, "/api/opportunities"))
	assert.Equal(t, "run-1", all.RunID)
	assert.Len(t, all.Opportunities, 2)

	nfl := decode(get(t, h, "/api/opportunities?sport=NFL"))
	require.Len(t, nfl.Opportunities, 1)
	assert.Equal(t, "a", nfl.Opportunities[0].ID)

	wide := decode(get(t, h, "/api/opportunities?min_margin=1"))
	require.Len(t, wide.Opportunities, 1)
	assert.Equal(t, "a", wide.Opportunities[0].ID)

	rec := get(t, h, "/api/opportunities?min_margin=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOpportunities_Recent(t *testing.T) {
	h := newTestRouter(Config{}, Deps{})
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/api/opportunities/recent").Code)

	store := &fakeStore{opps: testSnapshot().Opportunities}
	h = newTestRouter(Config{}, Deps{Store: store})
	rec := get(t, h, "/api/opportunities/recent?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Opportunities []domain.Opportunity `json:"opportunities"`
		Count         int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)

	h = newTestRouter(Config{}, Deps{Store: &fakeStore{err: errors.New("db down")}})
	assert.Equal(t, http.StatusInternalServerError, get(t, h, "/api/opportunities/recent").Code)
}

func TestCatalog(t *testing.T) {
	h := newTestRouter(Config{}, Deps{})

	rec := get(t, h, "/api/catalog")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sports":["nba","nfl"]}`, rec.Body.String())

	rec = get(t, h, "/api/catalog/nfl")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Sport        string               `json:"sport"`
		Participants []domain.Participant `json:"participants"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "nfl", body.Sport)
	assert.Len(t, body.Participants, 32)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/catalog/curling").Code)
}

func TestAuth(t *testing.T) {
	h := newTestRouter(Config{APIKey: "s3cret"}, Deps{Latest: &fakeLatest{snap: testSnapshot()}})

	assert.Equal(t, http.StatusOK, get(t, h, "/api/health").Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, h, "/api/opportunities").Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, h, "/api/opportunities", "Authorization", "Bearer wrong").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/api/opportunities", "Authorization", "Bearer s3cret").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/api/opportunities", "X-API-Key", "s3cret").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/api/opportunities?api_key=s3cret").Code)
}

func TestRateLimit(t *testing.T) {
	h := newTestRouter(Config{RateLimitRPS: 1, RateLimitBurst: 1}, Deps{})
	assert.Equal(t, http.StatusOK, get(t, h, "/api/health").Code)
	rec := get(t, h, "/api/health")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(Config{}, Deps{})
	rec := get(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func readEnvelope(t *testing.T, conn *websocket.Conn) ws.Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var env ws.Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func TestWebSocket_StatusLatestAndBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	latest := &fakeLatest{snap: testSnapshot()}
	hub := ws.NewHub(ws.Config{Mode: "server", Sports: []domain.Sport{domain.SportNFL}}, nil, latest.GetLatest, nil)
	go hub.Run(ctx)

	srv := httptest.NewServer(newTestRouter(Config{}, Deps{Latest: latest, Hub: hub}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	status := readEnvelope(t, conn)
	assert.Equal(t, "status", status.Type)
	assert.Contains(t, string(status.Payload), `"mode":"server"`)

	first := readEnvelope(t, conn)
	assert.Equal(t, "snapshot", first.Type)
	assert.Equal(t, "opportunities", first.Channel)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	next := domain.CycleSnapshot{RunID: "run-2"}
	require.NoError(t, hub.PublishSnapshot(ctx, next))

	env := readEnvelope(t, conn)
	assert.Equal(t, "snapshot", env.Type)
	var snap domain.CycleSnapshot
	require.NoError(t, json.Unmarshal(env.Payload, &snap))
	assert.Equal(t, "run-2", snap.RunID)
}
