package kalshi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:  srv.URL + "/trade-api/v2",
		PageSize: 2,
		SportSeries: map[domain.Sport][]string{
			domain.SportNFL: {"KXNFLGAME"},
		},
	})
}

func TestFetchRecords_FollowsCursor(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/trade-api/v2/markets", r.URL.Path)
		assert.Equal(t, "KXNFLGAME", r.URL.Query().Get("series_ticker"))
		assert.Empty(t, r.Header.Get("KALSHI-ACCESS-SIGNATURE"))

		page := KalshiMarketsPage{}
		switch r.URL.Query().Get("cursor") {
		case "":
			page.Markets = []KalshiMarket{
				{Ticker: "KXNFLGAME-25OCT12ATLIND-ATL", EventTicker: "KXNFLGAME-25OCT12ATLIND", Title: "Atlanta at Indianapolis Winner?", Status: "active", YesAsk: 27},
				{Ticker: "KXNFLGAME-25OCT12ATLIND-IND", EventTicker: "KXNFLGAME-25OCT12ATLIND", Title: "Atlanta at Indianapolis Winner?", Status: "active", YesAskDollars: "0.7400"},
			}
			page.Cursor = "next"
		case "next":
			page.Markets = []KalshiMarket{{Ticker: "KXNFLGAME-X-Y", Subtitle: "Yes sub"}}
		}
		_ = json.NewEncoder(w).Encode(page)
	})

	recs, err := c.FetchRecords(context.Background(), domain.SportNFL)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, 2, calls)

	first, ok := recs[0].(domain.KalshiRecord)
	require.True(t, ok)
	assert.Equal(t, "KXNFLGAME-25OCT12ATLIND", first.EventTicker)
	assert.Equal(t, 27.0, first.YesAsk)

	second := recs[1].(domain.KalshiRecord)
	assert.Equal(t, "0.7400", second.YesAskDollars)

	third := recs[2].(domain.KalshiRecord)
	assert.Equal(t, "Yes sub", third.YesSubTitle)
}

func TestFetchRecords_UnknownSport(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := c.FetchRecords(context.Background(), domain.SportNBA)
	assert.ErrorIs(t, err, domain.ErrUnknownSport)
}

func TestFetchRecords_StatusErrors(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, domain.ErrRateLimited},
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusBadGateway, domain.ErrUpstreamUnavailable},
	}
	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"error":{"code":"x","message":"nope"}}`))
		})
		_, err := c.FetchRecords(context.Background(), domain.SportNFL)
		assert.ErrorIs(t, err, tc.want, "status %d", tc.status)
	}
}

func TestToRecord_CopiesFloorStrike(t *testing.T) {
	strike := 3.5
	m := KalshiMarket{Ticker: "T", FloorStrike: &strike}
	rec := m.ToRecord()
	require.NotNil(t, rec.FloorStrike)
	strike = 7
	assert.Equal(t, 3.5, *rec.FloorStrike)
}
