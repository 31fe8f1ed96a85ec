package polymarket

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

const eventsPage = `[
  {
    "id": "100",
    "title": "Falcons vs. Colts",
    "active": "true",
    "markets": [
      {
        "id": "m1",
        "question": "Falcons vs. Colts",
        "outcomes": "[\"Falcons\", \"Colts\"]",
        "outcomePrices": "[\"0.275\", \"0.725\"]",
        "lastTradePrice": 0.28,
        "bestBid": "0.27",
        "bestAsk": 0.28,
        "sportsMarketType": "moneyline"
      },
      {
        "id": "m2",
        "question": "Spread: Colts (-3.5)",
        "outcomes": "[\"Colts\", \"Falcons\"]",
        "outcomePrices": "not json",
        "line": -3.5,
        "sportsMarketType": "spreads",
        "closed": true
      }
    ]
  }
]`

func TestFetchRecords_ParsesMarkets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/events", r.URL.Path)
		assert.Equal(t, "nfl", q.Get("tag_slug"))
		assert.Equal(t, "false", q.Get("closed"))
		_, _ = fmt.Fprint(w, eventsPage)
	}))
	defer srv.Close()

	g := NewGammaClient(GammaConfig{
		BaseURL:   srv.URL,
		PageSize:  10,
		SportTags: map[domain.Sport]string{domain.SportNFL: "nfl"},
	})

	recs, err := g.FetchRecords(context.Background(), domain.SportNFL)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	ml := recs[0].(domain.PolymarketRecord)
	assert.Equal(t, "m1", ml.RecordID())
	assert.Equal(t, []string{"Falcons", "Colts"}, ml.Outcomes)
	assert.Equal(t, []float64{0.275, 0.725}, ml.OutcomePrices)
	assert.Equal(t, 0.27, ml.BestBid)
	assert.Equal(t, "moneyline", ml.MarketType)
	assert.Nil(t, ml.Line)

	sp := recs[1].(domain.PolymarketRecord)
	assert.Empty(t, sp.OutcomePrices)
	require.NotNil(t, sp.Line)
	assert.Equal(t, -3.5, *sp.Line)
	assert.True(t, sp.Closed)
}

func TestFetchRecords_Paginates(t *testing.T) {
	var offsets []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offsets = append(offsets, r.URL.Query().Get("offset"))
		if len(offsets) == 1 {
			_, _ = fmt.Fprint(w, `[{"id":"1","markets":[]}]`)
			return
		}
		_, _ = fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	g := NewGammaClient(GammaConfig{
		BaseURL:   srv.URL,
		PageSize:  1,
		SportTags: map[domain.Sport]string{domain.SportNBA: "nba"},
	})
	_, err := g.FetchRecords(context.Background(), domain.SportNBA)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1"}, offsets)
}

func TestFetchRecords_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := NewGammaClient(GammaConfig{
		BaseURL:   srv.URL,
		SportTags: map[domain.Sport]string{domain.SportNFL: "nfl"},
	})
	_, err := g.FetchRecords(context.Background(), domain.SportNFL)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)

	_, err = g.FetchRecords(context.Background(), domain.SportNBA)
	assert.ErrorIs(t, err, domain.ErrUnknownSport)
}
