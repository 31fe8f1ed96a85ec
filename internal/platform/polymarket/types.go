package polymarket

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// flexBool unmarshals from JSON bool or string ("true"/"false") so Gamma API
// responses work whether "active" is sent as bool or string.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

// flexFloat accepts a JSON number or a numeric string. Anything else reads
// as 0, which the normalizer treats as absent.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		n = 0
	}
	*f = flexFloat(n)
	return nil
}

// APIEvent represents an event (one game) as returned by the Gamma API.
type APIEvent struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Slug    string      `json:"slug"`
	Active  flexBool    `json:"active"`
	Closed  bool        `json:"closed"`
	Markets []APIMarket `json:"markets"`
}

// APIMarket represents a market as returned by the Polymarket Gamma API.
type APIMarket struct {
	ID               string     `json:"id"`
	Question         string     `json:"question"`
	Slug             string     `json:"slug"`
	Active           flexBool   `json:"active"`
	Closed           bool       `json:"closed"`
	Outcomes         string     `json:"outcomes"`      // JSON-encoded: e.g. "[\"Falcons\",\"Colts\"]"
	OutcomePrices    string     `json:"outcomePrices"` // JSON-encoded: e.g. "[\"0.275\",\"0.725\"]"
	LastTradePrice   flexFloat  `json:"lastTradePrice"`
	BestBid          flexFloat  `json:"bestBid"`
	BestAsk          flexFloat  `json:"bestAsk"`
	Line             *flexFloat `json:"line"`
	SportsMarketType string     `json:"sportsMarketType"`
	GameStartTime    string     `json:"gameStartTime"`
}

// ToRecord converts the API market into the normalizer's record variant.
// Malformed outcome arrays are left empty so the price fallback applies.
func (m *APIMarket) ToRecord() domain.PolymarketRecord {
	rec := domain.PolymarketRecord{
		ID:             m.ID,
		Title:          m.Question,
		Outcomes:       decodeStringArray(m.Outcomes),
		LastTradePrice: float64(m.LastTradePrice),
		BestBid:        float64(m.BestBid),
		BestAsk:        float64(m.BestAsk),
		MarketType:     m.SportsMarketType,
		Closed:         m.Closed,
	}
	if m.Line != nil {
		l := float64(*m.Line)
		rec.Line = &l
	}

	raw := decodeStringArray(m.OutcomePrices)
	prices := make([]float64, 0, len(raw))
	for _, s := range raw {
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			prices = nil
			break
		}
		prices = append(prices, p)
	}
	rec.OutcomePrices = prices
	return rec
}

// decodeStringArray decodes a JSON-encoded string array; errors yield nil.
func decodeStringArray(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}
