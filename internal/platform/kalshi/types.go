package kalshi

import (
	"fmt"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// KalshiMarket represents a market as returned by the Kalshi REST API.
// Cent prices are integers 0..100; the *_dollars fields are decimal strings.
type KalshiMarket struct {
	Ticker           string   `json:"ticker"`
	EventTicker      string   `json:"event_ticker"`
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle"`
	YesSubTitle      string   `json:"yes_sub_title"`
	NoSubTitle       string   `json:"no_sub_title"`
	Status           string   `json:"status"` // "open", "active", "closed", "settled"
	YesBid           float64  `json:"yes_bid"`
	YesAsk           float64  `json:"yes_ask"`
	NoBid            float64  `json:"no_bid"`
	NoAsk            float64  `json:"no_ask"`
	LastPrice        float64  `json:"last_price"`
	YesBidDollars    string   `json:"yes_bid_dollars"`
	YesAskDollars    string   `json:"yes_ask_dollars"`
	LastPriceDollars string   `json:"last_price_dollars"`
	Volume           int64    `json:"volume"`
	StrikeType       string   `json:"strike_type"`
	FloorStrike      *float64 `json:"floor_strike"`
	CloseTime        string   `json:"close_time"`
}

// KalshiMarketsPage is one page of GET /markets.
type KalshiMarketsPage struct {
	Markets []KalshiMarket `json:"markets"`
	Cursor  string         `json:"cursor"`
}

// KalshiErrorResponse represents a Kalshi API error response.
type KalshiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e KalshiErrorResponse) String() string {
	code, msg := e.Code, e.Message
	if code == "" && msg == "" {
		code, msg = e.Error.Code, e.Error.Message
	}
	return fmt.Sprintf("%s (%s)", msg, code)
}

// ToRecord converts the API market into the normalizer's record variant.
func (m *KalshiMarket) ToRecord() domain.KalshiRecord {
	rec := domain.KalshiRecord{
		Ticker:           m.Ticker,
		EventTicker:      m.EventTicker,
		Title:            m.Title,
		YesSubTitle:      m.YesSubTitle,
		Status:           m.Status,
		LastPrice:        m.LastPrice,
		YesBid:           m.YesBid,
		YesAsk:           m.YesAsk,
		LastPriceDollars: m.LastPriceDollars,
		YesBidDollars:    m.YesBidDollars,
		YesAskDollars:    m.YesAskDollars,
	}
	if rec.YesSubTitle == "" {
		rec.YesSubTitle = m.Subtitle
	}
	if m.FloorStrike != nil {
		f := *m.FloorStrike
		rec.FloorStrike = &f
	}
	return rec
}
