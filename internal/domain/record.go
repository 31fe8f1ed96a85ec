package domain

// RawRecord is an upstream market record converted out of its platform JSON
// schema. The set of variants is closed: PolymarketRecord and KalshiRecord.
type RawRecord interface {
	Platform() Platform
	RecordID() string
	rawRecord()
}

// PolymarketRecord carries the fields of a Gamma market the normalizer reads.
type PolymarketRecord struct {
	ID             string
	Title          string
	Outcomes       []string
	OutcomePrices  []float64
	LastTradePrice float64
	BestBid        float64
	BestAsk        float64
	Line           *float64
	MarketType     string // sportsMarketType, e.g. "moneyline", "spreads"
	Closed         bool
}

func (PolymarketRecord) Platform() Platform { return PlatformPolymarket }
func (r PolymarketRecord) RecordID() string { return r.ID }
func (PolymarketRecord) rawRecord()         {}

// KalshiRecord carries the fields of a Kalshi market the normalizer reads.
// Cent fields are 0..100; the *Dollars fields are decimal strings and win
// when set.
type KalshiRecord struct {
	Ticker           string
	EventTicker      string
	Title            string
	YesSubTitle      string
	Status           string
	LastPrice        float64
	YesBid           float64
	YesAsk           float64
	LastPriceDollars string
	YesBidDollars    string
	YesAskDollars    string
	FloorStrike      *float64
}

func (KalshiRecord) Platform() Platform { return PlatformKalshi }
func (r KalshiRecord) RecordID() string { return r.Ticker }
func (KalshiRecord) rawRecord()         {}
