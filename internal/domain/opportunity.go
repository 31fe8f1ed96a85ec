package domain

import "time"

// Option names one of the two complementary hedges of a matched pair.
// A buys Yes on Polymarket and No on Kalshi; B buys No on Polymarket and Yes
// on Kalshi.
type Option string

const (
	OptionA Option = "A"
	OptionB Option = "B"
)

// StakeStrategy selects how leg stakes are sized.
type StakeStrategy string

const (
	// StakeEqual sizes each leg to return the same target payout. Riskless.
	StakeEqual StakeStrategy = "equal"
	// StakeKelly sizes each leg from a win-probability model. Not riskless.
	StakeKelly StakeStrategy = "kelly"
)

// Leg is one purchase of an opportunity.
type Leg struct {
	Platform Platform `json:"platform"`
	MarketID string   `json:"market_id"`
	Side     string   `json:"side"` // "yes" or "no"
	Price    float64  `json:"price"`
	Stake    float64  `json:"stake"`
}

// Payout is the settlement value of the leg if its side wins.
func (l Leg) Payout() float64 {
	if l.Price <= 0 {
		return 0
	}
	return l.Stake / l.Price
}

// Opportunity is a derived, immutable arbitrage finding for one cycle.
type Opportunity struct {
	ID                  string        `json:"id"`
	Sport               Sport         `json:"sport"`
	Kind                MarketKind    `json:"kind"`
	MatchLabel          string        `json:"match_label"`
	Line                float64       `json:"line,omitempty"`
	ProfitMarginPercent float64       `json:"profit_margin_percent"`
	ChosenOption        Option        `json:"chosen_option"`
	CostA               float64       `json:"cost_a"`
	CostB               float64       `json:"cost_b"`
	Legs                [2]Leg        `json:"legs"`
	TotalStake          float64       `json:"total_stake"`
	TargetPayout        float64       `json:"target_payout"`
	ProfitAmount        float64       `json:"profit_amount"`
	StakeStrategy       StakeStrategy `json:"stake_strategy"`
	DetectedAt          time.Time     `json:"detected_at"`
}

// CycleSnapshot summarizes one scan cycle.
type CycleSnapshot struct {
	RunID             string        `json:"run_id"`
	Sports            []Sport       `json:"sports"`
	StartedAt         time.Time     `json:"started_at"`
	FinishedAt        time.Time     `json:"finished_at"`
	PolymarketMarkets int           `json:"polymarket_markets"`
	KalshiMarkets     int           `json:"kalshi_markets"`
	MatchedPairs      int           `json:"matched_pairs"`
	Opportunities     []Opportunity `json:"opportunities"`
	Failures          []string      `json:"failures,omitempty"`
}
