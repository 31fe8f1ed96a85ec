package domain

// Platform names an upstream venue.
type Platform string

const (
	PlatformPolymarket Platform = "polymarket"
	PlatformKalshi     Platform = "kalshi"
)

// MarketKind distinguishes winner markets from point-spread markets.
type MarketKind string

const (
	KindMoneyline MarketKind = "moneyline"
	KindSpread    MarketKind = "spread"
)

// PriceSumTolerance bounds how far YesPrice+NoPrice may drift from 1.
const PriceSumTolerance = 0.05

// Market is the canonical, platform-neutral view of a binary contract.
//
// Polymarket markets carry both participants and Yes means the first one
// wins (or covers). Kalshi markets are scoped to Participants[0]; the second
// entry, when present, is the opponent used only for grouping.
type Market struct {
	ID           string        `json:"id"`
	Platform     Platform      `json:"platform"`
	SourceTitle  string        `json:"source_title"`
	Kind         MarketKind    `json:"kind"`
	Participants []Participant `json:"participants"`
	YesPrice     float64       `json:"yes_price"`
	NoPrice      float64       `json:"no_price"`
	Line         float64       `json:"line,omitempty"`
	HasLine      bool          `json:"has_line"`
}

// Subject returns the participant a per-team market is scoped to.
func (m Market) Subject() Participant {
	if len(m.Participants) == 0 {
		return Participant{}
	}
	return m.Participants[0]
}

// LinePtr returns the line as an optional value for key building.
func (m Market) LinePtr() *float64 {
	if !m.HasLine {
		return nil
	}
	l := m.Line
	return &l
}

// MatchedPair joins a Polymarket market with its Kalshi counterpart(s).
// For moneyline pairs PerEntity[i] is scoped to Single.Participants[i]. Spread
// pairs carry one counterpart scoped to the favorite.
type MatchedPair struct {
	Kind      MarketKind
	Single    Market
	PerEntity []Market
}
