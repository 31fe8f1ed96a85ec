package normalize

import (
	"math"
	"strings"

	"github.com/alanyoungcy/sportsarb/internal/domain"
	"github.com/alanyoungcy/sportsarb/internal/extract"
)

// polymarket converts one Gamma market. The market carries both
// participants; Yes is the first outcome.
func (n *Normalizer) polymarket(r domain.PolymarketRecord) (domain.Market, error) {
	if r.Closed {
		return domain.Market{}, unparseable(r.ID, "closed")
	}

	kind, ok := polymarketKind(r)
	if !ok {
		return domain.Market{}, unparseable(r.ID, "unsupported market type %q", r.MarketType)
	}

	yes, no, err := polymarketPrices(r)
	if err != nil {
		return domain.Market{}, err
	}

	m := domain.Market{
		ID:          r.ID,
		Platform:    domain.PlatformPolymarket,
		SourceTitle: r.Title,
		Kind:        kind,
		YesPrice:    yes,
		NoPrice:     no,
	}

	// Team-named outcomes are structured and ordered; Yes/No outcomes
	// leave the title as the only source.
	participants, fromOutcomes := n.outcomeParticipants(r.Outcomes)

	switch kind {
	case domain.KindMoneyline:
		if !fromOutcomes {
			participants, ok = extract.Pair(extract.Extract(r.Title, n.cat))
			if !ok {
				return domain.Market{}, unparseable(r.ID, "need two participants in %q", r.Title)
			}
		}

	case domain.KindSpread:
		tok, hasTok := extract.ParseLine(r.Title)
		switch {
		case r.Line != nil:
			m.Line = math.Abs(*r.Line)
		case hasTok:
			m.Line = tok.Line
		default:
			return domain.Market{}, unparseable(r.ID, "spread without line")
		}
		m.HasLine = true

		if !fromOutcomes {
			participants, ok = extract.OrderBySpread(r.Title, extract.Matches(r.Title, n.cat))
			if !ok {
				return domain.Market{}, unparseable(r.ID, "cannot order spread %q", r.Title)
			}
			// "Colts (+3.5)" asks whether the underdog covers; flip so Yes
			// is always the favorite covering.
			if hasTok && tok.Signed > 0 {
				m.YesPrice, m.NoPrice = m.NoPrice, m.YesPrice
			}
		}
	}

	m.Participants = participants
	return m, nil
}

func polymarketKind(r domain.PolymarketRecord) (domain.MarketKind, bool) {
	switch t := strings.ToLower(strings.TrimSpace(r.MarketType)); {
	case t == "":
		return extract.Classify(r.Title)
	case t == "moneyline":
		return domain.KindMoneyline, true
	case strings.HasPrefix(t, "spread"):
		return domain.KindSpread, true
	default:
		return "", false
	}
}

// polymarketPrices reads the outcome price pair when present; otherwise it
// falls back to last trade, bid and ask for Yes and takes No as the
// complement.
func polymarketPrices(r domain.PolymarketRecord) (yes, no float64, err error) {
	if len(r.OutcomePrices) == 2 {
		yes, no = r.OutcomePrices[0], r.OutcomePrices[1]
		if !InRange(yes) || !InRange(no) {
			return 0, 0, unparseable(r.ID, "outcome prices %v outside (0,1)", r.OutcomePrices)
		}
		if math.Abs(yes+no-1) > domain.PriceSumTolerance {
			return 0, 0, unparseable(r.ID, "outcome prices %v do not sum to 1", r.OutcomePrices)
		}
		return yes, no, nil
	}

	yes, ok := PickPrice(r.LastTradePrice, r.BestBid, r.BestAsk)
	if !ok {
		return 0, 0, unparseable(r.ID, "no usable price")
	}
	return yes, Complement(yes), nil
}

// outcomeParticipants resolves a two-entry outcome array naming teams.
func (n *Normalizer) outcomeParticipants(outcomes []string) ([]domain.Participant, bool) {
	if len(outcomes) != 2 {
		return nil, false
	}
	out := make([]domain.Participant, 0, 2)
	for _, o := range outcomes {
		found := extract.Extract(o, n.cat)
		if len(found) != 1 {
			return nil, false
		}
		out = append(out, found[0])
	}
	if out[0].Same(out[1]) {
		return nil, false
	}
	return out, true
}
