package arbitrage

import (
	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

var one = decimal.NewFromInt(1)

// Quote holds the four prices of a matched pair and the Kalshi contracts
// the two Kalshi legs trade.
//
// For moneyline pairs BYes is Yes on the first participant's contract and
// BNo is No on the second participant's contract. Spread pairs take both
// from the single favorite contract.
type Quote struct {
	AYes, ANo float64
	BYes, BNo float64

	A       domain.Market
	BYesLeg domain.Market
	BNoLeg  domain.Market
}

// QuoteFor extracts the prices of pair. ok is false when the pair does not
// carry the counterparts its kind needs.
func QuoteFor(pair domain.MatchedPair) (Quote, bool) {
	q := Quote{AYes: pair.Single.YesPrice, ANo: pair.Single.NoPrice, A: pair.Single}
	switch pair.Kind {
	case domain.KindMoneyline:
		if len(pair.PerEntity) != 2 {
			return Quote{}, false
		}
		q.BYesLeg, q.BNoLeg = pair.PerEntity[0], pair.PerEntity[1]
	case domain.KindSpread:
		if len(pair.PerEntity) != 1 {
			return Quote{}, false
		}
		q.BYesLeg, q.BNoLeg = pair.PerEntity[0], pair.PerEntity[0]
	default:
		return Quote{}, false
	}
	q.BYes, q.BNo = q.BYesLeg.YesPrice, q.BNoLeg.NoPrice
	return q, true
}

// Choice is the outcome of comparing the two hedges of a quote.
type Choice struct {
	Option domain.Option
	CostA  decimal.Decimal
	CostB  decimal.Decimal
	Cost   decimal.Decimal

	// MarginPercent is (1 - Cost) * 100 before fees.
	MarginPercent decimal.Decimal
}

// Choose compares costA = AYes+BNo with costB = ANo+BYes. An option is
// viable only when both its prices are positive and its cost is below 1.
// The cheaper viable option wins; equal costs pick A.
func Choose(aYes, aNo, bYes, bNo float64) (Choice, bool) {
	costA := decimal.NewFromFloat(aYes).Add(decimal.NewFromFloat(bNo))
	costB := decimal.NewFromFloat(aNo).Add(decimal.NewFromFloat(bYes))
	viableA := aYes > 0 && bNo > 0 && costA.LessThan(one)
	viableB := aNo > 0 && bYes > 0 && costB.LessThan(one)

	c := Choice{CostA: costA, CostB: costB}
	switch {
	case viableA && (!viableB || costA.LessThanOrEqual(costB)):
		c.Option, c.Cost = domain.OptionA, costA
	case viableB:
		c.Option, c.Cost = domain.OptionB, costB
	default:
		return c, false
	}
	c.MarginPercent = one.Sub(c.Cost).Mul(decimal.NewFromInt(100))
	return c, true
}

// legs returns the two purchases of opt, unstaked.
func (q Quote) legs(opt domain.Option) [2]domain.Leg {
	if opt == domain.OptionA {
		return [2]domain.Leg{
			{Platform: q.A.Platform, MarketID: q.A.ID, Side: "yes", Price: q.AYes},
			{Platform: q.BNoLeg.Platform, MarketID: q.BNoLeg.ID, Side: "no", Price: q.BNo},
		}
	}
	return [2]domain.Leg{
		{Platform: q.A.Platform, MarketID: q.A.ID, Side: "no", Price: q.ANo},
		{Platform: q.BYesLeg.Platform, MarketID: q.BYesLeg.ID, Side: "yes", Price: q.BYes},
	}
}
