package arbitrage

import (
	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// Sizing is the stake allocation for the two legs of an option.
type Sizing struct {
	Stakes       [2]float64
	TotalStake   float64
	TargetPayout float64
	ProfitAmount float64
}

// Staker sizes the legs of a chosen option.
type Staker interface {
	Strategy() domain.StakeStrategy
	Size(pair domain.MatchedPair, legs [2]domain.Leg) Sizing
}

// EqualStaker buys each leg so that it returns Target on settlement. Exactly
// one leg settles to 1, so the position pays Target in either outcome and
// the profit is Target minus the total stake.
type EqualStaker struct {
	Target float64
}

// Strategy implements Staker.
func (EqualStaker) Strategy() domain.StakeStrategy { return domain.StakeEqual }

// Size implements Staker.
func (s EqualStaker) Size(_ domain.MatchedPair, legs [2]domain.Leg) Sizing {
	target := decimal.NewFromFloat(s.Target)
	total := decimal.Zero
	var out Sizing
	for i, l := range legs {
		stake := decimal.NewFromFloat(l.Price).Mul(target)
		out.Stakes[i] = stake.InexactFloat64()
		total = total.Add(stake)
	}
	out.TotalStake = total.InexactFloat64()
	out.TargetPayout = s.Target
	out.ProfitAmount = target.Sub(total).InexactFloat64()
	return out
}
