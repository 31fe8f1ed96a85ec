package arbitrage

import (
	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// ProbabilityModel supplies the win probability of the first participant
// of a pair (or of the favorite covering, for spreads).
type ProbabilityModel interface {
	WinProbability(pair domain.MatchedPair) (float64, bool)
}

// ConsensusModel averages the two venues' implied probability for the
// first participant.
type ConsensusModel struct{}

// WinProbability implements ProbabilityModel.
func (ConsensusModel) WinProbability(pair domain.MatchedPair) (float64, bool) {
	if len(pair.PerEntity) == 0 {
		return 0, false
	}
	p := (pair.Single.YesPrice + pair.PerEntity[0].YesPrice) / 2
	if p <= 0 || p >= 1 {
		return 0, false
	}
	return p, true
}

// KellyStaker sizes each leg by the fractional Kelly criterion under a
// probability model. Unlike EqualStaker it does not guarantee a payout;
// it is a model-dependent strategy and opportunities sized with it are
// labeled kelly.
type KellyStaker struct {
	Model        ProbabilityModel
	Conservatism float64
	Bankroll     float64
}

// Strategy implements Staker.
func (KellyStaker) Strategy() domain.StakeStrategy { return domain.StakeKelly }

// Size implements Staker. TargetPayout is the smaller leg payout, and
// ProfitAmount what remains of it after the total stake.
func (s KellyStaker) Size(pair domain.MatchedPair, legs [2]domain.Leg) Sizing {
	var out Sizing
	p, ok := s.Model.WinProbability(pair)
	if !ok {
		return out
	}

	payout := -1.0
	for i, l := range legs {
		f := KellyFraction(legProbability(pair.Kind, p, l), l.Price)
		stake := f * s.Conservatism * s.Bankroll
		out.Stakes[i] = stake
		out.TotalStake += stake

		ret := 0.0
		if l.Price > 0 {
			ret = stake / l.Price
		}
		if payout < 0 || ret < payout {
			payout = ret
		}
	}
	out.TargetPayout = payout
	out.ProfitAmount = payout - out.TotalStake
	return out
}

// legProbability is the chance a leg settles to 1 given p for the first
// participant. Kalshi "no" on a moneyline pair is bought on the second
// participant's contract, so it pays when the first participant wins.
func legProbability(kind domain.MarketKind, p float64, l domain.Leg) float64 {
	switch {
	case l.Side == "yes":
		return p
	case l.Platform == domain.PlatformKalshi && kind == domain.KindMoneyline:
		return p
	default:
		return 1 - p
	}
}

// KellyFraction returns f* = (p*b - q) / b for a contract bought at price,
// where b = 1/price - 1 is the net decimal odds and q = 1 - p. The result is
// clamped to [0,1]. A price outside (0,1) has no odds and returns 0.
func KellyFraction(p, price float64) float64 {
	if price <= 0 || price >= 1 || p <= 0 || p >= 1 {
		return 0
	}
	b := 1/price - 1
	f := (p*b - (1 - p)) / b
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
