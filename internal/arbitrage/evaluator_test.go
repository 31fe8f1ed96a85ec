package arbitrage

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

var (
	atl = domain.Participant{CanonicalName: "Atlanta Falcons", ShortCode: "ATL"}
	ind = domain.Participant{CanonicalName: "Indianapolis Colts", ShortCode: "IND"}
	sai = domain.Participant{CanonicalName: "New Orleans Saints", ShortCode: "NO"}
	car = domain.Participant{CanonicalName: "Carolina Panthers", ShortCode: "CAR"}

	now = time.Date(2026, 10, 18, 17, 0, 0, 0, time.UTC)
)

func equalParams() Params {
	return Params{TargetPayout: 100, StakeStrategy: domain.StakeEqual}
}

func mustEvaluator(t *testing.T, p Params) *Evaluator {
	t.Helper()
	e, err := NewEvaluator(p, nil)
	require.NoError(t, err)
	return e
}

func comp(p float64) float64 {
	return decimal.NewFromInt(1).Sub(decimal.NewFromFloat(p)).InexactFloat64()
}

func moneylinePair(id string, first, second domain.Participant, aYes, aNo, bFirstYes, bSecondYes float64) domain.MatchedPair {
	single := domain.Market{
		ID: id, Platform: domain.PlatformPolymarket, Kind: domain.KindMoneyline,
		Participants: []domain.Participant{first, second}, YesPrice: aYes, NoPrice: aNo,
	}
	kFirst := domain.Market{
		ID: "K-" + first.ShortCode, Platform: domain.PlatformKalshi, Kind: domain.KindMoneyline,
		Participants: []domain.Participant{first, second}, YesPrice: bFirstYes, NoPrice: comp(bFirstYes),
	}
	kSecond := domain.Market{
		ID: "K-" + second.ShortCode, Platform: domain.PlatformKalshi, Kind: domain.KindMoneyline,
		Participants: []domain.Participant{second, first}, YesPrice: bSecondYes, NoPrice: comp(bSecondYes),
	}
	return domain.MatchedPair{Kind: domain.KindMoneyline, Single: single, PerEntity: []domain.Market{kFirst, kSecond}}
}

func TestEvaluate_FalconsColts(t *testing.T) {
	e := mustEvaluator(t, equalParams())
	pair := moneylinePair("pm-1", atl, ind, 0.275, 0.725, 0.28, 0.73)

	opp, ok := e.Evaluate(domain.SportNFL, pair, now)
	require.True(t, ok)

	assert.Equal(t, domain.OptionA, opp.ChosenOption)
	assert.InDelta(t, 0.545, opp.CostA, 1e-9)
	assert.InDelta(t, 1.005, opp.CostB, 1e-9)
	assert.InDelta(t, 45.5, opp.ProfitMarginPercent, 1e-9)

	assert.Equal(t, "polymarket:pm-1|kalshi:K-ATL|kalshi:K-IND", opp.ID)
	assert.Equal(t, "Atlanta Falcons vs Indianapolis Colts", opp.MatchLabel)
	assert.Equal(t, domain.StakeEqual, opp.StakeStrategy)
	assert.Equal(t, now, opp.DetectedAt)

	assert.Equal(t, "pm-1", opp.Legs[0].MarketID)
	assert.Equal(t, "yes", opp.Legs[0].Side)
	assert.InDelta(t, 27.5, opp.Legs[0].Stake, 1e-9)
	assert.Equal(t, "K-IND", opp.Legs[1].MarketID)
	assert.Equal(t, "no", opp.Legs[1].Side)
	assert.InDelta(t, 27.0, opp.Legs[1].Stake, 1e-9)
	assert.InDelta(t, 54.5, opp.TotalStake, 1e-9)
	assert.InDelta(t, 45.5, opp.ProfitAmount, 1e-9)
}

func TestEvaluate_SaintsPanthersPairsOppositeContracts(t *testing.T) {
	e := mustEvaluator(t, equalParams())
	pair := moneylinePair("pm-2", sai, car, 0.315, 0.685, 0.31, 0.70)

	opp, ok := e.Evaluate(domain.SportNFL, pair, now)
	require.True(t, ok)

	assert.InDelta(t, 0.615, opp.CostA, 1e-9)
	assert.InDelta(t, 0.995, opp.CostB, 1e-9)
	assert.Equal(t, domain.OptionA, opp.ChosenOption)
	assert.InDelta(t, 38.5, opp.ProfitMarginPercent, 0.11)

	// Yes on Saints at both venues (0.315 + 0.31) must never be priced.
	assert.NotEqual(t, 0.625, opp.CostA)
	assert.NotEqual(t, 0.625, opp.CostB)
}

func TestEvaluate_NoFalsePositive(t *testing.T) {
	e := mustEvaluator(t, equalParams())

	// Both hedges cost at least 1.
	pair := moneylinePair("pm-3", sai, car, 0.5, 0.5, 0.5, 0.5)
	_, ok := e.Evaluate(domain.SportNFL, pair, now)
	assert.False(t, ok)

	pair = moneylinePair("pm-4", sai, car, 0.6, 0.42, 0.62, 0.41)
	_, ok = e.Evaluate(domain.SportNFL, pair, now)
	assert.False(t, ok)
}

func TestChoose_TiePrefersA(t *testing.T) {
	c, ok := Choose(0.4, 0.5, 0.4, 0.5)
	require.True(t, ok)
	assert.True(t, c.CostA.Equal(c.CostB))
	assert.Equal(t, domain.OptionA, c.Option)
}

func TestChoose_PicksCheaper(t *testing.T) {
	c, ok := Choose(0.5, 0.45, 0.5, 0.6)
	require.True(t, ok)
	assert.Equal(t, domain.OptionB, c.Option)
	assert.Equal(t, "5", c.MarginPercent.String())
}

func TestChoose_ZeroPriceIsNotViable(t *testing.T) {
	_, ok := Choose(0, 1, 0.4, 0.4)
	assert.False(t, ok)

	c, ok := Choose(0.3, 0.7, 0, 0.6)
	require.True(t, ok)
	assert.Equal(t, domain.OptionA, c.Option)
}

func TestEvaluate_FeeAdjustment(t *testing.T) {
	pair := moneylinePair("pm-5", atl, ind, 0.45, 0.55, 0.5, 0.52) // costA 0.93, 7%

	p := equalParams()
	p.IncludeFees = true
	p.FeeAdjustmentPercent = 2
	opp, ok := mustEvaluator(t, p).Evaluate(domain.SportNFL, pair, now)
	require.True(t, ok)
	assert.InDelta(t, 5.0, opp.ProfitMarginPercent, 1e-9)

	// A fee that consumes the whole margin floors at 0, which is no
	// opportunity.
	p.FeeAdjustmentPercent = 7
	_, ok = mustEvaluator(t, p).Evaluate(domain.SportNFL, pair, now)
	assert.False(t, ok)

	// Fees are ignored unless enabled.
	p.IncludeFees = false
	opp, ok = mustEvaluator(t, p).Evaluate(domain.SportNFL, pair, now)
	require.True(t, ok)
	assert.InDelta(t, 7.0, opp.ProfitMarginPercent, 1e-9)
}

func TestEvaluate_MinimumMargin(t *testing.T) {
	pair := moneylinePair("pm-6", atl, ind, 0.45, 0.55, 0.5, 0.52) // 7%

	p := equalParams()
	p.MinimumMarginPercent = 7.5
	_, ok := mustEvaluator(t, p).Evaluate(domain.SportNFL, pair, now)
	assert.False(t, ok)

	p.MinimumMarginPercent = 7
	_, ok = mustEvaluator(t, p).Evaluate(domain.SportNFL, pair, now)
	assert.True(t, ok)
}

func TestEvaluate_Spread(t *testing.T) {
	single := domain.Market{
		ID: "pm-s", Platform: domain.PlatformPolymarket, Kind: domain.KindSpread,
		Participants: []domain.Participant{atl, ind}, YesPrice: 0.52, NoPrice: 0.48,
		Line: 3.5, HasLine: true,
	}
	k := domain.Market{
		ID: "K-ATL3", Platform: domain.PlatformKalshi, Kind: domain.KindSpread,
		Participants: []domain.Participant{atl, ind}, YesPrice: 0.45, NoPrice: 0.55,
		Line: 3.5, HasLine: true,
	}
	pair := domain.MatchedPair{Kind: domain.KindSpread, Single: single, PerEntity: []domain.Market{k}}

	opp, ok := mustEvaluator(t, equalParams()).Evaluate(domain.SportNFL, pair, now)
	require.True(t, ok)
	assert.Equal(t, domain.OptionB, opp.ChosenOption)
	assert.InDelta(t, 0.93, opp.CostB, 1e-9)
	assert.Equal(t, "K-ATL3", opp.Legs[1].MarketID)
	assert.Equal(t, "yes", opp.Legs[1].Side)
	assert.Equal(t, "Atlanta Falcons -3.5 vs Indianapolis Colts", opp.MatchLabel)
	assert.Equal(t, "polymarket:pm-s|kalshi:K-ATL3", opp.ID)
}

func TestEvaluate_IncompletePairIgnored(t *testing.T) {
	pair := moneylinePair("pm-7", atl, ind, 0.275, 0.725, 0.28, 0.73)
	pair.PerEntity = pair.PerEntity[:1]
	_, ok := mustEvaluator(t, equalParams()).Evaluate(domain.SportNFL, pair, now)
	assert.False(t, ok)
}

// Any viable option sized with EqualStaker returns the target from exactly
// one leg in each outcome and costs less than the target.
func TestEqualStaking_Soundness(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	staker := EqualStaker{Target: 250}
	price := func() float64 { return 0.01 + rng.Float64()*0.98 }

	viable := 0
	for i := 0; i < 5000; i++ {
		aYes, bYes := price(), price()
		aNo, bNo := price(), price()

		c, ok := Choose(aYes, aNo, bYes, bNo)
		costA, costB := aYes+bNo, aNo+bYes
		if costA >= 1 && costB >= 1 {
			require.False(t, ok, "costs %v %v", costA, costB)
			continue
		}
		require.True(t, ok)
		viable++

		q := Quote{AYes: aYes, ANo: aNo, BYes: bYes, BNo: bNo}
		legs := q.legs(c.Option)
		size := staker.Size(domain.MatchedPair{}, legs)

		for j, l := range legs {
			l.Stake = size.Stakes[j]
			assert.InDelta(t, 250, l.Payout(), 1e-6)
		}
		assert.Less(t, size.TotalStake, 250.0)
		assert.Greater(t, size.ProfitAmount, 0.0)
		assert.True(t, c.MarginPercent.IsPositive())
	}
	assert.Greater(t, viable, 100)
}

func TestNewEvaluator_RejectsInvalidParams(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Params)
	}{
		{"negative payout", func(p *Params) { p.TargetPayout = -10 }},
		{"zero payout", func(p *Params) { p.TargetPayout = 0 }},
		{"negative threshold", func(p *Params) { p.MinimumMarginPercent = -1 }},
		{"threshold at 100", func(p *Params) { p.MinimumMarginPercent = 100 }},
		{"fee out of range", func(p *Params) { p.FeeAdjustmentPercent = 150 }},
		{"unknown strategy", func(p *Params) { p.StakeStrategy = "martingale" }},
		{"kelly without factor", func(p *Params) { p.StakeStrategy = domain.StakeKelly; p.Bankroll = 100 }},
		{"kelly without bankroll", func(p *Params) { p.StakeStrategy = domain.StakeKelly; p.KellyConservatismFactor = 0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := equalParams()
			tt.mut(&p)
			_, err := NewEvaluator(p, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
		})
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	e := mustEvaluator(t, equalParams())
	pairs := []domain.MatchedPair{
		moneylinePair("pm-1", atl, ind, 0.275, 0.725, 0.28, 0.73),
		moneylinePair("pm-2", sai, car, 0.315, 0.685, 0.31, 0.70),
	}
	first := Rank(e.EvaluateAll(domain.SportNFL, pairs, now))
	second := Rank(e.EvaluateAll(domain.SportNFL, pairs, now))
	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	assert.Equal(t, "polymarket:pm-1|kalshi:K-ATL|kalshi:K-IND", first[0].ID)
}
