package arbitrage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// Evaluator turns matched pairs into opportunities. It is immutable after
// construction and safe for concurrent use.
type Evaluator struct {
	params Params
	staker Staker
}

// NewEvaluator validates params and selects the configured staker from
// reg. A nil reg uses DefaultRegistry with the consensus model.
func NewEvaluator(params Params, reg *Registry) (*Evaluator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = DefaultRegistry(params, nil)
	}
	staker, err := reg.Get(params.StakeStrategy)
	if err != nil {
		return nil, err
	}
	return &Evaluator{params: params, staker: staker}, nil
}

// Params returns the evaluation settings.
func (e *Evaluator) Params() Params { return e.params }

// Evaluate computes the opportunity for pair, if any. Pairs whose cheaper
// hedge costs 1 or more, whose fee-adjusted margin is 0, or whose margin is
// below the threshold produce none.
func (e *Evaluator) Evaluate(sport domain.Sport, pair domain.MatchedPair, now time.Time) (domain.Opportunity, bool) {
	q, ok := QuoteFor(pair)
	if !ok {
		return domain.Opportunity{}, false
	}
	choice, ok := Choose(q.AYes, q.ANo, q.BYes, q.BNo)
	if !ok {
		return domain.Opportunity{}, false
	}

	margin := choice.MarginPercent
	if e.params.IncludeFees && e.params.FeeAdjustmentPercent > 0 {
		margin = decimal.Max(margin.Sub(decimal.NewFromFloat(e.params.FeeAdjustmentPercent)), decimal.Zero)
	}
	if !margin.IsPositive() {
		return domain.Opportunity{}, false
	}
	if margin.LessThan(decimal.NewFromFloat(e.params.MinimumMarginPercent)) {
		return domain.Opportunity{}, false
	}

	legs := q.legs(choice.Option)
	size := e.staker.Size(pair, legs)
	for i := range legs {
		legs[i].Stake = size.Stakes[i]
	}

	return domain.Opportunity{
		ID:                  OpportunityID(pair),
		Sport:               sport,
		Kind:                pair.Kind,
		MatchLabel:          MatchLabel(pair.Single),
		Line:                pair.Single.Line,
		ProfitMarginPercent: margin.InexactFloat64(),
		ChosenOption:        choice.Option,
		CostA:               choice.CostA.InexactFloat64(),
		CostB:               choice.CostB.InexactFloat64(),
		Legs:                legs,
		TotalStake:          size.TotalStake,
		TargetPayout:        size.TargetPayout,
		ProfitAmount:        size.ProfitAmount,
		StakeStrategy:       e.staker.Strategy(),
		DetectedAt:          now,
	}, true
}

// EvaluateAll evaluates every pair in order and returns the opportunities.
func (e *Evaluator) EvaluateAll(sport domain.Sport, pairs []domain.MatchedPair, now time.Time) []domain.Opportunity {
	var out []domain.Opportunity
	for _, p := range pairs {
		if opp, ok := e.Evaluate(sport, p, now); ok {
			out = append(out, opp)
		}
	}
	return out
}

// OpportunityID joins the ids of every market contributing to pair.
func OpportunityID(pair domain.MatchedPair) string {
	parts := make([]string, 0, 1+len(pair.PerEntity))
	parts = append(parts, fmt.Sprintf("%s:%s", pair.Single.Platform, pair.Single.ID))
	for _, m := range pair.PerEntity {
		parts = append(parts, fmt.Sprintf("%s:%s", m.Platform, m.ID))
	}
	return strings.Join(parts, "|")
}

// MatchLabel renders a market as "Atlanta Falcons vs Indianapolis Colts",
// with the favorite's line for spreads.
func MatchLabel(m domain.Market) string {
	names := make([]string, len(m.Participants))
	for i, p := range m.Participants {
		names[i] = p.CanonicalName
	}
	if m.Kind == domain.KindSpread && m.HasLine && len(names) > 0 {
		names[0] += " -" + strconv.FormatFloat(m.Line, 'f', -1, 64)
	}
	return strings.Join(names, " vs ")
}
