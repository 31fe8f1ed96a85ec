// Package matcher pairs Polymarket markets, which carry both participants in
// one contract, with the per-participant Kalshi contracts for the same event.
package matcher

import (
	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// Stats counts what a Match call could not pair.
type Stats struct {
	NoCounterpart int
}

// Match runs the moneyline and spread passes and returns the matched pairs
// in the order of a. Markets without a counterpart are dropped.
func Match(a, b []domain.Market) ([]domain.MatchedPair, Stats) {
	moneyline := groupMoneyline(b)
	spreads := groupSpreads(b)

	var (
		out   []domain.MatchedPair
		stats Stats
	)
	for _, m := range a {
		var (
			pair domain.MatchedPair
			ok   bool
		)
		switch m.Kind {
		case domain.KindMoneyline:
			pair, ok = matchMoneyline(m, moneyline)
		case domain.KindSpread:
			pair, ok = matchSpread(m, spreads)
		}
		if !ok {
			stats.NoCounterpart++
			continue
		}
		out = append(out, pair)
	}
	return out, stats
}

// groupMoneyline groups Kalshi winner markets by participant key. A group
// is usable only when it holds exactly two markets scoped to different
// participants.
func groupMoneyline(b []domain.Market) map[string][]domain.Market {
	groups := make(map[string][]domain.Market)
	for _, m := range b {
		if m.Kind != domain.KindMoneyline || len(m.Participants) != 2 {
			continue
		}
		k := EventKey(m.Participants, nil)
		groups[k] = append(groups[k], m)
	}
	for k, g := range groups {
		if len(g) != 2 || g[0].Subject().Same(g[1].Subject()) {
			delete(groups, k)
		}
	}
	return groups
}

// groupSpreads indexes Kalshi spread markets by participant and line key
// plus the contract's subject, keeping the first market seen for each. Both
// sides of a game list a contract at the same line.
func groupSpreads(b []domain.Market) map[string]domain.Market {
	idx := make(map[string]domain.Market)
	for _, m := range b {
		if m.Kind != domain.KindSpread || !m.HasLine || len(m.Participants) != 2 {
			continue
		}
		k := spreadKey(m, m.Subject())
		if _, seen := idx[k]; !seen {
			idx[k] = m
		}
	}
	return idx
}

func matchMoneyline(a domain.Market, groups map[string][]domain.Market) (domain.MatchedPair, bool) {
	if len(a.Participants) != 2 {
		return domain.MatchedPair{}, false
	}
	group, ok := groups[EventKey(a.Participants, nil)]
	if !ok {
		return domain.MatchedPair{}, false
	}
	perEntity := make([]domain.Market, 0, 2)
	for _, p := range a.Participants {
		found := false
		for _, bm := range group {
			if bm.Subject().Same(p) {
				perEntity = append(perEntity, bm)
				found = true
				break
			}
		}
		if !found {
			return domain.MatchedPair{}, false
		}
	}
	return domain.MatchedPair{Kind: domain.KindMoneyline, Single: a, PerEntity: perEntity}, true
}

// matchSpread looks up the Kalshi contract for the Polymarket favorite
// covering the same line. A counterpart scoped to the underdog is a
// different contract and does not match.
func matchSpread(a domain.Market, idx map[string]domain.Market) (domain.MatchedPair, bool) {
	if len(a.Participants) != 2 || !a.HasLine {
		return domain.MatchedPair{}, false
	}
	bm, ok := idx[spreadKey(a, a.Participants[0])]
	if !ok {
		return domain.MatchedPair{}, false
	}
	return domain.MatchedPair{Kind: domain.KindSpread, Single: a, PerEntity: []domain.Market{bm}}, true
}

func spreadKey(m domain.Market, subject domain.Participant) string {
	return MarketKey(m) + "/" + subject.ShortCode
}
