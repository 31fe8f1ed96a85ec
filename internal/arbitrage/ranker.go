package arbitrage

import (
	"sort"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// Rank removes duplicate ids, keeping the highest margin (first seen on a
// tie), and orders by margin descending then id ascending.
func Rank(opps []domain.Opportunity) []domain.Opportunity {
	best := make(map[string]int, len(opps))
	out := make([]domain.Opportunity, 0, len(opps))
	for _, o := range opps {
		i, seen := best[o.ID]
		if !seen {
			best[o.ID] = len(out)
			out = append(out, o)
			continue
		}
		if o.ProfitMarginPercent > out[i].ProfitMarginPercent {
			out[i] = o
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ProfitMarginPercent != out[j].ProfitMarginPercent {
			return out[i].ProfitMarginPercent > out[j].ProfitMarginPercent
		}
		return out[i].ID < out[j].ID
	})
	return out
}
