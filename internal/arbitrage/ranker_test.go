package arbitrage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

func TestRank(t *testing.T) {
	in := []domain.Opportunity{
		{ID: "b", ProfitMarginPercent: 2},
		{ID: "a", ProfitMarginPercent: 5},
		{ID: "c", ProfitMarginPercent: 2},
		{ID: "b", ProfitMarginPercent: 3},
		{ID: "a", ProfitMarginPercent: 1},
	}
	got := Rank(in)

	ids := make([]string, len(got))
	for i, o := range got {
		ids[i] = o.ID
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Equal(t, 5.0, got[0].ProfitMarginPercent)
	assert.Equal(t, 3.0, got[1].ProfitMarginPercent)
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil))
}
