package matcher

import (
	"sort"
	"strconv"
	"strings"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

const keySep = "-"

// EventKey returns the order-independent identity of an event: the sorted
// participant short codes, plus the exact line for spreads. Lines are not
// rounded, so 3.5 and 4 are different events.
func EventKey(participants []domain.Participant, line *float64) string {
	codes := make([]string, len(participants))
	for i, p := range participants {
		codes[i] = p.ShortCode
	}
	sort.Strings(codes)
	key := strings.Join(codes, keySep)
	if line != nil {
		key += keySep + strconv.FormatFloat(*line, 'f', -1, 64)
	}
	return key
}

// MarketKey is EventKey over a market's participants and optional line.
func MarketKey(m domain.Market) string {
	return EventKey(m.Participants, m.LinePtr())
}
