package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

var (
	// "(-3.5)", " +7", "[-10]"; a leading digit ("2025-10") never qualifies.
	signedLineRe = regexp.MustCompile(`(?:^|[\s(\[])([+-]\d{1,2}(?:\.\d+)?)(?:$|[\s)\],:;])`)

	// "wins by over 3.5", "win by more than 7".
	winsByRe = regexp.MustCompile(`(?i)\bwins?\s+by\s+(?:over\s+|more\s+than\s+)?(\d{1,2}(?:\.\d+)?)`)

	spreadWordsRe = regexp.MustCompile(`(?i)\b(?:spread|covers?)\b`)

	// Totals, halves and props are neither winner nor spread contracts.
	unsupportedRe = regexp.MustCompile(`(?i)(?:\bo/u\b|\bover/under\b|\btotals?\b|\b(?:1st|first|2nd|second)\s+half\b|\bquarter\b)`)
)

// LineToken is a spread line found in a title.
type LineToken struct {
	Line   float64 // absolute value
	Signed float64 // as written; "wins by" phrasing reads as negative
	Offset int
	WinsBy bool
}

// ParseLine returns the first spread line token in title.
func ParseLine(title string) (LineToken, bool) {
	var (
		tok   LineToken
		found bool
	)
	if loc := signedLineRe.FindStringSubmatchIndex(title); loc != nil {
		v, err := strconv.ParseFloat(title[loc[2]:loc[3]], 64)
		if err == nil {
			tok = LineToken{Line: math.Abs(v), Signed: v, Offset: loc[2]}
			found = true
		}
	}
	if loc := winsByRe.FindStringSubmatchIndex(title); loc != nil && (!found || loc[0] < tok.Offset) {
		v, err := strconv.ParseFloat(title[loc[2]:loc[3]], 64)
		if err == nil {
			tok = LineToken{Line: v, Signed: -v, Offset: loc[0], WinsBy: true}
			found = true
		}
	}
	return tok, found
}

// Classify labels a title as a spread when it carries a line token or
// spread phrasing, otherwise as a moneyline. ok is false for totals, halves
// and other contracts neither pass can pair.
func Classify(title string) (kind domain.MarketKind, ok bool) {
	if unsupportedRe.MatchString(title) {
		return "", false
	}
	if _, found := ParseLine(title); found {
		return domain.KindSpread, true
	}
	if spreadWordsRe.MatchString(title) {
		return domain.KindSpread, true
	}
	return domain.KindMoneyline, true
}

// OrderBySpread orders two matched participants as [favorite, underdog]
// from the line token in title. The participant mentioned closest before the
// token owns it: a negative line (or "wins by") makes it the favorite, a
// positive line the underdog.
func OrderBySpread(title string, ms []Match) ([]domain.Participant, bool) {
	if len(ms) < 2 {
		return nil, false
	}
	lower := strings.ToLower(title)
	tok, ok := ParseLine(lower)
	if !ok {
		return nil, false
	}
	a, b := ms[0], ms[1]

	owner, other := a, b
	if lastMention(title, lower, b.Participant, tok.Offset) > lastMention(title, lower, a.Participant, tok.Offset) {
		owner, other = b, a
	}
	if tok.Signed < 0 {
		return []domain.Participant{owner.Participant, other.Participant}, true
	}
	return []domain.Participant{other.Participant, owner.Participant}, true
}

// lastMention returns the offset of p's last alias hit starting before
// limit, or -1.
func lastMention(title, lower string, p domain.Participant, limit int) int {
	last := -1
	for _, alias := range p.Aliases {
		for from := 0; from < limit; {
			i := indexAlias(title, lower, p, alias, from)
			if i < 0 || i >= limit {
				break
			}
			if i > last {
				last = i
			}
			from = i + 1
		}
	}
	return last
}
