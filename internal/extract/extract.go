// Package extract finds catalog participants referenced in free-text market
// titles and parses the spread line tokens those titles carry.
package extract

import (
	"sort"
	"strings"

	"github.com/alanyoungcy/sportsarb/internal/catalog"
	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// Match is a participant found in a title at a byte offset of the
// lower-cased title.
type Match struct {
	Participant domain.Participant
	Offset      int
	End         int
}

// Matches returns every participant referenced in title, ordered by offset.
// Each participant appears at most once, at the earliest offset any of its
// aliases matches on word boundaries. Equal offsets keep catalog order.
// Short codes only count when written in upper case, since several of them
// ("no", "was", "min") are ordinary words.
func Matches(title string, cat *catalog.Catalog) []Match {
	lower := strings.ToLower(title)
	var out []Match
	for _, p := range cat.Participants() {
		best, bestEnd := -1, -1
		for _, alias := range p.Aliases {
			off := indexAlias(title, lower, p, alias, 0)
			if off < 0 {
				continue
			}
			if best < 0 || off < best || (off == best && off+len(alias) > bestEnd) {
				best, bestEnd = off, off+len(alias)
			}
		}
		if best >= 0 {
			out = append(out, Match{Participant: p, Offset: best, End: bestEnd})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

// Extract returns the participants referenced in title in reading order.
func Extract(title string, cat *catalog.Catalog) []domain.Participant {
	ms := Matches(title, cat)
	out := make([]domain.Participant, len(ms))
	for i, m := range ms {
		out[i] = m.Participant
	}
	return out
}

// Pair returns the first two participants by position. Titles naming more
// than two participants are truncated; fewer than two is not matchable.
func Pair(found []domain.Participant) ([]domain.Participant, bool) {
	if len(found) < 2 {
		return nil, false
	}
	return []domain.Participant{found[0], found[1]}, true
}

// indexAlias finds alias of p in lower from byte offset from. The alias
// equal to p's short code must appear upper-cased in title.
func indexAlias(title, lower string, p domain.Participant, alias string, from int) int {
	if alias != strings.ToLower(p.ShortCode) {
		return indexWordFrom(lower, alias, from)
	}
	if len(title) != len(lower) {
		return indexWordFrom(title, p.ShortCode, from)
	}
	for {
		i := indexWordFrom(lower, alias, from)
		if i < 0 || title[i:i+len(alias)] == p.ShortCode {
			return i
		}
		from = i + 1
	}
}

// indexWordFrom is indexWord starting the search at byte offset from.
func indexWordFrom(s, needle string, from int) int {
	if needle == "" {
		return -1
	}
	for from <= len(s)-len(needle) {
		i := strings.Index(s[from:], needle)
		if i < 0 {
			return -1
		}
		start := from + i
		end := start + len(needle)
		if (start == 0 || !isWordByte(s[start-1])) && (end == len(s) || !isWordByte(s[end])) {
			return start
		}
		from = start + 1
	}
	return -1
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		b >= 0x80
}
