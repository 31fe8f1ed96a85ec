package normalize

import (
	"strings"

	"github.com/alanyoungcy/sportsarb/internal/domain"
	"github.com/alanyoungcy/sportsarb/internal/extract"
)

// kalshi converts one per-participant Kalshi market. Participants[0] is the
// team the contract is scoped to; the opponent comes from the title or from
// sibling markets of the same event.
func (n *Normalizer) kalshi(r domain.KalshiRecord, siblings []domain.Participant) (domain.Market, error) {
	if !kalshiTradeable(r.Status) {
		return domain.Market{}, unparseable(r.Ticker, "status %q", r.Status)
	}

	kind, ok := extract.Classify(r.Title)
	if !ok {
		return domain.Market{}, unparseable(r.Ticker, "unsupported title %q", r.Title)
	}
	if kind == domain.KindMoneyline {
		if subKind, ok := extract.Classify(r.YesSubTitle); ok && subKind == domain.KindSpread {
			kind = domain.KindSpread
		}
	}

	yes, ok := PickPrice(
		firstPresent(parseDollars(r.LastPriceDollars), centsToProb(r.LastPrice)),
		firstPresent(parseDollars(r.YesBidDollars), centsToProb(r.YesBid)),
		firstPresent(parseDollars(r.YesAskDollars), centsToProb(r.YesAsk)),
	)
	if !ok {
		return domain.Market{}, unparseable(r.Ticker, "no usable price")
	}

	subject, ok := n.kalshiSubject(r)
	if !ok {
		return domain.Market{}, unparseable(r.Ticker, "no participant hint")
	}
	opponent, ok := n.kalshiOpponent(r, subject, siblings)
	if !ok {
		return domain.Market{}, unparseable(r.Ticker, "no opponent for %s", subject.ShortCode)
	}

	m := domain.Market{
		ID:           r.Ticker,
		Platform:     domain.PlatformKalshi,
		SourceTitle:  r.Title,
		Kind:         kind,
		Participants: []domain.Participant{subject, opponent},
		YesPrice:     yes,
		NoPrice:      Complement(yes),
	}

	if kind == domain.KindSpread {
		switch {
		case r.FloorStrike != nil && *r.FloorStrike > 0:
			m.Line = *r.FloorStrike
		default:
			tok, found := extract.ParseLine(r.YesSubTitle)
			if !found {
				tok, found = extract.ParseLine(r.Title)
			}
			if !found {
				return domain.Market{}, unparseable(r.Ticker, "spread without line")
			}
			m.Line = tok.Line
		}
		m.HasLine = true
	}
	return m, nil
}

func kalshiTradeable(status string) bool {
	switch strings.ToLower(status) {
	case "", "open", "active":
		return true
	default:
		return false
	}
}

// kalshiSubject resolves the participant hint: the ticker suffix code
// first, then the yes subtitle, then the title.
func (n *Normalizer) kalshiSubject(r domain.KalshiRecord) (domain.Participant, bool) {
	if code := tickerSuffix(r.Ticker); code != "" {
		if p, ok := n.cat.Resolve(code); ok {
			return p, true
		}
	}
	if found := extract.Extract(r.YesSubTitle, n.cat); len(found) > 0 {
		return found[0], true
	}
	if found := extract.Extract(r.Title, n.cat); len(found) == 1 {
		return found[0], true
	}
	return domain.Participant{}, false
}

func (n *Normalizer) kalshiOpponent(r domain.KalshiRecord, subject domain.Participant, siblings []domain.Participant) (domain.Participant, bool) {
	for _, p := range extract.Extract(r.Title, n.cat) {
		if !p.Same(subject) {
			return p, true
		}
	}
	for _, p := range siblings {
		if !p.Same(subject) {
			return p, true
		}
	}
	return domain.Participant{}, false
}

// kalshiSubjectsByEvent collects the resolved subject of every Kalshi record
// per event ticker, in first-seen order.
func (n *Normalizer) kalshiSubjectsByEvent(records []domain.RawRecord) map[string][]domain.Participant {
	out := make(map[string][]domain.Participant)
	for _, rec := range records {
		r, ok := rec.(domain.KalshiRecord)
		if !ok || r.EventTicker == "" {
			continue
		}
		p, ok := n.kalshiSubject(r)
		if !ok {
			continue
		}
		dup := false
		for _, q := range out[r.EventTicker] {
			if q.Same(p) {
				dup = true
				break
			}
		}
		if !dup {
			out[r.EventTicker] = append(out[r.EventTicker], p)
		}
	}
	return out
}

// tickerSuffix returns the alphabetic team code closing a market ticker,
// e.g. "ATL" from "KXNFLGAME-25OCT19ATLIND-ATL" or "KXNFLSPREAD-...-ATL3".
func tickerSuffix(ticker string) string {
	i := strings.LastIndexByte(ticker, '-')
	if i < 0 || i == len(ticker)-1 {
		return ""
	}
	return strings.TrimRight(ticker[i+1:], "0123456789")
}
