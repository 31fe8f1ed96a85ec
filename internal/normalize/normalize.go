// Package normalize converts platform raw records into canonical markets.
// Normalization is a pure function of the records and the catalog; records
// that fail price or entity extraction are dropped.
package normalize

import (
	"github.com/alanyoungcy/sportsarb/internal/catalog"
	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// Stats counts normalization outcomes for one batch.
type Stats struct {
	Records int
	Markets int
	Dropped int
}

// Normalizer resolves participants against one sport's catalog.
type Normalizer struct {
	cat *catalog.Catalog
}

// New returns a Normalizer backed by cat.
func New(cat *catalog.Catalog) *Normalizer {
	return &Normalizer{cat: cat}
}

// Normalize converts records into markets, preserving input order.
func (n *Normalizer) Normalize(records []domain.RawRecord) ([]domain.Market, Stats) {
	stats := Stats{Records: len(records)}
	siblings := n.kalshiSubjectsByEvent(records)

	out := make([]domain.Market, 0, len(records))
	for _, rec := range records {
		var (
			m   domain.Market
			err error
		)
		switch r := rec.(type) {
		case domain.PolymarketRecord:
			m, err = n.polymarket(r)
		case domain.KalshiRecord:
			m, err = n.kalshi(r, siblings[r.EventTicker])
		default:
			err = errUnknownVariant
		}
		if err != nil {
			stats.Dropped++
			continue
		}
		out = append(out, m)
	}
	stats.Markets = len(out)
	return out, stats
}
