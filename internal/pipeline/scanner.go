// Package pipeline runs scan cycles: fetch both platforms, normalize, match,
// evaluate and rank, then fan the results out to notification, storage and
// streaming sinks.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/sportsarb/internal/arbitrage"
	"github.com/alanyoungcy/sportsarb/internal/catalog"
	"github.com/alanyoungcy/sportsarb/internal/domain"
	"github.com/alanyoungcy/sportsarb/internal/matcher"
	"github.com/alanyoungcy/sportsarb/internal/metrics"
	"github.com/alanyoungcy/sportsarb/internal/normalize"
)

// ScannerConfig bundles the collaborators of a Scanner.
type ScannerConfig struct {
	Catalogs   *catalog.Registry
	Sports     []domain.Sport
	Polymarket domain.MarketSource
	Kalshi     domain.MarketSource
	Evaluator  *arbitrage.Evaluator
	Logger     *slog.Logger
}

// Scanner executes one detection cycle across the configured sports.
type Scanner struct {
	catalogs   *catalog.Registry
	sports     []domain.Sport
	polymarket domain.MarketSource
	kalshi     domain.MarketSource
	evaluator  *arbitrage.Evaluator
	newRunID   func() string
	logger     *slog.Logger
}

// NewScanner validates cfg and returns a Scanner. Every sport must have a
// catalog.
func NewScanner(cfg ScannerConfig) (*Scanner, error) {
	if cfg.Catalogs == nil || cfg.Polymarket == nil || cfg.Kalshi == nil || cfg.Evaluator == nil {
		return nil, fmt.Errorf("pipeline: scanner: %w: missing collaborator", domain.ErrInvalidConfiguration)
	}
	if len(cfg.Sports) == 0 {
		return nil, fmt.Errorf("pipeline: scanner: %w: no sports configured", domain.ErrInvalidConfiguration)
	}
	for _, sp := range cfg.Sports {
		if _, err := cfg.Catalogs.Catalog(sp); err != nil {
			return nil, fmt.Errorf("pipeline: scanner: %w", err)
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		catalogs:   cfg.Catalogs,
		sports:     append([]domain.Sport(nil), cfg.Sports...),
		polymarket: cfg.Polymarket,
		kalshi:     cfg.Kalshi,
		evaluator:  cfg.Evaluator,
		newRunID:   uuid.NewString,
		logger:     logger.With(slog.String("component", "scanner")),
	}, nil
}

// sportResult is the outcome of scanning one sport.
type sportResult struct {
	polymarketMarkets int
	kalshiMarkets     int
	pairs             int
	opportunities     []domain.Opportunity
	failures          []string
}

// RunCycle scans every sport once. Platform failures are recorded on the
// snapshot and never fail the cycle; only context cancellation does.
func (s *Scanner) RunCycle(ctx context.Context, now time.Time) (domain.CycleSnapshot, error) {
	start := time.Now()
	snap := domain.CycleSnapshot{
		RunID:     s.newRunID(),
		Sports:    append([]domain.Sport(nil), s.sports...),
		StartedAt: now,
	}

	var opps []domain.Opportunity
	for _, sport := range s.sports {
		if err := ctx.Err(); err != nil {
			return domain.CycleSnapshot{}, fmt.Errorf("pipeline: cycle %s: %w", snap.RunID, err)
		}
		res := s.scanSport(ctx, sport, now)
		snap.PolymarketMarkets += res.polymarketMarkets
		snap.KalshiMarkets += res.kalshiMarkets
		snap.MatchedPairs += res.pairs
		snap.Failures = append(snap.Failures, res.failures...)
		opps = append(opps, res.opportunities...)
	}

	snap.Opportunities = arbitrage.Rank(opps)
	snap.FinishedAt = now.Add(time.Since(start))

	metrics.CyclesTotal.Inc()
	metrics.CycleDurationSeconds.Observe(time.Since(start).Seconds())
	for _, o := range snap.Opportunities {
		metrics.OpportunitiesFound.WithLabelValues(string(o.Sport), string(o.Kind)).Inc()
		metrics.OpportunityMarginPercent.Observe(o.ProfitMarginPercent)
	}

	s.logger.InfoContext(ctx, "scan cycle complete",
		slog.String("run_id", snap.RunID),
		slog.Int("polymarket_markets", snap.PolymarketMarkets),
		slog.Int("kalshi_markets", snap.KalshiMarkets),
		slog.Int("matched_pairs", snap.MatchedPairs),
		slog.Int("opportunities", len(snap.Opportunities)),
		slog.Int("failures", len(snap.Failures)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return snap, nil
}

// scanSport fetches and normalizes both platforms concurrently, then matches
// and evaluates synchronously.
func (s *Scanner) scanSport(ctx context.Context, sport domain.Sport, now time.Time) sportResult {
	cat, _ := s.catalogs.Catalog(sport)
	norm := normalize.New(cat)

	var (
		polyMarkets, kalshiMarkets []domain.Market
		polyErr, kalshiErr         error
	)
	var g errgroup.Group
	g.Go(func() error {
		polyMarkets, polyErr = s.fetchAndNormalize(ctx, s.polymarket, norm, sport)
		return nil
	})
	g.Go(func() error {
		kalshiMarkets, kalshiErr = s.fetchAndNormalize(ctx, s.kalshi, norm, sport)
		return nil
	})
	_ = g.Wait()

	var res sportResult
	for _, err := range []error{polyErr, kalshiErr} {
		if err != nil {
			res.failures = append(res.failures, err.Error())
		}
	}

	pairs, mstats := matcher.Match(polyMarkets, kalshiMarkets)
	res.polymarketMarkets = len(polyMarkets)
	res.kalshiMarkets = len(kalshiMarkets)
	res.pairs = len(pairs)
	res.opportunities = s.evaluator.EvaluateAll(sport, pairs, now)

	metrics.PairsMatched.WithLabelValues(string(sport)).Set(float64(len(pairs)))
	s.logger.DebugContext(ctx, "sport scanned",
		slog.String("sport", string(sport)),
		slog.Int("pairs", len(pairs)),
		slog.Int("no_counterpart", mstats.NoCounterpart),
		slog.Int("opportunities", len(res.opportunities)),
	)
	return res
}

// fetchAndNormalize returns an empty list and an ErrUpstreamUnavailable
// wrapped error when the platform fetch fails.
func (s *Scanner) fetchAndNormalize(ctx context.Context, src domain.MarketSource, norm *normalize.Normalizer, sport domain.Sport) ([]domain.Market, error) {
	platform := string(src.Platform())

	records, err := src.FetchRecords(ctx, sport)
	if err != nil {
		metrics.FetchFailuresTotal.WithLabelValues(platform, string(sport)).Inc()
		wrapped := fmt.Errorf("%s/%s: %w: %w", platform, sport, domain.ErrUpstreamUnavailable, err)
		s.logger.WarnContext(ctx, "platform fetch failed",
			slog.String("platform", platform),
			slog.String("sport", string(sport)),
			slog.String("error", err.Error()),
		)
		return nil, wrapped
	}

	markets, stats := norm.Normalize(records)
	metrics.RecordsDroppedTotal.WithLabelValues(platform, string(sport)).Add(float64(stats.Dropped))
	metrics.MarketsNormalized.WithLabelValues(platform, string(sport)).Set(float64(stats.Markets))
	s.logger.DebugContext(ctx, "records normalized",
		slog.String("platform", platform),
		slog.String("sport", string(sport)),
		slog.Int("records", stats.Records),
		slog.Int("markets", stats.Markets),
		slog.Int("dropped", stats.Dropped),
	)
	return markets, nil
}
