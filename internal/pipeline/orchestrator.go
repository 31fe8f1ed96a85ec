package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

const (
	// ChannelOpportunities is the pub/sub channel carrying cycle snapshots.
	ChannelOpportunities = "opportunities"
	// StreamOpportunities is the capped stream mirroring the channel.
	StreamOpportunities = "opportunities:stream"

	cycleLockKey = "cycle"
)

// OpportunityNotifier alerts operators about an opportunity. It reports
// whether a notification was actually sent.
type OpportunityNotifier interface {
	Notify(ctx context.Context, opp domain.Opportunity) (bool, error)
}

// FailureNotifier is optionally implemented by an OpportunityNotifier to
// alert on cycles with failed platform fetches.
type FailureNotifier interface {
	NotifyFailures(ctx context.Context, snap domain.CycleSnapshot) error
}

// SnapshotPublisher forwards a finished cycle to a downstream consumer such
// as a Kafka topic or the WebSocket hub.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snap domain.CycleSnapshot) error
}

// Sinks are the optional consumers of a finished cycle. Nil fields are
// skipped.
type Sinks struct {
	Notifier   OpportunityNotifier
	Store      domain.OpportunityStore
	Audit      domain.AuditStore
	Bus        domain.SignalBus
	Cache      domain.SnapshotCache
	Archiver   domain.SnapshotArchiver
	Publishers []SnapshotPublisher
	Lock       domain.LockManager
}

// Orchestrator runs scan cycles on a schedule and fans each snapshot out to
// its sinks. It also keeps the latest snapshot in memory.
type Orchestrator struct {
	scanner  *Scanner
	sinks    Sinks
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu     sync.RWMutex
	latest *domain.CycleSnapshot
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(scanner *Scanner, sinks Sinks, interval time.Duration, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		scanner:  scanner,
		sinks:    sinks,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger.With(slog.String("component", "orchestrator")),
	}
}

// RunOnce executes a single cycle and dispatches its results. When a cycle
// lock is configured and held elsewhere, it returns domain.ErrLockHeld.
func (o *Orchestrator) RunOnce(ctx context.Context) (domain.CycleSnapshot, error) {
	if o.sinks.Lock != nil {
		ttl := o.interval
		if ttl <= 0 {
			ttl = time.Minute
		}
		unlock, err := o.sinks.Lock.Acquire(ctx, cycleLockKey, ttl)
		if err != nil {
			return domain.CycleSnapshot{}, fmt.Errorf("pipeline: acquire cycle lock: %w", err)
		}
		defer unlock()
	}

	snap, err := o.scanner.RunCycle(ctx, o.now())
	if err != nil {
		return domain.CycleSnapshot{}, err
	}

	o.mu.Lock()
	o.latest = &snap
	o.mu.Unlock()

	o.dispatch(ctx, snap)
	return snap, nil
}

// RunLoop runs cycles on the configured interval until the context is
// cancelled.
func (o *Orchestrator) RunLoop(ctx context.Context) error {
	o.logger.InfoContext(ctx, "scan loop starting", slog.Duration("interval", o.interval))

	// Run immediately on start.
	o.runLogged(ctx)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("scan loop stopped")
			return ctx.Err()
		case <-ticker.C:
			o.runLogged(ctx)
		}
	}
}

func (o *Orchestrator) runLogged(ctx context.Context) {
	_, err := o.RunOnce(ctx)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrLockHeld):
		o.logger.InfoContext(ctx, "cycle skipped, another instance holds the lock")
	case ctx.Err() != nil:
	default:
		o.logger.ErrorContext(ctx, "scan cycle failed", slog.String("error", err.Error()))
	}
}

// GetLatest returns the most recent snapshot produced by this process.
func (o *Orchestrator) GetLatest(_ context.Context) (domain.CycleSnapshot, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.latest == nil {
		return domain.CycleSnapshot{}, fmt.Errorf("pipeline: latest snapshot: %w", domain.ErrNotFound)
	}
	return *o.latest, nil
}

// dispatch hands the snapshot to every configured sink. Sink failures are
// logged and never fail the cycle.
func (o *Orchestrator) dispatch(ctx context.Context, snap domain.CycleSnapshot) {
	log := o.logger.With(slog.String("run_id", snap.RunID))

	if n := o.sinks.Notifier; n != nil {
		sent := 0
		for _, opp := range snap.Opportunities {
			ok, err := n.Notify(ctx, opp)
			if err != nil {
				log.WarnContext(ctx, "notify failed",
					slog.String("opportunity_id", opp.ID),
					slog.String("error", err.Error()),
				)
				continue
			}
			if ok {
				sent++
			}
		}
		if sent > 0 {
			log.InfoContext(ctx, "opportunities notified", slog.Int("count", sent))
		}
		if fn, ok := n.(FailureNotifier); ok && len(snap.Failures) > 0 {
			if err := fn.NotifyFailures(ctx, snap); err != nil {
				log.WarnContext(ctx, "failure notice failed", slog.String("error", err.Error()))
			}
		}
	}

	if s := o.sinks.Store; s != nil && len(snap.Opportunities) > 0 {
		if err := s.InsertBatch(ctx, snap.RunID, snap.Opportunities); err != nil {
			log.WarnContext(ctx, "persist opportunities failed", slog.String("error", err.Error()))
		}
	}

	if a := o.sinks.Audit; a != nil {
		detail := map[string]any{
			"run_id":             snap.RunID,
			"polymarket_markets": snap.PolymarketMarkets,
			"kalshi_markets":     snap.KalshiMarkets,
			"matched_pairs":      snap.MatchedPairs,
			"opportunities":      len(snap.Opportunities),
			"failures":           snap.Failures,
		}
		if err := a.Log(ctx, "cycle_completed", detail); err != nil {
			log.WarnContext(ctx, "audit log failed", slog.String("error", err.Error()))
		}
	}

	if b := o.sinks.Bus; b != nil {
		payload, err := json.Marshal(snap)
		if err != nil {
			log.WarnContext(ctx, "encode snapshot failed", slog.String("error", err.Error()))
		} else {
			if err := b.Publish(ctx, ChannelOpportunities, payload); err != nil {
				log.WarnContext(ctx, "publish snapshot failed", slog.String("error", err.Error()))
			}
			if err := b.StreamAppend(ctx, StreamOpportunities, payload); err != nil {
				log.WarnContext(ctx, "stream snapshot failed", slog.String("error", err.Error()))
			}
		}
	}

	for _, p := range o.sinks.Publishers {
		if p == nil {
			continue
		}
		if err := p.PublishSnapshot(ctx, snap); err != nil {
			log.WarnContext(ctx, "forward snapshot failed", slog.String("error", err.Error()))
		}
	}

	if c := o.sinks.Cache; c != nil {
		if err := c.SetLatest(ctx, snap); err != nil {
			log.WarnContext(ctx, "cache snapshot failed", slog.String("error", err.Error()))
		}
	}

	if ar := o.sinks.Archiver; ar != nil {
		key, err := ar.Archive(ctx, snap)
		if err != nil {
			log.WarnContext(ctx, "archive snapshot failed", slog.String("error", err.Error()))
		} else {
			log.DebugContext(ctx, "snapshot archived", slog.String("key", key))
		}
	}
}
