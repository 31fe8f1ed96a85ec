package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alanyoungcy/sportsarb/internal/domain"
	"github.com/alanyoungcy/sportsarb/internal/metrics"
)

// MemorySeenSet is a process-local domain.SeenSet. It is safe for concurrent
// use and never forgets an id.
type MemorySeenSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewMemorySeenSet returns an empty MemorySeenSet.
func NewMemorySeenSet() *MemorySeenSet {
	return &MemorySeenSet{seen: make(map[string]struct{})}
}

// MarkSeen implements domain.SeenSet.
func (s *MemorySeenSet) MarkSeen(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[id]; ok {
		return false, nil
	}
	s.seen[id] = struct{}{}
	return true, nil
}

// Has reports whether id was already marked.
func (s *MemorySeenSet) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[id]
	return ok
}

// Len returns the number of ids recorded.
func (s *MemorySeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// OpportunityNotifier alerts at most once per opportunity id for the life
// of the process. An optional shared seen set (Redis) extends that to every
// scanner using it, for as long as its entries live.
type OpportunityNotifier struct {
	notifier *Notifier
	local    *MemorySeenSet
	shared   domain.SeenSet
}

// NewOpportunityNotifier wraps n. shared may be nil.
func NewOpportunityNotifier(n *Notifier, shared domain.SeenSet) *OpportunityNotifier {
	return &OpportunityNotifier{notifier: n, local: NewMemorySeenSet(), shared: shared}
}

// markSeen consults the shared set before recording id locally, so a shared
// set outage leaves the id eligible for the next cycle.
func (o *OpportunityNotifier) markSeen(ctx context.Context, id string) (bool, error) {
	if o.local.Has(id) {
		return false, nil
	}
	first := true
	if o.shared != nil {
		var err error
		if first, err = o.shared.MarkSeen(ctx, id); err != nil {
			return false, err
		}
	}
	if marked, _ := o.local.MarkSeen(ctx, id); !marked {
		return false, nil
	}
	return first, nil
}

// Notify sends opp unless its id was already notified. It reports whether a
// notification went out. A failed send is not retried on later cycles.
func (o *OpportunityNotifier) Notify(ctx context.Context, opp domain.Opportunity) (bool, error) {
	if !o.notifier.Enabled(EventOpportunity) {
		return false, nil
	}
	first, err := o.markSeen(ctx, opp.ID)
	if err != nil {
		return false, fmt.Errorf("notify: mark seen %s: %w", opp.ID, err)
	}
	if !first {
		return false, nil
	}

	title, body := FormatOpportunity(opp)
	if err := o.notifier.Notify(ctx, EventOpportunity, title, body); err != nil {
		metrics.NotificationsSent.WithLabelValues("error").Inc()
		return false, err
	}
	metrics.NotificationsSent.WithLabelValues("ok").Inc()
	return true, nil
}

// NotifyFailures reports the platform fetches that failed in snap. A clean
// cycle sends nothing.
func (o *OpportunityNotifier) NotifyFailures(ctx context.Context, snap domain.CycleSnapshot) error {
	if len(snap.Failures) == 0 || !o.notifier.Enabled(EventCycleFailed) {
		return nil
	}
	title := fmt.Sprintf("Scan cycle %s degraded", snap.RunID)
	return o.notifier.Notify(ctx, EventCycleFailed, title, strings.Join(snap.Failures, "\n"))
}

// FormatOpportunity renders the alert title and body for opp.
func FormatOpportunity(opp domain.Opportunity) (string, string) {
	title := fmt.Sprintf("%s arb %.2f%%: %s", strings.ToUpper(string(opp.Sport)), opp.ProfitMarginPercent, opp.MatchLabel)

	var b strings.Builder
	fmt.Fprintf(&b, "Kind: %s | Option %s | cost A %.3f / B %.3f\n", opp.Kind, opp.ChosenOption, opp.CostA, opp.CostB)
	for _, l := range opp.Legs {
		fmt.Fprintf(&b, "- %s %s @ %.3f stake $%.2f (%s)\n", l.Platform, strings.ToUpper(l.Side), l.Price, l.Stake, l.MarketID)
	}
	fmt.Fprintf(&b, "Total $%.2f -> payout $%.2f, profit $%.2f (%s)", opp.TotalStake, opp.TargetPayout, opp.ProfitAmount, opp.StakeStrategy)
	return title, b.String()
}
