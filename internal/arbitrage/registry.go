package arbitrage

import (
	"fmt"
	"sort"
	"sync"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// Registry holds the stake strategies selectable by config.
type Registry struct {
	stakers map[domain.StakeStrategy]Staker
	mu      sync.RWMutex
}

// NewRegistry returns an empty registry. Call Register to add stakers.
func NewRegistry() *Registry {
	return &Registry{stakers: make(map[domain.StakeStrategy]Staker)}
}

// DefaultRegistry registers the equal and kelly stakers for params.
func DefaultRegistry(params Params, model ProbabilityModel) *Registry {
	if model == nil {
		model = ConsensusModel{}
	}
	r := NewRegistry()
	r.Register(EqualStaker{Target: params.TargetPayout})
	r.Register(KellyStaker{
		Model:        model,
		Conservatism: params.KellyConservatismFactor,
		Bankroll:     params.Bankroll,
	})
	return r
}

// Register adds s under its strategy name.
func (r *Registry) Register(s Staker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stakers[s.Strategy()] = s
}

// Get returns the staker for name, or an error if not found.
func (r *Registry) Get(name domain.StakeStrategy) (Staker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stakers[name]
	if !ok {
		return nil, fmt.Errorf("arbitrage: stake strategy %q: %w", name, domain.ErrInvalidConfiguration)
	}
	return s, nil
}

// List returns all registered strategy names, sorted.
func (r *Registry) List() []domain.StakeStrategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]domain.StakeStrategy, 0, len(r.stakers))
	for n := range r.stakers {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
