// Package arbitrage evaluates matched cross-platform pairs for riskless
// arbitrage, sizes the stakes, and ranks the resulting opportunities.
package arbitrage

import (
	"fmt"
	"strings"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// Params are the caller-supplied evaluation settings. There are no
// defaults at this layer.
type Params struct {
	MinimumMarginPercent    float64
	FeeAdjustmentPercent    float64
	IncludeFees             bool
	TargetPayout            float64
	StakeStrategy           domain.StakeStrategy
	KellyConservatismFactor float64
	Bankroll                float64
}

// Validate reports every out-of-range setting in one error wrapping
// domain.ErrInvalidConfiguration.
func (p Params) Validate() error {
	var errs []string

	if p.TargetPayout <= 0 {
		errs = append(errs, fmt.Sprintf("target_payout must be > 0, got %g", p.TargetPayout))
	}
	if p.MinimumMarginPercent < 0 || p.MinimumMarginPercent >= 100 {
		errs = append(errs, fmt.Sprintf("minimum_margin_percent must be in [0,100), got %g", p.MinimumMarginPercent))
	}
	if p.FeeAdjustmentPercent < 0 || p.FeeAdjustmentPercent >= 100 {
		errs = append(errs, fmt.Sprintf("fee_adjustment_percent must be in [0,100), got %g", p.FeeAdjustmentPercent))
	}

	switch p.StakeStrategy {
	case domain.StakeEqual:
	case domain.StakeKelly:
		if p.KellyConservatismFactor <= 0 || p.KellyConservatismFactor > 1 {
			errs = append(errs, fmt.Sprintf("kelly_conservatism_factor must be in (0,1], got %g", p.KellyConservatismFactor))
		}
		if p.Bankroll <= 0 {
			errs = append(errs, fmt.Sprintf("bankroll must be > 0 for kelly staking, got %g", p.Bankroll))
		}
	default:
		errs = append(errs, fmt.Sprintf("stake_strategy must be %q or %q, got %q", domain.StakeEqual, domain.StakeKelly, p.StakeStrategy))
	}

	if len(errs) > 0 {
		return fmt.Errorf("arbitrage: %w:\n  - %s", domain.ErrInvalidConfiguration, strings.Join(errs, "\n  - "))
	}
	return nil
}
