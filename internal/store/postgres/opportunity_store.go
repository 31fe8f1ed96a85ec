package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// OpportunityStore implements domain.OpportunityStore using PostgreSQL.
type OpportunityStore struct {
	pool *pgxpool.Pool
}

// NewOpportunityStore creates a new OpportunityStore backed by the given pool.
func NewOpportunityStore(pool *pgxpool.Pool) *OpportunityStore {
	return &OpportunityStore{pool: pool}
}

const opportunitySelectCols = `opportunity_id, sport, kind, match_label, line,
	profit_margin_percent, chosen_option, cost_a, cost_b, legs,
	total_stake, target_payout, profit_amount, stake_strategy, detected_at`

const insertOpportunity = `
	INSERT INTO opportunities (
		run_id, opportunity_id, sport, kind, match_label, line,
		profit_margin_percent, chosen_option, cost_a, cost_b, legs,
		total_stake, target_payout, profit_amount, stake_strategy, detected_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10, $11,
		$12, $13, $14, $15, $16
	)
	ON CONFLICT (run_id, opportunity_id) DO NOTHING`

// InsertBatch stores every opportunity of a cycle in one batch. Re-inserting
// the same run is a no-op.
func (s *OpportunityStore) InsertBatch(ctx context.Context, runID string, opps []domain.Opportunity) error {
	if len(opps) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, opp := range opps {
		args, err := opportunityArgs(runID, opp)
		if err != nil {
			return err
		}
		batch.Queue(insertOpportunity, args...)
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("postgres: insert opportunities for run %s: %w", runID, err)
	}
	return nil
}

// ListRecent returns the most recent opportunities ordered by detection time.
func (s *OpportunityStore) ListRecent(ctx context.Context, limit int) ([]domain.Opportunity, error) {
	query := `SELECT ` + opportunitySelectCols + ` FROM opportunities ORDER BY detected_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list recent opportunities: %w", err)
	}
	defer rows.Close()

	var opps []domain.Opportunity
	for rows.Next() {
		var (
			opp      domain.Opportunity
			legsJSON []byte
		)
		if err := rows.Scan(
			&opp.ID, &opp.Sport, &opp.Kind, &opp.MatchLabel, &opp.Line,
			&opp.ProfitMarginPercent, &opp.ChosenOption, &opp.CostA, &opp.CostB, &legsJSON,
			&opp.TotalStake, &opp.TargetPayout, &opp.ProfitAmount, &opp.StakeStrategy, &opp.DetectedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan opportunity: %w", err)
		}
		if err := json.Unmarshal(legsJSON, &opp.Legs); err != nil {
			return nil, fmt.Errorf("postgres: unmarshal legs of %s: %w", opp.ID, err)
		}
		opps = append(opps, opp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list recent opportunities rows: %w", err)
	}
	return opps, nil
}

// opportunityArgs flattens opp into the insertOpportunity parameters.
func opportunityArgs(runID string, opp domain.Opportunity) ([]any, error) {
	legs, err := json.Marshal(opp.Legs)
	if err != nil {
		return nil, fmt.Errorf("postgres: marshal legs of %s: %w", opp.ID, err)
	}
	return []any{
		runID, opp.ID, string(opp.Sport), string(opp.Kind), opp.MatchLabel, opp.Line,
		opp.ProfitMarginPercent, string(opp.ChosenOption), opp.CostA, opp.CostB, legs,
		opp.TotalStake, opp.TargetPayout, opp.ProfitAmount, string(opp.StakeStrategy), opp.DetectedAt,
	}, nil
}

var _ domain.OpportunityStore = (*OpportunityStore)(nil)
