package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/theatre-backoffice/internal/model"
)

// RevenueGoalRepo manages persistence for monthly revenue goals.
type RevenueGoalRepo struct {
	db *sql.DB
}

// NewRevenueGoalRepo constructs a RevenueGoalRepo with the given DB handle.
func NewRevenueGoalRepo(db *sql.DB) *RevenueGoalRepo {
	return &RevenueGoalRepo{db: db}
}

// GetByMonth returns the goal for month (YYYY-MM), or nil without an error
// when none was set.
func (r *RevenueGoalRepo) GetByMonth(ctx context.Context, month string) (*model.RevenueGoal, error) {
	const q = `SELECT id, month, goal_amount, created_at, updated_at FROM revenue_goals WHERE month = ?`
	var g model.RevenueGoal
	err := r.db.QueryRowContext(ctx, q, month).Scan(&g.ID, &g.Month, &g.GoalAmount, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

// Upsert creates the goal for month or replaces its amount, then returns
// the stored row.
func (r *RevenueGoalRepo) Upsert(ctx context.Context, month string, amount decimal.Decimal) (*model.RevenueGoal, error) {
	const q = `INSERT INTO revenue_goals (month, goal_amount) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE goal_amount = VALUES(goal_amount)`
	if _, err := r.db.ExecContext(ctx, q, month, amount); err != nil {
		return nil, err
	}
	g, err := r.GetByMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrNotFound
	}
	return g, nil
}
