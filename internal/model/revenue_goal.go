package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RevenueGoal is the revenue target for a calendar month.  Month is unique
// (YYYY-MM); setting a goal again for the same month replaces the amount.
type RevenueGoal struct {
	ID         uint64          `json:"id"`
	Month      string          `json:"month"`
	GoalAmount decimal.Decimal `json:"goal_amount"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
