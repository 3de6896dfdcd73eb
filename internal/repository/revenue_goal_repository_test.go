package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func TestRevenueGoalGetByMonthAbsent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewRevenueGoalRepo(db)

	mock.ExpectQuery(`FROM revenue_goals WHERE month = \?`).WithArgs("2024-06").WillReturnError(sql.ErrNoRows)
	g, err := repo.GetByMonth(context.Background(), "2024-06")
	if err != nil || g != nil {
		t.Fatalf("absent goal = %v, %v", g, err)
	}
}

func TestRevenueGoalUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewRevenueGoalRepo(db)
	now := time.Now().UTC()

	mock.ExpectExec(`INSERT INTO revenue_goals \(month, goal_amount\) VALUES \(\?, \?\)\s+ON DUPLICATE KEY UPDATE`).
		WithArgs("2024-06", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`FROM revenue_goals WHERE month = \?`).WithArgs("2024-06").
		WillReturnRows(sqlmock.NewRows([]string{"id", "month", "goal_amount", "created_at", "updated_at"}).
			AddRow(1, "2024-06", "100000.00", now, now))

	g, err := repo.Upsert(context.Background(), "2024-06", decimal.NewFromInt(100000))
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if g.ID != 1 || !g.GoalAmount.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("goal = %+v", g)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
