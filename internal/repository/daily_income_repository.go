package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/theatre-backoffice/internal/model"
)

// DailyIncomeRepo manages persistence for the daily_income ledger.
type DailyIncomeRepo struct {
	db *sql.DB
}

// NewDailyIncomeRepo constructs a DailyIncomeRepo with the given DB handle.
func NewDailyIncomeRepo(db *sql.DB) *DailyIncomeRepo {
	return &DailyIncomeRepo{db: db}
}

const dailyIncomeColumns = `id, DATE_FORMAT(income_date, '%Y-%m-%d'), number_of_shows, cash_received,
	upi_received, other_payments, adjusted_revenue, refund_total, adjusted_shows, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDailyIncome(s rowScanner) (model.DailyIncome, error) {
	var rec model.DailyIncome
	var revenue, refund decimal.NullDecimal
	var shows sql.NullInt64
	err := s.Scan(
		&rec.ID, &rec.Date, &rec.NumberOfShows, &rec.CashReceived,
		&rec.UpiReceived, &rec.OtherPayments, &revenue, &refund, &shows,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return rec, err
	}
	if revenue.Valid {
		rec.AdjustedRevenue = &revenue.Decimal
	}
	if refund.Valid {
		rec.RefundTotal = &refund.Decimal
	}
	if shows.Valid {
		n := int(shows.Int64)
		rec.AdjustedShows = &n
	}
	return rec, nil
}

// ListByDateRange returns rows dated within [start, end], newest first.
// An empty bound leaves that side open.
func (r *DailyIncomeRepo) ListByDateRange(ctx context.Context, start, end string) ([]model.DailyIncome, error) {
	where := []string{}
	args := []any{}
	if start != "" {
		where = append(where, "income_date >= ?")
		args = append(args, start)
	}
	if end != "" {
		where = append(where, "income_date <= ?")
		args = append(args, end)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	q := `SELECT ` + dailyIncomeColumns + ` FROM daily_income WHERE ` + cond + ` ORDER BY income_date DESC`
	return r.query(ctx, q, args...)
}

// ListByDates returns the rows for the given days, if any.
func (r *DailyIncomeRepo) ListByDates(ctx context.Context, dates []string) ([]model.DailyIncome, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(dates))
	for _, d := range dates {
		args = append(args, d)
	}
	q := `SELECT ` + dailyIncomeColumns + ` FROM daily_income WHERE income_date IN (` + placeholders(len(dates)) + `) ORDER BY income_date ASC`
	return r.query(ctx, q, args...)
}

// GetByID retrieves a row by id.  It returns ErrNotFound if there is no
// matching row.
func (r *DailyIncomeRepo) GetByID(ctx context.Context, id uint64) (*model.DailyIncome, error) {
	q := `SELECT ` + dailyIncomeColumns + ` FROM daily_income WHERE id = ?`
	rec, err := scanDailyIncome(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Create inserts rec and assigns the generated ID.  A second row for the
// same date yields ErrConflict.
func (r *DailyIncomeRepo) Create(ctx context.Context, rec *model.DailyIncome) error {
	const q = `INSERT INTO daily_income
		(income_date, number_of_shows, cash_received, upi_received, other_payments, adjusted_revenue, refund_total, adjusted_shows)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		rec.Date, rec.NumberOfShows, rec.CashReceived, rec.UpiReceived, rec.OtherPayments,
		nullDecimal(rec.AdjustedRevenue), nullDecimal(rec.RefundTotal), nullInt(rec.AdjustedShows),
	)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// UpdateGross writes the manually editable columns of row rec.ID.
func (r *DailyIncomeRepo) UpdateGross(ctx context.Context, rec *model.DailyIncome) error {
	const q = `UPDATE daily_income
		SET income_date = ?, number_of_shows = ?, cash_received = ?, upi_received = ?, other_payments = ?
		WHERE id = ?`
	return r.exec(ctx, q, rec.Date, rec.NumberOfShows, rec.CashReceived, rec.UpiReceived, rec.OtherPayments, rec.ID)
}

// UpdateSynced writes the sync-owned columns of row rec.ID.
// other_payments is never touched.
func (r *DailyIncomeRepo) UpdateSynced(ctx context.Context, rec *model.DailyIncome) error {
	const q = `UPDATE daily_income
		SET number_of_shows = ?, cash_received = ?, upi_received = ?,
		    adjusted_revenue = ?, refund_total = ?, adjusted_shows = ?
		WHERE id = ?`
	return r.exec(ctx, q,
		rec.NumberOfShows, rec.CashReceived, rec.UpiReceived,
		nullDecimal(rec.AdjustedRevenue), nullDecimal(rec.RefundTotal), nullInt(rec.AdjustedShows),
		rec.ID,
	)
}

// UpdateAdjusted writes only the adjusted columns of row rec.ID.
func (r *DailyIncomeRepo) UpdateAdjusted(ctx context.Context, rec *model.DailyIncome) error {
	const q = `UPDATE daily_income
		SET adjusted_revenue = ?, refund_total = ?, adjusted_shows = ?
		WHERE id = ?`
	return r.exec(ctx, q,
		nullDecimal(rec.AdjustedRevenue), nullDecimal(rec.RefundTotal), nullInt(rec.AdjustedShows),
		rec.ID,
	)
}

// Delete removes row id.
func (r *DailyIncomeRepo) Delete(ctx context.Context, id uint64) error {
	return r.exec(ctx, `DELETE FROM daily_income WHERE id = ?`, id)
}

// exec runs a single-row write and maps zero affected rows to ErrNotFound.
// The DSN sets clientFoundRows, so an UPDATE that changes nothing still
// reports the matched row.
func (r *DailyIncomeRepo) exec(ctx context.Context, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DailyIncomeRepo) query(ctx context.Context, q string, args ...any) ([]model.DailyIncome, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.DailyIncome
	for rows.Next() {
		rec, err := scanDailyIncome(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
