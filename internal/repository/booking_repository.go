package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/theatre-backoffice/internal/model"
)

// BookingRepo reads the bookings table.  The table is owned by the booking
// subsystem; this repository never writes to it.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// booking_date is a DATE column; formatting it in SQL keeps the value a
// plain calendar date and avoids any zone conversion in the driver.
const bookingColumns = `id, DATE_FORMAT(booking_date, '%Y-%m-%d'), time_slot, total_amount,
	cash_amount, upi_amount, COALESCE(refund_status, 'none'), COALESCE(refund_amount, 0)`

// ListByDateRange returns bookings dated within [start, end], ordered by
// date then id.  An empty bound leaves that side open.
func (r *BookingRepo) ListByDateRange(ctx context.Context, start, end string) ([]model.Booking, error) {
	where := []string{}
	args := []any{}
	if start != "" {
		where = append(where, "booking_date >= ?")
		args = append(args, start)
	}
	if end != "" {
		where = append(where, "booking_date <= ?")
		args = append(args, end)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + cond + ` ORDER BY booking_date ASC, id ASC`
	return r.query(ctx, q, args...)
}

// ListByDates returns bookings dated on any of the given days.  No query is
// issued for an empty list.
func (r *BookingRepo) ListByDates(ctx context.Context, dates []string) ([]model.Booking, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(dates))
	for _, d := range dates {
		args = append(args, d)
	}
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_date IN (` + placeholders(len(dates)) + `) ORDER BY booking_date ASC, id ASC`
	return r.query(ctx, q, args...)
}

func (r *BookingRepo) query(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Booking
	for rows.Next() {
		var b model.Booking
		var status string
		if err := rows.Scan(
			&b.ID, &b.BookingDate, &b.TimeSlot, &b.TotalAmount,
			&b.CashAmount, &b.UpiAmount, &status, &b.RefundAmount,
		); err != nil {
			return nil, err
		}
		b.RefundStatus = model.RefundStatus(strings.ToLower(status))
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
