package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/theatre-backoffice/internal/model"
)

// BookingReader is the read-only view of the booking ledger.
type BookingReader interface {
	// ListByDateRange returns bookings dated within [start, end].  An empty
	// bound is open, so ("", "") returns every booking.
	ListByDateRange(ctx context.Context, start, end string) ([]model.Booking, error)
	// ListByDates returns bookings dated on any of the given days.
	ListByDates(ctx context.Context, dates []string) ([]model.Booking, error)
}

// DailyIncomeStore persists the daily income ledger.
type DailyIncomeStore interface {
	ListByDateRange(ctx context.Context, start, end string) ([]model.DailyIncome, error)
	ListByDates(ctx context.Context, dates []string) ([]model.DailyIncome, error)
	GetByID(ctx context.Context, id uint64) (*model.DailyIncome, error)
	Create(ctx context.Context, rec *model.DailyIncome) error
	// UpdateGross writes the manually editable columns only.
	UpdateGross(ctx context.Context, rec *model.DailyIncome) error
	// UpdateSynced writes the columns owned by the booking sync and leaves
	// other_payments alone.
	UpdateSynced(ctx context.Context, rec *model.DailyIncome) error
	// UpdateAdjusted writes adjusted_revenue, refund_total and
	// adjusted_shows only.
	UpdateAdjusted(ctx context.Context, rec *model.DailyIncome) error
	Delete(ctx context.Context, id uint64) error
}

// GoalStore persists monthly revenue goals.
type GoalStore interface {
	// GetByMonth returns nil without an error when no goal is set.
	GetByMonth(ctx context.Context, month string) (*model.RevenueGoal, error)
	Upsert(ctx context.Context, month string, amount decimal.Decimal) (*model.RevenueGoal, error)
}

// NotificationStore persists alert records.
type NotificationStore interface {
	// Exists reports whether userID already holds an alert of this type
	// and related id.
	Exists(ctx context.Context, userID uint64, typ model.NotificationType, relatedID string) (bool, error)
	Create(ctx context.Context, n *model.Notification) error
	ListForUser(ctx context.Context, userID uint64, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, userID uint64) error
}

// AdminDirectory lists the users that receive alerts.
type AdminDirectory interface {
	ListActiveAdminIDs(ctx context.Context) ([]uint64, error)
}

// EventPublisher hands created notifications to the delivery service.
type EventPublisher interface {
	PublishNotificationCreated(ctx context.Context, n model.Notification) error
}

// Locker serialises sync runs across processes.  Acquire returns
// ErrSyncInProgress when the lock is held elsewhere.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
