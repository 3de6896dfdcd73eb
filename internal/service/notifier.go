package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theatre-backoffice/internal/model"
	"github.com/iliyamo/theatre-backoffice/internal/utils"
)

// ProgressReader is the part of RevenueService the notifier depends on.
type ProgressReader interface {
	RevenueProgress(ctx context.Context, month string) (GoalProgress, error)
}

// CancellationCheck is the outcome of CheckCancellationRate.  A booking
// counts as cancelled when its refund was approved, whether partial or
// full.
type CancellationCheck struct {
	Created          int     `json:"created"`
	CancellationRate float64 `json:"cancellation_rate"`
	Total            int     `json:"total"`
	Cancelled        int     `json:"cancelled"`
	WindowStart      string  `json:"window_start"`
	WindowEnd        string  `json:"window_end"`
}

// Notifier evaluates alert thresholds and writes one notification per
// admin, at most once per (type, related id).
type Notifier struct {
	cfg       Config
	progress  ProgressReader
	bookings  BookingReader
	store     NotificationStore
	admins    AdminDirectory
	publisher EventPublisher
	clock     Clock
	log       logrus.FieldLogger
}

// NewNotifier wires a Notifier.  publisher may be nil.
func NewNotifier(cfg Config, progress ProgressReader, bookings BookingReader, store NotificationStore, admins AdminDirectory, publisher EventPublisher, clock Clock, log logrus.FieldLogger) *Notifier {
	if progress == nil || bookings == nil || store == nil || admins == nil {
		panic("nil dependency passed to NewNotifier")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Notifier{
		cfg:       cfg.withDefaults(),
		progress:  progress,
		bookings:  bookings,
		store:     store,
		admins:    admins,
		publisher: publisher,
		clock:     clock,
		log:       log.WithField("module", "notifier"),
	}
}

// CheckAndCreateRevenueNotifications alerts admins when the current month
// is below GoalAlertPercent of its goal around mid-month.  It returns the
// number of notifications created; 0 for any other month, outside the
// alert days, without a goal, or when the alert was already sent.
func (n *Notifier) CheckAndCreateRevenueNotifications(ctx context.Context, month string) (int, error) {
	if _, err := utils.ParseMonth(month); err != nil {
		return 0, err
	}
	now := n.clock.Now().In(n.cfg.Location)
	if month != utils.ToLocalMonthString(now, n.cfg.Location) {
		return 0, nil
	}
	if day := now.Day(); day < n.cfg.GoalAlertStartDay || day > n.cfg.GoalAlertEndDay {
		return 0, nil
	}

	p, err := n.progress.RevenueProgress(ctx, month)
	if err != nil {
		return 0, err
	}
	if p.Goal == nil {
		return 0, nil
	}
	if !progressRatio(p.CurrentRevenue, p.Goal.GoalAmount).LessThan(decimal.NewFromFloat(n.cfg.GoalAlertPercent)) {
		return 0, nil
	}

	title := "Revenue behind monthly goal"
	body := fmt.Sprintf("Revenue for %s is %s of a %s goal (%.2f%%) at mid-month.",
		month, p.CurrentRevenue.StringFixed(2), p.Goal.GoalAmount.StringFixed(2), p.Progress)
	return n.notifyAdmins(ctx, model.NotificationRevenueAlert, month+"-midmonth", title, body)
}

// CheckCancellationRate alerts admins when more than
// CancellationRatePercent of the trailing window's bookings had a refund
// approved.  The alert is keyed by today's date.
func (n *Notifier) CheckCancellationRate(ctx context.Context) (CancellationCheck, error) {
	today := utils.ToLocalDateString(n.clock.Now(), n.cfg.Location)
	start, end, err := utils.TrailingWindow(today, n.cfg.CancellationWindowDays)
	if err != nil {
		return CancellationCheck{}, err
	}
	bookings, err := n.bookings.ListByDateRange(ctx, start, end)
	if err != nil {
		return CancellationCheck{}, fmt.Errorf("list bookings: %w", err)
	}

	res := CancellationCheck{Total: len(bookings), WindowStart: start, WindowEnd: end}
	for _, b := range bookings {
		if b.RefundStatus == model.RefundApproved {
			res.Cancelled++
		}
	}
	rate := decimal.Zero
	if res.Total > 0 {
		rate = decimal.NewFromInt(int64(res.Cancelled)).
			Div(decimal.NewFromInt(int64(res.Total))).
			Mul(hundred)
	}
	res.CancellationRate = rate.Round(2).InexactFloat64()
	if !rate.GreaterThan(decimal.NewFromFloat(n.cfg.CancellationRatePercent)) {
		return res, nil
	}

	title := "High cancellation rate"
	body := fmt.Sprintf("%d of %d bookings between %s and %s were refunded (%.2f%%).",
		res.Cancelled, res.Total, start, end, res.CancellationRate)
	res.Created, err = n.notifyAdmins(ctx, model.NotificationCancellationAlert, today, title, body)
	return res, err
}

// CurrentMonth returns the local month (YYYY-MM) the checks treat as current.
func (n *Notifier) CurrentMonth() string {
	return utils.ToLocalMonthString(n.clock.Now(), n.cfg.Location)
}

// ListForUser returns the newest notifications of a user.
func (n *Notifier) ListForUser(ctx context.Context, userID uint64, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	items, err := n.store.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Notification{}
	}
	return items, nil
}

// MarkRead flags a notification of userID as read.
func (n *Notifier) MarkRead(ctx context.Context, id, userID uint64) error {
	return n.store.MarkRead(ctx, id, userID)
}

// notifyAdmins writes one alert per admin that does not hold it yet.  A
// failure for one admin does not stop the others; the next check retries
// only the admins still missing it.  Dedup is check-then-insert without a
// lock: two concurrent checks may both pass the Exists test.
func (n *Notifier) notifyAdmins(ctx context.Context, typ model.NotificationType, relatedID, title, body string) (int, error) {
	adminIDs, err := n.admins.ListActiveAdminIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list admins: %w", err)
	}

	created := 0
	var errs []error
	for _, uid := range adminIDs {
		exists, err := n.store.Exists(ctx, uid, typ, relatedID)
		if err != nil {
			errs = append(errs, fmt.Errorf("check notification for user %d: %w", uid, err))
			continue
		}
		if exists {
			continue
		}
		note := model.Notification{
			UserID:    uid,
			Title:     title,
			Body:      body,
			Type:      typ,
			RelatedID: relatedID,
		}
		if err := n.store.Create(ctx, &note); err != nil {
			errs = append(errs, fmt.Errorf("create notification for user %d: %w", uid, err))
			continue
		}
		created++
		if n.publisher != nil {
			if err := n.publisher.PublishNotificationCreated(ctx, note); err != nil {
				n.log.WithError(err).WithField("notification_id", note.ID).Warn("publish notification.created")
			}
		}
	}
	if created > 0 {
		n.log.WithFields(logrus.Fields{"type": typ, "related_id": relatedID, "created": created}).Info("alert created")
	}
	return created, errors.Join(errs...)
}

// RunAlertLoop runs both checks every interval until ctx is cancelled.
func (n *Notifier) RunAlertLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n.runChecks(ctx)
		}
	}
}

func (n *Notifier) runChecks(ctx context.Context) {
	month := n.CurrentMonth()
	if created, err := n.CheckAndCreateRevenueNotifications(ctx, month); err != nil {
		n.log.WithError(err).Error("revenue goal check")
	} else if created > 0 {
		n.log.WithField("created", created).Info("revenue goal check")
	}
	if res, err := n.CheckCancellationRate(ctx); err != nil {
		n.log.WithError(err).Error("cancellation rate check")
	} else if res.Created > 0 {
		n.log.WithField("rate", res.CancellationRate).Info("cancellation rate check")
	}
}
