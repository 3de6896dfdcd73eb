package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theatre-backoffice/internal/model"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func booking(id uint64, date, slot, total, cash, upi string, status model.RefundStatus, refund string) model.Booking {
	return model.Booking{
		ID:           id,
		BookingDate:  date,
		TimeSlot:     slot,
		TotalAmount:  d(total),
		CashAmount:   d(cash),
		UpiAmount:    d(upi),
		RefundStatus: status,
		RefundAmount: d(refund),
	}
}

type fakeBookings struct {
	rows  []model.Booking
	err   error
	calls int
}

func (f *fakeBookings) ListByDateRange(ctx context.Context, start, end string) ([]model.Booking, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Booking
	for _, b := range f.rows {
		if start != "" && b.BookingDate < start {
			continue
		}
		if end != "" && b.BookingDate > end {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookings) ListByDates(ctx context.Context, dates []string) ([]model.Booking, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[string]bool, len(dates))
	for _, dt := range dates {
		want[dt] = true
	}
	var out []model.Booking
	for _, b := range f.rows {
		if want[b.BookingDate] {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeGoals struct {
	goals map[string]*model.RevenueGoal
}

func (f *fakeGoals) GetByMonth(ctx context.Context, month string) (*model.RevenueGoal, error) {
	return f.goals[month], nil
}

func (f *fakeGoals) Upsert(ctx context.Context, month string, amount decimal.Decimal) (*model.RevenueGoal, error) {
	if f.goals == nil {
		f.goals = map[string]*model.RevenueGoal{}
	}
	g, ok := f.goals[month]
	if !ok {
		g = &model.RevenueGoal{ID: uint64(len(f.goals) + 1), Month: month}
		f.goals[month] = g
	}
	g.GoalAmount = amount
	return g, nil
}

var errStoreDown = errors.New("store down")

type fakeIncome struct {
	rows    map[string]*model.DailyIncome
	nextID  uint64
	failOn  map[string]bool
	creates int
	updates int
}

func newFakeIncome(rows ...model.DailyIncome) *fakeIncome {
	f := &fakeIncome{rows: map[string]*model.DailyIncome{}, failOn: map[string]bool{}}
	for _, r := range rows {
		r := r
		f.nextID++
		r.ID = f.nextID
		f.rows[r.Date] = &r
	}
	return f
}

func (f *fakeIncome) sorted() []model.DailyIncome {
	out := make([]model.DailyIncome, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (f *fakeIncome) ListByDateRange(ctx context.Context, start, end string) ([]model.DailyIncome, error) {
	var out []model.DailyIncome
	for _, r := range f.sorted() {
		if (start == "" || r.Date >= start) && (end == "" || r.Date <= end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeIncome) ListByDates(ctx context.Context, dates []string) ([]model.DailyIncome, error) {
	var out []model.DailyIncome
	for _, dt := range dates {
		if r, ok := f.rows[dt]; ok {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeIncome) GetByID(ctx context.Context, id uint64) (*model.DailyIncome, error) {
	for _, r := range f.rows {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeIncome) Create(ctx context.Context, rec *model.DailyIncome) error {
	if f.failOn[rec.Date] {
		return errStoreDown
	}
	if _, ok := f.rows[rec.Date]; ok {
		return errors.New("duplicate date")
	}
	f.nextID++
	rec.ID = f.nextID
	cp := *rec
	f.rows[rec.Date] = &cp
	f.creates++
	return nil
}

func (f *fakeIncome) UpdateGross(ctx context.Context, rec *model.DailyIncome) error {
	for date, r := range f.rows {
		if r.ID == rec.ID {
			delete(f.rows, date)
			r.Date = rec.Date
			r.NumberOfShows = rec.NumberOfShows
			r.CashReceived = rec.CashReceived
			r.UpiReceived = rec.UpiReceived
			r.OtherPayments = rec.OtherPayments
			f.rows[r.Date] = r
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeIncome) UpdateSynced(ctx context.Context, rec *model.DailyIncome) error {
	if f.failOn[rec.Date] {
		return errStoreDown
	}
	r, ok := f.rows[rec.Date]
	if !ok {
		return errors.New("not found")
	}
	other := r.OtherPayments
	cp := *rec
	cp.OtherPayments = other
	f.rows[rec.Date] = &cp
	f.updates++
	return nil
}

func (f *fakeIncome) UpdateAdjusted(ctx context.Context, rec *model.DailyIncome) error {
	r, ok := f.rows[rec.Date]
	if !ok || r.ID != rec.ID {
		return errors.New("not found")
	}
	r.AdjustedRevenue = rec.AdjustedRevenue
	r.RefundTotal = rec.RefundTotal
	r.AdjustedShows = rec.AdjustedShows
	f.updates++
	return nil
}

func (f *fakeIncome) Delete(ctx context.Context, id uint64) error {
	for date, r := range f.rows {
		if r.ID == id {
			delete(f.rows, date)
			return nil
		}
	}
	return errors.New("not found")
}

type fakeNotifications struct {
	rows []model.Notification
	// failFor makes Create fail for a user that many times.
	failFor map[uint64]int
}

func (f *fakeNotifications) Exists(ctx context.Context, userID uint64, typ model.NotificationType, relatedID string) (bool, error) {
	for _, n := range f.rows {
		if n.UserID == userID && n.Type == typ && n.RelatedID == relatedID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotifications) Create(ctx context.Context, n *model.Notification) error {
	if f.failFor[n.UserID] > 0 {
		f.failFor[n.UserID]--
		return errStoreDown
	}
	n.ID = uint64(len(f.rows) + 1)
	f.rows = append(f.rows, *n)
	return nil
}

func (f *fakeNotifications) ListForUser(ctx context.Context, userID uint64, limit int) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range f.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotifications) MarkRead(ctx context.Context, id, userID uint64) error {
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].UserID == userID {
			f.rows[i].IsRead = true
			return nil
		}
	}
	return errors.New("not found")
}

type fakeAdmins struct{ ids []uint64 }

func (f fakeAdmins) ListActiveAdminIDs(ctx context.Context) ([]uint64, error) { return f.ids, nil }

type fakePublisher struct{ events []model.Notification }

func (f *fakePublisher) PublishNotificationCreated(ctx context.Context, n model.Notification) error {
	f.events = append(f.events, n)
	return nil
}

type fakeLocker struct{ held bool }

func (f *fakeLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	if f.held {
		return nil, ErrSyncInProgress
	}
	f.held = true
	return func(context.Context) error { f.held = false; return nil }, nil
}
