package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theatre-backoffice/internal/model"
	"github.com/iliyamo/theatre-backoffice/internal/utils"
)

const syncLockKey = "lock:daily-income-sync"

// SyncMode decides what Sync does with dates that already have a record.
type SyncMode string

const (
	SyncOverwrite SyncMode = "overwrite"
	SyncSkip      SyncMode = "skip"
)

// Payment type filters for ListDailyIncome.
const (
	PaymentCash  = "cash"
	PaymentUpi   = "upi"
	PaymentOther = "other"
)

// DailyIncomeFilter selects ledger rows.  PaymentType keeps only rows that
// received money through that channel.
type DailyIncomeFilter struct {
	StartDate   string
	EndDate     string
	PaymentType string
}

// EnrichedDailyIncome is a ledger row plus its live refund adjustment.
// The Persisted* fields are whatever the last sync stored; Stale is set
// when they no longer match the live figures.
type EnrichedDailyIncome struct {
	ID            uint64          `json:"id"`
	Date          string          `json:"date"`
	NumberOfShows int             `json:"number_of_shows"`
	CashReceived  decimal.Decimal `json:"cash_received"`
	UpiReceived   decimal.Decimal `json:"upi_received"`
	OtherPayments decimal.Decimal `json:"other_payments"`

	RefundTotal          decimal.Decimal `json:"refund_total"`
	AdjustedCashReceived decimal.Decimal `json:"adjusted_cash_received"`
	AdjustedUpiReceived  decimal.Decimal `json:"adjusted_upi_received"`
	AdjustedShows        int             `json:"adjusted_shows"`
	AdjustedRevenue      decimal.Decimal `json:"adjusted_revenue"`

	PersistedAdjustedRevenue *decimal.Decimal `json:"persisted_adjusted_revenue"`
	PersistedRefundTotal     *decimal.Decimal `json:"persisted_refund_total"`
	PersistedAdjustedShows   *int             `json:"persisted_adjusted_shows"`
	Stale                    bool             `json:"stale"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SyncRequest bounds a sync run.  Empty dates are open bounds.
type SyncRequest struct {
	StartDate string
	EndDate   string
	Mode      SyncMode
}

// SyncResult reports what a sync run did per date.
type SyncResult struct {
	RunID       string   `json:"run_id"`
	Synced      int      `json:"synced"`
	Created     int      `json:"created"`
	Updated     int      `json:"updated"`
	Skipped     int      `json:"skipped"`
	Failed      int      `json:"failed"`
	FailedDates []string `json:"failed_dates"`
}

// ManualDailyIncome is the manually editable part of a ledger row.
type ManualDailyIncome struct {
	Date          string
	NumberOfShows int
	CashReceived  decimal.Decimal
	UpiReceived   decimal.Decimal
	OtherPayments decimal.Decimal
}

func (m ManualDailyIncome) validate() error {
	if _, err := utils.ParseDate(m.Date); err != nil {
		return err
	}
	if m.NumberOfShows < 0 || m.CashReceived.IsNegative() || m.UpiReceived.IsNegative() || m.OtherPayments.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// DailyIncomeService keeps the daily income ledger and reconciles it with
// the booking ledger.
type DailyIncomeService struct {
	cfg      Config
	income   DailyIncomeStore
	bookings BookingReader
	locker   Locker
	log      logrus.FieldLogger
}

// NewDailyIncomeService wires the service.  locker may be nil, in which
// case sync runs are not serialised.
func NewDailyIncomeService(cfg Config, income DailyIncomeStore, bookings BookingReader, locker Locker, log logrus.FieldLogger) *DailyIncomeService {
	if income == nil || bookings == nil {
		panic("nil store passed to NewDailyIncomeService")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &DailyIncomeService{
		cfg:      cfg.withDefaults(),
		income:   income,
		bookings: bookings,
		locker:   locker,
		log:      log.WithField("module", "daily_income"),
	}
}

// ListDailyIncome returns stored rows enriched with the refunds approved
// on their dates.  Nothing is written back.
func (s *DailyIncomeService) ListDailyIncome(ctx context.Context, f DailyIncomeFilter) ([]EnrichedDailyIncome, error) {
	if err := (DateFilter{StartDate: f.StartDate, EndDate: f.EndDate}).validate(); err != nil {
		return nil, err
	}
	switch f.PaymentType {
	case "", PaymentCash, PaymentUpi, PaymentOther:
	default:
		return nil, ErrInvalidPaymentType
	}

	records, err := s.income.ListByDateRange(ctx, f.StartDate, f.EndDate)
	if err != nil {
		return nil, fmt.Errorf("list daily income: %w", err)
	}
	records = filterByPaymentType(records, f.PaymentType)
	out := make([]EnrichedDailyIncome, 0, len(records))
	if len(records) == 0 {
		return out, nil
	}

	dates := make([]string, 0, len(records))
	for _, rec := range records {
		dates = append(dates, rec.Date)
	}
	bookings, err := s.bookings.ListByDates(ctx, dates)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	refunds := s.refundsByDate(bookings)

	for _, rec := range records {
		out = append(out, enrich(rec, refunds[rec.Date]))
	}
	return out, nil
}

// Sync rebuilds ledger rows from bookings.  Dates without a row get one;
// existing rows are overwritten in SyncOverwrite mode (other_payments is
// kept) and left alone otherwise.  A failure on one date is recorded in
// the result and the run carries on.
func (s *DailyIncomeService) Sync(ctx context.Context, req SyncRequest) (SyncResult, error) {
	if err := (DateFilter{StartDate: req.StartDate, EndDate: req.EndDate}).validate(); err != nil {
		return SyncResult{}, err
	}
	if req.Mode != SyncOverwrite {
		req.Mode = SyncSkip
	}
	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, syncLockKey, s.cfg.SyncLockTTL)
		if err != nil {
			return SyncResult{}, err
		}
		defer func() {
			if err := release(context.Background()); err != nil {
				s.log.WithError(err).Warn("release sync lock")
			}
		}()
	}

	res := SyncResult{RunID: uuid.NewString(), FailedDates: []string{}}
	log := s.log.WithFields(logrus.Fields{"run_id": res.RunID, "mode": req.Mode, "start": req.StartDate, "end": req.EndDate})

	bookings, err := s.bookings.ListByDateRange(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return SyncResult{}, fmt.Errorf("list bookings: %w", err)
	}
	gross := make(map[string]*Gross)
	refunds := make(map[string]*DateRefunds)
	for _, b := range bookings {
		g, ok := gross[b.BookingDate]
		if !ok {
			g = &Gross{}
			gross[b.BookingDate] = g
			refunds[b.BookingDate] = &DateRefunds{}
		}
		g.Shows++
		g.Cash = g.Cash.Add(b.CashAmount)
		g.Upi = g.Upi.Add(b.UpiAmount)
		refunds[b.BookingDate].Add(b, s.allocate(b))
	}
	if len(gross) == 0 {
		log.Info("daily income sync: no bookings in range")
		return res, nil
	}

	dates := make([]string, 0, len(gross))
	for d := range gross {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	existing, err := s.income.ListByDates(ctx, dates)
	if err != nil {
		return SyncResult{}, fmt.Errorf("list daily income: %w", err)
	}
	byDate := make(map[string]model.DailyIncome, len(existing))
	for _, rec := range existing {
		byDate[rec.Date] = rec
	}

	for _, d := range dates {
		rec, found := byDate[d]
		if found && req.Mode != SyncOverwrite {
			res.Skipped++
			continue
		}
		if !found {
			rec = model.DailyIncome{Date: d, OtherPayments: decimal.Zero}
		}
		g := *gross[d]
		g.Other = rec.OtherPayments
		applySynced(&rec, g, Reconcile(g, *refunds[d]))

		if found {
			err = s.income.UpdateSynced(ctx, &rec)
		} else {
			err = s.income.Create(ctx, &rec)
		}
		if err != nil {
			res.Failed++
			res.FailedDates = append(res.FailedDates, d)
			log.WithError(err).WithField("date", d).Warn("daily income sync: date failed")
			continue
		}
		if found {
			res.Updated++
		} else {
			res.Created++
		}
	}
	res.Synced = res.Created + res.Updated
	log.WithFields(logrus.Fields{
		"created": res.Created,
		"updated": res.Updated,
		"skipped": res.Skipped,
		"failed":  res.Failed,
	}).Info("daily income sync finished")
	return res, nil
}

// RefreshAdjusted recomputes the adjusted columns of the row for date from
// the row's own gross figures and the refunds approved on that day.  The
// hand-entered columns are left as they are and no row is created; it
// reports whether a row was updated.
func (s *DailyIncomeService) RefreshAdjusted(ctx context.Context, date string) (bool, error) {
	if _, err := utils.ParseDate(date); err != nil {
		return false, err
	}
	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, syncLockKey, s.cfg.SyncLockTTL)
		if err != nil {
			return false, err
		}
		defer func() {
			if err := release(context.Background()); err != nil {
				s.log.WithError(err).Warn("release sync lock")
			}
		}()
	}

	rows, err := s.income.ListByDates(ctx, []string{date})
	if err != nil {
		return false, fmt.Errorf("list daily income: %w", err)
	}
	if len(rows) == 0 {
		s.log.WithField("date", date).Debug("refresh adjusted: no ledger row")
		return false, nil
	}
	bookings, err := s.bookings.ListByDates(ctx, []string{date})
	if err != nil {
		return false, fmt.Errorf("list bookings: %w", err)
	}

	rec := rows[0]
	adj := Reconcile(grossOf(rec), s.refundsByDate(bookings)[date])
	revenue, refund, shows := adj.Revenue, adj.RefundTotal, adj.Shows
	rec.AdjustedRevenue = &revenue
	rec.RefundTotal = &refund
	rec.AdjustedShows = &shows
	if err := s.income.UpdateAdjusted(ctx, &rec); err != nil {
		return false, fmt.Errorf("update adjusted: %w", err)
	}
	s.log.WithFields(logrus.Fields{"date": date, "adjusted_revenue": revenue.String()}).Info("adjusted figures refreshed")
	return true, nil
}

// CreateManual stores a hand-entered row.  The sync-owned columns stay empty.
func (s *DailyIncomeService) CreateManual(ctx context.Context, in ManualDailyIncome) (*model.DailyIncome, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	rec := &model.DailyIncome{
		Date:          in.Date,
		NumberOfShows: in.NumberOfShows,
		CashReceived:  in.CashReceived.Round(2),
		UpiReceived:   in.UpiReceived.Round(2),
		OtherPayments: in.OtherPayments.Round(2),
	}
	if err := s.income.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateManual replaces the hand-entered columns of row id.
func (s *DailyIncomeService) UpdateManual(ctx context.Context, id uint64, in ManualDailyIncome) (*model.DailyIncome, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	rec, err := s.income.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Date = in.Date
	rec.NumberOfShows = in.NumberOfShows
	rec.CashReceived = in.CashReceived.Round(2)
	rec.UpiReceived = in.UpiReceived.Round(2)
	rec.OtherPayments = in.OtherPayments.Round(2)
	if err := s.income.UpdateGross(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes row id.
func (s *DailyIncomeService) Delete(ctx context.Context, id uint64) error {
	return s.income.Delete(ctx, id)
}

func (s *DailyIncomeService) allocate(b model.Booking) RefundAllocation {
	a := AllocateBooking(b)
	if a.Suspicious {
		warnSuspicious(s.log, b)
	}
	return a
}

func (s *DailyIncomeService) refundsByDate(bookings []model.Booking) map[string]DateRefunds {
	out := make(map[string]DateRefunds)
	for _, b := range bookings {
		if !b.HasApprovedRefund() {
			continue
		}
		r := out[b.BookingDate]
		r.Add(b, s.allocate(b))
		out[b.BookingDate] = r
	}
	return out
}

func applySynced(rec *model.DailyIncome, g Gross, adj Adjusted) {
	revenue := adj.Revenue
	refund := adj.RefundTotal
	shows := adj.Shows
	rec.NumberOfShows = g.Shows
	rec.CashReceived = g.Cash.Round(2)
	rec.UpiReceived = g.Upi.Round(2)
	rec.AdjustedRevenue = &revenue
	rec.RefundTotal = &refund
	rec.AdjustedShows = &shows
}

func grossOf(rec model.DailyIncome) Gross {
	return Gross{
		Shows: rec.NumberOfShows,
		Cash:  rec.CashReceived,
		Upi:   rec.UpiReceived,
		Other: rec.OtherPayments,
	}
}

func enrich(rec model.DailyIncome, r DateRefunds) EnrichedDailyIncome {
	adj := Reconcile(grossOf(rec), r)
	out := EnrichedDailyIncome{
		ID:                       rec.ID,
		Date:                     rec.Date,
		NumberOfShows:            rec.NumberOfShows,
		CashReceived:             rec.CashReceived,
		UpiReceived:              rec.UpiReceived,
		OtherPayments:            rec.OtherPayments,
		RefundTotal:              adj.RefundTotal,
		AdjustedCashReceived:     adj.CashReceived,
		AdjustedUpiReceived:      adj.UpiReceived,
		AdjustedShows:            adj.Shows,
		AdjustedRevenue:          adj.Revenue,
		PersistedAdjustedRevenue: rec.AdjustedRevenue,
		PersistedRefundTotal:     rec.RefundTotal,
		PersistedAdjustedShows:   rec.AdjustedShows,
		CreatedAt:                rec.CreatedAt,
		UpdatedAt:                rec.UpdatedAt,
	}
	if rec.AdjustedRevenue != nil {
		out.Stale = !rec.AdjustedRevenue.Equal(adj.Revenue) ||
			(rec.RefundTotal != nil && !rec.RefundTotal.Equal(adj.RefundTotal)) ||
			(rec.AdjustedShows != nil && *rec.AdjustedShows != adj.Shows)
	}
	return out
}

func filterByPaymentType(records []model.DailyIncome, paymentType string) []model.DailyIncome {
	if paymentType == "" {
		return records
	}
	out := records[:0:0]
	for _, rec := range records {
		var amount decimal.Decimal
		switch paymentType {
		case PaymentCash:
			amount = rec.CashReceived
		case PaymentUpi:
			amount = rec.UpiReceived
		case PaymentOther:
			amount = rec.OtherPayments
		}
		if amount.IsPositive() {
			out = append(out, rec)
		}
	}
	return out
}
