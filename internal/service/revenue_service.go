package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theatre-backoffice/internal/model"
	"github.com/iliyamo/theatre-backoffice/internal/utils"
)

var hundred = decimal.NewFromInt(100)

// RangeQuery selects the days of a revenue series.  Either bound may be
// empty; Days is used to fill the missing side.
type RangeQuery struct {
	StartDate string
	EndDate   string
	Days      int
}

// DateFilter is an optional inclusive date range.  Empty bounds are open.
type DateFilter struct {
	StartDate string
	EndDate   string
}

func (f DateFilter) validate() error {
	if f.StartDate != "" && f.EndDate != "" {
		return utils.ValidateRange(f.StartDate, f.EndDate)
	}
	if f.StartDate != "" {
		if _, err := utils.ParseDate(f.StartDate); err != nil {
			return err
		}
	}
	if f.EndDate != "" {
		if _, err := utils.ParseDate(f.EndDate); err != nil {
			return err
		}
	}
	return nil
}

// DailyRevenuePoint is one day of the revenue series.
type DailyRevenuePoint struct {
	Date         string          `json:"date"`
	Revenue      decimal.Decimal `json:"revenue"`
	Bookings     int             `json:"bookings"`
	Refunded     int             `json:"refunded"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
}

// PaymentSplit is net revenue by payment method.
type PaymentSplit struct {
	Cash decimal.Decimal `json:"cash"`
	Upi  decimal.Decimal `json:"upi"`
}

// TimeSlotStat is booking count and net revenue for one time slot.
type TimeSlotStat struct {
	TimeSlot string          `json:"time_slot"`
	Bookings int             `json:"bookings"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// GoalProgress reports how far a month is towards its goal.  Goal is nil
// when no goal was set for the month.
type GoalProgress struct {
	Month          string             `json:"month"`
	Goal           *model.RevenueGoal `json:"goal"`
	CurrentRevenue decimal.Decimal    `json:"current_revenue"`
	Progress       float64            `json:"progress"`
}

// RevenueService aggregates the booking ledger into refund-adjusted
// revenue figures.
type RevenueService struct {
	cfg      Config
	bookings BookingReader
	goals    GoalStore
	clock    Clock
	log      logrus.FieldLogger
}

// NewRevenueService wires a RevenueService and panics if a store is nil.
func NewRevenueService(cfg Config, bookings BookingReader, goals GoalStore, clock Clock, log logrus.FieldLogger) *RevenueService {
	if bookings == nil || goals == nil {
		panic("nil store passed to NewRevenueService")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RevenueService{
		cfg:      cfg.withDefaults(),
		bookings: bookings,
		goals:    goals,
		clock:    clock,
		log:      log.WithField("module", "revenue"),
	}
}

// Today returns the current local date string.
func (s *RevenueService) Today() string {
	return utils.ToLocalDateString(s.clock.Now(), s.cfg.Location)
}

// ResolveRange turns a RangeQuery into explicit inclusive bounds.
//
//	both dates   -> as given
//	end only     -> [end-(N-1), end]
//	start only   -> [start, today]
//	neither      -> [today-(N-1), today]
//
// N is q.Days or Config.DefaultSeriesDays.
func (s *RevenueService) ResolveRange(q RangeQuery) (string, string, error) {
	days := q.Days
	if days <= 0 {
		days = s.cfg.DefaultSeriesDays
	}
	start, end := q.StartDate, q.EndDate
	// Days only sizes the window when no start date is given.
	if start == "" && days > s.cfg.MaxSeriesDays {
		return "", "", fmt.Errorf("%w: %d days, max %d", ErrRangeTooLarge, days, s.cfg.MaxSeriesDays)
	}
	switch {
	case start != "" && end != "":
	case end != "":
		var err error
		if start, _, err = utils.TrailingWindow(end, days); err != nil {
			return "", "", err
		}
	case start != "":
		end = s.Today()
	default:
		var err error
		if start, end, err = utils.TrailingWindow(s.Today(), days); err != nil {
			return "", "", err
		}
	}
	n, err := utils.DaysInclusive(start, end)
	if err != nil {
		return "", "", err
	}
	if n > s.cfg.MaxSeriesDays {
		return "", "", fmt.Errorf("%w: %d days, max %d", ErrRangeTooLarge, n, s.cfg.MaxSeriesDays)
	}
	return start, end, nil
}

// DailyRevenue returns one point per calendar day of the resolved range,
// ascending, with zero points for days without bookings.
func (s *RevenueService) DailyRevenue(ctx context.Context, q RangeQuery) ([]DailyRevenuePoint, error) {
	start, end, err := s.ResolveRange(q)
	if err != nil {
		return nil, err
	}
	days, err := utils.Days(start, end)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	byDate := make(map[string]*DailyRevenuePoint)
	for _, b := range bookings {
		a := s.allocate(b)
		p, ok := byDate[b.BookingDate]
		if !ok {
			p = &DailyRevenuePoint{Date: b.BookingDate}
			byDate[b.BookingDate] = p
		}
		p.Revenue = p.Revenue.Add(a.NetTotal)
		p.RefundAmount = p.RefundAmount.Add(a.Refund)
		if !a.IsFullRefund {
			p.Bookings++
		}
		if a.Refund.IsPositive() {
			p.Refunded++
		}
	}

	var points []DailyRevenuePoint
	for d := range days {
		p := DailyRevenuePoint{Date: d, Revenue: decimal.Zero, RefundAmount: decimal.Zero}
		if got, ok := byDate[d]; ok {
			p = *got
			p.Revenue = p.Revenue.Round(2)
			p.RefundAmount = p.RefundAmount.Round(2)
		}
		points = append(points, p)
	}
	return points, nil
}

// PaymentMethodBreakdown sums net cash and net UPI over the filter range.
func (s *RevenueService) PaymentMethodBreakdown(ctx context.Context, f DateFilter) (PaymentSplit, error) {
	if err := f.validate(); err != nil {
		return PaymentSplit{}, err
	}
	bookings, err := s.bookings.ListByDateRange(ctx, f.StartDate, f.EndDate)
	if err != nil {
		return PaymentSplit{}, fmt.Errorf("list bookings: %w", err)
	}
	split := PaymentSplit{Cash: decimal.Zero, Upi: decimal.Zero}
	for _, b := range bookings {
		a := s.allocate(b)
		split.Cash = split.Cash.Add(a.NetCash)
		split.Upi = split.Upi.Add(a.NetUpi)
	}
	split.Cash = split.Cash.Round(2)
	split.Upi = split.Upi.Round(2)
	return split, nil
}

// TimeSlotPerformance groups bookings by time slot.  Callers must not rely
// on the order of the result.
func (s *RevenueService) TimeSlotPerformance(ctx context.Context, f DateFilter) ([]TimeSlotStat, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListByDateRange(ctx, f.StartDate, f.EndDate)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	bySlot := make(map[string]*TimeSlotStat)
	for _, b := range bookings {
		a := s.allocate(b)
		st, ok := bySlot[b.TimeSlot]
		if !ok {
			st = &TimeSlotStat{TimeSlot: b.TimeSlot}
			bySlot[b.TimeSlot] = st
		}
		st.Bookings++
		st.Revenue = st.Revenue.Add(a.NetTotal)
	}
	stats := make([]TimeSlotStat, 0, len(bySlot))
	for _, st := range bySlot {
		st.Revenue = st.Revenue.Round(2)
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].TimeSlot < stats[j].TimeSlot })
	return stats, nil
}

// RevenueProgress compares a month's net booking revenue with its goal.
func (s *RevenueService) RevenueProgress(ctx context.Context, month string) (GoalProgress, error) {
	start, end, err := utils.MonthBounds(month)
	if err != nil {
		return GoalProgress{}, err
	}
	out := GoalProgress{Month: month, CurrentRevenue: decimal.Zero}
	goal, err := s.goals.GetByMonth(ctx, month)
	if err != nil {
		return GoalProgress{}, fmt.Errorf("get goal: %w", err)
	}
	if goal == nil {
		return out, nil
	}
	out.Goal = goal

	bookings, err := s.bookings.ListByDateRange(ctx, start, end)
	if err != nil {
		return GoalProgress{}, fmt.Errorf("list bookings: %w", err)
	}
	for _, b := range bookings {
		out.CurrentRevenue = out.CurrentRevenue.Add(s.allocate(b).NetTotal)
	}
	out.CurrentRevenue = out.CurrentRevenue.Round(2)
	out.Progress = progressPercent(out.CurrentRevenue, goal.GoalAmount)
	return out, nil
}

// SetMonthlyGoal creates or replaces the goal for month.
func (s *RevenueService) SetMonthlyGoal(ctx context.Context, month string, amount decimal.Decimal) (*model.RevenueGoal, error) {
	if _, err := utils.ParseMonth(month); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	goal, err := s.goals.Upsert(ctx, month, amount.Round(2))
	if err != nil {
		return nil, fmt.Errorf("upsert goal: %w", err)
	}
	s.log.WithFields(logrus.Fields{"month": month, "goal": goal.GoalAmount.String()}).Info("monthly goal set")
	return goal, nil
}

func (s *RevenueService) allocate(b model.Booking) RefundAllocation {
	a := AllocateBooking(b)
	if a.Suspicious {
		warnSuspicious(s.log, b)
	}
	return a
}

// progressRatio is current/goal·100 clamped to [0, 100], or 0 for a
// non-positive goal.  It is not rounded; threshold checks use it directly.
func progressRatio(current, goal decimal.Decimal) decimal.Decimal {
	if !goal.IsPositive() {
		return decimal.Zero
	}
	p := current.Div(goal).Mul(hundred)
	if p.GreaterThan(hundred) {
		return hundred
	}
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// progressPercent is progressRatio rounded to 2 decimals for display.
func progressPercent(current, goal decimal.Decimal) float64 {
	return progressRatio(current, goal).Round(2).InexactFloat64()
}

func warnSuspicious(log logrus.FieldLogger, b model.Booking) {
	log.WithFields(logrus.Fields{
		"booking_id":    b.ID,
		"booking_date":  b.BookingDate,
		"total_amount":  b.TotalAmount.String(),
		"refund_amount": b.RefundAmount.String(),
	}).Warn("approved refund on booking without a positive total; cash/upi left unadjusted")
}
