package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/iliyamo/theatre-backoffice/internal/model"
	"github.com/iliyamo/theatre-backoffice/internal/utils"
)

func newRevenueTestService(rows []model.Booking, goals map[string]*model.RevenueGoal, now time.Time) (*RevenueService, *fakeBookings) {
	fb := &fakeBookings{rows: rows}
	cfg := Config{Location: time.UTC}
	return NewRevenueService(cfg, fb, &fakeGoals{goals: goals}, fixedClock{now}, quietLogger()), fb
}

func TestDailyRevenueZeroFillsMissingDays(t *testing.T) {
	rows := []model.Booking{
		booking(1, "2024-05-02", "6 PM", "700", "700", "0", model.RefundNone, "0"),
		booking(2, "2024-05-02", "9 PM", "500", "0", "500", model.RefundNone, "0"),
	}
	svc, fb := newRevenueTestService(rows, nil, time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC))

	points, err := svc.DailyRevenue(context.Background(), RangeQuery{StartDate: "2024-05-01", EndDate: "2024-05-03"})
	if err != nil {
		t.Fatalf("DailyRevenue: %v", err)
	}
	if fb.calls != 1 {
		t.Fatalf("expected a single booking query, got %d", fb.calls)
	}
	want := []struct {
		date    string
		revenue string
		count   int
	}{
		{"2024-05-01", "0", 0},
		{"2024-05-02", "1200", 2},
		{"2024-05-03", "0", 0},
	}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d", len(points), len(want))
	}
	for i, w := range want {
		p := points[i]
		if p.Date != w.date || !p.Revenue.Equal(d(w.revenue)) || p.Bookings != w.count {
			t.Fatalf("point %d = %+v, want %+v", i, p, w)
		}
	}
}

func TestDailyRevenueRefunds(t *testing.T) {
	rows := []model.Booking{
		booking(1, "2024-05-01", "6 PM", "1000", "600", "400", model.RefundApproved, "500"),
		booking(2, "2024-05-01", "6 PM", "300", "300", "0", model.RefundApproved, "300"),
		booking(3, "2024-05-01", "9 PM", "200", "0", "200", model.RefundPending, "200"),
	}
	svc, _ := newRevenueTestService(rows, nil, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	points, err := svc.DailyRevenue(context.Background(), RangeQuery{StartDate: "2024-05-01", EndDate: "2024-05-01"})
	if err != nil {
		t.Fatalf("DailyRevenue: %v", err)
	}
	p := points[0]
	if !p.Revenue.Equal(d("700")) {
		t.Fatalf("revenue = %s, want 700", p.Revenue)
	}
	if p.Bookings != 2 {
		t.Fatalf("bookings = %d, want 2 (full refund excluded)", p.Bookings)
	}
	if p.Refunded != 2 || !p.RefundAmount.Equal(d("800")) {
		t.Fatalf("refunded = %d/%s, want 2/800", p.Refunded, p.RefundAmount)
	}
}

func TestResolveRange(t *testing.T) {
	svc, _ := newRevenueTestService(nil, nil, time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC))
	tests := []struct {
		name       string
		q          RangeQuery
		start, end string
	}{
		{"both", RangeQuery{StartDate: "2024-01-01", EndDate: "2024-01-31"}, "2024-01-01", "2024-01-31"},
		{"end only", RangeQuery{EndDate: "2024-03-02", Days: 3}, "2024-02-29", "2024-03-02"},
		{"start only", RangeQuery{StartDate: "2024-03-08"}, "2024-03-08", "2024-03-10"},
		{"neither", RangeQuery{}, "2024-03-04", "2024-03-10"},
		{"neither with days", RangeQuery{Days: 1}, "2024-03-10", "2024-03-10"},
	}
	for _, tc := range tests {
		start, end, err := svc.ResolveRange(tc.q)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if start != tc.start || end != tc.end {
			t.Fatalf("%s: got [%s, %s], want [%s, %s]", tc.name, start, end, tc.start, tc.end)
		}
	}
}

func TestDailyRevenueRejectsBadRanges(t *testing.T) {
	svc, fb := newRevenueTestService(nil, nil, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if _, err := svc.DailyRevenue(ctx, RangeQuery{StartDate: "2024-03-05", EndDate: "2024-03-01"}); !errors.Is(err, utils.ErrInvalidRange) {
		t.Fatalf("reversed range: got %v", err)
	}
	if _, err := svc.DailyRevenue(ctx, RangeQuery{StartDate: "2024-13-01", EndDate: "2024-03-01"}); !errors.Is(err, utils.ErrInvalidDate) {
		t.Fatalf("bad date: got %v", err)
	}
	if _, err := svc.DailyRevenue(ctx, RangeQuery{StartDate: "2020-01-01", EndDate: "2024-01-01"}); !errors.Is(err, ErrRangeTooLarge) {
		t.Fatalf("long range: got %v", err)
	}
	for _, q := range []RangeQuery{
		{Days: math.MaxInt},
		{EndDate: "2024-06-15", Days: math.MaxInt},
		{EndDate: "2024-06-15", Days: 367},
	} {
		if _, err := svc.DailyRevenue(ctx, q); !errors.Is(err, ErrRangeTooLarge) {
			t.Fatalf("days=%d end=%q: got %v, want ErrRangeTooLarge", q.Days, q.EndDate, err)
		}
	}
	if fb.calls != 0 {
		t.Fatalf("invalid ranges must not reach the store, got %d calls", fb.calls)
	}
}

func TestPaymentMethodBreakdown(t *testing.T) {
	rows := []model.Booking{
		booking(1, "2024-05-01", "6 PM", "1000", "600", "400", model.RefundApproved, "500"),
		booking(2, "2024-05-02", "6 PM", "250", "100", "150", model.RefundNone, "0"),
		booking(3, "2024-06-01", "6 PM", "999", "999", "0", model.RefundNone, "0"),
	}
	svc, _ := newRevenueTestService(rows, nil, time.Now())

	split, err := svc.PaymentMethodBreakdown(context.Background(), DateFilter{StartDate: "2024-05-01", EndDate: "2024-05-31"})
	if err != nil {
		t.Fatalf("PaymentMethodBreakdown: %v", err)
	}
	if !split.Cash.Equal(d("400")) || !split.Upi.Equal(d("350")) {
		t.Fatalf("split = %s/%s, want 400/350", split.Cash, split.Upi)
	}

	all, err := svc.PaymentMethodBreakdown(context.Background(), DateFilter{})
	if err != nil {
		t.Fatalf("PaymentMethodBreakdown all: %v", err)
	}
	if !all.Cash.Equal(d("1399")) {
		t.Fatalf("open range cash = %s, want 1399", all.Cash)
	}
}

func TestTimeSlotPerformance(t *testing.T) {
	rows := []model.Booking{
		booking(1, "2024-05-01", "9 PM", "300", "300", "0", model.RefundApproved, "300"),
		booking(2, "2024-05-01", "6 PM", "200", "200", "0", model.RefundNone, "0"),
		booking(3, "2024-05-02", "6 PM", "100", "0", "100", model.RefundNone, "0"),
	}
	svc, _ := newRevenueTestService(rows, nil, time.Now())

	stats, err := svc.TimeSlotPerformance(context.Background(), DateFilter{})
	if err != nil {
		t.Fatalf("TimeSlotPerformance: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d slots, want 2", len(stats))
	}
	bySlot := map[string]TimeSlotStat{}
	for _, s := range stats {
		bySlot[s.TimeSlot] = s
	}
	if s := bySlot["6 PM"]; s.Bookings != 2 || !s.Revenue.Equal(d("300")) {
		t.Fatalf("6 PM = %+v", s)
	}
	if s := bySlot["9 PM"]; s.Bookings != 1 || !s.Revenue.IsZero() {
		t.Fatalf("9 PM = %+v", s)
	}
}

func TestRevenueProgress(t *testing.T) {
	goals := map[string]*model.RevenueGoal{
		"2024-06": {ID: 1, Month: "2024-06", GoalAmount: d("100000")},
		"2024-07": {ID: 2, Month: "2024-07", GoalAmount: d("1000")},
	}
	rows := []model.Booking{
		booking(1, "2024-06-03", "6 PM", "40000", "40000", "0", model.RefundNone, "0"),
		booking(2, "2024-06-30", "6 PM", "10000", "5000", "5000", model.RefundApproved, "5000"),
		booking(3, "2024-07-01", "6 PM", "5000", "5000", "0", model.RefundNone, "0"),
	}
	svc, _ := newRevenueTestService(rows, goals, time.Now())
	ctx := context.Background()

	p, err := svc.RevenueProgress(ctx, "2024-06")
	if err != nil {
		t.Fatalf("RevenueProgress: %v", err)
	}
	if p.Progress != 45 || !p.CurrentRevenue.Equal(d("45000")) {
		t.Fatalf("june = %+v, want 45%% of 45000", p)
	}

	p, err = svc.RevenueProgress(ctx, "2024-07")
	if err != nil {
		t.Fatalf("RevenueProgress: %v", err)
	}
	if p.Progress != 100 {
		t.Fatalf("july progress = %v, want capped at 100", p.Progress)
	}

	p, err = svc.RevenueProgress(ctx, "2024-08")
	if err != nil {
		t.Fatalf("RevenueProgress: %v", err)
	}
	if p.Goal != nil || p.Progress != 0 || !p.CurrentRevenue.IsZero() {
		t.Fatalf("no goal = %+v", p)
	}

	if _, err := svc.RevenueProgress(ctx, "2024-6"); !errors.Is(err, utils.ErrInvalidMonth) {
		t.Fatalf("bad month: got %v", err)
	}
}

func TestProgressPercentBounds(t *testing.T) {
	for _, tc := range []struct {
		current, goal string
		want          float64
	}{
		{"0", "100", 0},
		{"50", "100", 50},
		{"1", "3", 33.33},
		{"250", "100", 100},
		{"-10", "100", 0},
		{"10", "0", 0},
	} {
		if got := progressPercent(d(tc.current), d(tc.goal)); got != tc.want {
			t.Fatalf("progressPercent(%s, %s) = %v, want %v", tc.current, tc.goal, got, tc.want)
		}
	}
}

func TestSetMonthlyGoal(t *testing.T) {
	svc, _ := newRevenueTestService(nil, nil, time.Now())
	ctx := context.Background()

	g, err := svc.SetMonthlyGoal(ctx, "2024-06", d("1234.567"))
	if err != nil {
		t.Fatalf("SetMonthlyGoal: %v", err)
	}
	if !g.GoalAmount.Equal(d("1234.57")) {
		t.Fatalf("goal = %s, want rounded 1234.57", g.GoalAmount)
	}
	g2, err := svc.SetMonthlyGoal(ctx, "2024-06", d("2000"))
	if err != nil {
		t.Fatalf("SetMonthlyGoal replace: %v", err)
	}
	if g2.ID != g.ID || !g2.GoalAmount.Equal(d("2000")) {
		t.Fatalf("replace = %+v", g2)
	}
	if _, err := svc.SetMonthlyGoal(ctx, "2024-06", d("-1")); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative goal: got %v", err)
	}
	if _, err := svc.SetMonthlyGoal(ctx, "June", d("1")); !errors.Is(err, utils.ErrInvalidMonth) {
		t.Fatalf("bad month: got %v", err)
	}
}

func TestSuspiciousBookingIsCountedUnadjusted(t *testing.T) {
	rows := []model.Booking{
		booking(1, "2024-05-01", "6 PM", "0", "100", "0", model.RefundApproved, "50"),
	}
	svc, _ := newRevenueTestService(rows, nil, time.Now())
	split, err := svc.PaymentMethodBreakdown(context.Background(), DateFilter{})
	if err != nil {
		t.Fatalf("PaymentMethodBreakdown: %v", err)
	}
	if !split.Cash.Equal(d("100")) {
		t.Fatalf("cash = %s, want unadjusted 100", split.Cash)
	}
}
