package service

import (
	"github.com/shopspring/decimal"

	"github.com/iliyamo/theatre-backoffice/internal/model"
)

// Gross holds the unadjusted figures of one day, either as typed into the
// daily income ledger or as summed from that day's bookings.
type Gross struct {
	Shows int
	Cash  decimal.Decimal
	Upi   decimal.Decimal
	Other decimal.Decimal
}

// DateRefunds accumulates the approved refunds of one day's bookings,
// prorated over cash and UPI with each booking's own split.
type DateRefunds struct {
	Total         decimal.Decimal
	Cash          decimal.Decimal
	Upi           decimal.Decimal
	FullyRefunded int
}

// Add folds one booking into the accumulator.  Bookings without an
// approved, positive refund are ignored.
func (r *DateRefunds) Add(b model.Booking, a RefundAllocation) {
	if !b.HasApprovedRefund() {
		return
	}
	r.Total = r.Total.Add(a.Refund)
	r.Cash = r.Cash.Add(b.CashAmount.Sub(a.NetCash))
	r.Upi = r.Upi.Add(b.UpiAmount.Sub(a.NetUpi))
	if a.IsFullRefund {
		r.FullyRefunded++
	}
}

// Adjusted is the refund-adjusted view of a day.
type Adjusted struct {
	RefundTotal  decimal.Decimal
	CashReceived decimal.Decimal
	UpiReceived  decimal.Decimal
	Shows        int
	Revenue      decimal.Decimal
}

// Reconcile is the single definition of "adjusted" figures.  Both the live
// daily income listing and the booking sync go through it, so a freshly
// synced row and its live view always agree.  Money is rounded to 2
// places to match the ledger columns.
func Reconcile(g Gross, r DateRefunds) Adjusted {
	cash := nonNegative(g.Cash.Sub(r.Cash))
	upi := nonNegative(g.Upi.Sub(r.Upi))
	shows := g.Shows - r.FullyRefunded
	if shows < 0 {
		shows = 0
	}
	return Adjusted{
		RefundTotal:  r.Total.Round(2),
		CashReceived: cash.Round(2),
		UpiReceived:  upi.Round(2),
		Shows:        shows,
		Revenue:      nonNegative(cash.Add(upi).Add(g.Other)).Round(2),
	}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, d)
}
