package service

import (
	"github.com/shopspring/decimal"

	"github.com/iliyamo/theatre-backoffice/internal/model"
)

// fullRefundTolerance absorbs rounding noise when deciding whether a refund
// covers the whole booking.
var fullRefundTolerance = decimal.RequireFromString("0.01")

// RefundAllocation is the per-booking result of applying an approved
// refund.  It is computed on demand and never stored.
type RefundAllocation struct {
	Refund       decimal.Decimal
	NetTotal     decimal.Decimal
	NetCash      decimal.Decimal
	NetUpi       decimal.Decimal
	IsFullRefund bool
	// Suspicious marks an approved refund on a booking whose total is not
	// positive.  Cash and UPI are left unadjusted in that case.
	Suspicious bool
}

// Allocate applies an approved refund to a booking total and splits it
// across cash and UPI in the same ratio as the original payment.
func Allocate(total, cash, upi decimal.Decimal, status model.RefundStatus, refundAmount decimal.Decimal) RefundAllocation {
	a := RefundAllocation{
		Refund:   decimal.Zero,
		NetTotal: total,
		NetCash:  cash,
		NetUpi:   upi,
	}
	if status != model.RefundApproved || !refundAmount.IsPositive() {
		return a
	}

	a.Refund = decimal.Max(decimal.Zero, decimal.Min(refundAmount, total))
	a.NetTotal = decimal.Max(decimal.Zero, total.Sub(a.Refund))
	if total.IsPositive() {
		// refund·cash/total is refund·cashShare without the extra rounding
		// step of computing the share first.
		a.NetCash = decimal.Max(decimal.Zero, cash.Sub(a.Refund.Mul(cash).Div(total)))
		a.NetUpi = decimal.Max(decimal.Zero, upi.Sub(a.Refund.Mul(upi).Div(total)))
	} else {
		a.Suspicious = true
	}
	a.IsFullRefund = a.Refund.GreaterThanOrEqual(total.Sub(fullRefundTolerance))
	return a
}

// AllocateBooking is Allocate over a booking row.
func AllocateBooking(b model.Booking) RefundAllocation {
	return Allocate(b.TotalAmount, b.CashAmount, b.UpiAmount, b.RefundStatus, b.RefundAmount)
}
