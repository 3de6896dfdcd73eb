package model

import "github.com/shopspring/decimal"

// RefundStatus is the state of the refund workflow attached to a booking.
// The workflow itself lives outside this service; only approved refunds
// affect revenue figures.
type RefundStatus string

const (
	RefundNone     RefundStatus = "none"
	RefundPending  RefundStatus = "pending"
	RefundApproved RefundStatus = "approved"
	RefundRejected RefundStatus = "rejected"
)

// Booking is a read-only view of a row in the `bookings` table.  Bookings
// are created and validated by the booking subsystem, which also enforces
// CashAmount + UpiAmount = TotalAmount at creation time.
//
// Fields:
//  ID           – primary key identifier.
//  BookingDate  – local calendar date of the booking (YYYY-MM-DD).
//  TimeSlot     – show slot label (e.g. "11:00 AM").
//  TotalAmount  – gross amount charged.
//  CashAmount   – part of the total paid in cash.
//  UpiAmount    – part of the total paid over UPI.
//  RefundStatus – state of the refund workflow.
//  RefundAmount – refund granted; meaningful only when approved.
type Booking struct {
	ID           uint64          // bookings.id
	BookingDate  string          // bookings.booking_date
	TimeSlot     string          // bookings.time_slot
	TotalAmount  decimal.Decimal // bookings.total_amount
	CashAmount   decimal.Decimal // bookings.cash_amount
	UpiAmount    decimal.Decimal // bookings.upi_amount
	RefundStatus RefundStatus    // bookings.refund_status
	RefundAmount decimal.Decimal // bookings.refund_amount
}

// HasApprovedRefund reports whether the booking carries an approved,
// positive refund.
func (b Booking) HasApprovedRefund() bool {
	return b.RefundStatus == RefundApproved && b.RefundAmount.IsPositive()
}
