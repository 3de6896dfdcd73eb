package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyIncome is one row of the `daily_income` ledger.  Rows are keyed by
// date (at most one per day) and are either typed in by staff or written
// by the booking sync.  The gross fields are what was entered or synced;
// the Adjusted*/RefundTotal fields are only ever written by the sync and
// stay nil on manually created rows.
//
// Fields:
//  ID              – primary key identifier.
//  Date            – local calendar date (YYYY-MM-DD), unique.
//  NumberOfShows   – shows played that day.
//  CashReceived    – gross cash takings.
//  UpiReceived     – gross UPI takings.
//  OtherPayments   – other takings (cards, vouchers); never synced.
//  AdjustedRevenue – persisted net revenue from the last sync (nullable).
//  RefundTotal     – persisted refund total from the last sync (nullable).
//  AdjustedShows   – persisted show count net of full refunds (nullable).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type DailyIncome struct {
	ID              uint64           // daily_income.id
	Date            string           // daily_income.income_date
	NumberOfShows   int              // daily_income.number_of_shows
	CashReceived    decimal.Decimal  // daily_income.cash_received
	UpiReceived     decimal.Decimal  // daily_income.upi_received
	OtherPayments   decimal.Decimal  // daily_income.other_payments
	AdjustedRevenue *decimal.Decimal // daily_income.adjusted_revenue (nullable)
	RefundTotal     *decimal.Decimal // daily_income.refund_total (nullable)
	AdjustedShows   *int             // daily_income.adjusted_shows (nullable)
	CreatedAt       time.Time        // daily_income.created_at
	UpdatedAt       time.Time        // daily_income.updated_at
}
