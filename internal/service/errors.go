package service

import "errors"

var (
	// ErrRangeTooLarge is returned when a requested series spans more days
	// than Config.MaxSeriesDays.
	ErrRangeTooLarge = errors.New("date range too large")

	// ErrInvalidAmount is returned for negative money amounts or show counts.
	ErrInvalidAmount = errors.New("amount must not be negative")

	// ErrInvalidPaymentType is returned for an unknown payment type filter.
	ErrInvalidPaymentType = errors.New("payment type must be cash, upi or other")

	// ErrSyncInProgress is returned when another daily income sync holds the lock.
	ErrSyncInProgress = errors.New("daily income sync already running")
)
