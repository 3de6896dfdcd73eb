// Package queue defines message payloads exchanged over the message broker
// and the consumer for booking-ledger events.
package queue

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/theatre-backoffice/internal/model"
)

const (
	// RefundApprovedQueue carries refund approvals from the refund workflow.
	RefundApprovedQueue = "refund.approved"
	// NotificationCreatedQueue carries alerts to the delivery service.
	NotificationCreatedQueue = "notification.created"
)

// RefundApprovedEvent is published by the refund workflow when a refund on
// a booking is approved.  BookingDate is the booking's local date.
type RefundApprovedEvent struct {
	BookingID    uint64          `json:"booking_id"`
	BookingDate  string          `json:"booking_date"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	ApprovedAt   string          `json:"approved_at"`
}

// NotificationCreatedEvent is published for every alert row the engine
// writes.  It carries everything the delivery service needs to render it.
type NotificationCreatedEvent struct {
	NotificationID uint64 `json:"notification_id"`
	UserID         uint64 `json:"user_id"`
	Type           string `json:"type"`
	RelatedID      string `json:"related_id"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	CreatedAt      string `json:"created_at"`
}

// NewNotificationCreatedEvent builds the event for n.
func NewNotificationCreatedEvent(n model.Notification) NotificationCreatedEvent {
	created := n.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return NotificationCreatedEvent{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           string(n.Type),
		RelatedID:      n.RelatedID,
		Title:          n.Title,
		Body:           n.Body,
		CreatedAt:      created.UTC().Format(time.RFC3339),
	}
}
