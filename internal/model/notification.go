package model

import "time"

// NotificationType classifies alert records.
type NotificationType string

const (
	NotificationRevenueAlert      NotificationType = "revenue-alert"
	NotificationCancellationAlert NotificationType = "cancellation-alert"
)

// Notification is an alert stored in the `notifications` table.  Delivery
// (push, email) is handled by another service that listens for
// notification.created events.  The pair (Type, RelatedID) is the dedup key:
// the alert checks never create a second batch for a pair that exists.
type Notification struct {
	ID        uint64           `json:"id"`
	UserID    uint64           `json:"user_id"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Type      NotificationType `json:"type"`
	RelatedID string           `json:"related_id"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
