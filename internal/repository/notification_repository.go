package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/theatre-backoffice/internal/model"
)

// NotificationRepo manages persistence for alert notifications.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo constructs a NotificationRepo with the given DB handle.
func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Exists reports whether userID already has a notification with this type
// and related id.
func (r *NotificationRepo) Exists(ctx context.Context, userID uint64, typ model.NotificationType, relatedID string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM notifications WHERE user_id = ? AND type = ? AND related_id = ?)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, userID, string(typ), relatedID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts n and assigns the generated ID.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	const q = `INSERT INTO notifications (user_id, title, body, type, related_id) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, n.UserID, n.Title, n.Body, string(n.Type), n.RelatedID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

// ListForUser returns up to limit notifications of userID, newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID uint64, limit int) ([]model.Notification, error) {
	const q = `SELECT id, user_id, title, body, type, related_id, is_read, created_at
		FROM notifications WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Notification
	for rows.Next() {
		var n model.Notification
		var typ string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &typ, &n.RelatedID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Type = model.NotificationType(typ)
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkRead flags notification id as read.  It returns ErrNotFound when the
// notification does not exist or belongs to another user.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID uint64) error {
	const q = `UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
