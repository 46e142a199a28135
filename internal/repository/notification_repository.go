package repository

import (
	"context"
	"database/sql"

	"github.com/driveease/car-rental-api/internal/model"
)

// NotificationRepo provides access to the notifications table.  Rows are
// written by the queue consumer (booking confirmations) and by admins;
// customers only ever read their own.
type NotificationRepo struct{ db *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Create inserts a notification for a user.
func (r *NotificationRepo) Create(ctx context.Context, userID uint64, message string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO notifications (user_id, message) VALUES (?,?)", userID, message)
	return err
}

// ListByUser returns a user's notifications (newest first) and marks them
// all read.  Read-on-list matches the inbox behavior: opening the list is
// what clears the badge.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, message, is_read, date_sent FROM notifications
		 WHERE user_id=? ORDER BY date_sent DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	notes := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.DateSent); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read=TRUE WHERE user_id=? AND is_read=FALSE", userID)
	return notes, err
}

// UnreadCount returns how many unread notifications a user has.
func (r *NotificationRepo) UnreadCount(ctx context.Context, userID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id=? AND is_read=FALSE", userID).Scan(&n)
	return n, err
}
