package repository

import (
	"context"
	"fmt"

	"gitlab.com/spendwatch/spendwatch/internal/database"
	"gitlab.com/spendwatch/spendwatch/internal/models"
)

// DefaultUnreadLimit caps how many unread notifications are returned at once.
const DefaultUnreadLimit = 10

// NotificationRepository handles notification database operations.
type NotificationRepository struct {
	db database.PGXDB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db database.PGXDB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateIfAbsent inserts a notification unless an unread one with the same
// dedup key already exists for the user. The partial unique index on unread
// notifications makes this an atomic upsert, so concurrent evaluations of the
// same threshold crossing produce exactly one notification. Returns whether a
// row was inserted.
func (r *NotificationRepository) CreateIfAbsent(ctx context.Context, n *models.Notification) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO notifications (user_id, message, type, link, dedup_key)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, dedup_key) WHERE NOT is_read AND dedup_key <> ''
		DO NOTHING
	`, n.UserID, n.Message, n.Type, n.Link, n.DedupKey)
	if err != nil {
		return false, fmt.Errorf("failed to create notification: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetUnreadByUser retrieves up to limit unread notifications for a user,
// newest first. A non-positive limit falls back to DefaultUnreadLimit.
func (r *NotificationRepository) GetUnreadByUser(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = DefaultUnreadLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, message, type, is_read, link, dedup_key, created_at
		FROM notifications
		WHERE user_id = $1 AND NOT is_read
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unread notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		var link *string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.IsRead, &link, &n.DedupKey, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		setIfPresent(&n.Link, link)
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}
	return notifications, nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks a single notification as read. The user filter guarantees a
// user can only acknowledge their own notifications; a non-existent or
// foreign id returns ErrNotFound.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read and
// returns how many rows changed. Already-read notifications are untouched.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
