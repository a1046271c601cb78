package repository

import (
	"database/sql"
	"fmt"
	"time"

	"emysore/models"
)

// NotificationRepository handles database operations for notifications.
// Rows are created once and never deleted; is_read is the only mutable field.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateNotification inserts a notification record. The row is the system of
// record for "user was informed" and is visible to unread-count and listing
// queries as soon as this returns.
func (r *NotificationRepository) CreateNotification(notification *models.Notification) error {
	notification.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO notifications (user_id, title, message, type, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(
		query,
		notification.UserID,
		notification.Title,
		notification.Message,
		notification.Type,
		notification.IsRead,
		notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	notificationID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get notification ID: %w", err)
	}

	notification.NotificationID = notificationID
	return nil
}

// GetByUserID retrieves all notifications for a user, newest first
func (r *NotificationRepository) GetByUserID(userID int64) ([]models.Notification, error) {
	query := `
		SELECT notification_id, user_id, title, message, type, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC
	`
	return r.queryNotifications(query, userID)
}

// GetUnreadByUserID retrieves unread notifications for a user, newest first
func (r *NotificationRepository) GetUnreadByUserID(userID int64) ([]models.Notification, error) {
	query := `
		SELECT notification_id, user_id, title, message, type, is_read, created_at
		FROM notifications
		WHERE user_id = ? AND is_read = false
		ORDER BY created_at DESC
	`
	return r.queryNotifications(query, userID)
}

// CountUnread returns the number of unread notifications for a user
func (r *NotificationRepository) CountUnread(userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = false`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkAsRead marks one notification as read. Scoped to the owning user so a
// caller cannot mark someone else's notification.
func (r *NotificationRepository) MarkAsRead(notificationID, userID int64) error {
	result, err := r.db.Exec(
		`UPDATE notifications SET is_read = true WHERE notification_id = ? AND user_id = ?`,
		notificationID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check notification update: %w", err)
	}
	if affected == 0 {
		return models.ErrNotificationNotFound
	}
	return nil
}

// MarkAllAsRead marks every unread notification of the user as read
func (r *NotificationRepository) MarkAllAsRead(userID int64) error {
	_, err := r.db.Exec(
		`UPDATE notifications SET is_read = true WHERE user_id = ? AND is_read = false`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return nil
}

func (r *NotificationRepository) queryNotifications(query string, args ...interface{}) ([]models.Notification, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var notification models.Notification
		err := rows.Scan(
			&notification.NotificationID,
			&notification.UserID,
			&notification.Title,
			&notification.Message,
			&notification.Type,
			&notification.IsRead,
			&notification.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, notification)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}
