package service

import (
	"fmt"

	"emysore/models"
	"emysore/notification"
	"emysore/repository"
)

// NotificationService persists in-app notifications and fans them out over
// the external channels. The persisted row is the system of record for "user
// was informed"; delivery is a separate best-effort side effect that never
// writes back to the row.
type NotificationService struct {
	repo       *repository.NotificationRepository
	dispatcher *notification.Dispatcher
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	repo *repository.NotificationRepository,
	dispatcher *notification.Dispatcher,
) *NotificationService {
	return &NotificationService{
		repo:       repo,
		dispatcher: dispatcher,
	}
}

// CreateAndDispatch persists the notification synchronously, then hands
// delivery to the dispatcher. The row is visible to unread-count and listing
// queries when this returns; the caller is never delayed past the insert.
func (s *NotificationService) CreateAndDispatch(
	user *models.User,
	title, message string,
	notificationType models.NotificationType,
) (*models.Notification, error) {
	n := &models.Notification{
		UserID:  user.UserID,
		Title:   title,
		Message: message,
		Type:    notificationType,
		IsRead:  false,
	}

	if err := s.repo.CreateNotification(n); err != nil {
		return nil, fmt.Errorf("failed to persist notification: %w", err)
	}

	delivery := notification.Delivery{Subject: title, Body: message}
	if user.Email.Valid {
		delivery.Email = user.Email.String
	}
	if user.Phone.Valid {
		delivery.Phone = user.Phone.String
	}
	s.dispatcher.Enqueue(delivery)

	return n, nil
}

// DirectContactNotify delivers to an external contact (a department) with no
// persistence at all; a pure side channel.
func (s *NotificationService) DirectContactNotify(email, phone, title, message string) {
	s.dispatcher.Enqueue(notification.Delivery{
		Email:   email,
		Phone:   phone,
		Subject: title,
		Body:    message,
	})
}

// GetUserNotifications retrieves all notifications for a user, newest first
func (s *NotificationService) GetUserNotifications(userID int64) ([]models.Notification, error) {
	return s.repo.GetByUserID(userID)
}

// GetUnreadNotifications retrieves unread notifications for a user
func (s *NotificationService) GetUnreadNotifications(userID int64) ([]models.Notification, error) {
	return s.repo.GetUnreadByUserID(userID)
}

// GetUnreadCount returns the number of unread notifications for a user
func (s *NotificationService) GetUnreadCount(userID int64) (int64, error) {
	return s.repo.CountUnread(userID)
}

// MarkAsRead marks one notification of the user as read
func (s *NotificationService) MarkAsRead(notificationID, userID int64) error {
	return s.repo.MarkAsRead(notificationID, userID)
}

// MarkAllAsRead marks all of the user's notifications as read
func (s *NotificationService) MarkAllAsRead(userID int64) error {
	return s.repo.MarkAllAsRead(userID)
}
