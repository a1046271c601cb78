package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"emysore/middleware"
	"emysore/service"
)

// NotificationHandler exposes a user's in-app notifications over HTTP
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetActingUser(r)

	var err error
	var result interface{}
	if r.URL.Query().Get("unread") == "true" {
		result, err = h.notifications.GetUnreadNotifications(user.UserID)
	} else {
		result, err = h.notifications.GetUserNotifications(user.UserID)
	}
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// UnreadCount handles GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetActingUser(r)

	count, err := h.notifications.GetUnreadCount(user.UserID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"unread_count": count})
}

// MarkRead handles PUT /api/notifications/{id}/read. Scoped to the acting
// user, so one user can never mark another's notification.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetActingUser(r)

	notificationID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || notificationID <= 0 {
		respondBadRequest(w, "invalid notification id")
		return
	}

	if err := h.notifications.MarkAsRead(notificationID, user.UserID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "notification marked as read"})
}

// MarkAllRead handles PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetActingUser(r)

	if err := h.notifications.MarkAllAsRead(user.UserID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "all notifications marked as read"})
}
