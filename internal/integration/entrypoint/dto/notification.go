package dto

import (
	"time"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// NotificationResponse is a single pending notification.
type NotificationResponse struct {
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationListResponse lists pending notifications, newest first.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}

// ToNotificationListResponse converts notifications to their response DTO.
func ToNotificationListResponse(notifications []entity.Notification) NotificationListResponse {
	items := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		items[i] = NotificationResponse{
			Title:     n.Title,
			Message:   n.Message,
			Severity:  string(n.Severity),
			CreatedAt: n.CreatedAt,
		}
	}
	return NotificationListResponse{Notifications: items}
}
