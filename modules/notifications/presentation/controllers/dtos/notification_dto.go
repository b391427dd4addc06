package dtos

import (
	"time"

	"github.com/pinpoint-collective/pinpoint/modules/notifications/domain/entities/notification"
)

type NotificationResponse struct {
	ID        string  `json:"id"`
	Topic     string  `json:"topic"`
	IssueID   string  `json:"issue_id"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	ReadAt    *string `json:"read_at"`
	CreatedAt string  `json:"created_at"`
}

func NewNotificationResponse(n *notification.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID(),
		Topic:     n.Topic(),
		IssueID:   n.IssueID(),
		Title:     n.Title(),
		Message:   n.Message(),
		CreatedAt: n.CreatedAt().Format(time.RFC3339),
	}
	if n.ReadAt() != nil {
		readAt := n.ReadAt().Format(time.RFC3339)
		resp.ReadAt = &readAt
	}
	return resp
}

type NotificationListResponse struct {
	Data   []NotificationResponse `json:"data"`
	Total  int64                  `json:"total"`
	Unread int64                  `json:"unread"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
