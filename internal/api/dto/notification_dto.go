package dto

import (
	"time"

	"github.com/ticketdesk/ticketdesk-service/internal/domain"
)

// NotificationResponse is one inbox entry.
type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      domain.NotificationType `json:"type"`
	TicketID  string                  `json:"ticketId"`
	Message   string                  `json:"message"`
	IsRead    bool                    `json:"isRead"`
	CreatedAt time.Time               `json:"createdAt"`
	ReadAt    *time.Time              `json:"readAt,omitempty"`
	Metadata  NotificationMetadata    `json:"metadata"`
}

// NotificationMetadata mirrors the ticket context stored with a notification.
type NotificationMetadata struct {
	Department  string                `json:"department,omitempty"`
	Priority    domain.TicketPriority `json:"priority,omitempty"`
	SubmittedBy string                `json:"submittedBy,omitempty"`
}

// ToNotificationResponses maps a list of notifications.
func ToNotificationResponses(items []domain.Notification) []NotificationResponse {
	resp := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		resp = append(resp, NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			TicketID:  n.TicketID,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
			ReadAt:    n.ReadAt,
			Metadata: NotificationMetadata{
				Department:  n.Metadata.Department,
				Priority:    n.Metadata.Priority,
				SubmittedBy: n.Metadata.SubmittedBy,
			},
		})
	}
	return resp
}
