package domain

import "time"

// NotificationType identifies why a notification was raised.
type NotificationType string

const (
	NotificationNewTicket      NotificationType = "new_ticket"
	NotificationTicketAssigned NotificationType = "ticket_assigned"
	NotificationTicketUpdated  NotificationType = "ticket_updated"
	NotificationTicketResolved NotificationType = "ticket_resolved"
)

// NotificationMetadata carries ticket context for display.
type NotificationMetadata struct {
	Department  string
	Priority    TicketPriority
	SubmittedBy string
}

// Notification is an inbox entry for a single recipient.
type Notification struct {
	ID          string
	Type        NotificationType
	TicketID    string
	RecipientID string
	Message     string
	IsRead      bool
	CreatedAt   time.Time
	ReadAt      *time.Time
	Metadata    NotificationMetadata
}
