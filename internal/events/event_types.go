package events

import (
	"time"

	"github.com/ticketdesk/ticketdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  string    `json:"ticket_id"`
	ActorID   string    `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title         string                `json:"title"`
	Department    string                `json:"department"`
	Priority      domain.TicketPriority `json:"priority"`
	SubmittedBy   string                `json:"submitted_by"`
	SubmitterName string                `json:"submitter_name"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	Title       string              `json:"title"`
	SubmittedBy string              `json:"submitted_by"`
	OldStatus   domain.TicketStatus `json:"old_status"`
	NewStatus   domain.TicketStatus `json:"new_status"`
	Message     string              `json:"message"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	Title       string                `json:"title"`
	SubmittedBy string                `json:"submitted_by"`
	OldPriority domain.TicketPriority `json:"old_priority"`
	NewPriority domain.TicketPriority `json:"new_priority"`
	Message     string                `json:"message"`
}
