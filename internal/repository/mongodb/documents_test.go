package mongodb

import (
	"testing"
	"time"

	"github.com/ticketdesk/ticketdesk-service/internal/domain"
)

func TestTicketDocumentKeepsOptionalUpdateFields(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	pending := domain.TicketStatusPending
	high := domain.TicketPriorityHigh
	ticket := &domain.Ticket{
		ID:             "t-1",
		Title:          "Broken AC",
		Department:     "Maintenance",
		Priority:       domain.TicketPriorityMedium,
		Status:         domain.TicketStatusPending,
		SubmittedBy:    "u-1",
		SubmissionDate: now,
		Updates: []domain.TicketUpdate{
			{ID: "up-1", Message: "Ticket created by Ana", Status: &pending, Timestamp: now, UpdatedBy: "u-1"},
			{ID: "up-2", Message: "Priority changed to high", Priority: &high, Timestamp: now.Add(time.Minute), UpdatedBy: "u-2"},
			{ID: "up-3", Message: "Looking into it", Timestamp: now.Add(2 * time.Minute), UpdatedBy: "u-2"},
		},
	}

	got := toTicketDocument(ticket).toDomain()
	if len(got.Updates) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(got.Updates))
	}
	if got.Updates[0].Status == nil || *got.Updates[0].Status != pending || got.Updates[0].Priority != nil {
		t.Fatalf("unexpected first update: %+v", got.Updates[0])
	}
	if got.Updates[1].Priority == nil || *got.Updates[1].Priority != high || got.Updates[1].Status != nil {
		t.Fatalf("unexpected second update: %+v", got.Updates[1])
	}
	if got.Updates[2].Status != nil || got.Updates[2].Priority != nil {
		t.Fatalf("comment update must not carry changes: %+v", got.Updates[2])
	}
	if got.Department != "Maintenance" || got.SubmittedBy != "u-1" {
		t.Fatalf("unexpected ticket fields: %+v", got)
	}
}

func TestNotificationDocumentMetadata(t *testing.T) {
	n := &domain.Notification{
		ID:          "n-1",
		Type:        domain.NotificationNewTicket,
		RecipientID: "admin",
		Metadata: domain.NotificationMetadata{
			Department:  "IT Support",
			Priority:    domain.TicketPriorityLow,
			SubmittedBy: "Ana",
		},
	}
	got := toNotificationDocument(n).toDomain()
	if got.Metadata != n.Metadata {
		t.Fatalf("metadata mismatch: %+v", got.Metadata)
	}
	if got.ReadAt != nil || got.IsRead {
		t.Fatal("expected unread notification")
	}
}
