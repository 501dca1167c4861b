package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusResolved   TicketStatus = "resolved"
)

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusPending, TicketStatusInProgress, TicketStatusResolved:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// Ticket is an issue report filed against a department and location.
// Department never changes after creation.
type Ticket struct {
	ID             string
	Title          string
	Description    string
	Institute      string
	Location       string
	RoomNumber     string
	Department     string
	ImageURL       string
	Priority       TicketPriority
	Status         TicketStatus
	SubmittedBy    string
	Submitter      *UserRef
	SubmissionDate time.Time
	UpdatedAt      time.Time
	Updates        []TicketUpdate
}

// TicketUpdate is an append-only audit entry. Status and Priority are set
// only when the update changed them.
type TicketUpdate struct {
	ID        string
	Message   string
	Status    *TicketStatus
	Priority  *TicketPriority
	Timestamp time.Time
	UpdatedBy string
	Updater   *UserRef
}

// ResolvedAt returns the timestamp of the first update that moved the ticket to resolved.
func (t *Ticket) ResolvedAt() (time.Time, bool) {
	for _, u := range t.Updates {
		if u.Status != nil && *u.Status == TicketStatusResolved {
			return u.Timestamp, true
		}
	}
	return time.Time{}, false
}
