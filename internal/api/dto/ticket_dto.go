package dto

import (
	"time"

	"github.com/ticketdesk/ticketdesk-service/internal/domain"
)

// CreateTicketRequest payload. The same fields are accepted as JSON or as
// multipart form values next to the optional imageFile part.
type CreateTicketRequest struct {
	Title       string                `json:"title" form:"title" validate:"required,max=200"`
	Description string                `json:"description" form:"description" validate:"required,max=5000"`
	Institute   string                `json:"institute" form:"institute" validate:"required,max=200"`
	Location    string                `json:"location" form:"location" validate:"required,max=200"`
	RoomNumber  string                `json:"roomNumber" form:"roomNumber" validate:"required,max=50"`
	Department  string                `json:"department" form:"department" validate:"required,max=120"`
	Priority    domain.TicketPriority `json:"priority" form:"priority" validate:"omitempty,oneof=low medium high"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status  domain.TicketStatus `json:"newStatus" validate:"required,oneof=pending in-progress resolved"`
	Message string              `json:"message" validate:"max=2000"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority domain.TicketPriority `json:"newPriority" validate:"required,oneof=low medium high"`
	Message  string                `json:"message" validate:"max=2000"`
}

// UserRefResponse is the embedded submitter/updater projection.
type UserRefResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role,omitempty"`
}

// TicketUpdateResponse is one audit trail entry.
type TicketUpdateResponse struct {
	ID        string                 `json:"id"`
	Message   string                 `json:"message"`
	Status    *domain.TicketStatus   `json:"status,omitempty"`
	Priority  *domain.TicketPriority `json:"priority,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	UpdatedBy *UserRefResponse       `json:"updatedBy"`
}

// TicketResponse is the full ticket view including its updates.
type TicketResponse struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Institute      string                 `json:"institute"`
	Location       string                 `json:"location"`
	RoomNumber     string                 `json:"roomNumber"`
	Department     string                 `json:"department"`
	ImageURL       string                 `json:"imageUrl,omitempty"`
	Priority       domain.TicketPriority  `json:"priority"`
	Status         domain.TicketStatus    `json:"status"`
	SubmittedBy    *UserRefResponse       `json:"submittedBy"`
	SubmissionDate time.Time              `json:"submissionDate"`
	UpdatedAt      time.Time              `json:"updatedAt"`
	Updates        []TicketUpdateResponse `json:"updates"`
}

func toUserRef(ref *domain.UserRef) *UserRefResponse {
	if ref == nil {
		return nil
	}
	return &UserRefResponse{ID: ref.ID, Name: ref.Name, Email: ref.Email, Role: ref.Role}
}

// ToTicketUpdates maps an audit trail.
func ToTicketUpdates(updates []domain.TicketUpdate) []TicketUpdateResponse {
	resp := make([]TicketUpdateResponse, 0, len(updates))
	for _, u := range updates {
		resp = append(resp, TicketUpdateResponse{
			ID:        u.ID,
			Message:   u.Message,
			Status:    u.Status,
			Priority:  u.Priority,
			Timestamp: u.Timestamp,
			UpdatedBy: toUserRef(u.Updater),
		})
	}
	return resp
}

// ToTicketResponse maps a domain ticket.
func ToTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Institute:      t.Institute,
		Location:       t.Location,
		RoomNumber:     t.RoomNumber,
		Department:     t.Department,
		ImageURL:       t.ImageURL,
		Priority:       t.Priority,
		Status:         t.Status,
		SubmittedBy:    toUserRef(t.Submitter),
		SubmissionDate: t.SubmissionDate,
		UpdatedAt:      t.UpdatedAt,
		Updates:        ToTicketUpdates(t.Updates),
	}
}

// ToTicketResponses maps a list of tickets.
func ToTicketResponses(tickets []domain.Ticket) []TicketResponse {
	resp := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		resp = append(resp, ToTicketResponse(&tickets[i]))
	}
	return resp
}
