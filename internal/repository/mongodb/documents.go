// Package mongodb implements the repositories on MongoDB. Tickets embed their
// updates, so appending an update is a single atomic $set + $push.
package mongodb

import (
	"time"

	"github.com/ticketdesk/ticketdesk-service/internal/domain"
)

type userDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	Department   string    `bson:"department,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type updateDocument struct {
	ID        string    `bson:"_id"`
	Message   string    `bson:"message"`
	Status    *string   `bson:"status,omitempty"`
	Priority  *string   `bson:"priority,omitempty"`
	Timestamp time.Time `bson:"timestamp"`
	UpdatedBy string    `bson:"updated_by"`
}

type ticketDocument struct {
	ID             string           `bson:"_id"`
	Title          string           `bson:"title"`
	Description    string           `bson:"description"`
	Institute      string           `bson:"institute"`
	Location       string           `bson:"location"`
	RoomNumber     string           `bson:"room_number"`
	Department     string           `bson:"department"`
	ImageURL       string           `bson:"image_url,omitempty"`
	Priority       string           `bson:"priority"`
	Status         string           `bson:"status"`
	SubmittedBy    string           `bson:"submitted_by"`
	SubmissionDate time.Time        `bson:"submission_date"`
	UpdatedAt      time.Time        `bson:"updated_at"`
	Updates        []updateDocument `bson:"updates"`
}

type notificationDocument struct {
	ID          string     `bson:"_id"`
	Type        string     `bson:"type"`
	TicketID    string     `bson:"ticket_id"`
	RecipientID string     `bson:"recipient_id"`
	Message     string     `bson:"message"`
	IsRead      bool       `bson:"is_read"`
	CreatedAt   time.Time  `bson:"created_at"`
	ReadAt      *time.Time `bson:"read_at,omitempty"`
	Metadata    struct {
		Department  string `bson:"department,omitempty"`
		Priority    string `bson:"priority,omitempty"`
		SubmittedBy string `bson:"submitted_by,omitempty"`
	} `bson:"metadata"`
}

func toUserDocument(u *domain.User) userDocument {
	return userDocument{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Department:   u.Department,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDocument) toDomain() domain.User {
	return domain.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         domain.Role(d.Role),
		Department:   d.Department,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func toUpdateDocument(u *domain.TicketUpdate) updateDocument {
	doc := updateDocument{
		ID:        u.ID,
		Message:   u.Message,
		Timestamp: u.Timestamp,
		UpdatedBy: u.UpdatedBy,
	}
	if u.Status != nil {
		s := string(*u.Status)
		doc.Status = &s
	}
	if u.Priority != nil {
		p := string(*u.Priority)
		doc.Priority = &p
	}
	return doc
}

func (d updateDocument) toDomain() domain.TicketUpdate {
	update := domain.TicketUpdate{
		ID:        d.ID,
		Message:   d.Message,
		Timestamp: d.Timestamp,
		UpdatedBy: d.UpdatedBy,
	}
	if d.Status != nil {
		s := domain.TicketStatus(*d.Status)
		update.Status = &s
	}
	if d.Priority != nil {
		p := domain.TicketPriority(*d.Priority)
		update.Priority = &p
	}
	return update
}

func toTicketDocument(t *domain.Ticket) ticketDocument {
	updates := make([]updateDocument, 0, len(t.Updates))
	for i := range t.Updates {
		updates = append(updates, toUpdateDocument(&t.Updates[i]))
	}
	return ticketDocument{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Institute:      t.Institute,
		Location:       t.Location,
		RoomNumber:     t.RoomNumber,
		Department:     t.Department,
		ImageURL:       t.ImageURL,
		Priority:       string(t.Priority),
		Status:         string(t.Status),
		SubmittedBy:    t.SubmittedBy,
		SubmissionDate: t.SubmissionDate,
		UpdatedAt:      t.UpdatedAt,
		Updates:        updates,
	}
}

func (d ticketDocument) toDomain() domain.Ticket {
	updates := make([]domain.TicketUpdate, 0, len(d.Updates))
	for _, u := range d.Updates {
		updates = append(updates, u.toDomain())
	}
	return domain.Ticket{
		ID:             d.ID,
		Title:          d.Title,
		Description:    d.Description,
		Institute:      d.Institute,
		Location:       d.Location,
		RoomNumber:     d.RoomNumber,
		Department:     d.Department,
		ImageURL:       d.ImageURL,
		Priority:       domain.TicketPriority(d.Priority),
		Status:         domain.TicketStatus(d.Status),
		SubmittedBy:    d.SubmittedBy,
		SubmissionDate: d.SubmissionDate,
		UpdatedAt:      d.UpdatedAt,
		Updates:        updates,
	}
}

func toNotificationDocument(n *domain.Notification) notificationDocument {
	doc := notificationDocument{
		ID:          n.ID,
		Type:        string(n.Type),
		TicketID:    n.TicketID,
		RecipientID: n.RecipientID,
		Message:     n.Message,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
		ReadAt:      n.ReadAt,
	}
	doc.Metadata.Department = n.Metadata.Department
	doc.Metadata.Priority = string(n.Metadata.Priority)
	doc.Metadata.SubmittedBy = n.Metadata.SubmittedBy
	return doc
}

func (d notificationDocument) toDomain() domain.Notification {
	return domain.Notification{
		ID:          d.ID,
		Type:        domain.NotificationType(d.Type),
		TicketID:    d.TicketID,
		RecipientID: d.RecipientID,
		Message:     d.Message,
		IsRead:      d.IsRead,
		CreatedAt:   d.CreatedAt,
		ReadAt:      d.ReadAt,
		Metadata: domain.NotificationMetadata{
			Department:  d.Metadata.Department,
			Priority:    domain.TicketPriority(d.Metadata.Priority),
			SubmittedBy: d.Metadata.SubmittedBy,
		},
	}
}
