package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ticketdesk/ticketdesk-service/internal/domain"
	"github.com/ticketdesk/ticketdesk-service/internal/events"
	"github.com/ticketdesk/ticketdesk-service/internal/observability"
	"github.com/ticketdesk/ticketdesk-service/internal/repository"
	"github.com/ticketdesk/ticketdesk-service/internal/storage"
	apperrors "github.com/ticketdesk/ticketdesk-service/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows and enforces visibility rules.
type TicketService struct {
	tickets       repository.TicketRepository
	images        storage.ImageStore
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	logger        *zap.Logger
	maxImageBytes int64
	now           func() time.Time
}

// TicketDependencies bundles collaborators for ticket service.
type TicketDependencies struct {
	TicketRepo    repository.TicketRepository
	Images        storage.ImageStore
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
	MaxImageBytes int64
}

// ImageUpload is an image attached to a new ticket.
type ImageUpload struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Institute   string
	Location    string
	RoomNumber  string
	Department  string
	Priority    domain.TicketPriority
	Image       *ImageUpload
}

// TicketListFilter narrows a listing inside the caller's visible scope.
type TicketListFilter struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Department *string
	Search     *string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:       deps.TicketRepo,
		images:        deps.Images,
		dispatcher:    deps.Dispatcher,
		metrics:       deps.Metrics,
		logger:        logger,
		maxImageBytes: deps.MaxImageBytes,
		now:           time.Now,
	}
}

// CreateTicket files a ticket for actor. Status starts pending and the
// creation is recorded as the first update.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Institute:   strings.TrimSpace(input.Institute),
		Location:    strings.TrimSpace(input.Location),
		RoomNumber:  strings.TrimSpace(input.RoomNumber),
		Department:  strings.TrimSpace(input.Department),
		Priority:    input.Priority,
		Status:      domain.TicketStatusPending,
		SubmittedBy: actor.ID,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if err := validateTicket(ticket); err != nil {
		return nil, err
	}

	if input.Image != nil {
		url, err := s.saveImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		ticket.ImageURL = url
	}

	now := s.now().UTC()
	pending := domain.TicketStatusPending
	ticket.SubmissionDate = now
	ticket.Updates = []domain.TicketUpdate{{
		ID:        uuid.NewString(),
		Message:   "Ticket created by " + actor.Name,
		Status:    &pending,
		Timestamp: now,
		UpdatedBy: actor.ID,
	}}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.discardImage(ctx, ticket.ImageURL)
		return nil, mapRepoError(err, "ticket")
	}
	ref := actor.Ref()
	ticket.Submitter = &ref
	ticket.Updates[0].Updater = &ref
	s.metrics.TicketCreated(ticket.Priority)

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketCreatedPayload{
			Title:         ticket.Title,
			Department:    ticket.Department,
			Priority:      ticket.Priority,
			SubmittedBy:   actor.ID,
			SubmitterName: actor.Name,
		},
	})
	return ticket, nil
}

// ListTickets returns the tickets actor may see, newest first. Reporters see
// their own tickets and sub admins their department's; a department filter
// only applies for super admins and reporters.
func (s *TicketService) ListTickets(ctx context.Context, actor *domain.User, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		Department: filter.Department,
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		Search:     filter.Search,
		From:       filter.From,
		To:         filter.To,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	applyScope(&repoFilter, actor)

	tickets, err := s.tickets.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicket fetches a ticket ensuring actor may see it.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapRepoError(err, "ticket")
	}
	if !canView(actor, ticket) {
		return nil, apperrors.NewForbidden("you do not have access to this ticket")
	}
	return ticket, nil
}

// ListUpdates returns a ticket's audit trail, oldest first.
func (s *TicketService) ListUpdates(ctx context.Context, actor *domain.User, ticketID string) ([]domain.TicketUpdate, error) {
	ticket, err := s.GetTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	return ticket.Updates, nil
}

// UpdateStatus records a status change by an administrator. Any status may
// follow any other, including itself.
func (s *TicketService) UpdateStatus(ctx context.Context, actor *domain.User, ticketID string, newStatus domain.TicketStatus, message string) (*domain.Ticket, error) {
	if !newStatus.Valid() {
		return nil, fieldError("newStatus", "newStatus must be one of: pending, in-progress, resolved")
	}
	ticket, err := s.managedTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	message = strings.TrimSpace(message)
	if message == "" {
		message = "Status changed to " + string(newStatus)
	}
	oldStatus := ticket.Status
	updated, err := s.tickets.AppendUpdate(ctx, ticket.ID, repository.TicketChange{Status: &newStatus}, &domain.TicketUpdate{
		ID:        uuid.NewString(),
		Message:   message,
		Status:    &newStatus,
		Timestamp: s.now().UTC(),
		UpdatedBy: actor.ID,
	})
	if err != nil {
		return nil, mapRepoError(err, "ticket")
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketStatusChangedPayload{
			Title:       ticket.Title,
			SubmittedBy: ticket.SubmittedBy,
			OldStatus:   oldStatus,
			NewStatus:   newStatus,
			Message:     message,
		},
	})
	return updated, nil
}

// UpdatePriority records a priority change by an administrator.
func (s *TicketService) UpdatePriority(ctx context.Context, actor *domain.User, ticketID string, newPriority domain.TicketPriority, message string) (*domain.Ticket, error) {
	if !newPriority.Valid() {
		return nil, fieldError("newPriority", "newPriority must be one of: low, medium, high")
	}
	ticket, err := s.managedTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	message = strings.TrimSpace(message)
	if message == "" {
		message = "Priority changed to " + string(newPriority)
	}
	oldPriority := ticket.Priority
	updated, err := s.tickets.AppendUpdate(ctx, ticket.ID, repository.TicketChange{Priority: &newPriority}, &domain.TicketUpdate{
		ID:        uuid.NewString(),
		Message:   message,
		Priority:  &newPriority,
		Timestamp: s.now().UTC(),
		UpdatedBy: actor.ID,
	})
	if err != nil {
		return nil, mapRepoError(err, "ticket")
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketPriorityChanged,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketPriorityChangedPayload{
			Title:       ticket.Title,
			SubmittedBy: ticket.SubmittedBy,
			OldPriority: oldPriority,
			NewPriority: newPriority,
			Message:     message,
		},
	})
	return updated, nil
}

func (s *TicketService) managedTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	if !actor.Role.IsAdmin() {
		return nil, apperrors.NewForbidden("only administrators can change tickets")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapRepoError(err, "ticket")
	}
	if !canManage(actor, ticket) {
		return nil, apperrors.NewForbidden("ticket belongs to another department")
	}
	return ticket, nil
}

func (s *TicketService) saveImage(ctx context.Context, img *ImageUpload) (string, error) {
	if s.images == nil {
		return "", apperrors.NewValidationError("image uploads are not enabled", nil)
	}
	if err := storage.ValidateImage(img.ContentType, img.Size, s.maxImageBytes); err != nil {
		return "", err
	}
	url, err := s.images.Save(ctx, img.Name, img.ContentType, img.Reader, img.Size)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return url, nil
}

// discardImage removes an image whose ticket was never stored.
func (s *TicketService) discardImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		s.logger.Warn("orphaned ticket image", zap.String("url", url), zap.Error(err))
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

// applyScope restricts a filter to what actor may see. A sub admin without a
// department falls back to their own tickets.
func applyScope(filter *repository.TicketFilter, actor *domain.User) {
	switch actor.Role {
	case domain.RoleSuperAdmin:
	case domain.RoleSubAdmin:
		if actor.Department != "" {
			dept := actor.Department
			filter.Department = &dept
			return
		}
		fallthrough
	default:
		owner := actor.ID
		filter.SubmittedBy = &owner
	}
}

func canView(actor *domain.User, ticket *domain.Ticket) bool {
	return ticket.SubmittedBy == actor.ID || canManage(actor, ticket)
}

func canManage(actor *domain.User, ticket *domain.Ticket) bool {
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return true
	case domain.RoleSubAdmin:
		return actor.Department != "" && actor.Department == ticket.Department
	}
	return false
}

func validateTicket(t *domain.Ticket) error {
	details := map[string]any{}
	required := []struct {
		field string
		value string
	}{
		{"title", t.Title},
		{"description", t.Description},
		{"institute", t.Institute},
		{"location", t.Location},
		{"roomNumber", t.RoomNumber},
		{"department", t.Department},
	}
	for _, r := range required {
		if r.value == "" {
			details[r.field] = r.field + " is required"
		}
	}
	if !t.Priority.Valid() {
		details["priority"] = "priority must be one of: low, medium, high"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details)
	}
	return nil
}
