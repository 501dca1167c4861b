package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ticketdesk/ticketdesk-service/internal/domain"
	"github.com/ticketdesk/ticketdesk-service/internal/events"
	"github.com/ticketdesk/ticketdesk-service/internal/observability"
	"github.com/ticketdesk/ticketdesk-service/internal/repository"
	"github.com/ticketdesk/ticketdesk-service/internal/worker"
	apperrors "github.com/ticketdesk/ticketdesk-service/pkg/util/errorutil"
)

// Mailer queues outgoing email. *worker.EmailWorker satisfies it.
type Mailer interface {
	Enqueue(email worker.Email) bool
}

// NotificationService turns ticket events into inbox entries and emails.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	dispatcher    events.Dispatcher
	mailer        Mailer
	metrics       *observability.Metrics
	logger        *zap.Logger
	now           func() time.Time
}

// NotificationDependencies bundles collaborators for the service.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	UserRepo         repository.UserRepository
	Dispatcher       events.Dispatcher
	Mailer           Mailer
	Metrics          *observability.Metrics
	Logger           *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		notifications: deps.NotificationRepo,
		users:         deps.UserRepo,
		dispatcher:    deps.Dispatcher,
		mailer:        deps.Mailer,
		metrics:       deps.Metrics,
		logger:        logger,
		now:           time.Now,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketPriorityChanged, n.handleTicketPriorityChanged)
}

// List returns the recipient's notifications, newest first.
func (n *NotificationService) List(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	items, err := n.notifications.ListByRecipient(ctx, recipientID, unreadOnly, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// UnreadCount counts the recipient's unread notifications.
func (n *NotificationService) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	count, err := n.notifications.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// MarkRead marks one notification read; it must belong to recipientID.
func (n *NotificationService) MarkRead(ctx context.Context, recipientID, id string) error {
	return mapRepoError(n.notifications.MarkRead(ctx, recipientID, id, n.now().UTC()), "notification")
}

// MarkAllRead marks every unread notification of the recipient read.
func (n *NotificationService) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	changed, err := n.notifications.MarkAllRead(ctx, recipientID, n.now().UTC())
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return changed, nil
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}

	subAdmin := domain.RoleSubAdmin
	superAdmin := domain.RoleSuperAdmin
	dept := payload.Department
	deptAdmins, err := n.users.List(ctx, repository.UserFilter{Role: &subAdmin, Department: &dept})
	if err != nil {
		return err
	}
	superAdmins, err := n.users.List(ctx, repository.UserFilter{Role: &superAdmin})
	if err != nil {
		return err
	}

	message := fmt.Sprintf("New %s priority ticket %q submitted by %s in %s",
		payload.Priority, payload.Title, payload.SubmitterName, payload.Department)
	metadata := domain.NotificationMetadata{
		Department:  payload.Department,
		Priority:    payload.Priority,
		SubmittedBy: payload.SubmitterName,
	}
	for _, recipient := range append(deptAdmins, superAdmins...) {
		if recipient.ID == event.ActorID {
			continue
		}
		n.notify(ctx, &recipient, domain.NotificationNewTicket, event.TicketID, message, metadata)
	}
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	kind := domain.NotificationTicketUpdated
	message := fmt.Sprintf("Your ticket %q is now %s", payload.Title, payload.NewStatus)
	if payload.NewStatus == domain.TicketStatusResolved {
		kind = domain.NotificationTicketResolved
		message = fmt.Sprintf("Your ticket %q has been resolved", payload.Title)
	}
	return n.notifySubmitter(ctx, event, payload.SubmittedBy, kind, message)
}

func (n *NotificationService) handleTicketPriorityChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketPriorityChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	message := fmt.Sprintf("Priority of your ticket %q changed to %s", payload.Title, payload.NewPriority)
	return n.notifySubmitter(ctx, event, payload.SubmittedBy, domain.NotificationTicketUpdated, message)
}

func (n *NotificationService) notifySubmitter(ctx context.Context, event events.Event, submitterID string, kind domain.NotificationType, message string) error {
	if submitterID == "" || submitterID == event.ActorID {
		return nil
	}
	recipient, err := n.users.GetByID(ctx, submitterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	n.notify(ctx, recipient, kind, event.TicketID, message, domain.NotificationMetadata{})
	return nil
}

func (n *NotificationService) notify(ctx context.Context, recipient *domain.User, kind domain.NotificationType, ticketID, message string, metadata domain.NotificationMetadata) {
	record := &domain.Notification{
		ID:          uuid.NewString(),
		Type:        kind,
		TicketID:    ticketID,
		RecipientID: recipient.ID,
		Message:     message,
		CreatedAt:   n.now().UTC(),
		Metadata:    metadata,
	}
	if err := n.notifications.Create(ctx, record); err != nil {
		n.logger.Error("persist notification",
			zap.String("recipient_id", recipient.ID),
			zap.String("ticket_id", ticketID),
			zap.Error(err))
		return
	}
	n.metrics.NotificationCreated()

	if n.mailer != nil && recipient.Email != "" {
		n.mailer.Enqueue(worker.Email{
			To:      recipient.Email,
			Subject: "TicketDesk: " + string(kind),
			Body:    message,
		})
	}
}
