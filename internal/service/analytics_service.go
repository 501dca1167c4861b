package service

import (
	"context"
	"strings"
	"time"

	"github.com/ticketdesk/ticketdesk-service/internal/analytics"
	"github.com/ticketdesk/ticketdesk-service/internal/domain"
	"github.com/ticketdesk/ticketdesk-service/internal/repository"
	apperrors "github.com/ticketdesk/ticketdesk-service/pkg/util/errorutil"
)

// AnalyticsService computes dashboard statistics over the caller's scope.
type AnalyticsService struct {
	tickets repository.TicketRepository
	now     func() time.Time
}

// NewAnalyticsService builds the service.
func NewAnalyticsService(tickets repository.TicketRepository) *AnalyticsService {
	return &AnalyticsService{tickets: tickets, now: time.Now}
}

// Report scans every ticket visible to actor. department narrows a super
// admin's report and is ignored for sub admins.
func (s *AnalyticsService) Report(ctx context.Context, actor *domain.User, department string) (analytics.Report, error) {
	if !actor.Role.IsAdmin() {
		return analytics.Report{}, apperrors.NewForbidden("analytics are available to administrators only")
	}

	now := s.now()
	// Tickets filed while the pages are read must not shift the offsets.
	filter := repository.TicketFilter{To: &now}
	if dept := strings.TrimSpace(department); dept != "" && actor.Role == domain.RoleSuperAdmin {
		filter.Department = &dept
	}
	applyScope(&filter, actor)

	tickets, err := s.collect(ctx, filter)
	if err != nil {
		return analytics.Report{}, apperrors.MapError(err)
	}
	return analytics.Compute(tickets, now), nil
}

func (s *AnalyticsService) collect(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	all := []domain.Ticket{}
	filter.Limit = repository.MaxLimit
	for {
		page, err := s.tickets.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < filter.Limit {
			return all, nil
		}
		filter.Offset += len(page)
	}
}
