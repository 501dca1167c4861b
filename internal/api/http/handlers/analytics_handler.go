package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ticketdesk/ticketdesk-service/internal/api/dto"
	"github.com/ticketdesk/ticketdesk-service/internal/service"
)

// AnalyticsHandler serves dashboard statistics to administrators.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: svc}
}

// Report GET /api/analytics?department=.
func (h *AnalyticsHandler) Report(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	department := ""
	if dept := optionalQuery(c, "department"); dept != nil {
		department = *dept
	}
	report, err := h.analytics.Report(c.UserContext(), principal.User, department)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToAnalyticsResponse(report)})
}
