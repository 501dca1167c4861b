package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ticketdesk/ticketdesk-service/internal/api/dto"
	"github.com/ticketdesk/ticketdesk-service/internal/domain"
	"github.com/ticketdesk/ticketdesk-service/internal/service"
	apperrors "github.com/ticketdesk/ticketdesk-service/pkg/util/errorutil"
	"github.com/ticketdesk/ticketdesk-service/pkg/util/validate"
)

// imageField is the multipart part carrying an optional ticket image.
const imageField = "imageFile"

// TicketsHandler exposes ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(svc *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: svc}
}

// CreateTicket POST /api/tickets. Accepts JSON or multipart form data.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return err
	}

	input := service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Institute:   req.Institute,
		Location:    req.Location,
		RoomNumber:  req.RoomNumber,
		Department:  req.Department,
		Priority:    req.Priority,
	}

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile(imageField)
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			return apperrors.NewValidationError("invalid image upload", map[string]any{imageField: err.Error()})
		default:
			file, err := fh.Open()
			if err != nil {
				return apperrors.NewInternalError(err)
			}
			defer file.Close()
			input.Image = &service.ImageUpload{
				Name:        fh.Filename,
				ContentType: fh.Header.Get(fiber.HeaderContentType),
				Size:        fh.Size,
				Reader:      file,
			}
		}
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), principal.User, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ToTicketResponse(ticket)})
}

// ListTickets GET /api/tickets and /api/dashboard.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	filter, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.ListTickets(c.UserContext(), principal.User, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToTicketResponses(tickets)})
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.UserContext(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToTicketResponse(ticket)})
}

// ListUpdates GET /api/tickets/:id/updates.
func (h *TicketsHandler) ListUpdates(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	updates, err := h.service.ListUpdates(c.UserContext(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToTicketUpdates(updates)})
}

// UpdateStatus PUT /api/tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.UpdateStatus(c.UserContext(), principal.User, c.Params("id"), req.Status, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToTicketResponse(ticket)})
}

// UpdatePriority PUT /api/tickets/:id/priority.
func (h *TicketsHandler) UpdatePriority(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdatePriorityRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.UpdatePriority(c.UserContext(), principal.User, c.Params("id"), req.Priority, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToTicketResponse(ticket)})
}

func parseTicketQuery(c *fiber.Ctx) (service.TicketListFilter, error) {
	filter := service.TicketListFilter{
		Department: optionalQuery(c, "department"),
		Search:     optionalQuery(c, "search"),
	}
	var err error
	if filter.From, err = optionalTime(c, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = optionalTime(c, "to"); err != nil {
		return filter, err
	}
	for _, s := range splitList(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.TicketStatus(s))
	}
	for _, p := range splitList(c.Query("priority")) {
		filter.Priorities = append(filter.Priorities, domain.TicketPriority(p))
	}
	filter.Limit, filter.Offset = pagination(c)
	return filter, nil
}
