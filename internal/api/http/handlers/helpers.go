package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ticketdesk/ticketdesk-service/internal/auth"
	"github.com/ticketdesk/ticketdesk-service/internal/repository"
	apperrors "github.com/ticketdesk/ticketdesk-service/pkg/util/errorutil"
	"github.com/ticketdesk/ticketdesk-service/pkg/util/validate"
)

func currentPrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("user required")
	}
	return principal, nil
}

// bindJSON parses and validates the request body into req.
func bindJSON(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return validate.Struct(req)
}

func splitList(val string) []string {
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" && part != "all" {
			out = append(out, part)
		}
	}
	return out
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	val := strings.TrimSpace(c.Query(key))
	if val == "" || val == "all" {
		return nil
	}
	return &val
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

// pagination reads page/pageSize (1-based) and returns limit and offset.
// Without pageSize the repository default page size applies.
func pagination(c *fiber.Ctx) (int, int) {
	pageSize := parseInt(c.Query("pageSize", c.Query("limit")), repository.DefaultLimit)
	pageSize, _ = repository.NormalizePage(pageSize, 0)
	page := parseInt(c.Query("page"), 1)
	return pageSize, (page - 1) * pageSize
}

// optionalTime parses an RFC3339 query value; empty means unset.
func optionalTime(c *fiber.Ctx, key string) (*time.Time, error) {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid query parameter", map[string]any{key: key + " must be an RFC3339 timestamp"})
	}
	return &parsed, nil
}
