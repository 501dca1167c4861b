package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ticketdesk/ticketdesk-service/internal/api/http/handlers"
	"github.com/ticketdesk/ticketdesk-service/internal/auth"
	"github.com/ticketdesk/ticketdesk-service/internal/config"
	"github.com/ticketdesk/ticketdesk-service/internal/domain"
	"github.com/ticketdesk/ticketdesk-service/internal/events"
	"github.com/ticketdesk/ticketdesk-service/internal/observability"
	"github.com/ticketdesk/ticketdesk-service/internal/persistence"
	"github.com/ticketdesk/ticketdesk-service/internal/repository/memory"
	"github.com/ticketdesk/ticketdesk-service/internal/service"
	"github.com/ticketdesk/ticketdesk-service/internal/storage"
)

type testServer struct {
	app       *fiber.App
	uploadDir string
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	revoker := auth.NewLocalRevoker()

	uploadDir := t.TempDir()
	images, err := storage.NewLocalStore(uploadDir, "/uploads")
	if err != nil {
		t.Fatalf("local store: %v", err)
	}

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo: store.Users, Tokens: tokens, Revoker: revoker, BcryptCost: 4,
	})
	userService := service.NewUserService(store.Users, 4)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: store.Tickets, Images: images, Dispatcher: dispatcher, Metrics: metrics, Logger: logger, MaxImageBytes: 1 << 20,
	})
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		NotificationRepo: store.Notifications, UserRepo: store.Users, Dispatcher: dispatcher, Metrics: metrics, Logger: logger,
	})
	notificationService.RegisterHandlers()

	seed := []service.CreateUserInput{
		{Name: "Super Admin", Email: "superadmin@fixit.com", Password: "secret1", Role: domain.RoleSuperAdmin},
		{Name: "Ivy", Email: "ivy@fixit.com", Password: "secret1", Role: domain.RoleSubAdmin, Department: "IT Support"},
		{Name: "Finn", Email: "finn@fixit.com", Password: "secret1", Role: domain.RoleSubAdmin, Department: "Facilities"},
	}
	for _, in := range seed {
		if _, err := userService.Create(context.Background(), in); err != nil {
			t.Fatalf("seed %s: %v", in.Email, err)
		}
	}

	app := fiber.New()
	RegisterMiddlewares(app, config.AppConfig{CORSOrigins: "*", RequestTimeoutSeconds: 5}, logger, metrics)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("ticketdesk", "test", store, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Analytics:      handlers.NewAnalyticsHandler(service.NewAnalyticsService(store.Tickets)),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, store.Users, revoker),
		Metrics:        metrics,
		UploadDir:      uploadDir,
		UploadPrefix:   "/uploads",
	})
	return &testServer{app: app, uploadDir: uploadDir}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *nethttp.Request) (int, envelope) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode body: %v", req.Method, req.URL.Path, err)
	}
	return resp.StatusCode, env
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	status, env := s.do(t, fiber.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "secret1"})
	if status != fiber.StatusOK {
		t.Fatalf("login %s: status %d %+v", email, status, env.Error)
	}
	var data struct {
		Token string `json:"token"`
	}
	decode(t, env, &data)
	return data.Token
}

func (s *testServer) register(t *testing.T, name, email string) string {
	t.Helper()
	status, env := s.do(t, fiber.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "secret1", "department": "Computer Science",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("register %s: status %d %+v", email, status, env.Error)
	}
	var data struct {
		Token string `json:"token"`
	}
	decode(t, env, &data)
	return data.Token
}

func decode(t *testing.T, env envelope, out any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
}

var ticketBody = map[string]string{
	"title":       "Projector broken",
	"description": "No signal from HDMI",
	"institute":   "Engineering",
	"location":    "Block A",
	"roomNumber":  "A-101",
	"department":  "IT Support",
	"priority":    "high",
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, fiber.MethodGet, "/health/live", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("live: %d", status)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/health/ready", nil)
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("ready: %v", err)
	}
	var ready struct {
		Status       string            `json:"status"`
		Dependencies map[string]string `json:"dependencies"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ready); err != nil {
		t.Fatalf("decode ready: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK || ready.Dependencies["redis"] != "disabled" {
		t.Fatalf("unexpected ready response %d %+v", resp.StatusCode, ready)
	}

	resp, err = s.app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil), -1)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(string(raw), "ticketdesk_http_requests_total") {
		t.Fatalf("metrics output missing request counter: %d", resp.StatusCode)
	}
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, fiber.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Eve", "email": "eve@fixit.com", "password": "secret1", "role": "super_admin",
	})
	if status != fiber.StatusForbidden || env.Error.Code != "FORBIDDEN" {
		t.Fatalf("admin self-registration must be forbidden, got %d %+v", status, env.Error)
	}

	status, env = s.do(t, fiber.MethodPost, "/api/auth/register", "", map[string]string{"name": "Eve", "email": "not-an-email", "password": "secret1"})
	if status != fiber.StatusBadRequest || env.Error.Details["email"] == nil {
		t.Fatalf("expected email validation failure, got %d %+v", status, env.Error)
	}

	token := s.register(t, "Sam Student", "sam@fixit.com")

	status, _ = s.do(t, fiber.MethodPost, "/api/auth/register", "", map[string]string{"name": "Dup", "email": "SAM@fixit.com", "password": "secret1"})
	if status != fiber.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d", status)
	}

	status, env = s.do(t, fiber.MethodPost, "/api/auth/login", "", map[string]string{"email": "sam@fixit.com", "password": "wrong"})
	if status != fiber.StatusUnauthorized || env.Error.Message != "invalid credentials" {
		t.Fatalf("bad password: got %d %+v", status, env.Error)
	}

	status, env = s.do(t, fiber.MethodGet, "/api/auth/me", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("me: %d", status)
	}
	var me struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decode(t, env, &me)
	if me.Email != "sam@fixit.com" || me.Role != "student" {
		t.Fatalf("unexpected profile %+v", me)
	}

	status, _ = s.do(t, fiber.MethodPost, "/api/auth/password/change", token, map[string]string{"currentPassword": "nope", "newPassword": "secret2"})
	if status != fiber.StatusBadRequest {
		t.Fatalf("wrong current password: expected 400, got %d", status)
	}
	status, _ = s.do(t, fiber.MethodPost, "/api/auth/password/change", token, map[string]string{"currentPassword": "secret1", "newPassword": "secret2"})
	if status != fiber.StatusOK {
		t.Fatalf("change password: %d", status)
	}

	status, _ = s.do(t, fiber.MethodPost, "/api/auth/logout", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("logout: %d", status)
	}
	status, _ = s.do(t, fiber.MethodGet, "/api/auth/me", token, nil)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("revoked token must be rejected, got %d", status)
	}

	status, _ = s.do(t, fiber.MethodGet, "/api/auth/me", "", nil)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", status)
	}
}

func TestUserManagementGuards(t *testing.T) {
	s := newTestServer(t)
	super := s.login(t, "superadmin@fixit.com")
	ivy := s.login(t, "ivy@fixit.com")

	status, _ := s.do(t, fiber.MethodGet, "/api/users", ivy, nil)
	if status != fiber.StatusForbidden {
		t.Fatalf("sub admin listing users: expected 403, got %d", status)
	}

	status, env := s.do(t, fiber.MethodPost, "/api/users", super, map[string]string{
		"name": "Nora", "email": "nora@fixit.com", "password": "secret1", "role": "sub_admin",
	})
	if status != fiber.StatusBadRequest || env.Error.Details["department"] == nil {
		t.Fatalf("sub admin without department: got %d %+v", status, env.Error)
	}

	status, env = s.do(t, fiber.MethodPost, "/api/users", super, map[string]string{
		"name": "Nora", "email": "nora@fixit.com", "password": "secret1", "role": "sub_admin", "department": "Library",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create user: %d %+v", status, env.Error)
	}
	var created struct {
		ID string `json:"id"`
	}
	decode(t, env, &created)

	status, env = s.do(t, fiber.MethodGet, "/api/users?role=sub_admin", super, nil)
	var listed []struct {
		Email        string `json:"email"`
		PasswordHash string `json:"passwordHash"`
	}
	decode(t, env, &listed)
	if status != fiber.StatusOK || len(listed) != 3 || listed[0].PasswordHash != "" {
		t.Fatalf("unexpected user list %d %+v", status, listed)
	}

	status, _ = s.do(t, fiber.MethodPut, "/api/users/"+created.ID, super, map[string]string{"email": "ivy@fixit.com"})
	if status != fiber.StatusConflict {
		t.Fatalf("email taken: expected 409, got %d", status)
	}

	status, _ = s.do(t, fiber.MethodDelete, "/api/users/"+created.ID, super, nil)
	if status != fiber.StatusOK {
		t.Fatalf("delete: %d", status)
	}
	status, _ = s.do(t, fiber.MethodDelete, "/api/users/"+created.ID, super, nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", status)
	}
}

func TestTicketLifecycle(t *testing.T) {
	s := newTestServer(t)
	student := s.register(t, "Sam Student", "sam@fixit.com")
	ivy := s.login(t, "ivy@fixit.com")
	finn := s.login(t, "finn@fixit.com")

	status, env := s.do(t, fiber.MethodPost, "/api/tickets", student, map[string]string{"title": "Only a title"})
	if status != fiber.StatusBadRequest || env.Error.Details["roomNumber"] == nil {
		t.Fatalf("missing fields: got %d %+v", status, env.Error)
	}

	status, env = s.do(t, fiber.MethodPost, "/api/tickets", student, ticketBody)
	if status != fiber.StatusCreated {
		t.Fatalf("create ticket: %d %+v", status, env.Error)
	}
	var ticket struct {
		ID          string `json:"id"`
		Status      string `json:"status"`
		Priority    string `json:"priority"`
		SubmittedBy struct {
			Name string `json:"name"`
		} `json:"submittedBy"`
		Updates []struct {
			Message string `json:"message"`
		} `json:"updates"`
	}
	decode(t, env, &ticket)
	if ticket.Status != "pending" || ticket.Priority != "high" || ticket.SubmittedBy.Name != "Sam Student" || len(ticket.Updates) != 1 {
		t.Fatalf("unexpected ticket %+v", ticket)
	}

	status, _ = s.do(t, fiber.MethodPut, "/api/tickets/"+ticket.ID+"/status", student, map[string]string{"newStatus": "resolved"})
	if status != fiber.StatusForbidden {
		t.Fatalf("student changing status: expected 403, got %d", status)
	}
	status, _ = s.do(t, fiber.MethodPut, "/api/tickets/"+ticket.ID+"/status", finn, map[string]string{"newStatus": "resolved"})
	if status != fiber.StatusForbidden {
		t.Fatalf("other department admin: expected 403, got %d", status)
	}
	status, _ = s.do(t, fiber.MethodGet, "/api/tickets/"+ticket.ID, finn, nil)
	if status != fiber.StatusForbidden {
		t.Fatalf("other department admin reading: expected 403, got %d", status)
	}
	status, env = s.do(t, fiber.MethodPut, "/api/tickets/"+ticket.ID+"/status", ivy, map[string]string{"newStatus": "closed"})
	if status != fiber.StatusBadRequest || env.Error.Details["newStatus"] == nil {
		t.Fatalf("invalid status: got %d %+v", status, env.Error)
	}
	status, _ = s.do(t, fiber.MethodPut, "/api/tickets/"+ticket.ID+"/status", ivy, map[string]string{"newStatus": "resolved", "message": "Cable replaced"})
	if status != fiber.StatusOK {
		t.Fatalf("resolve: %d", status)
	}
	status, _ = s.do(t, fiber.MethodPut, "/api/tickets/"+ticket.ID+"/priority", ivy, map[string]string{"newPriority": "low"})
	if status != fiber.StatusOK {
		t.Fatalf("priority: %d", status)
	}

	status, env = s.do(t, fiber.MethodGet, "/api/tickets/"+ticket.ID+"/updates", student, nil)
	var updates []struct {
		Message  string  `json:"message"`
		Status   *string `json:"status"`
		Priority *string `json:"priority"`
	}
	decode(t, env, &updates)
	if status != fiber.StatusOK || len(updates) != 3 {
		t.Fatalf("updates: %d %+v", status, updates)
	}
	if updates[1].Message != "Cable replaced" || updates[2].Message != "Priority changed to low" || updates[2].Status != nil {
		t.Fatalf("unexpected audit trail %+v", updates)
	}

	status, env = s.do(t, fiber.MethodGet, "/api/dashboard?status=resolved", student, nil)
	var list []struct {
		ID string `json:"id"`
	}
	decode(t, env, &list)
	if status != fiber.StatusOK || len(list) != 1 || list[0].ID != ticket.ID {
		t.Fatalf("dashboard: %d %+v", status, list)
	}

	status, env = s.do(t, fiber.MethodGet, "/api/tickets", finn, nil)
	decode(t, env, &list)
	if status != fiber.StatusOK || len(list) != 0 {
		t.Fatalf("other department must see nothing: %+v", list)
	}

	status, _ = s.do(t, fiber.MethodGet, "/api/tickets/does-not-exist", ivy, nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("unknown ticket: expected 404, got %d", status)
	}
}

func TestCreateTicketWithImage(t *testing.T) {
	s := newTestServer(t)
	student := s.register(t, "Sam Student", "sam@fixit.com")

	build := func(contentType string) (*bytes.Buffer, string) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for k, v := range ticketBody {
			if err := w.WriteField(k, v); err != nil {
				t.Fatalf("write field: %v", err)
			}
		}
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="imageFile"; filename="projector.png"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write([]byte("\x89PNG fake image"))
		_ = w.Close()
		return &buf, w.FormDataContentType()
	}

	body, ct := build("text/plain")
	req := httptest.NewRequest(fiber.MethodPost, "/api/tickets", body)
	req.Header.Set(fiber.HeaderContentType, ct)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+student)
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("non-image upload: expected 400, got %d", resp.StatusCode)
	}

	body, ct = build("image/png")
	req = httptest.NewRequest(fiber.MethodPost, "/api/tickets", body)
	req.Header.Set(fiber.HeaderContentType, ct)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+student)
	resp, err = s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("image upload: expected 201, got %d", resp.StatusCode)
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var ticket struct {
		ImageURL   string `json:"imageUrl"`
		RoomNumber string `json:"roomNumber"`
	}
	decode(t, env, &ticket)
	if !strings.HasPrefix(ticket.ImageURL, "/uploads/") || ticket.RoomNumber != "A-101" {
		t.Fatalf("unexpected ticket %+v", ticket)
	}
	if _, err := os.Stat(filepath.Join(s.uploadDir, strings.TrimPrefix(ticket.ImageURL, "/uploads/"))); err != nil {
		t.Fatalf("image not written: %v", err)
	}

	resp, err = s.app.Test(httptest.NewRequest(fiber.MethodGet, ticket.ImageURL, nil), -1)
	if err != nil || resp.StatusCode != fiber.StatusOK {
		t.Fatalf("static upload not served: %v", err)
	}
}

func TestAnalyticsAndNotifications(t *testing.T) {
	s := newTestServer(t)
	student := s.register(t, "Sam Student", "sam@fixit.com")
	ivy := s.login(t, "ivy@fixit.com")
	super := s.login(t, "superadmin@fixit.com")

	status, _ := s.do(t, fiber.MethodGet, "/api/analytics", student, nil)
	if status != fiber.StatusForbidden {
		t.Fatalf("student analytics: expected 403, got %d", status)
	}

	_, env := s.do(t, fiber.MethodPost, "/api/tickets", student, ticketBody)
	var ticket struct {
		ID string `json:"id"`
	}
	decode(t, env, &ticket)

	status, env = s.do(t, fiber.MethodGet, "/api/analytics", ivy, nil)
	var report struct {
		TotalTickets        int            `json:"totalTickets"`
		HighPriorityTickets int            `json:"highPriorityTickets"`
		DepartmentStats     map[string]int `json:"departmentStats"`
		DailyTrends         []struct {
			Tickets int `json:"tickets"`
		} `json:"dailyTrends"`
	}
	decode(t, env, &report)
	if status != fiber.StatusOK || report.TotalTickets != 1 || report.HighPriorityTickets != 1 ||
		report.DepartmentStats["IT Support"] != 1 || len(report.DailyTrends) != 7 || report.DailyTrends[6].Tickets != 1 {
		t.Fatalf("unexpected report %d %+v", status, report)
	}

	for _, token := range []string{ivy, super} {
		status, env = s.do(t, fiber.MethodGet, "/api/notifications/unread-count", token, nil)
		var count struct {
			Count int `json:"count"`
		}
		decode(t, env, &count)
		if status != fiber.StatusOK || count.Count != 1 {
			t.Fatalf("admin unread count: %d %+v", status, count)
		}
	}

	status, _ = s.do(t, fiber.MethodPut, "/api/tickets/"+ticket.ID+"/status", ivy, map[string]string{"newStatus": "resolved"})
	if status != fiber.StatusOK {
		t.Fatalf("resolve: %d", status)
	}

	status, env = s.do(t, fiber.MethodGet, "/api/notifications?unread=true", student, nil)
	var items []struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	decode(t, env, &items)
	if status != fiber.StatusOK || len(items) != 1 || items[0].Type != "ticket_resolved" {
		t.Fatalf("submitter notifications: %d %+v", status, items)
	}

	status, _ = s.do(t, fiber.MethodPut, "/api/notifications/"+items[0].ID+"/read", ivy, nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("marking a foreign notification: expected 404, got %d", status)
	}
	status, _ = s.do(t, fiber.MethodPut, "/api/notifications/"+items[0].ID+"/read", student, nil)
	if status != fiber.StatusOK {
		t.Fatalf("mark read: %d", status)
	}

	status, env = s.do(t, fiber.MethodPut, "/api/notifications/read-all", super, nil)
	var changed struct {
		Updated int `json:"updated"`
	}
	decode(t, env, &changed)
	if status != fiber.StatusOK || changed.Updated != 1 {
		t.Fatalf("read-all: %d %+v", status, changed)
	}
}

func TestListPaging(t *testing.T) {
	s := newTestServer(t)
	student := s.register(t, "Sam Student", "sam@fixit.com")
	super := s.login(t, "superadmin@fixit.com")

	const total = 103
	for i := 0; i < total; i++ {
		if status, env := s.do(t, fiber.MethodPost, "/api/tickets", student, ticketBody); status != fiber.StatusCreated {
			t.Fatalf("create ticket %d: %d %+v", i, status, env.Error)
		}
	}

	ids := func(path, token string) []string {
		t.Helper()
		status, env := s.do(t, fiber.MethodGet, path, token, nil)
		if status != fiber.StatusOK {
			t.Fatalf("%s: %d %+v", path, status, env.Error)
		}
		var items []struct {
			ID string `json:"id"`
		}
		decode(t, env, &items)
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = item.ID
		}
		return out
	}
	same := func(name string, got, want []string) {
		t.Helper()
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Fatalf("%s: got %d ids, want %d (%v vs %v)", name, len(got), len(want), got, want)
		}
	}

	all := ids("/api/tickets?pageSize=500", super)
	if len(all) != total {
		t.Fatalf("expected %d tickets, got %d", total, len(all))
	}
	same("default page size", ids("/api/tickets", super), all[:100])
	same("page without pageSize", ids("/api/tickets?page=2", super), all[100:])
	same("page and pageSize", ids("/api/tickets?page=3&pageSize=10", super), all[20:30])
	same("dashboard alias", ids("/api/dashboard?page=2&pageSize=50", student), all[50:100])
	same("past the end", ids("/api/tickets?page=9&pageSize=50", super), []string{})

	future := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	same("from in the future", ids("/api/tickets?from="+future, super), []string{})
	same("to in the future", ids("/api/tickets?pageSize=500&to="+future, super), all)

	status, env := s.do(t, fiber.MethodGet, "/api/tickets?from=yesterday", super, nil)
	if status != fiber.StatusBadRequest || env.Error.Details["from"] == nil {
		t.Fatalf("malformed from: got %d %+v", status, env.Error)
	}

	notes := ids("/api/notifications?pageSize=500", super)
	if len(notes) != total {
		t.Fatalf("expected %d notifications, got %d", total, len(notes))
	}
	same("notifications page without pageSize", ids("/api/notifications?page=2", super), notes[100:])
	same("notifications page and pageSize", ids("/api/notifications?page=3&pageSize=40", super), notes[80:])
}
