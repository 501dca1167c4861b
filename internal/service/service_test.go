package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ticketdesk/ticketdesk-service/internal/auth"
	"github.com/ticketdesk/ticketdesk-service/internal/domain"
	"github.com/ticketdesk/ticketdesk-service/internal/events"
	"github.com/ticketdesk/ticketdesk-service/internal/repository"
	"github.com/ticketdesk/ticketdesk-service/internal/repository/memory"
	"github.com/ticketdesk/ticketdesk-service/internal/worker"
	apperrors "github.com/ticketdesk/ticketdesk-service/pkg/util/errorutil"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []worker.Email
}

func (m *fakeMailer) Enqueue(e worker.Email) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, e)
	return true
}

type fakeImages struct {
	saved   []string
	deleted []string
}

func (f *fakeImages) Save(_ context.Context, name, _ string, _ io.Reader, _ int64) (string, error) {
	f.saved = append(f.saved, name)
	return "/uploads/x-" + name, nil
}

func (f *fakeImages) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

// failingTickets rejects every insert.
type failingTickets struct {
	repository.TicketRepository
}

func (failingTickets) Create(context.Context, *domain.Ticket) error {
	return errors.New("connection reset")
}

type fixture struct {
	store         *repository.Store
	auth          *AuthService
	users         *UserService
	tickets       *TicketService
	analytics     *AnalyticsService
	notifications *NotificationService
	mailer        *fakeMailer
	images        *fakeImages

	super    *domain.User
	itAdmin  *domain.User
	facAdmin *domain.User
	student  *domain.User
	faculty  *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	mailer := &fakeMailer{}
	images := &fakeImages{}

	f := &fixture{
		store:     store,
		mailer:    mailer,
		images:    images,
		users:     NewUserService(store.Users, 4),
		analytics: NewAnalyticsService(store.Tickets),
		auth: NewAuthService(AuthDependencies{
			UserRepo:   store.Users,
			Tokens:     auth.NewTokenManager("secret", time.Hour),
			Revoker:    auth.NewLocalRevoker(),
			BcryptCost: 4,
		}),
		tickets: NewTicketService(TicketDependencies{
			TicketRepo:    store.Tickets,
			Images:        images,
			Dispatcher:    dispatcher,
			MaxImageBytes: 1024,
		}),
		notifications: NewNotificationService(NotificationDependencies{
			NotificationRepo: store.Notifications,
			UserRepo:         store.Users,
			Dispatcher:       dispatcher,
			Mailer:           mailer,
		}),
	}
	f.notifications.RegisterHandlers()

	mk := func(name string, role domain.Role, dept string) *domain.User {
		u, err := f.users.Create(context.Background(), CreateUserInput{
			Name: name, Email: strings.ToLower(name) + "@fixit.com", Password: "secret1", Role: role, Department: dept,
		})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		return u
	}
	f.super = mk("Super", domain.RoleSuperAdmin, "Administration")
	f.itAdmin = mk("Ivy", domain.RoleSubAdmin, "IT Support")
	f.facAdmin = mk("Finn", domain.RoleSubAdmin, "Facilities")
	f.student = mk("Sam", domain.RoleStudent, "Computer Science")
	f.faculty = mk("Fay", domain.RoleFaculty, "Computer Science")
	return f
}

func (f *fixture) file(t *testing.T, actor *domain.User, title, dept string) *domain.Ticket {
	t.Helper()
	ticket, err := f.tickets.CreateTicket(context.Background(), actor, TicketCreateInput{
		Title: title, Description: "desc", Institute: "Engineering", Location: "Main", RoomNumber: "101", Department: dept,
	})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	return ticket
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if !apperrors.IsCode(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
}
