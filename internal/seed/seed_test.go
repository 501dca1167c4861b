package seed

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/ticketdesk/ticketdesk-service/internal/auth"
	"github.com/ticketdesk/ticketdesk-service/internal/domain"
	"github.com/ticketdesk/ticketdesk-service/internal/repository"
	"github.com/ticketdesk/ticketdesk-service/internal/repository/memory"
)

func TestDefaultFixtures(t *testing.T) {
	f, err := Default()
	if err != nil {
		t.Fatalf("default fixtures: %v", err)
	}
	if len(f.Users) != 4 || len(f.Tickets) != 3 {
		t.Fatalf("expected 4 users and 3 tickets, got %d/%d", len(f.Users), len(f.Tickets))
	}
}

func TestParseRejectsInvalidFixtures(t *testing.T) {
	cases := map[string]string{
		"unknown role":       "users:\n  - {email: a@b.c, password: x, role: admin}\n",
		"sub admin no dept":  "users:\n  - {email: a@b.c, password: x, role: sub_admin}\n",
		"ticket no owner":    "tickets:\n  - {title: Leak}\n",
		"bad ticket status":  "tickets:\n  - {title: Leak, submitter: a@b.c, status: closed}\n",
		"malformed document": "users: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRunIsIdempotentAndReset(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	fixtures, err := Default()
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	opts := Options{BcryptCost: 4}

	res, err := Run(ctx, store, fixtures, opts, zap.NewNop())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if res.UsersCreated != 4 || res.TicketsCreated != 3 {
		t.Fatalf("unexpected first run %+v", res)
	}

	res, err = Run(ctx, store, fixtures, opts, zap.NewNop())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if res.UsersSkipped != 4 || res.TicketsSkipped != 3 || res.TicketsCreated != 0 {
		t.Fatalf("second run must skip everything: %+v", res)
	}

	admin, err := store.Users.GetByEmail(ctx, "superadmin@fixit.com")
	if err != nil {
		t.Fatalf("admin missing: %v", err)
	}
	if admin.Role != domain.RoleSuperAdmin || auth.ComparePassword(admin.PasswordHash, "admin123") != nil {
		t.Fatalf("admin not seeded correctly: %+v", admin)
	}

	tickets, _ := store.Tickets.List(ctx, repository.TicketFilter{})
	for _, tk := range tickets {
		if len(tk.Updates) != 1 || tk.Submitter == nil || tk.Submitter.Email != "student@fixit.com" {
			t.Fatalf("unexpected seeded ticket %+v", tk)
		}
		if tk.Title == "Projector Issue" && tk.Status != domain.TicketStatusInProgress {
			t.Fatalf("status not carried over: %s", tk.Status)
		}
	}

	opts.Reset = true
	res, err = Run(ctx, store, fixtures, opts, zap.NewNop())
	if err != nil {
		t.Fatalf("reset run: %v", err)
	}
	if res.UsersCreated != 4 || res.TicketsCreated != 3 {
		t.Fatalf("reset run must recreate everything: %+v", res)
	}
	tickets, _ = store.Tickets.List(ctx, repository.TicketFilter{})
	if len(tickets) != 3 {
		t.Fatalf("expected 3 tickets after reset, got %d", len(tickets))
	}
}
