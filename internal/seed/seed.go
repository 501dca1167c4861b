// Package seed loads demo accounts and tickets from YAML fixtures.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ticketdesk/ticketdesk-service/internal/auth"
	"github.com/ticketdesk/ticketdesk-service/internal/domain"
	"github.com/ticketdesk/ticketdesk-service/internal/repository"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixtures is the document shape of a fixture file.
type Fixtures struct {
	Users   []UserFixture   `yaml:"users"`
	Tickets []TicketFixture `yaml:"tickets"`
}

// UserFixture describes one account. Password is plain text.
type UserFixture struct {
	Name       string      `yaml:"name"`
	Email      string      `yaml:"email"`
	Password   string      `yaml:"password"`
	Role       domain.Role `yaml:"role"`
	Department string      `yaml:"department"`
}

// TicketFixture describes one ticket filed by the account with email Submitter.
type TicketFixture struct {
	Title       string                `yaml:"title"`
	Description string                `yaml:"description"`
	Department  string                `yaml:"department"`
	Institute   string                `yaml:"institute"`
	Location    string                `yaml:"location"`
	RoomNumber  string                `yaml:"roomNumber"`
	Priority    domain.TicketPriority `yaml:"priority"`
	Status      domain.TicketStatus   `yaml:"status"`
	Submitter   string                `yaml:"submitter"`
}

// Options controls a seed run.
type Options struct {
	// Reset clears notifications, tickets and users before loading.
	Reset      bool
	BcryptCost int
}

// Result counts what a run changed.
type Result struct {
	UsersCreated   int
	UsersSkipped   int
	TicketsCreated int
	TicketsSkipped int
}

// Default returns the embedded demo fixtures.
func Default() (*Fixtures, error) {
	return Parse(defaultFixtures)
}

// Parse decodes and validates a fixture document.
func Parse(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	for i, u := range f.Users {
		if u.Email == "" || u.Password == "" || !u.Role.Valid() {
			return nil, fmt.Errorf("user fixture %d: email, password and a valid role are required", i)
		}
		if u.Role == domain.RoleSubAdmin && u.Department == "" {
			return nil, fmt.Errorf("user fixture %d: sub_admin requires a department", i)
		}
	}
	for i, t := range f.Tickets {
		if t.Title == "" || t.Submitter == "" {
			return nil, fmt.Errorf("ticket fixture %d: title and submitter are required", i)
		}
		if t.Priority == "" {
			f.Tickets[i].Priority = domain.TicketPriorityMedium
		}
		if t.Status == "" {
			f.Tickets[i].Status = domain.TicketStatusPending
		}
		if !f.Tickets[i].Priority.Valid() || !f.Tickets[i].Status.Valid() {
			return nil, fmt.Errorf("ticket fixture %d: invalid priority or status", i)
		}
	}
	return &f, nil
}

// Run loads fixtures into store. Users whose email already exists are
// skipped, as are tickets the submitter already filed under the same title.
func Run(ctx context.Context, store *repository.Store, fixtures *Fixtures, opts Options, logger *zap.Logger) (Result, error) {
	var res Result
	if opts.Reset {
		if err := reset(ctx, store); err != nil {
			return res, err
		}
		logger.Info("cleared existing data", zap.String("store", store.Name))
	}

	for _, uf := range fixtures.Users {
		email := strings.ToLower(strings.TrimSpace(uf.Email))
		if _, err := store.Users.GetByEmail(ctx, email); err == nil {
			res.UsersSkipped++
			logger.Info("user exists, skipping", zap.String("email", email))
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return res, fmt.Errorf("lookup %s: %w", email, err)
		}

		hash, err := auth.HashPassword(uf.Password, opts.BcryptCost)
		if err != nil {
			return res, err
		}
		user := &domain.User{
			ID:           uuid.NewString(),
			Name:         uf.Name,
			Email:        email,
			PasswordHash: hash,
			Role:         uf.Role,
			Department:   uf.Department,
		}
		if err := store.Users.Create(ctx, user); err != nil {
			return res, fmt.Errorf("create user %s: %w", email, err)
		}
		res.UsersCreated++
		logger.Info("created user", zap.String("email", email), zap.String("role", string(uf.Role)))
	}

	now := time.Now().UTC()
	for _, tf := range fixtures.Tickets {
		submitter, err := store.Users.GetByEmail(ctx, tf.Submitter)
		if err != nil {
			return res, fmt.Errorf("ticket %q: submitter %s: %w", tf.Title, tf.Submitter, err)
		}
		exists, err := hasTicket(ctx, store.Tickets, submitter.ID, tf.Title)
		if err != nil {
			return res, err
		}
		if exists {
			res.TicketsSkipped++
			continue
		}

		status, priority := tf.Status, tf.Priority
		ticket := &domain.Ticket{
			ID:             uuid.NewString(),
			Title:          tf.Title,
			Description:    tf.Description,
			Institute:      tf.Institute,
			Location:       tf.Location,
			RoomNumber:     tf.RoomNumber,
			Department:     tf.Department,
			Priority:       priority,
			Status:         status,
			SubmittedBy:    submitter.ID,
			SubmissionDate: now,
			Updates: []domain.TicketUpdate{{
				ID:        uuid.NewString(),
				Message:   "Ticket created",
				Status:    &status,
				Priority:  &priority,
				Timestamp: now,
				UpdatedBy: submitter.ID,
			}},
		}
		if err := store.Tickets.Create(ctx, ticket); err != nil {
			return res, fmt.Errorf("create ticket %q: %w", tf.Title, err)
		}
		res.TicketsCreated++
	}
	return res, nil
}

func reset(ctx context.Context, store *repository.Store) error {
	if err := store.Notifications.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	if err := store.Tickets.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear tickets: %w", err)
	}
	if err := store.Users.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	return nil
}

func hasTicket(ctx context.Context, tickets repository.TicketRepository, submitterID, title string) (bool, error) {
	existing, err := tickets.List(ctx, repository.TicketFilter{
		SubmittedBy: &submitterID,
		Search:      &title,
		Limit:       repository.MaxLimit,
	})
	if err != nil {
		return false, err
	}
	for _, t := range existing {
		if t.Title == title {
			return true, nil
		}
	}
	return false, nil
}
