package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint (user email) is violated.
	ErrDuplicate = errors.New("duplicate record")
)

// Store bundles the repositories of one backend.
type Store struct {
	Name          string
	Users         UserRepository
	Tickets       TicketRepository
	Notifications NotificationRepository
	// Ping reports backend health; nil means always healthy.
	Ping func(ctx context.Context) error
}

// DefaultLimit is used when a listing does not specify one.
const DefaultLimit = 100

// MaxLimit caps a single page.
const MaxLimit = 500

// NormalizePage clamps limit and offset to sane values.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern lowercases a search term and wraps it for a substring LIKE match.
// Wildcards in the term match literally; queries pair it with ESCAPE '\'.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}

// NewPostgresStore wires the pgx-backed repositories around one pool.
func NewPostgresStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Name:          "postgres",
		Users:         NewUserRepository(pool),
		Tickets:       NewTicketRepository(pool),
		Notifications: NewNotificationRepository(pool),
		Ping:          pool.Ping,
	}
}
