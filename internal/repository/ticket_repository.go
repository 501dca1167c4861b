package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ticketdesk/ticketdesk-service/internal/domain"
)

// TicketFilter captures listing parameters. Nil fields are unconstrained.
type TicketFilter struct {
	SubmittedBy *string
	Department  *string
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	Search      *string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// TicketChange is the field change recorded by an appended update.
type TicketChange struct {
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
}

// TicketRepository encapsulates ticket persistence. Updates are append-only and
// AppendUpdate is the only way status and priority change after creation.
// Reads populate Submitter and Updater references when the users still exist.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	AppendUpdate(ctx context.Context, ticketID string, change TicketChange, update *domain.TicketUpdate) (*domain.Ticket, error)
	DeleteAll(ctx context.Context) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketSelect = `
        SELECT t.id, t.title, t.description, t.institute, t.location, t.room_number, t.department,
               t.image_url, t.priority, t.status, t.submitted_by, t.submission_date, t.updated_at,
               u.name, u.email, u.role
        FROM tickets t LEFT JOIN users u ON u.id = t.submitted_by`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const insertTicket = `
        INSERT INTO tickets (id, title, description, institute, location, room_number, department,
                             image_url, priority, status, submitted_by, submission_date, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$12)`
		if _, err := tx.Exec(ctx, insertTicket,
			ticket.ID,
			ticket.Title,
			ticket.Description,
			ticket.Institute,
			ticket.Location,
			ticket.RoomNumber,
			ticket.Department,
			ticket.ImageURL,
			ticket.Priority,
			ticket.Status,
			ticket.SubmittedBy,
			ticket.SubmissionDate,
		); err != nil {
			return err
		}
		ticket.UpdatedAt = ticket.SubmissionDate
		for i := range ticket.Updates {
			if err := insertUpdate(ctx, tx, ticket.ID, &ticket.Updates[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := scanTicket(r.pool.QueryRow(ctx, ticketSelect+` WHERE t.id=$1`, id))
	if err != nil {
		return nil, translatePgError(err)
	}
	updates, err := r.loadUpdates(ctx, []string{ticket.ID})
	if err != nil {
		return nil, err
	}
	ticket.Updates = updates[ticket.ID]
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.SubmittedBy != nil {
		args = append(args, *filter.SubmittedBy)
		clauses = append(clauses, fmt.Sprintf("t.submitted_by=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("t.department=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("t.submission_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("t.submission_date <= $%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, likePattern(*filter.Search))
		p := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			`(LOWER(t.title) LIKE %[1]s ESCAPE '\' OR LOWER(t.description) LIKE %[1]s ESCAPE '\'`+
				` OR LOWER(t.location) LIKE %[1]s ESCAPE '\' OR LOWER(t.room_number) LIKE %[1]s ESCAPE '\')`,
			p))
	}

	limit, offset := NormalizePage(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY t.submission_date DESC, t.id DESC LIMIT %d OFFSET %d`,
		ticketSelect, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []domain.Ticket{}
	ids := []string{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *ticket)
		ids = append(ids, ticket.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return tickets, nil
	}

	updates, err := r.loadUpdates(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		tickets[i].Updates = updates[tickets[i].ID]
	}
	return tickets, nil
}

func (r *ticketRepository) AppendUpdate(ctx context.Context, ticketID string, change TicketChange, update *domain.TicketUpdate) (*domain.Ticket, error) {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
        UPDATE tickets SET status=COALESCE($2, status), priority=COALESCE($3, priority), updated_at=$4
        WHERE id=$1`
		cmd, err := tx.Exec(ctx, query, ticketID, change.Status, change.Priority, update.Timestamp)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}
		return insertUpdate(ctx, tx, ticketID, update)
	})
	if err != nil {
		return nil, translatePgError(err)
	}
	return r.GetByID(ctx, ticketID)
}

func (r *ticketRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tickets`)
	return err
}

func insertUpdate(ctx context.Context, tx pgx.Tx, ticketID string, update *domain.TicketUpdate) error {
	const query = `
        INSERT INTO ticket_updates (id, ticket_id, message, status, priority, updated_by, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := tx.Exec(ctx, query,
		update.ID,
		ticketID,
		update.Message,
		update.Status,
		update.Priority,
		update.UpdatedBy,
		update.Timestamp,
	)
	return err
}

func (r *ticketRepository) loadUpdates(ctx context.Context, ticketIDs []string) (map[string][]domain.TicketUpdate, error) {
	const query = `
        SELECT tu.id, tu.ticket_id, tu.message, tu.status, tu.priority, tu.updated_by, tu.created_at,
               u.name, u.email, u.role
        FROM ticket_updates tu LEFT JOIN users u ON u.id = tu.updated_by
        WHERE tu.ticket_id = ANY($1)
        ORDER BY tu.created_at ASC, tu.seq ASC`
	rows, err := r.pool.Query(ctx, query, ticketIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]domain.TicketUpdate, len(ticketIDs))
	for rows.Next() {
		var (
			update   domain.TicketUpdate
			ticketID string
			status   *string
			priority *string
			name     *string
			email    *string
			role     *string
		)
		if err := rows.Scan(
			&update.ID,
			&ticketID,
			&update.Message,
			&status,
			&priority,
			&update.UpdatedBy,
			&update.Timestamp,
			&name,
			&email,
			&role,
		); err != nil {
			return nil, err
		}
		if status != nil {
			s := domain.TicketStatus(*status)
			update.Status = &s
		}
		if priority != nil {
			p := domain.TicketPriority(*priority)
			update.Priority = &p
		}
		update.Updater = userRef(update.UpdatedBy, name, email, role)
		result[ticketID] = append(result[ticketID], update)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket domain.Ticket
		name   *string
		email  *string
		role   *string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Institute,
		&ticket.Location,
		&ticket.RoomNumber,
		&ticket.Department,
		&ticket.ImageURL,
		&ticket.Priority,
		&ticket.Status,
		&ticket.SubmittedBy,
		&ticket.SubmissionDate,
		&ticket.UpdatedAt,
		&name,
		&email,
		&role,
	); err != nil {
		return nil, err
	}
	ticket.Submitter = userRef(ticket.SubmittedBy, name, email, role)
	return &ticket, nil
}

func userRef(id string, name, email, role *string) *domain.UserRef {
	if name == nil {
		return nil
	}
	ref := &domain.UserRef{ID: id, Name: *name}
	if email != nil {
		ref.Email = *email
	}
	if role != nil {
		ref.Role = domain.Role(*role)
	}
	return ref
}
