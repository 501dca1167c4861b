package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ticketdesk/ticketdesk-service/internal/domain"
)

// NotificationRepository stores per-recipient inbox entries.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
	MarkRead(ctx context.Context, recipientID, id string, at time.Time) error
	MarkAllRead(ctx context.Context, recipientID string, at time.Time) (int64, error)
	DeleteAll(ctx context.Context) error
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository builds repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	const query = `
        INSERT INTO notifications (id, type, ticket_id, recipient_id, message, is_read, created_at,
                                   meta_department, meta_priority, meta_submitted_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.pool.Exec(ctx, query,
		n.ID,
		n.Type,
		n.TicketID,
		n.RecipientID,
		n.Message,
		n.IsRead,
		n.CreatedAt,
		n.Metadata.Department,
		n.Metadata.Priority,
		n.Metadata.SubmittedBy,
	)
	return err
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	limit, offset = NormalizePage(limit, offset)
	const query = `
        SELECT id, type, ticket_id, recipient_id, message, is_read, created_at, read_at,
               meta_department, meta_priority, meta_submitted_by
        FROM notifications
        WHERE recipient_id=$1 AND (NOT $2 OR is_read = FALSE)
        ORDER BY created_at DESC
        LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, recipientID, unreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID,
			&n.Type,
			&n.TicketID,
			&n.RecipientID,
			&n.Message,
			&n.IsRead,
			&n.CreatedAt,
			&n.ReadAt,
			&n.Metadata.Department,
			&n.Metadata.Priority,
			&n.Metadata.SubmittedBy,
		); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id=$1 AND is_read = FALSE`,
		recipientID,
	).Scan(&count)
	return count, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, recipientID, id string, at time.Time) error {
	const query = `
        UPDATE notifications SET is_read=TRUE, read_at=COALESCE(read_at, $3)
        WHERE id=$1 AND recipient_id=$2`
	cmd, err := r.pool.Exec(ctx, query, id, recipientID, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string, at time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read=TRUE, read_at=$2 WHERE recipient_id=$1 AND is_read=FALSE`,
		recipientID, at,
	)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *notificationRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notifications`)
	return err
}
