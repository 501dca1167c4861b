// Package memory keeps all records in process memory. It backs local
// development and the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ticketdesk/ticketdesk-service/internal/domain"
	"github.com/ticketdesk/ticketdesk-service/internal/repository"
)

// NewStore builds an empty in-memory store.
func NewStore() *repository.Store {
	db := &database{
		users:         map[string]domain.User{},
		tickets:       map[string]domain.Ticket{},
		notifications: map[string]domain.Notification{},
	}
	return &repository.Store{
		Name:          "memory",
		Users:         &userRepository{db: db},
		Tickets:       &ticketRepository{db: db},
		Notifications: &notificationRepository{db: db},
	}
}

type database struct {
	mu            sync.RWMutex
	users         map[string]domain.User
	tickets       map[string]domain.Ticket
	notifications map[string]domain.Notification
}

func (db *database) ref(id string) *domain.UserRef {
	u, ok := db.users[id]
	if !ok {
		return nil
	}
	ref := u.Ref()
	return &ref
}

// hydrate copies a stored ticket and fills user references.
func (db *database) hydrate(t domain.Ticket) domain.Ticket {
	out := t
	out.Submitter = db.ref(t.SubmittedBy)
	out.Updates = make([]domain.TicketUpdate, len(t.Updates))
	for i, u := range t.Updates {
		u.Updater = db.ref(u.UpdatedBy)
		out.Updates[i] = u
	}
	return out
}

type userRepository struct {
	db *database
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	user.Email = strings.ToLower(user.Email)
	if _, ok := r.db.users[user.ID]; ok {
		return repository.ErrDuplicate
	}
	for _, existing := range r.db.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	r.db.users[user.ID] = *user
	return nil
}

func (r *userRepository) Update(_ context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	current, ok := r.db.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	user.Email = strings.ToLower(user.Email)
	for id, existing := range r.db.users {
		if id != user.ID && existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.CreatedAt = current.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	r.db.users[user.ID] = *user
	return nil
}

func (r *userRepository) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.users, id)
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, u := range r.db.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	search := ""
	if filter.Search != nil {
		search = strings.ToLower(strings.TrimSpace(*filter.Search))
	}
	users := []domain.User{}
	for _, u := range r.db.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.Department != nil && u.Department != *filter.Department {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Name), search) && !strings.Contains(u.Email, search) {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].Email < users[j].Email
	})
	return users, nil
}

func (r *userRepository) DeleteAll(context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.users = map[string]domain.User{}
	return nil
}

type ticketRepository struct {
	db *database
}

func (r *ticketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.tickets[ticket.ID]; ok {
		return repository.ErrDuplicate
	}
	ticket.UpdatedAt = ticket.SubmissionDate
	stored := *ticket
	stored.Submitter = nil
	stored.Updates = append([]domain.TicketUpdate(nil), ticket.Updates...)
	r.db.tickets[ticket.ID] = stored
	return nil
}

func (r *ticketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	t, ok := r.db.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	hydrated := r.db.hydrate(t)
	return &hydrated, nil
}

func (r *ticketRepository) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	matches := []domain.Ticket{}
	for _, t := range r.db.tickets {
		if matchTicket(t, filter) {
			matches = append(matches, t)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].SubmissionDate.Equal(matches[j].SubmissionDate) {
			return matches[i].SubmissionDate.After(matches[j].SubmissionDate)
		}
		return matches[i].ID > matches[j].ID
	})

	limit, offset := repository.NormalizePage(filter.Limit, filter.Offset)
	if offset >= len(matches) {
		return []domain.Ticket{}, nil
	}
	end := offset + limit
	if end > len(matches) {
		end = len(matches)
	}
	result := make([]domain.Ticket, 0, end-offset)
	for _, t := range matches[offset:end] {
		result = append(result, r.db.hydrate(t))
	}
	return result, nil
}

func matchTicket(t domain.Ticket, f repository.TicketFilter) bool {
	if f.SubmittedBy != nil && t.SubmittedBy != *f.SubmittedBy {
		return false
	}
	if f.Department != nil && t.Department != *f.Department {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, t.Status) {
		return false
	}
	if len(f.Priorities) > 0 && !containsPriority(f.Priorities, t.Priority) {
		return false
	}
	if f.From != nil && t.SubmissionDate.Before(*f.From) {
		return false
	}
	if f.To != nil && t.SubmissionDate.After(*f.To) {
		return false
	}
	if f.Search != nil {
		term := strings.ToLower(strings.TrimSpace(*f.Search))
		if term != "" {
			hay := strings.ToLower(strings.Join([]string{t.Title, t.Description, t.Location, t.RoomNumber}, "\n"))
			if !strings.Contains(hay, term) {
				return false
			}
		}
	}
	return true
}

func containsStatus(list []domain.TicketStatus, s domain.TicketStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsPriority(list []domain.TicketPriority, p domain.TicketPriority) bool {
	for _, v := range list {
		if v == p {
			return true
		}
	}
	return false
}

func (r *ticketRepository) AppendUpdate(_ context.Context, ticketID string, change repository.TicketChange, update *domain.TicketUpdate) (*domain.Ticket, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	t, ok := r.db.tickets[ticketID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if change.Status != nil {
		t.Status = *change.Status
	}
	if change.Priority != nil {
		t.Priority = *change.Priority
	}
	t.UpdatedAt = update.Timestamp
	stored := *update
	stored.Updater = nil
	t.Updates = append(append([]domain.TicketUpdate(nil), t.Updates...), stored)
	r.db.tickets[ticketID] = t

	hydrated := r.db.hydrate(t)
	return &hydrated, nil
}

func (r *ticketRepository) DeleteAll(context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.tickets = map[string]domain.Ticket{}
	return nil
}

type notificationRepository struct {
	db *database
}

func (r *notificationRepository) Create(_ context.Context, n *domain.Notification) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.notifications[n.ID]; ok {
		return repository.ErrDuplicate
	}
	r.db.notifications[n.ID] = *n
	return nil
}

func (r *notificationRepository) ListByRecipient(_ context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	items := []domain.Notification{}
	for _, n := range r.db.notifications {
		if n.RecipientID != recipientID || (unreadOnly && n.IsRead) {
			continue
		}
		items = append(items, n)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})

	limit, offset = repository.NormalizePage(limit, offset)
	if offset >= len(items) {
		return []domain.Notification{}, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], nil
}

func (r *notificationRepository) CountUnread(_ context.Context, recipientID string) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var count int64
	for _, n := range r.db.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(_ context.Context, recipientID, id string, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n, ok := r.db.notifications[id]
	if !ok || n.RecipientID != recipientID {
		return repository.ErrNotFound
	}
	n.IsRead = true
	n.ReadAt = &at
	r.db.notifications[id] = n
	return nil
}

func (r *notificationRepository) MarkAllRead(_ context.Context, recipientID string, at time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var changed int64
	for id, n := range r.db.notifications {
		if n.RecipientID != recipientID || n.IsRead {
			continue
		}
		readAt := at
		n.IsRead = true
		n.ReadAt = &readAt
		r.db.notifications[id] = n
		changed++
	}
	return changed, nil
}

func (r *notificationRepository) DeleteAll(context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.notifications = map[string]domain.Notification{}
	return nil
}
