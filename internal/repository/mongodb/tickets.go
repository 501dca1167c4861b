package mongodb

import (
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ticketdesk/ticketdesk-service/internal/domain"
	"github.com/ticketdesk/ticketdesk-service/internal/repository"
)

type ticketRepository struct {
	col   *mongo.Collection
	users *userRepository
}

// NewTicketRepository returns a MongoDB-backed ticket repository.
func NewTicketRepository(db *mongo.Database) repository.TicketRepository {
	return &ticketRepository{
		col:   db.Collection("tickets"),
		users: &userRepository{col: db.Collection("users")},
	}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	ticket.UpdatedAt = ticket.SubmissionDate
	_, err := r.col.InsertOne(ctx, toTicketDocument(ticket))
	return translateError(err)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	var doc ticketDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	tickets, err := r.populate(ctx, []ticketDocument{doc})
	if err != nil {
		return nil, err
	}
	return &tickets[0], nil
}

func (r *ticketRepository) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	query := bson.M{}
	if filter.SubmittedBy != nil {
		query["submitted_by"] = *filter.SubmittedBy
	}
	if filter.Department != nil {
		query["department"] = *filter.Department
	}
	if len(filter.Statuses) > 0 {
		values := make(bson.A, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			values = append(values, string(s))
		}
		query["status"] = bson.M{"$in": values}
	}
	if len(filter.Priorities) > 0 {
		values := make(bson.A, 0, len(filter.Priorities))
		for _, p := range filter.Priorities {
			values = append(values, string(p))
		}
		query["priority"] = bson.M{"$in": values}
	}
	if filter.From != nil || filter.To != nil {
		window := bson.M{}
		if filter.From != nil {
			window["$gte"] = *filter.From
		}
		if filter.To != nil {
			window["$lte"] = *filter.To
		}
		query["submission_date"] = window
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(*filter.Search)), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
			bson.M{"location": pattern},
			bson.M{"room_number": pattern},
		}
	}

	limit, offset := repository.NormalizePage(filter.Limit, filter.Offset)
	opts := options.Find().
		SetSort(bson.D{{Key: "submission_date", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	var docs []ticketDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return r.populate(ctx, docs)
}

func (r *ticketRepository) AppendUpdate(ctx context.Context, ticketID string, change repository.TicketChange, update *domain.TicketUpdate) (*domain.Ticket, error) {
	set := bson.M{"updated_at": update.Timestamp}
	if change.Status != nil {
		set["status"] = string(*change.Status)
	}
	if change.Priority != nil {
		set["priority"] = string(*change.Priority)
	}

	res, err := r.col.UpdateByID(ctx, ticketID, bson.M{
		"$set":  set,
		"$push": bson.M{"updates": toUpdateDocument(update)},
	})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, ticketID)
}

func (r *ticketRepository) DeleteAll(ctx context.Context) error {
	_, err := r.col.DeleteMany(ctx, bson.M{})
	return err
}

// populate converts documents and resolves submitter and updater references
// with one users query.
func (r *ticketRepository) populate(ctx context.Context, docs []ticketDocument) ([]domain.Ticket, error) {
	seen := map[string]struct{}{}
	ids := []string{}
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, d := range docs {
		add(d.SubmittedBy)
		for _, u := range d.Updates {
			add(u.UpdatedBy)
		}
	}

	refs, err := r.users.refsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	tickets := make([]domain.Ticket, 0, len(docs))
	for _, d := range docs {
		ticket := d.toDomain()
		if ref, ok := refs[ticket.SubmittedBy]; ok {
			ticket.Submitter = &ref
		}
		for i := range ticket.Updates {
			if ref, ok := refs[ticket.Updates[i].UpdatedBy]; ok {
				ticket.Updates[i].Updater = &ref
			}
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}
