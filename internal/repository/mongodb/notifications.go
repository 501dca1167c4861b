package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ticketdesk/ticketdesk-service/internal/domain"
	"github.com/ticketdesk/ticketdesk-service/internal/repository"
)

type notificationRepository struct {
	col *mongo.Collection
}

// NewNotificationRepository returns a MongoDB-backed notification repository.
func NewNotificationRepository(db *mongo.Database) repository.NotificationRepository {
	return &notificationRepository{col: db.Collection("notifications")}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	_, err := r.col.InsertOne(ctx, toNotificationDocument(n))
	return translateError(err)
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	limit, offset = repository.NormalizePage(limit, offset)
	query := bson.M{"recipient_id": recipientID}
	if unreadOnly {
		query["is_read"] = false
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	var docs []notificationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	result := make([]domain.Notification, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.toDomain())
	}
	return result, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "is_read": false})
}

func (r *notificationRepository) MarkRead(ctx context.Context, recipientID, id string, at time.Time) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "recipient_id": recipientID},
		bson.M{"$set": bson.M{"is_read": true, "read_at": at}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string, at time.Time) (int64, error) {
	res, err := r.col.UpdateMany(ctx,
		bson.M{"recipient_id": recipientID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": at}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *notificationRepository) DeleteAll(ctx context.Context) error {
	_, err := r.col.DeleteMany(ctx, bson.M{})
	return err
}
