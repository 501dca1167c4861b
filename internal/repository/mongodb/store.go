package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ticketdesk/ticketdesk-service/internal/repository"
)

// NewStore wires the MongoDB repositories around one database.
func NewStore(db *mongo.Database) *repository.Store {
	return &repository.Store{
		Name:          "mongo",
		Users:         NewUserRepository(db),
		Tickets:       NewTicketRepository(db),
		Notifications: NewNotificationRepository(db),
		Ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, readpref.Primary())
		},
	}
}

// EnsureIndexes creates the indexes the repositories rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "department", Value: 1}}},
		},
		"tickets": {
			{Keys: bson.D{{Key: "submitted_by", Value: 1}, {Key: "submission_date", Value: -1}}},
			{Keys: bson.D{{Key: "department", Value: 1}, {Key: "submission_date", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		"notifications": {
			{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "is_read", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
	for collection, models := range specs {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", collection, err)
		}
	}
	return nil
}
