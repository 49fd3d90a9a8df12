package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the application relies on. The unique
// index on chats.pair_key is what makes GetOrCreate safe under concurrent
// creation of the same pair.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Sparse so users without a handle do not collide on the missing key.
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return err
	}

	chatIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "pair_key", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection("chats").Indexes().CreateOne(ctx, chatIndex); err != nil {
		return err
	}

	messageIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "chat_id", Value: 1}, {Key: "created_at", Value: 1}},
	}
	if _, err := db.Collection("messages").Indexes().CreateOne(ctx, messageIndex); err != nil {
		return err
	}

	notificationIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "read", Value: 1}}},
	}
	if _, err := db.Collection("notifications").Indexes().CreateMany(ctx, notificationIndexes); err != nil {
		return err
	}

	return nil
}
