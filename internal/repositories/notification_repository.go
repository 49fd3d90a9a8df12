package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/connectify/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository defines the interface for ledger operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	// FindRecent returns the ledger row matching (recipient, sender, type,
	// postID) created at or after since, or nil when none exists.
	FindRecent(ctx context.Context, recipient, sender, notifType, postID string, since time.Time) (*models.Notification, error)
	// Refresh bumps created_at and resets the read flag, leaving snapshots intact.
	Refresh(ctx context.Context, id string, at time.Time) error
	GetByRecipient(ctx context.Context, recipient, notifType string, limit int64) ([]models.Notification, error)
	GetUnreadCount(ctx context.Context, recipient string) (int64, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context, recipient string) error
	Delete(ctx context.Context, id string) error
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// CreateNotification inserts a new ledger row
func (r *MongoNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

// FindRecent looks up an equivalent notification inside the dedup window
func (r *MongoNotificationRepository) FindRecent(ctx context.Context, recipient, sender, notifType, postID string, since time.Time) (*models.Notification, error) {
	filter := bson.M{
		"recipient":  recipient,
		"sender":     sender,
		"type":       notifType,
		"post_id":    postID,
		"created_at": bson.M{"$gte": since},
	}

	var notification models.Notification
	err := r.collection.FindOne(ctx, filter).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

// Refresh bumps the row's timestamp and resets read to false
func (r *MongoNotificationRepository) Refresh(ctx context.Context, id string, at time.Time) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"created_at": at, "read": false}})
}

// GetByRecipient returns the recipient's notifications, newest first,
// optionally filtered by type
func (r *MongoNotificationRepository) GetByRecipient(ctx context.Context, recipient, notifType string, limit int64) ([]models.Notification, error) {
	filter := bson.M{"recipient": recipient}
	if notifType != "" {
		filter["type"] = notifType
	}

	notifications := []models.Notification{}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// GetUnreadCount counts the recipient's unread rows
func (r *MongoNotificationRepository) GetUnreadCount(ctx context.Context, recipient string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"recipient": recipient, "read": false})
}

// MarkAsRead sets the read flag on one row
func (r *MongoNotificationRepository) MarkAsRead(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"read": true}})
}

// MarkAllAsRead sets the read flag on every unread row of the recipient
func (r *MongoNotificationRepository) MarkAllAsRead(ctx context.Context, recipient string) error {
	_, err := r.collection.UpdateMany(ctx, bson.M{"recipient": recipient, "read": false}, bson.M{"$set": bson.M{"read": true}})
	return err
}

// Delete removes one ledger row
func (r *MongoNotificationRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid notification ID format: %w", err)
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *MongoNotificationRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid notification ID format: %w", err)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
