package repositories

import (
	"context"
	"time"

	"github.com/connectify/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository defines the interface for message data operations.
// Messages are append-only; there is no edit or delete.
type MessageRepository interface {
	CreateMessage(ctx context.Context, message *models.Message) error
	GetByChatID(ctx context.Context, chatID string) ([]models.Message, error)
	GetLatestByChatID(ctx context.Context, chatID string) (*models.Message, error)
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

// CreateMessage appends a new message
func (r *MongoMessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, message)
	return err
}

// GetByChatID returns the full history of a chat, oldest first
func (r *MongoMessageRepository) GetByChatID(ctx context.Context, chatID string) ([]models.Message, error) {
	messages := []models.Message{}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"chat_id": chatID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// GetLatestByChatID returns the newest message of a chat, or nil if the chat is empty
func (r *MongoMessageRepository) GetLatestByChatID(ctx context.Context, chatID string) (*models.Message, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var message models.Message
	err := r.collection.FindOne(ctx, bson.M{"chat_id": chatID}, findOptions).Decode(&message)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}
