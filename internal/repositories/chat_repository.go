package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/connectify/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository defines the interface for chat data operations
type ChatRepository interface {
	// GetOrCreate returns the chat for the unordered pair (userA, userB),
	// creating it if absent. The second return value reports creation.
	GetOrCreate(ctx context.Context, userA, userB string) (*models.Chat, bool, error)
	GetChatByID(ctx context.Context, id string) (*models.Chat, error)
	GetChatsByMember(ctx context.Context, userID string) ([]models.Chat, error)
	Touch(ctx context.Context, chatID string, at time.Time) error
}

// MongoChatRepository implements ChatRepository for MongoDB
type MongoChatRepository struct {
	collection *mongo.Collection
}

// NewMongoChatRepository creates a new MongoChatRepository
func NewMongoChatRepository(db *mongo.Database) *MongoChatRepository {
	return &MongoChatRepository{collection: db.Collection("chats")}
}

// GetOrCreate looks up the chat by its sorted member pair and inserts one if
// missing. A concurrent insert of the same pair trips the unique index on
// members; the loser re-reads the winner's document.
func (r *MongoChatRepository) GetOrCreate(ctx context.Context, userA, userB string) (*models.Chat, bool, error) {
	members := sortedPair(userA, userB)
	pairKey := strings.Join(members, ":")

	chat, err := r.findByPairKey(ctx, pairKey)
	if err != nil {
		return nil, false, err
	}
	if chat != nil {
		return chat, false, nil
	}

	now := time.Now()
	newChat := &models.Chat{
		ID:        primitive.NewObjectID(),
		Members:   members,
		PairKey:   pairKey,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = r.collection.InsertOne(ctx, newChat)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			chat, ferr := r.findByPairKey(ctx, pairKey)
			if ferr != nil {
				return nil, false, ferr
			}
			if chat != nil {
				return chat, false, nil
			}
		}
		return nil, false, err
	}
	return newChat, true, nil
}

// GetChatByID retrieves a chat by ID
func (r *MongoChatRepository) GetChatByID(ctx context.Context, id string) (*models.Chat, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID format: %w", err)
	}

	var chat models.Chat
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// GetChatsByMember retrieves all chats containing userID, most recently updated first
func (r *MongoChatRepository) GetChatsByMember(ctx context.Context, userID string) ([]models.Chat, error) {
	chats := []models.Chat{}
	findOptions := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"members": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// Touch bumps the chat's updated_at so the chat list orders by recency
func (r *MongoChatRepository) Touch(ctx context.Context, chatID string, at time.Time) error {
	objID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return fmt.Errorf("invalid chat ID format: %w", err)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"updated_at": at}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrChatNotFound
	}
	return nil
}

func (r *MongoChatRepository) findByPairKey(ctx context.Context, pairKey string) (*models.Chat, error) {
	var chat models.Chat
	err := r.collection.FindOne(ctx, bson.M{"pair_key": pairKey}).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &chat, nil
}

func sortedPair(a, b string) []string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair
}
