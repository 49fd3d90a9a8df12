package repositories

import (
	"context"
	"fmt"
	"regexp"

	"github.com/connectify/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, req models.UpdateProfileRequest) (*models.User, error)
	SearchUsers(ctx context.Context, query string, limit int64) ([]models.User, error)
	GetAllExcept(ctx context.Context, userID string, limit int64) ([]models.User, error)
	GetSuggested(ctx context.Context, userID string, following []string, limit int64) ([]models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
	AddFollowing(ctx context.Context, userID, targetID string) error
	AddFollower(ctx context.Context, userID, followerID string) error
	RemoveFollowing(ctx context.Context, userID, targetID string) error
	RemoveFollower(ctx context.Context, userID, followerID string) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser inserts a new user document
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	if user.Followers == nil {
		user.Followers = []string{}
	}
	if user.Following == nil {
		user.Following = []string{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// GetUserByID retrieves a user by hex ID
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}

	var user models.User
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies the provided profile fields and returns the updated user
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id string, req models.UpdateProfileRequest) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}

	set := bson.M{}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Username != nil {
		set["username"] = *req.Username
	}
	if req.Bio != nil {
		set["bio"] = *req.Bio
	}
	if req.Avatar != nil {
		set["avatar"] = *req.Avatar
	}
	if len(set) == 0 {
		return r.GetUserByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SearchUsers finds users whose name or username matches the query, case-insensitive
func (r *MongoUserRepository) SearchUsers(ctx context.Context, query string, limit int64) ([]models.User, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"username": pattern},
		bson.M{"name": pattern},
	}}
	return r.findUsers(ctx, filter, options.Find().SetLimit(limit))
}

// GetAllExcept returns users other than userID, for the chat partner picker
func (r *MongoUserRepository) GetAllExcept(ctx context.Context, userID string, limit int64) ([]models.User, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}
	return r.findUsers(ctx, bson.M{"_id": bson.M{"$ne": objID}}, options.Find().SetLimit(limit))
}

// GetSuggested returns users the given user does not follow yet
func (r *MongoUserRepository) GetSuggested(ctx context.Context, userID string, following []string, limit int64) ([]models.User, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}

	excluded := []primitive.ObjectID{objID}
	for _, id := range following {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			excluded = append(excluded, oid)
		}
	}
	return r.findUsers(ctx, bson.M{"_id": bson.M{"$nin": excluded}}, options.Find().SetLimit(limit))
}

// GetUsersByIDs hydrates a list of user IDs into full users
func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			objIDs = append(objIDs, oid)
		}
	}
	if len(objIDs) == 0 {
		return []models.User{}, nil
	}
	return r.findUsers(ctx, bson.M{"_id": bson.M{"$in": objIDs}}, options.Find())
}

// AddFollowing adds targetID to the user's following list
func (r *MongoUserRepository) AddFollowing(ctx context.Context, userID, targetID string) error {
	return r.pushField(ctx, userID, "following", targetID)
}

// AddFollower adds followerID to the user's followers list
func (r *MongoUserRepository) AddFollower(ctx context.Context, userID, followerID string) error {
	return r.pushField(ctx, userID, "followers", followerID)
}

// RemoveFollowing removes targetID from the user's following list
func (r *MongoUserRepository) RemoveFollowing(ctx context.Context, userID, targetID string) error {
	return r.pullField(ctx, userID, "following", targetID)
}

// RemoveFollower removes followerID from the user's followers list
func (r *MongoUserRepository) RemoveFollower(ctx context.Context, userID, followerID string) error {
	return r.pullField(ctx, userID, "followers", followerID)
}

func (r *MongoUserRepository) findUsers(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.User, error) {
	users := []models.User{}
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUserRepository) pushField(ctx context.Context, userID, field, value string) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$push": bson.M{field: value}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) pullField(ctx context.Context, userID, field, value string) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$pull": bson.M{field: value}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
