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

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
	AddComment(ctx context.Context, postID string, comment *models.Comment) error
	RemoveComment(ctx context.Context, postID, commentID string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID format: %w", err)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetAllPosts retrieves the global feed, newest first
func (r *MongoPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// AddLike appends userID to the post's like list
func (r *MongoPostRepository) AddLike(ctx context.Context, postID, userID string) error {
	return r.updateByID(ctx, postID, bson.M{"$push": bson.M{"likes": userID}})
}

// RemoveLike removes userID from the post's like list
func (r *MongoPostRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	return r.updateByID(ctx, postID, bson.M{"$pull": bson.M{"likes": userID}})
}

// AddComment appends a comment to the post's embedded comment list
func (r *MongoPostRepository) AddComment(ctx context.Context, postID string, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	return r.updateByID(ctx, postID, bson.M{"$push": bson.M{"comments": comment}})
}

// RemoveComment removes a comment by its ID from the post's embedded list
func (r *MongoPostRepository) RemoveComment(ctx context.Context, postID, commentID string) error {
	commentObjID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return fmt.Errorf("invalid comment ID format: %w", err)
	}
	return r.updateByID(ctx, postID, bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentObjID}}})
}

func (r *MongoPostRepository) updateByID(ctx context.Context, postID string, update bson.M) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}
