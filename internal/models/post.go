package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is embedded in its post; it has no collection of its own.
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	UserID    string             `json:"user_id" bson:"user_id"`
	Username  string             `json:"username" bson:"username"` // author handle at comment time
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// Post represents a post stored in MongoDB. Username and UserAvatar are
// snapshots of the author at creation time and are not updated when the
// author edits their profile.
type Post struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID     string             `json:"user_id" bson:"user_id"`
	Username   string             `json:"username" bson:"username"`
	UserAvatar string             `json:"user_avatar" bson:"user_avatar"`
	Content    string             `json:"content" bson:"content"`
	Image      string             `json:"image,omitempty" bson:"image,omitempty"`
	Video      string             `json:"video,omitempty" bson:"video,omitempty"`
	Likes      []string           `json:"likes" bson:"likes"` // user IDs
	Comments   []Comment          `json:"comments" bson:"comments"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
	Image   string `json:"image,omitempty"`
	Video   string `json:"video,omitempty"`
}

// AddCommentRequest defines the request body for commenting on a post
type AddCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}
