package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
)

// Notification is one ledger row per (recipient, sender, type, post) within
// the dedup window. Sender* fields are snapshots taken when the row was first
// created; a refresh bumps CreatedAt and resets Read but leaves them alone.
type Notification struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Recipient      string             `json:"recipient" bson:"recipient"`
	Sender         string             `json:"sender" bson:"sender"`
	SenderName     string             `json:"senderName" bson:"sender_name"`
	SenderUsername string             `json:"senderUsername" bson:"sender_username"`
	SenderAvatar   string             `json:"senderAvatar" bson:"sender_avatar"`
	Type           string             `json:"type" bson:"type"`
	PostID         string             `json:"postId" bson:"post_id"`
	PostContent    string             `json:"postContent" bson:"post_content"`
	CommentText    string             `json:"commentText" bson:"comment_text"`
	Read           bool               `json:"read" bson:"read"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}
