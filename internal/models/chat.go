package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chat links exactly two users. Members is stored sorted and PairKey is the
// joined sorted pair; a unique index on pair_key guarantees at most one chat
// per unordered pair. (A unique index on the members array itself would be
// multikey and forbid a user appearing in two chats.)
type Chat struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Members   []string           `json:"members" bson:"members"`
	PairKey   string             `json:"-" bson:"pair_key"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateChatRequest defines the request body for fetching or creating a chat
type CreateChatRequest struct {
	SenderID   string `json:"senderId" validate:"required"`
	ReceiverID string `json:"receiverId" validate:"required"`
}

// OtherMember returns the member that is not userID, or "" for a malformed chat.
func (c *Chat) OtherMember(userID string) string {
	for _, m := range c.Members {
		if m != userID {
			return m
		}
	}
	return ""
}
