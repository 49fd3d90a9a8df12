package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message belongs to exactly one chat and is append-only.
type Message struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ChatID    string             `json:"chatId" bson:"chat_id"`
	SenderID  string             `json:"senderId" bson:"sender_id"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// SendMessageRequest defines the request body for sending a message
type SendMessageRequest struct {
	ChatID   string `json:"chatId" validate:"required"`
	SenderID string `json:"senderId" validate:"required"`
	Text     string `json:"text" validate:"required,min=1,max=2000"`
}
