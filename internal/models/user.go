package models

import (
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account stored in MongoDB. Followers and Following hold
// user IDs, never embedded documents.
type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Username  string             `json:"username,omitempty" bson:"username,omitempty"` // optional public handle, unique when set
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"` // bcrypt hash, never serialized
	Avatar    string             `json:"avatar" bson:"avatar"`
	Bio       string             `json:"bio" bson:"bio"`
	Followers []string           `json:"followers" bson:"followers"`
	Following []string           `json:"following" bson:"following"`
}

// RegisterRequest defines the request body for registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Username string `json:"username,omitempty" validate:"omitempty,min=3,max=30,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Avatar   string `json:"avatar,omitempty"`
}

// LoginRequest accepts either an email or a username in Identifier
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile updates
type UpdateProfileRequest struct {
	Name     string  `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=30,alphanum"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=160"`
	Avatar   *string `json:"avatar,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
