package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the identity record behind every account. Email and phone are
// each unique across the collection. Password always holds a bcrypt hash,
// never plaintext; the json tags keep credential fields out of API
// responses.
type User struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name             string             `json:"name" bson:"name" validate:"required"`
	Email            string             `json:"email" bson:"email" validate:"required,email"`
	Phone            string             `json:"phone" bson:"phone" validate:"required"`
	Password         string             `json:"-" bson:"password"`
	EmailVerified    bool               `json:"emailVerified" bson:"emailVerified"`
	PreviousPassword string             `json:"-" bson:"previousPassword,omitempty"`
	ResetToken       string             `json:"-" bson:"resetToken,omitempty"`
	ResetTokenExpiry time.Time          `json:"-" bson:"resetTokenExpiry,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
}

var Validate = validator.New()
