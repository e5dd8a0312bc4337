package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OTPChallenge is the pending second factor of a login attempt, keyed by
// email. At most one challenge is active per email; a fresh issue replaces
// any prior one.
type OTPChallenge struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Email      string             `bson:"email" json:"email"`
	Code       string             `bson:"code" json:"-"`
	RememberMe bool               `bson:"rememberMe" json:"rememberMe"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	ExpiresAt  time.Time          `bson:"expires_at" json:"expiresAt"`
}
