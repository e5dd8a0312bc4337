package services

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shariquenadim/Jio-EVA-auth/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOTPStore keeps challenges in the otps collection. A TTL index on
// expires_at reaps stale challenges, but the reaper runs on its own
// schedule, so Check still compares against the wall clock.
type MongoOTPStore struct {
	DB *mongo.Database
}

func NewMongoOTPStore(db *mongo.Database) *MongoOTPStore {
	return &MongoOTPStore{DB: db}
}

func (s *MongoOTPStore) otps() *mongo.Collection {
	return s.DB.Collection("otps")
}

func (s *MongoOTPStore) Issue(c *gin.Context, email string, rememberMe bool) (string, error) {
	code, err := GenerateOTP()
	if err != nil {
		return "", err
	}

	now := time.Now()
	challenge := models.OTPChallenge{
		Email:      email,
		Code:       code,
		RememberMe: rememberMe,
		CreatedAt:  now,
		ExpiresAt:  now.Add(OTPTTL),
	}

	// One upsert keyed on email, so a fresh code atomically supersedes any
	// pending challenge for the same account.
	_, err = s.otps().ReplaceOne(c.Request.Context(),
		bson.M{"email": email},
		challenge,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return "", err
	}
	return code, nil
}

func (s *MongoOTPStore) Check(c *gin.Context, email, code string) (OTPResult, error) {
	var record models.OTPChallenge
	err := s.otps().FindOne(c.Request.Context(), bson.M{"email": email}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Either never issued or already reaped; expired is the honest
			// answer for a flow that got this far.
			return OTPExpired, nil
		}
		return OTPInvalid, err
	}

	if record.Code != code {
		return OTPInvalid, nil
	}
	if time.Now().After(record.ExpiresAt) {
		_, _ = s.otps().DeleteOne(c.Request.Context(), bson.M{"_id": record.ID})
		return OTPExpired, nil
	}

	// Single use: delete before reporting Valid.
	if _, err := s.otps().DeleteOne(c.Request.Context(), bson.M{"_id": record.ID}); err != nil {
		return OTPInvalid, err
	}
	return OTPValid, nil
}
