package services

import (
	"context"
	"log"
	"time"

	"github.com/shariquenadim/Jio-EVA-auth/models"
	"github.com/shariquenadim/Jio-EVA-auth/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserService owns the users collection and every credential mutation.
// Password hashing happens here, so callers never hash explicitly.
type UserService struct {
	DB *mongo.Database
}

func NewUserService(db *mongo.Database) *UserService {
	return &UserService{DB: db}
}

func (us *UserService) users() *mongo.Collection {
	return us.DB.Collection("users")
}

// FindByEmail looks a user up by email, case-sensitive as stored.
func (us *UserService) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := us.users().FindOne(context.Background(), bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmailOrPhone returns whichever user holds either identity.
func (us *UserService) FindByEmailOrPhone(email, phone string) (*models.User, error) {
	var user models.User
	err := us.users().FindOne(context.Background(), bson.M{
		"$or": []bson.M{
			{"email": email},
			{"phone": phone},
		},
	}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Register hashes the password and inserts the user in one write, with
// emailVerified false. The unique indexes on email and phone make the
// insert the arbiter for concurrent signups racing on the same identity;
// the losing writer gets ErrDuplicateUser.
func (us *UserService) Register(user models.User) (*models.User, error) {
	if _, err := us.FindByEmailOrPhone(user.Email, user.Phone); err == nil {
		return nil, ErrDuplicateUser
	}

	hashed, err := utils.HashPassword(user.Password)
	if err != nil {
		return nil, err
	}
	user.Password = hashed
	user.EmailVerified = false
	user.CreatedAt = time.Now()

	res, err := us.users().InsertOne(context.Background(), user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateUser
		}
		log.Printf("Failed to insert user: %v", err)
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}

	return &user, nil
}

// CheckPasswordHash reports whether the plaintext matches the stored hash.
// A wrong password is a false, never an error.
func (us *UserService) CheckPasswordHash(password, hash string) bool {
	return utils.VerifyPassword(password, hash)
}

// MarkEmailVerified flips emailVerified, the only way it ever becomes true.
func (us *UserService) MarkEmailVerified(email string) error {
	res, err := us.users().UpdateOne(context.Background(),
		bson.M{"email": email},
		bson.M{"$set": bson.M{"emailVerified": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetResetToken stores an opaque reset token with its expiry on the user.
// Issuing a new token overwrites any pending one.
func (us *UserService) SetResetToken(email, token string, expiry time.Time) error {
	res, err := us.users().UpdateOne(context.Background(),
		bson.M{"email": email},
		bson.M{"$set": bson.M{"resetToken": token, "resetTokenExpiry": expiry}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ResetPassword redeems a reset token: the token must name a user, be inside
// its expiry window, and the new password must differ from the current one.
// On success the old hash is rotated into previousPassword and the token is
// cleared, so it cannot be redeemed twice.
func (us *UserService) ResetPassword(token, newPassword string) error {
	var user models.User
	err := us.users().FindOne(context.Background(), bson.M{"resetToken": token}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrResetTokenInvalid
		}
		return err
	}

	if time.Now().After(user.ResetTokenExpiry) {
		return ErrResetTokenExpired
	}
	if utils.VerifyPassword(newPassword, user.Password) {
		return ErrSamePassword
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	_, err = us.users().UpdateOne(context.Background(),
		bson.M{"_id": user.ID},
		bson.M{
			"$set":   bson.M{"password": hashed, "previousPassword": user.Password},
			"$unset": bson.M{"resetToken": "", "resetTokenExpiry": ""},
		},
	)
	return err
}
