package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB connects to MongoDB and returns the client together with the
// application database. The caller owns the client and must Disconnect it
// on shutdown.
func ConnectDB(cfg Config) (*mongo.Client, *mongo.Database, error) {
	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerSelectionTimeout(10 * time.Second)
	client, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	db := client.Database(cfg.DBName)
	if err := ensureIndexes(db); err != nil {
		return nil, nil, err
	}

	return client, db, nil
}

// ensureIndexes creates the indexes the auth flow relies on: uniqueness on
// email and phone so concurrent signups racing on the same identity cannot
// both win, and a TTL index so expired OTP challenges are reaped.
func ensureIndexes(db *mongo.Database) error {
	users := db.Collection("users")
	_, err := users.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniqueEmail").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetName("uniquePhone").SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("create users indexes: %w", err)
	}

	otps := db.Collection("otps")
	_, err = otps.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.M{"expires_at": 1},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniqueChallengeEmail").SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("create otps indexes: %w", err)
	}

	return nil
}
