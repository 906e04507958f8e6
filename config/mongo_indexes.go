package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sessions := MongoDatabase().Collection("sessions")
	_, err := sessions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_session_id").
				SetUnique(true),
		},
		// share tokens must resolve by a single lookup; the partial
		// filter keeps sessions without a token out of the index
		{
			Keys: bson.D{{Key: "share_token", Value: 1}},
			Options: options.Index().
				SetName("uniq_share_token").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "share_token", Value: bson.D{{Key: "$type", Value: "string"}}}}),
		},
		{
			Keys:    bson.D{{Key: "college_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_college_created"),
		},
	})
	return err
}
