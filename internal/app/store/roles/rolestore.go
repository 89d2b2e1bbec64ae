package rolestore

import (
	"context"
	"time"

	"github.com/placementhub/placementhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("roles")}
}

// EnsureIndexes creates the unique user lookup index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("idx_role_user"),
	})
	return err
}

// RoleForUser returns the user's role, defaulting to USER when no role
// record exists.
func (s *Store) RoleForUser(ctx context.Context, userID string) (string, error) {
	var rec models.Role
	err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return models.DefaultRole, nil
	}
	if err != nil {
		return "", err
	}
	return rec.Role, nil
}

// Set assigns a role to a user, replacing any existing record.
func (s *Store) Set(ctx context.Context, userID, role string) error {
	now := time.Now().UTC()
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{
		"$set":         bson.M{"role": role},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID(), "created_at": now},
	}, opts)
	return err
}
