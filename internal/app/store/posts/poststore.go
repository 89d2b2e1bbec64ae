package poststore

import (
	"context"
	"errors"
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

var errBadType = errors.New(`type must be one of INTERNSHIP|JOB|ANNOUNCEMENT|OPPORTUNITY|DEADLINE|UPDATE`)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("posts")}
}

// Create inserts a new post. The author field is a snapshot taken by the
// caller at creation time and is stored as-is.
func (s *Store) Create(ctx context.Context, p models.Post) (models.Post, error) {
	if !models.ValidPostType(p.Type) {
		return models.Post{}, errBadType
	}
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns posts newest first. A non-zero limit bounds the result; a
// non-zero after restricts to posts older than that id, which together
// give keyset pagination (ObjectIDs are insertion ordered).
func (s *Store) List(ctx context.Context, limit int64, after primitive.ObjectID) ([]models.Post, error) {
	filter := bson.M{}
	if !after.IsZero() {
		filter["_id"] = bson.M{"$lt": after}
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Delete removes a post. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
