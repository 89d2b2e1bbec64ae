package invitestore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"github.com/placementhub/placementhub/internal/app/system/normalize"
	"github.com/placementhub/placementhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Expiry is how long an invite stays valid: seven days, stored as an epoch
// second on the invite document.
const Expiry = 7 * 24 * time.Hour

// ErrDuplicatePending is returned when a pending invite already exists for
// the same (organization, email) pair. It backs the handler-level check:
// two concurrent creations can both pass the lookup, but the partial unique
// index makes the loser fail here instead of writing a second invite.
var ErrDuplicatePending = errors.New("user already has an invite for this organization")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("invites")}
}

// EnsureIndexes creates the token lookup index and the pending-uniqueness
// backstop.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_invite_token"),
		},
		{
			Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("idx_invite_pending_org_email").
				SetPartialFilterExpression(bson.M{"status": models.InviteStatusPending}),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// HasPending reports whether a pending invite exists for the given
// organization and email.
func (s *Store) HasPending(ctx context.Context, orgID primitive.ObjectID, email string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"org_id": orgID,
		"email":  normalize.Email(email),
		"status": models.InviteStatusPending,
	}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// Create inserts a pending invite with a fresh unguessable token and a
// seven-day expiry.
func (s *Store) Create(ctx context.Context, orgID primitive.ObjectID, email, createdBy string) (models.Invite, error) {
	now := time.Now().UTC()
	inv := models.Invite{
		ID:        primitive.NewObjectID(),
		OrgID:     orgID,
		Email:     normalize.Email(email),
		Token:     uuid.NewString(),
		ExpiredAt: now.Add(Expiry).Unix(),
		Status:    models.InviteStatusPending,
		CreatedBy: createdBy,
		CreatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Invite{}, ErrDuplicatePending
		}
		return models.Invite{}, err
	}
	return inv, nil
}

// GetByID loads an invite. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Invite, error) {
	var inv models.Invite
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ExpirePending marks pending invites whose deadline passed as expired,
// which releases the pending-uniqueness index so the user can be invited
// again. Returns how many invites were transitioned.
func (s *Store) ExpirePending(ctx context.Context) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{
			"status":     models.InviteStatusPending,
			"expired_at": bson.M{"$lt": time.Now().UTC().Unix()},
		},
		bson.M{"$set": bson.M{"status": models.InviteStatusExpired}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ListForEmail returns the invites addressed to an email, newest first.
func (s *Store) ListForEmail(ctx context.Context, email string) ([]models.Invite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"email": normalize.Email(email)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var invites []models.Invite
	if err := cur.All(ctx, &invites); err != nil {
		return nil, err
	}
	return invites, nil
}
