package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/placementhub/placementhub/internal/app/system/academics"
	"github.com/placementhub/placementhub/internal/app/system/normalize"
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
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errIDRequired     = errors.New("user id is required")
	errEmailRequired  = errors.New("user email is required")
)

// GetByID loads a user by the identity-provider subject id.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing core fields. The caller
// supplies the document id (the identity provider's subject id); users are
// never created with a generated ObjectID.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		return models.User{}, errIDRequired
	}
	if u.Email == "" {
		return models.User{}, errEmailRequired
	}

	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	u.ActiveBacklog = academics.ActiveBacklogs(&u)

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// List returns all users, newest first.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Update holds the profile fields a user (or an administrator) may change.
// Nil pointers leave the stored value untouched.
type Update struct {
	Name      *string             `json:"name,omitempty"`
	Gender    *string             `json:"gender,omitempty"`
	Course    *string             `json:"course,omitempty"`
	Stream    *string             `json:"stream,omitempty"`
	Batch     *string             `json:"batch,omitempty"`
	Institute *string             `json:"institute,omitempty"`
	Phone     *string             `json:"phone,omitempty"`
	Address   *string             `json:"address,omitempty"`
	DOB       *time.Time          `json:"dob,omitempty"`
	Tenth     *float64            `json:"10th,omitempty"`
	Twelfth   *float64            `json:"12th,omitempty"`
	Sem1      *float64            `json:"sem1,omitempty"`
	Sem2      *float64            `json:"sem2,omitempty"`
	Sem3      *float64            `json:"sem3,omitempty"`
	Sem4      *float64            `json:"sem4,omitempty"`
	Sem5      *float64            `json:"sem5,omitempty"`
	Sem6      *float64            `json:"sem6,omitempty"`
	OrgID     *primitive.ObjectID `json:"org_id,omitempty"`
}

// apply copies the non-nil fields of upd onto u.
func (upd *Update) apply(u *models.User) {
	if upd.Name != nil {
		u.Name = normalize.Name(*upd.Name)
		u.NameCI = text.Fold(u.Name)
	}
	if upd.Gender != nil {
		u.Gender = *upd.Gender
	}
	if upd.Course != nil {
		u.Course = *upd.Course
	}
	if upd.Stream != nil {
		u.Stream = *upd.Stream
	}
	if upd.Batch != nil {
		u.Batch = *upd.Batch
	}
	if upd.Institute != nil {
		u.Institute = *upd.Institute
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.Address != nil {
		u.Address = *upd.Address
	}
	if upd.DOB != nil {
		u.DOB = upd.DOB
	}
	if upd.Tenth != nil {
		u.Tenth = upd.Tenth
	}
	if upd.Twelfth != nil {
		u.Twelfth = upd.Twelfth
	}
	if upd.Sem1 != nil {
		u.Sem1 = upd.Sem1
	}
	if upd.Sem2 != nil {
		u.Sem2 = upd.Sem2
	}
	if upd.Sem3 != nil {
		u.Sem3 = upd.Sem3
	}
	if upd.Sem4 != nil {
		u.Sem4 = upd.Sem4
	}
	if upd.Sem5 != nil {
		u.Sem5 = upd.Sem5
	}
	if upd.Sem6 != nil {
		u.Sem6 = upd.Sem6
	}
	if upd.OrgID != nil {
		u.OrgID = upd.OrgID
	}
}

// Apply merges upd onto u and recomputes the derived backlog count.
// Exposed so callers can preview the merged document without writing it.
func (upd *Update) Apply(u *models.User) {
	upd.apply(u)
	u.ActiveBacklog = academics.ActiveBacklogs(u)
}

// Update merges upd over the stored document and persists the result. The
// derived active_backlog is recomputed as part of the same write whenever
// any semester field changes. Returns the updated user.
func (s *Store) Update(ctx context.Context, id string, upd Update) (*models.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	upd.Apply(u)
	u.UpdatedAt = time.Now().UTC()

	if _, err := s.c.ReplaceOne(ctx, bson.M{"_id": id}, u); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return u, nil
}

// CompleteOnboarding merges upd over the stored document, marks onboarding
// complete, and records the uploaded resume reference when one was
// obtained. The is_completed flag only ever transitions false to true;
// repeating the call is harmless.
func (s *Store) CompleteOnboarding(ctx context.Context, id string, upd Update, resumeFileID string) (*models.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	upd.Apply(u)
	u.IsCompleted = true
	if resumeFileID != "" {
		u.ResumeFileID = resumeFileID
	}
	u.UpdatedAt = time.Now().UTC()

	if _, err := s.c.ReplaceOne(ctx, bson.M{"_id": id}, u); err != nil {
		return nil, err
	}
	return u, nil
}

// AppendInvite adds an invite id to the user's invite list. $addToSet makes
// a retried append a no-op, which keeps the invite-creation flow safe to
// retry after a partial failure.
func (s *Store) AppendInvite(ctx context.Context, userID string, inviteID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$addToSet": bson.M{"invite": inviteID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a user by id. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
