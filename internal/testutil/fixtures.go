package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"github.com/placementhub/placementhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateOrganization creates a test organization with the given name.
// Returns the created organization with its generated ID.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		College:   "Test College",
		Capacity:  100,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("organizations").InsertOne(ctx, org); err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}
	return org
}

// CreateUser creates a test user keyed by the given identity-provider
// subject id.
func (f *Fixtures) CreateUser(ctx context.Context, id, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        id,
		Name:      name,
		NameCI:    text.Fold(name),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateStudent creates a test user with semester scores and profile
// fields filled in, the shape the eligibility payload builder expects.
func (f *Fixtures) CreateStudent(ctx context.Context, id, name, email string, sems []*float64) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        id,
		Name:      name,
		NameCI:    text.Fold(name),
		Email:     email,
		Course:    "B.Tech",
		Stream:    "CSE",
		Batch:     "2026",
		Institute: "Test Institute",
		CreatedAt: now,
		UpdatedAt: now,
	}
	assign := []**float64{&user.Sem1, &user.Sem2, &user.Sem3, &user.Sem4, &user.Sem5, &user.Sem6}
	backlogs := 0
	for i, v := range sems {
		if i >= len(assign) {
			break
		}
		*assign[i] = v
		if v != nil && *v == 0 {
			backlogs++
		}
	}
	user.ActiveBacklog = backlogs

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test student: %v", err)
	}
	return user
}

// CreatePost creates a test post of the given type.
func (f *Fixtures) CreatePost(ctx context.Context, title, postType string) models.Post {
	f.t.Helper()

	post := models.Post{
		ID:      primitive.NewObjectID(),
		Title:   title,
		Content: "Test content for " + title,
		Type:    postType,
		Author: models.Author{
			Name: "Test Author",
		},
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("posts").InsertOne(ctx, post); err != nil {
		f.t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

// CreatePendingInvite creates a pending invite for the given organization
// and email.
func (f *Fixtures) CreatePendingInvite(ctx context.Context, orgID primitive.ObjectID, email, createdBy string) models.Invite {
	f.t.Helper()

	now := time.Now().UTC()
	inv := models.Invite{
		ID:        primitive.NewObjectID(),
		OrgID:     orgID,
		Email:     email,
		Token:     uuid.NewString(),
		ExpiredAt: now.Add(7 * 24 * time.Hour).Unix(),
		Status:    models.InviteStatusPending,
		CreatedBy: createdBy,
		CreatedAt: now,
	}

	if _, err := f.db.Collection("invites").InsertOne(ctx, inv); err != nil {
		f.t.Fatalf("failed to create test invite: %v", err)
	}
	return inv
}
