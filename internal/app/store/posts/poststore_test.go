package poststore_test

import (
	"testing"

	poststore "github.com/placementhub/placementhub/internal/app/store/posts"
	"github.com/placementhub/placementhub/internal/domain/models"
	"github.com/placementhub/placementhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	post, err := store.Create(ctx, models.Post{
		Title:   "Campus drive",
		Content: "Details",
		Type:    "JOB",
		Author:  models.Author{Name: "Staff"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if post.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if post.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_Create_RejectsUnknownType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Post{Title: "x", Type: "PARTY"}); err == nil {
		t.Fatal("expected error for unknown post type")
	}
}

func TestStore_List_Keyset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreatePost(ctx, "First", "ANNOUNCEMENT")
	second := fixtures.CreatePost(ctx, "Second", "ANNOUNCEMENT")
	fixtures.CreatePost(ctx, "Third", "ANNOUNCEMENT")

	all, err := store.List(ctx, 0, primitive.NilObjectID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 || all[0].Title != "Third" {
		t.Fatalf("unexpected full listing: %v", titles(all))
	}

	limited, err := store.List(ctx, 2, primitive.NilObjectID)
	if err != nil {
		t.Fatalf("limited List failed: %v", err)
	}
	if len(limited) != 2 || limited[0].Title != "Third" || limited[1].Title != "Second" {
		t.Fatalf("unexpected limited listing: %v", titles(limited))
	}

	older, err := store.List(ctx, 0, second.ID)
	if err != nil {
		t.Fatalf("cursor List failed: %v", err)
	}
	if len(older) != 1 || older[0].Title != "First" {
		t.Fatalf("unexpected cursor listing: %v", titles(older))
	}
}

func titles(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Title
	}
	return out
}

func TestStore_GetAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	post := fixtures.CreatePost(ctx, "Campus drive", "JOB")

	got, err := store.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Campus drive" {
		t.Errorf("title = %q", got.Title)
	}

	n, err := store.Delete(ctx, post.ID)
	if err != nil || n != 1 {
		t.Fatalf("Delete = (%d, %v), want (1, nil)", n, err)
	}
	if _, err := store.GetByID(ctx, post.ID); err != mongo.ErrNoDocuments {
		t.Errorf("get after delete err = %v, want ErrNoDocuments", err)
	}
}
