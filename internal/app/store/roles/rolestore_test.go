package rolestore_test

import (
	"testing"

	rolestore "github.com/placementhub/placementhub/internal/app/store/roles"
	"github.com/placementhub/placementhub/internal/domain/models"
	"github.com/placementhub/placementhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStore_RoleForUser_Default(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := rolestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	role, err := store.RoleForUser(ctx, "sub-nobody")
	if err != nil {
		t.Fatalf("RoleForUser failed: %v", err)
	}
	if role != models.DefaultRole {
		t.Errorf("role = %q, want %q", role, models.DefaultRole)
	}
}

func TestStore_SetAndOverwrite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := rolestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	if err := store.Set(ctx, "sub-1", "STAFF"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	role, err := store.RoleForUser(ctx, "sub-1")
	if err != nil {
		t.Fatalf("RoleForUser failed: %v", err)
	}
	if role != "STAFF" {
		t.Errorf("role = %q, want STAFF", role)
	}

	// Setting again replaces, it does not duplicate.
	if err := store.Set(ctx, "sub-1", "ADMIN"); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}
	role, err = store.RoleForUser(ctx, "sub-1")
	if err != nil {
		t.Fatalf("RoleForUser failed: %v", err)
	}
	if role != "ADMIN" {
		t.Errorf("role = %q, want ADMIN", role)
	}

	n, err := db.Collection("roles").CountDocuments(ctx, bson.M{"user_id": "sub-1"})
	if err != nil {
		t.Fatalf("count roles: %v", err)
	}
	if n != 1 {
		t.Errorf("role records = %d, want 1", n)
	}
}
