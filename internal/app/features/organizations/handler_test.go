package organizations_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/placementhub/placementhub/internal/app/features/organizations"
	organizationstore "github.com/placementhub/placementhub/internal/app/store/organizations"
	"github.com/placementhub/placementhub/internal/app/system/auditlog"
	"github.com/placementhub/placementhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*organizations.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	return organizations.NewHandler(organizationstore.New(db), auditlog.NewNopLogger(), zap.NewNop()), fx
}

func TestServeCreate(t *testing.T) {
	h, _ := newHandler(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid", `{"name":"Placement Cell","college":"Test College","capacity":120}`, http.StatusCreated},
		{"missing name", `{"college":"Test College"}`, http.StatusBadRequest},
		{"negative capacity", `{"name":"X","capacity":-1}`, http.StatusBadRequest},
		{"malformed body", `{"name":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/organization", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeCreate(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}
		})
	}
}

func TestServeGetUpdateDelete(t *testing.T) {
	h, fx := newHandler(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	org := fx.CreateOrganization(ctx, "Alpha Org")

	t.Run("get", func(t *testing.T) {
		req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/organization/"+org.ID.Hex(), nil), "id", org.ID.Hex())
		rec := httptest.NewRecorder()
		h.ServeGet(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		if !strings.Contains(rec.Body.String(), "Alpha Org") {
			t.Errorf("body missing org name: %s", rec.Body)
		}
	})

	t.Run("get invalid id", func(t *testing.T) {
		req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/organization/nope", nil), "id", "nope")
		rec := httptest.NewRecorder()
		h.ServeGet(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		id := primitive.NewObjectID().Hex()
		req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/organization/"+id, nil), "id", id)
		rec := httptest.NewRecorder()
		h.ServeGet(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("update", func(t *testing.T) {
		body := `{"capacity":250}`
		req := testutil.WithChiURLParam(
			httptest.NewRequest("PUT", "/organization/"+org.ID.Hex(), strings.NewReader(body)), "id", org.ID.Hex())
		rec := httptest.NewRecorder()
		h.ServeUpdate(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		var resp struct {
			Organization struct {
				Capacity int `json:"capacity"`
			} `json:"organization"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("parse response: %v", err)
		}
		if resp.Organization.Capacity != 250 {
			t.Errorf("capacity = %d, want 250", resp.Organization.Capacity)
		}
	})

	t.Run("delete then get", func(t *testing.T) {
		req := testutil.WithChiURLParam(httptest.NewRequest("DELETE", "/organization/"+org.ID.Hex(), nil), "id", org.ID.Hex())
		rec := httptest.NewRecorder()
		h.ServeDelete(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("delete status = %d", rec.Code)
		}

		req = testutil.WithChiURLParam(httptest.NewRequest("GET", "/organization/"+org.ID.Hex(), nil), "id", org.ID.Hex())
		rec = httptest.NewRecorder()
		h.ServeGet(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("get after delete status = %d, want 404", rec.Code)
		}
	})
}
