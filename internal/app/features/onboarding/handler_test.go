package onboarding_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/placementhub/placementhub/internal/app/features/onboarding"
	userstore "github.com/placementhub/placementhub/internal/app/store/users"
	"github.com/placementhub/placementhub/internal/app/system/auditlog"
	"github.com/placementhub/placementhub/internal/testutil"
	"go.uber.org/zap"
)

type memStore struct {
	storage.Store
	files map[string][]byte
	fail  bool
}

func (m *memStore) Put(ctx context.Context, path string, r io.Reader, opts *storage.PutOptions) error {
	if m.fail {
		return errors.New("backend down")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.files[path] = data
	return nil
}

func newHandler(t *testing.T) (*onboarding.Handler, *userstore.Store, *memStore, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	users := userstore.New(db)
	store := &memStore{files: map[string][]byte{}}
	return onboarding.NewHandler(users, store, auditlog.NewNopLogger(), zap.NewNop()), users, store, fx
}

func onboardingRequest(t *testing.T, userID, updateData, resumeName, resumeContent string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if userID != "" {
		if err := mw.WriteField("userId", userID); err != nil {
			t.Fatalf("write userId: %v", err)
		}
	}
	if updateData != "" {
		if err := mw.WriteField("updateData", updateData); err != nil {
			t.Fatalf("write updateData: %v", err)
		}
	}
	if resumeName != "" {
		fw, err := mw.CreateFormFile("resume", resumeName)
		if err != nil {
			t.Fatalf("create resume part: %v", err)
		}
		if _, err := io.WriteString(fw, resumeContent); err != nil {
			t.Fatalf("write resume: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest("POST", "/onboarding", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestServeComplete(t *testing.T) {
	h, users, store, fx := newHandler(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateUser(ctx, "user-1", "Asha", "asha@example.com")

	update := `{"course":"B.Tech","stream":"CSE","batch":"2026","sem1":8.5,"sem2":0,"sem3":7.1}`
	rec := httptest.NewRecorder()
	h.ServeComplete(rec, onboardingRequest(t, "user-1", update, "resume.pdf", "pdf-bytes"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body)
	}

	var resp struct {
		Success      bool   `json:"success"`
		ResumeFileID string `json:"resumeFileId"`
		User         struct {
			IsCompleted   bool   `json:"isCompleted"`
			Course        string `json:"course"`
			ActiveBacklog int    `json:"active_backlog"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || !resp.User.IsCompleted {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.User.Course != "B.Tech" {
		t.Errorf("course = %q", resp.User.Course)
	}
	// sem2 is an explicit zero, which counts as one active backlog.
	if resp.User.ActiveBacklog != 1 {
		t.Errorf("active_backlog = %d, want 1", resp.User.ActiveBacklog)
	}
	if resp.ResumeFileID == "" {
		t.Fatal("resumeFileId is empty")
	}
	if got := string(store.files[resp.ResumeFileID]); got != "pdf-bytes" {
		t.Errorf("stored resume = %q", got)
	}

	u, err := users.GetByID(ctx, "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !u.IsCompleted || u.ResumeFileID != resp.ResumeFileID {
		t.Errorf("persisted user = %+v", u)
	}
}

func TestServeComplete_NoResume(t *testing.T) {
	h, _, store, fx := newHandler(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateUser(ctx, "user-1", "Asha", "asha@example.com")

	rec := httptest.NewRecorder()
	h.ServeComplete(rec, onboardingRequest(t, "user-1", `{"course":"B.Tech"}`, "", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body)
	}
	if len(store.files) != 0 {
		t.Errorf("unexpected stored files: %v", store.files)
	}
}

func TestServeComplete_Failures(t *testing.T) {
	h, users, store, fx := newHandler(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateUser(ctx, "user-1", "Asha", "asha@example.com")

	t.Run("missing user id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeComplete(rec, onboardingRequest(t, "", `{}`, "", ""))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("malformed update data", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeComplete(rec, onboardingRequest(t, "user-1", `{"course":`, "", ""))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeComplete(rec, onboardingRequest(t, "ghost", `{}`, "", ""))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("storage failure writes nothing", func(t *testing.T) {
		store.fail = true
		defer func() { store.fail = false }()
		rec := httptest.NewRecorder()
		h.ServeComplete(rec, onboardingRequest(t, "user-1", `{"course":"MBA"}`, "resume.pdf", "x"))
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503 (body %s)", rec.Code, rec.Body)
		}
		u, err := users.GetByID(ctx, "user-1")
		if err != nil {
			t.Fatalf("get user: %v", err)
		}
		if u.IsCompleted || u.Course == "MBA" {
			t.Errorf("user was modified after storage failure: %+v", u)
		}
	})
}
