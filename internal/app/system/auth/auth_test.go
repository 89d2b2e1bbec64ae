package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	m, err := NewSessionManager("0123456789abcdef0123456789abcdef", "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return m
}

func TestIssueAndLoadSession(t *testing.T) {
	m := newTestManager(t)

	// Issue a session and capture the cookie.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/auth/google/callback", nil)
	u := &SessionUser{ID: "google-sub-1", Name: "Asha Rao", Email: "asha@example.com"}
	if err := m.Issue(rec, req, u); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie to be set")
	}

	// Replay the cookie through the middleware.
	var got *SessionUser
	handler := m.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	}))

	req2 := httptest.NewRequest("GET", "/user/role", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req2)

	if got == nil {
		t.Fatal("expected session user in context")
	}
	if got.ID != u.ID || got.Email != u.Email {
		t.Errorf("got user %+v, want %+v", got, u)
	}
}

func TestLoadSessionUser_NoCookie(t *testing.T) {
	m := newTestManager(t)

	called := false
	handler := m.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := CurrentUser(r); ok {
			t.Error("expected no session user without a cookie")
		}
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if !called {
		t.Fatal("middleware should pass anonymous requests through")
	}
}

func TestRequireSignedIn(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	RequireSignedIn(next).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous request: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = httptest.NewRecorder()
	req := WithTestUser(httptest.NewRequest("GET", "/", nil), &SessionUser{ID: "u1"})
	RequireSignedIn(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("signed-in request: got %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestClearSession(t *testing.T) {
	m := newTestManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/logout", nil)
	if err := m.Clear(rec, req); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			found = true
		}
	}
	if !found {
		t.Error("expected session cookie to be expired")
	}
}
