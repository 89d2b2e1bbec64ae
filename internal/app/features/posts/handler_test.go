package posts_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/placementhub/placementhub/internal/app/clients/aibackend"
	"github.com/placementhub/placementhub/internal/app/features/posts"
	poststore "github.com/placementhub/placementhub/internal/app/store/posts"
	userstore "github.com/placementhub/placementhub/internal/app/store/users"
	"github.com/placementhub/placementhub/internal/app/system/auditlog"
	"github.com/placementhub/placementhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newHandler(t *testing.T, backendURL string) (*posts.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := posts.NewHandler(
		poststore.New(db),
		userstore.New(db),
		aibackend.New(backendURL),
		auditlog.NewNopLogger(),
		zap.NewNop(),
	)
	return h, fx
}

func TestServeCreate(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/job/summarise" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode summarise request: %v", err)
		}
		if req.Title == "" || req.Description == "" {
			t.Errorf("summarise request missing fields: %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"summary":{
			"type":"JOB",
			"company":"Acme",
			"role":"Backend Engineer",
			"content":"<p>Great role</p><script>alert('x')</script>",
			"criteria":{"skills":"Go, SQL","courses":["B.Tech"]}
		}}`))
	}))
	defer backend.Close()

	h, fx := newHandler(t, backend.URL)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateUser(ctx, "user-1", "Asha", "asha@example.com")

	body := `{"title":"Acme hiring","description":"Backend role at Acme","userId":"user-1"}`
	req := httptest.NewRequest("POST", "/post", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeCreate(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body)
	}

	var resp struct {
		Success bool `json:"success"`
		Post    struct {
			Title    string `json:"title"`
			Type     string `json:"type"`
			Company  string `json:"company"`
			Content  string `json:"content"`
			Author   struct{ Name string }
			Criteria struct {
				Skills  []string `json:"skills"`
				Courses []string `json:"courses"`
			} `json:"criteria"`
		} `json:"post"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Post.Type != "JOB" || resp.Post.Company != "Acme" {
		t.Errorf("post = %+v", resp.Post)
	}
	if got, want := resp.Post.Criteria.Skills, []string{"Go", "SQL"}; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("skills = %v, want %v", got, want)
	}
	if resp.Post.Author.Name != "Asha" {
		t.Errorf("author = %q, want snapshot of creating user", resp.Post.Author.Name)
	}
	if strings.Contains(resp.Post.Content, "script") {
		t.Errorf("content not sanitized: %q", resp.Post.Content)
	}
	// The raw title is kept when the summary does not carry one.
	if resp.Post.Title != "Acme hiring" {
		t.Errorf("title = %q", resp.Post.Title)
	}
}

func TestServeCreate_Failures(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"summary":{"type":"JOB"}}`))
	}))
	defer backend.Close()

	h, fx := newHandler(t, backend.URL)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateUser(ctx, "user-1", "Asha", "asha@example.com")

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"missing title", `{"description":"d","userId":"user-1"}`, http.StatusBadRequest},
		{"missing description", `{"title":"t","userId":"user-1"}`, http.StatusBadRequest},
		{"missing user id", `{"title":"t","description":"d"}`, http.StatusBadRequest},
		{"unknown user", `{"title":"t","description":"d","userId":"ghost"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/post", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeCreate(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}
		})
	}
}

func TestServeCreate_SummarizerDownWritesNothing(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(nil))
	backend.Close() // unreachable from the start

	h, fx := newHandler(t, backend.URL)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateUser(ctx, "user-1", "Asha", "asha@example.com")

	body := `{"title":"t","description":"d","userId":"user-1"}`
	rec := httptest.NewRecorder()
	h.ServeCreate(rec, httptest.NewRequest("POST", "/post", strings.NewReader(body)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 (body %s)", rec.Code, rec.Body)
	}

	list, err := poststore.New(fx.DB()).List(ctx, 0, primitive.NilObjectID)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("posts written after backend failure: %d", len(list))
	}
}

func TestServeGetListDelete(t *testing.T) {
	h, fx := newHandler(t, "http://127.0.0.1:0")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	post := fx.CreatePost(ctx, "Campus drive", "ANNOUNCEMENT")

	t.Run("get", func(t *testing.T) {
		req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/post/"+post.ID.Hex(), nil), "id", post.ID.Hex())
		rec := httptest.NewRecorder()
		h.ServeGet(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d (body %s)", rec.Code, rec.Body)
		}
	})

	t.Run("get invalid id", func(t *testing.T) {
		req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/post/nope", nil), "id", "nope")
		rec := httptest.NewRecorder()
		h.ServeGet(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeList(rec, httptest.NewRequest("GET", "/post", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp struct {
			Posts []json.RawMessage `json:"posts"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(resp.Posts) != 1 {
			t.Errorf("posts = %d, want 1", len(resp.Posts))
		}
	})

	t.Run("delete then get", func(t *testing.T) {
		req := testutil.WithChiURLParam(httptest.NewRequest("DELETE", "/post/"+post.ID.Hex(), nil), "id", post.ID.Hex())
		rec := httptest.NewRecorder()
		h.ServeDelete(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("delete status = %d", rec.Code)
		}

		req = testutil.WithChiURLParam(httptest.NewRequest("GET", "/post/"+post.ID.Hex(), nil), "id", post.ID.Hex())
		rec = httptest.NewRecorder()
		h.ServeGet(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("get after delete status = %d, want 404", rec.Code)
		}
	})
}

func TestServeList_Paged(t *testing.T) {
	h, fx := newHandler(t, "http://127.0.0.1:0")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreatePost(ctx, "First", "ANNOUNCEMENT")
	fx.CreatePost(ctx, "Second", "ANNOUNCEMENT")
	third := fx.CreatePost(ctx, "Third", "ANNOUNCEMENT")

	list := func(target string) (titles []string, hasNext bool) {
		rec := httptest.NewRecorder()
		h.ServeList(rec, httptest.NewRequest("GET", target, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: status = %d (body %s)", target, rec.Code, rec.Body)
		}
		var resp struct {
			Posts []struct {
				Title string `json:"title"`
			} `json:"posts"`
			HasNext bool `json:"hasNext"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		for _, p := range resp.Posts {
			titles = append(titles, p.Title)
		}
		return titles, resp.HasNext
	}

	titles, hasNext := list("/post?limit=2")
	if len(titles) != 2 || titles[0] != "Third" || titles[1] != "Second" {
		t.Fatalf("first page = %v, want [Third Second]", titles)
	}
	if !hasNext {
		t.Error("first page should report hasNext")
	}

	titles, hasNext = list("/post?limit=2&after=" + third.ID.Hex())
	if len(titles) != 2 || titles[0] != "Second" || titles[1] != "First" {
		t.Fatalf("cursor page = %v, want [Second First]", titles)
	}
	if hasNext {
		t.Error("cursor page should be the last page")
	}

	rec := httptest.NewRecorder()
	h.ServeList(rec, httptest.NewRequest("GET", "/post?limit=2&after=nope", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad cursor status = %d, want 400", rec.Code)
	}
}

func TestServeEligibility(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/job/eligibility" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var payload struct {
			User struct {
				ID             string   `json:"id"`
				AvgCGPA        float64  `json:"avg_cgpa"`
				ActiveBacklogs int      `json:"activeBacklogs"`
				Skills         []string `json:"skills"`
			} `json:"user"`
			Post struct {
				PostID string `json:"postId"`
				Title  string `json:"title"`
			} `json:"post"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode eligibility payload: %v", err)
		}
		if payload.User.ID != "student-1" {
			t.Errorf("payload user id = %q", payload.User.ID)
		}
		// sem values below: (8.5 + 7.2 + 9.0) / 3 = 8.23 rounded, two zeros.
		if payload.User.AvgCGPA != 8.23 {
			t.Errorf("avg_cgpa = %v, want 8.23", payload.User.AvgCGPA)
		}
		if payload.User.ActiveBacklogs != 2 {
			t.Errorf("activeBacklogs = %d, want 2", payload.User.ActiveBacklogs)
		}
		if payload.User.Skills == nil || len(payload.User.Skills) != 0 {
			t.Errorf("skills placeholder = %v, want []", payload.User.Skills)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"eligible":true,"score":87}`))
	}))
	defer backend.Close()

	h, fx := newHandler(t, backend.URL)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	sems := []*float64{f(8.5), f(0), nil, f(7.2), f(0), f(9.0)}
	fx.CreateStudent(ctx, "student-1", "Asha", "asha@example.com", sems)
	post := fx.CreatePost(ctx, "Acme drive", "JOB")

	req := httptest.NewRequest("GET", "/post/"+post.ID.Hex()+"/eligibility/student-1", nil)
	req = testutil.WithChiURLParam(req, "id", post.ID.Hex())
	req = testutil.WithChiURLParam(req, "userId", "student-1")
	rec := httptest.NewRecorder()
	h.ServeEligibility(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"eligible":true,"score":87}` {
		t.Errorf("relayed body = %q", got)
	}
}

func TestServePlanner(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/job/planner" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var payload struct {
			Course   string `json:"course"`
			Company  string `json:"company"`
			Role     string `json:"role"`
			CTC      string `json:"ctc"`
			Criteria struct {
				Skills []string `json:"skills"`
			} `json:"criteria"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode planner payload: %v", err)
		}
		if payload.Company != "Unknown" || payload.Role != "N/A" || payload.CTC != "N/A" {
			t.Errorf("missing post fields not defaulted: %+v", payload)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"weeks":[{"focus":"DSA"}]}`))
	}))
	defer backend.Close()

	h, fx := newHandler(t, backend.URL)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateStudent(ctx, "student-1", "Asha", "asha@example.com", []*float64{f(8.0)})
	post := fx.CreatePost(ctx, "Acme drive", "JOB")

	req := httptest.NewRequest("GET", "/post/"+post.ID.Hex()+"/planner?userId=student-1", nil)
	req = testutil.WithChiURLParam(req, "id", post.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServePlanner(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body)
	}

	var resp struct {
		Message    string          `json:"message"`
		Payload    json.RawMessage `json:"payload"`
		AIResponse struct {
			Weeks []json.RawMessage `json:"weeks"`
		} `json:"aiResponse"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "Planner generated successfully" {
		t.Errorf("message = %q", resp.Message)
	}
	if len(resp.Payload) == 0 || len(resp.AIResponse.Weeks) != 1 {
		t.Errorf("unexpected response %+v", resp)
	}

	t.Run("missing user id", func(t *testing.T) {
		req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/post/"+post.ID.Hex()+"/planner", nil), "id", post.ID.Hex())
		rec := httptest.NewRecorder()
		h.ServePlanner(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func f(v float64) *float64 { return &v }
