// Package posts serves the post feed plus the AI-assisted flows: creation
// from a raw title/description, eligibility checking, and preparation
// planning. The handlers assemble payloads and relay the AI backend's
// responses; no scoring or planning logic lives here.
package posts

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/placementhub/placementhub/internal/app/clients/aibackend"
	poststore "github.com/placementhub/placementhub/internal/app/store/posts"
	userstore "github.com/placementhub/placementhub/internal/app/store/users"
	"github.com/placementhub/placementhub/internal/app/system/academics"
	"github.com/placementhub/placementhub/internal/app/system/apierror"
	"github.com/placementhub/placementhub/internal/app/system/auditlog"
	"github.com/placementhub/placementhub/internal/app/system/auth"
	"github.com/placementhub/placementhub/internal/app/system/htmlsanitize"
	"github.com/placementhub/placementhub/internal/app/system/httpjson"
	"github.com/placementhub/placementhub/internal/app/system/limits"
	"github.com/placementhub/placementhub/internal/app/system/normalize"
	"github.com/placementhub/placementhub/internal/app/system/paging"
	"github.com/placementhub/placementhub/internal/app/system/timeouts"
	"github.com/placementhub/placementhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Posts    *poststore.Store
	Users    *userstore.Store
	AI       *aibackend.Client
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(posts *poststore.Store, users *userstore.Store, ai *aibackend.Client, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Posts: posts, Users: users, AI: ai, AuditLog: audit, Log: logger}
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	UserID      string `json:"userId"`
}

// ServeCreate handles POST /post. The raw title and description go to the
// summarization backend, which extracts the structured fields; the post is
// persisted only after the summary passes contract validation.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" || req.UserID == "" {
		httpjson.Error(w, h.Log, apierror.Validation("title, description, and userId are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	// A missing creating user is the caller's mistake, not an outage.
	user, err := h.Users.GetByID(ctx, req.UserID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apierror.Validation("creating user not found"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	summary, err := h.AI.Summarize(ctx, req.Title, req.Description)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	post := buildPost(req, summary, user)

	created, err := h.Posts.Create(ctx, post)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.AuditLog.PostCreated(ctx, r, actorID(r), created.ID, created.Type)

	httpjson.Respond(w, http.StatusCreated, map[string]any{
		"success": true,
		"post":    created,
	})
}

// buildPost merges the request, the validated summary, and the author
// snapshot into a post document. Summary fields win over the raw request
// where both carry a value.
func buildPost(req createRequest, summary *aibackend.Summary, user *models.User) models.Post {
	title := strings.TrimSpace(summary.Title)
	if title == "" {
		title = req.Title
	}
	content := summary.Content
	if content == "" {
		content = req.Description
	}

	post := models.Post{
		Title:            title,
		Content:          htmlsanitize.Sanitize(content),
		Company:          summary.Company,
		Website:          summary.Website,
		RegistrationLink: summary.RegistrationLink,
		Role:             summary.Role,
		CTC:              summary.CTC,
		Type:             summary.Type,
		Author:           models.Author{Name: user.Name},

		Responsibilities:   summary.Responsibilities,
		Benefits:           summary.Benefits,
		ApplicationProcess: summary.ApplicationProcess,
	}

	criteria := models.Criteria{
		CGPA:       summary.Criteria.CGPA,
		Backlogs:   summary.Criteria.Backlogs,
		Skills:     normalize.StringList(summary.Criteria.Skills, limits.MaxSkillEntryLen),
		Courses:    normalize.StringList(summary.Criteria.Courses, limits.MaxCourseEntryLen),
		Experience: summary.Criteria.Experience,
	}
	if criteria.CGPA != nil || criteria.Backlogs != nil || criteria.Skills != nil ||
		criteria.Courses != nil || criteria.Experience != "" {
		post.Criteria = &criteria
	}

	if summary.Eligibility.MinCGPA != "" || len(summary.Eligibility.Branches) > 0 || len(summary.Eligibility.Batch) > 0 {
		post.Eligibility = &models.Eligibility{
			MinCGPA:  summary.Eligibility.MinCGPA,
			Branches: summary.Eligibility.Branches,
			Batches:  summary.Eligibility.Batch,
		}
	}
	return post
}

// ServeList handles GET /post, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	limit := paging.ParseLimit(r)
	after := primitive.NilObjectID
	if cursor := paging.ParseAfter(r); cursor != "" {
		var err error
		after, err = primitive.ObjectIDFromHex(cursor)
		if err != nil {
			httpjson.Error(w, h.Log, apierror.Validation("invalid after cursor"))
			return
		}
	}

	fetch := int64(0)
	if limit > 0 {
		fetch = int64(limit) + 1
	}
	list, err := h.Posts.List(ctx, fetch, after)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	page := paging.TrimPage(&list, limit)
	if list == nil {
		list = []models.Post{}
	}
	resp := map[string]any{"posts": list}
	if limit > 0 {
		resp["hasNext"] = page.HasNext
	}
	httpjson.Respond(w, http.StatusOK, resp)
}

// ServeGet handles GET /post/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apierror.NotFound("post"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"post": post})
}

// ServeDelete handles DELETE /post/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	n, err := h.Posts.Delete(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if n == 0 {
		httpjson.Error(w, h.Log, apierror.NotFound("post"))
		return
	}

	h.AuditLog.PostDeleted(ctx, r, actorID(r), id)

	httpjson.Respond(w, http.StatusOK, map[string]any{"success": true})
}

// eligibilityUser is the user-facing half of the eligibility payload.
// Skills are left empty on purpose; the eligibility service fills them in
// from its own data.
type eligibilityUser struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Course         string   `json:"course"`
	Stream         string   `json:"stream"`
	Batch          string   `json:"batch"`
	Institute      string   `json:"institute"`
	AvgCGPA        float64  `json:"avg_cgpa"`
	ActiveBacklogs int      `json:"activeBacklogs"`
	SkillsCount    int      `json:"skillsCount"`
	Skills         []string `json:"skills"`
}

type eligibilityPost struct {
	PostID      string              `json:"postId"`
	Title       string              `json:"title"`
	Type        string              `json:"type"`
	Criteria    *models.Criteria    `json:"criteria"`
	Eligibility *models.Eligibility `json:"eligibility"`
}

// ServeEligibility handles GET /post/{id}/eligibility/{userId}: it builds
// the combined user/post payload and relays the eligibility service's
// response verbatim.
func (h *Handler) ServeEligibility(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		httpjson.Error(w, h.Log, apierror.Validation("user ID is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	post, user, err := h.loadPostAndUser(ctx, id, userID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	criteria := post.Criteria
	if criteria == nil {
		criteria = &models.Criteria{}
	}
	eligibility := post.Eligibility
	if eligibility == nil {
		eligibility = &models.Eligibility{}
	}

	payload := map[string]any{
		"user": eligibilityUser{
			ID:             user.ID,
			Name:           user.Name,
			Course:         orNotSpecified(user.Course),
			Stream:         orNotSpecified(user.Stream),
			Batch:          orNotSpecified(user.Batch),
			Institute:      orNotSpecified(user.Institute),
			AvgCGPA:        academics.AverageCGPA(user),
			ActiveBacklogs: academics.ActiveBacklogs(user),
			SkillsCount:    0,
			Skills:         []string{},
		},
		"post": eligibilityPost{
			PostID:      post.ID.Hex(),
			Title:       post.Title,
			Type:        post.Type,
			Criteria:    criteria,
			Eligibility: eligibility,
		},
	}

	result, err := h.AI.CheckEligibility(ctx, payload)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.RespondRaw(w, http.StatusOK, result)
}

// ServePlanner handles GET /post/{id}/planner?userId=…: it merges the
// user's academic track with the post's role details and relays the
// planner service's response alongside the payload it was given.
func (h *Handler) ServePlanner(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		httpjson.Error(w, h.Log, apierror.Validation("user ID is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	post, user, err := h.loadPostAndUser(ctx, id, userID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	company := post.Company
	if company == "" {
		company = "Unknown"
	}
	role := post.Role
	if role == "" {
		role = "N/A"
	}
	ctc := post.CTC
	if ctc == "" {
		ctc = "N/A"
	}
	applicationProcess := post.ApplicationProcess
	if applicationProcess == nil {
		applicationProcess = []string{}
	}
	skills := []string{}
	courses := []string{}
	if post.Criteria != nil {
		if post.Criteria.Skills != nil {
			skills = post.Criteria.Skills
		}
		if post.Criteria.Courses != nil {
			courses = post.Criteria.Courses
		}
	}

	payload := map[string]any{
		"course":             user.Course,
		"stream":             user.Stream,
		"company":            company,
		"role":               role,
		"ctc":                ctc,
		"applicationProcess": applicationProcess,
		"criteria": map[string]any{
			"skills":  skills,
			"courses": courses,
		},
	}

	plan, err := h.AI.GeneratePlan(ctx, payload)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]any{
		"message":    "Planner generated successfully",
		"payload":    payload,
		"aiResponse": plan,
	})
}

func (h *Handler) loadPostAndUser(ctx context.Context, id primitive.ObjectID, userID string) (*models.Post, *models.User, error) {
	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, apierror.NotFound("post")
		}
		return nil, nil, err
	}
	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, apierror.NotFound("user")
		}
		return nil, nil, err
	}
	return post, user, nil
}

func postID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apierror.Validation("invalid post id")
	}
	return id, nil
}

func orNotSpecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

func actorID(r *http.Request) string {
	if u, ok := auth.CurrentUser(r); ok {
		return u.ID
	}
	return ""
}
