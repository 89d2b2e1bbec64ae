// Package organizations serves organization CRUD for the placement cell.
package organizations

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	organizationstore "github.com/placementhub/placementhub/internal/app/store/organizations"
	"github.com/placementhub/placementhub/internal/app/system/apierror"
	"github.com/placementhub/placementhub/internal/app/system/auditlog"
	"github.com/placementhub/placementhub/internal/app/system/auth"
	"github.com/placementhub/placementhub/internal/app/system/httpjson"
	"github.com/placementhub/placementhub/internal/app/system/timeouts"
	"github.com/placementhub/placementhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Orgs     *organizationstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(orgs *organizationstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Orgs:     orgs,
		AuditLog: audit,
		Log:      logger,
	}
}

type createRequest struct {
	Name     string `json:"name"`
	College  string `json:"college"`
	Capacity int    `json:"capacity"`
}

// ServeCreate handles POST /organization.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpjson.Error(w, h.Log, apierror.Validation("name is required"))
		return
	}
	if req.Capacity < 0 {
		httpjson.Error(w, h.Log, apierror.Validation("capacity must not be negative"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	org, err := h.Orgs.Create(ctx, models.Organization{
		Name:     req.Name,
		College:  strings.TrimSpace(req.College),
		Capacity: req.Capacity,
	})
	if err == organizationstore.ErrDuplicateOrganization {
		httpjson.Error(w, h.Log, apierror.Conflict(err.Error()))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.AuditLog.OrgCreated(ctx, r, actorID(r), org.ID, org.Name)
	httpjson.Respond(w, http.StatusCreated, map[string]any{"success": true, "organization": org})
}

// ServeList handles GET /organization.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	orgs, err := h.Orgs.List(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"organizations": orgs})
}

// ServeGet handles GET /organization/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := orgID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	org, err := h.Orgs.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apierror.NotFound("organization"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"organization": org})
}

// ServeUpdate handles PUT /organization/{id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := orgID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var upd organizationstore.Update
	if err := httpjson.Decode(w, r, &upd); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		httpjson.Error(w, h.Log, apierror.Validation("name must not be empty"))
		return
	}
	if upd.Capacity != nil && *upd.Capacity < 0 {
		httpjson.Error(w, h.Log, apierror.Validation("capacity must not be negative"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	org, err := h.Orgs.Update(ctx, id, upd)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apierror.NotFound("organization"))
		return
	}
	if err == organizationstore.ErrDuplicateOrganization {
		httpjson.Error(w, h.Log, apierror.Conflict(err.Error()))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.AuditLog.OrgUpdated(ctx, r, actorID(r), org.ID)
	httpjson.Respond(w, http.StatusOK, map[string]any{"success": true, "organization": org})
}

// ServeDelete handles DELETE /organization/{id}. Deletion is immediate
// and irreversible.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := orgID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	n, err := h.Orgs.Delete(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if n == 0 {
		httpjson.Error(w, h.Log, apierror.NotFound("organization"))
		return
	}

	h.AuditLog.OrgDeleted(ctx, r, actorID(r), id)
	httpjson.Respond(w, http.StatusOK, map[string]any{"success": true})
}

func orgID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apierror.Validation("invalid organization id")
	}
	return id, nil
}

func actorID(r *http.Request) string {
	if u, ok := auth.CurrentUser(r); ok {
		return u.ID
	}
	return ""
}
