// Package users serves the user roster and profile CRUD endpoints.
package users

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	rolestore "github.com/placementhub/placementhub/internal/app/store/roles"
	userstore "github.com/placementhub/placementhub/internal/app/store/users"
	"github.com/placementhub/placementhub/internal/app/system/apierror"
	"github.com/placementhub/placementhub/internal/app/system/auditlog"
	"github.com/placementhub/placementhub/internal/app/system/auth"
	"github.com/placementhub/placementhub/internal/app/system/csvutil"
	"github.com/placementhub/placementhub/internal/app/system/httpjson"
	"github.com/placementhub/placementhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users    *userstore.Store
	Roles    *rolestore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, roles *rolestore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Roles:    roles,
		AuditLog: audit,
		Log:      logger,
	}
}

// ServeList handles GET /user.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"users": users})
}

// ServeExportCSV handles GET /user/export.csv. Placement cells pull the
// roster into spreadsheets for drive planning.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="users.csv"`)
	if err := csvutil.WriteUsers(w, users); err != nil {
		// Headers are already out; all we can do is log.
		h.Log.Error("user csv export failed", zap.Error(err))
	}
}

// ServeGet handles GET /user/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	user, err := h.Users.GetByID(ctx, chi.URLParam(r, "id"))
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apierror.NotFound("user"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"user": user})
}

// ServeUpdate handles PUT /user/{id}. The store recomputes the derived
// backlog count whenever any semester field changes.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	var upd userstore.Update
	if err := httpjson.Decode(w, r, &upd); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	id := chi.URLParam(r, "id")
	user, err := h.Users.Update(ctx, id, upd)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, h.Log, apierror.NotFound("user"))
		return
	}
	if err == userstore.ErrDuplicateEmail {
		httpjson.Error(w, h.Log, apierror.Conflict(err.Error()))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.AuditLog.UserUpdated(ctx, r, actorID(r), id)
	httpjson.Respond(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

// ServeDelete handles DELETE /user/{id}. Deletion is immediate; there is
// no soft-delete.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	id := chi.URLParam(r, "id")
	n, err := h.Users.Delete(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if n == 0 {
		httpjson.Error(w, h.Log, apierror.NotFound("user"))
		return
	}

	h.AuditLog.UserDeleted(ctx, r, actorID(r), id)
	httpjson.Respond(w, http.StatusOK, map[string]any{"success": true})
}

// ServeRole handles GET /user/role. The subject is the session principal
// when one is signed in, else the userId query parameter. Users without a
// role record get the default role.
func (h *Handler) ServeRole(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if u, ok := auth.CurrentUser(r); ok {
		userID = u.ID
	}
	if q := r.URL.Query().Get("userId"); q != "" {
		userID = q
	}
	if userID == "" {
		httpjson.Error(w, h.Log, apierror.Validation("userId is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	role, err := h.Roles.RoleForUser(ctx, userID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"role": role})
}

// actorID returns the session principal's id, if any, for audit entries.
func actorID(r *http.Request) string {
	if u, ok := auth.CurrentUser(r); ok {
		return u.ID
	}
	return ""
}
