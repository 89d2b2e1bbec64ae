// Package invites serves invitation creation for placement-cell staff.
// Creation is an ordered pipeline touching two collections: the invite
// document and a back-reference on the invited user. There is no
// cross-collection transaction, so a failed back-reference leaves a
// detectable inconsistency that is logged rather than hidden.
package invites

import (
	"context"
	"net/http"
	"strings"

	invitestore "github.com/placementhub/placementhub/internal/app/store/invites"
	organizationstore "github.com/placementhub/placementhub/internal/app/store/organizations"
	userstore "github.com/placementhub/placementhub/internal/app/store/users"
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
	Users    *userstore.Store
	Invites  *invitestore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger

	// BaseURL is the public origin used to build accept-invite links.
	BaseURL string
}

func NewHandler(orgs *organizationstore.Store, users *userstore.Store, invites *invitestore.Store, audit *auditlog.Logger, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Orgs:     orgs,
		Users:    users,
		Invites:  invites,
		AuditLog: audit,
		Log:      logger,
		BaseURL:  baseURL,
	}
}

type createRequest struct {
	OrgID     string `json:"orgId"`
	Email     string `json:"email"`
	CreatedBy string `json:"createdBy"`
}

// ServeCreate handles POST /invite. The steps run strictly in order:
// organization exists, invitee exists, no pending duplicate, create the
// invite, append the back-reference.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if req.OrgID == "" || strings.TrimSpace(req.Email) == "" || req.CreatedBy == "" {
		httpjson.Error(w, h.Log, apierror.Validation("orgId, email, and createdBy are required"))
		return
	}
	orgID, err := primitive.ObjectIDFromHex(req.OrgID)
	if err != nil {
		httpjson.Error(w, h.Log, apierror.Validation("invalid orgId"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	// 1. Organization must exist. No writes happen before this check.
	if _, err := h.Orgs.GetByID(ctx, orgID); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apierror.NotFound("organization"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	// 2. The invited email must belong to an existing user.
	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apierror.NotFound("user with this email"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	// 3. At most one pending invite per (organization, email). Two
	// concurrent requests can both pass this check; the partial unique
	// index turns the loser's insert into ErrDuplicatePending below.
	pending, err := h.Invites.HasPending(ctx, orgID, req.Email)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if pending {
		httpjson.Error(w, h.Log, apierror.Conflict("user already has an invite for this organization"))
		return
	}

	// 4. Create the invite.
	invite, err := h.Invites.Create(ctx, orgID, req.Email, req.CreatedBy)
	if err == invitestore.ErrDuplicatePending {
		httpjson.Error(w, h.Log, apierror.Conflict(err.Error()))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	// 5. Append the invite id to the invitee's list. The invite document
	// already exists at this point; if the append fails we record the
	// inconsistency with both ids so an operator can reconcile it.
	if err := h.Users.AppendInvite(ctx, user.ID, invite.ID); err != nil {
		h.Log.Error("invite created but user back-reference failed",
			zap.String("invite_id", invite.ID.Hex()),
			zap.String("user_id", user.ID),
			zap.Error(err))
		h.AuditLog.InviteBackrefFailed(ctx, invite.ID, user.ID, err)
		httpjson.Error(w, h.Log, apierror.Unavailable("invite service", err))
		return
	}

	h.AuditLog.InviteCreated(ctx, r, actorID(r), invite.ID, orgID, invite.Email)

	httpjson.Respond(w, http.StatusOK, map[string]any{
		"message":    "Invite created successfully",
		"invite":     invite,
		"inviteLink": h.BaseURL + "/accept-invite?token=" + invite.Token,
	})
}

// ServeListForEmail handles GET /invite?email=… for staff tooling.
func (h *Handler) ServeListForEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		httpjson.Error(w, h.Log, apierror.Validation("email is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	list, err := h.Invites.ListForEmail(ctx, email)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.Invite{}
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"invites": list})
}

func actorID(r *http.Request) string {
	if u, ok := auth.CurrentUser(r); ok {
		return u.ID
	}
	return ""
}
