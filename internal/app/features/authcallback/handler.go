// Package authcallback provisions local user records from the identity
// provider's post-login callback. The frontend completes the OAuth dance
// with the provider and posts the resulting subject here; we get-or-create
// the matching user document.
package authcallback

import (
	"context"
	"net/http"

	userstore "github.com/placementhub/placementhub/internal/app/store/users"
	"github.com/placementhub/placementhub/internal/app/system/apierror"
	"github.com/placementhub/placementhub/internal/app/system/auditlog"
	"github.com/placementhub/placementhub/internal/app/system/auth"
	"github.com/placementhub/placementhub/internal/app/system/httpjson"
	"github.com/placementhub/placementhub/internal/app/system/timeouts"
	"github.com/placementhub/placementhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves POST /auth/callback.
type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(users *userstore.Store, sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Log:        logger,
	}
}

type callbackRequest struct {
	User struct {
		ID    string `json:"$id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"user"`
}

type callbackResponse struct {
	Success         bool         `json:"success"`
	User            *models.User `json:"user"`
	NeedsOnboarding bool         `json:"needsOnboarding"`
}

// ServeCallback handles POST /auth/callback. The user is looked up by the
// identity provider's subject id and created on first login. The response
// tells the frontend whether to route into the onboarding wizard.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	var req callbackRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if req.User.ID == "" {
		httpjson.Error(w, h.Log, apierror.Validation("user.$id is required"))
		return
	}
	if req.User.Email == "" {
		httpjson.Error(w, h.Log, apierror.Validation("user.email is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	user, created, err := h.getOrCreate(ctx, req)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if h.SessionMgr != nil {
		if err := h.SessionMgr.Issue(w, r, &auth.SessionUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		}); err != nil {
			h.Log.Warn("failed to issue session", zap.Error(err), zap.String("user_id", user.ID))
		}
	}

	if created {
		h.AuditLog.UserCreated(ctx, r, user.ID, user.Email)
	} else {
		h.AuditLog.LoginSuccess(ctx, r, user.ID, user.Email)
	}

	httpjson.Respond(w, http.StatusOK, callbackResponse{
		Success:         true,
		User:            user,
		NeedsOnboarding: !user.IsCompleted,
	})
}

func (h *Handler) getOrCreate(ctx context.Context, req callbackRequest) (*models.User, bool, error) {
	user, err := h.Users.GetByID(ctx, req.User.ID)
	if err == nil {
		return user, false, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, false, err
	}

	created, err := h.Users.Create(ctx, models.User{
		ID:    req.User.ID,
		Name:  req.User.Name,
		Email: req.User.Email,
	})
	if err == userstore.ErrDuplicateEmail {
		return nil, false, apierror.Conflict("a user with this email already exists")
	}
	if err != nil {
		return nil, false, err
	}

	h.Log.Info("new user provisioned",
		zap.String("user_id", created.ID),
		zap.String("email", created.Email))
	return &created, true, nil
}
