// Package onboarding completes a signed-up user's profile. The request is
// multipart so the profile fields and the resume file arrive together; the
// resume is stored before any database write so a storage failure leaves
// the user document untouched.
package onboarding

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/placementhub/placementhub/internal/app/features/uploads"
	userstore "github.com/placementhub/placementhub/internal/app/store/users"
	"github.com/placementhub/placementhub/internal/app/system/apierror"
	"github.com/placementhub/placementhub/internal/app/system/auditlog"
	"github.com/placementhub/placementhub/internal/app/system/httpjson"
	"github.com/placementhub/placementhub/internal/app/system/limits"
	"github.com/placementhub/placementhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users    *userstore.Store
	Storage  storage.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, store storage.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Storage: store, AuditLog: audit, Log: logger}
}

// ServeComplete handles POST /onboarding. Multipart fields: userId,
// updateData (a JSON object of profile fields), and an optional resume
// file.
func (h *Handler) ServeComplete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(limits.MaxUploadSize); err != nil {
		httpjson.Error(w, h.Log, apierror.Validation("invalid multipart form"))
		return
	}

	userID := strings.TrimSpace(r.FormValue("userId"))
	if userID == "" {
		httpjson.Error(w, h.Log, apierror.Validation("user ID is required"))
		return
	}

	var upd userstore.Update
	if raw := r.FormValue("updateData"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &upd); err != nil {
			httpjson.Error(w, h.Log, apierror.Validation("updateData is not valid JSON"))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	// Store the resume first. Nothing is written to the user document
	// until the upload has succeeded.
	var resumeFileID string
	if file, header, err := r.FormFile("resume"); err == nil {
		defer file.Close()
		resumeFileID, err = uploads.Put(ctx, h.Storage, "resumes", header.Filename, file, header.Header.Get("Content-Type"))
		if err != nil {
			h.Log.Error("resume upload failed",
				zap.String("user_id", userID),
				zap.String("file_name", header.Filename),
				zap.Error(err))
			httpjson.Error(w, h.Log, apierror.Unavailable("file storage", err))
			return
		}
	}

	user, err := h.Users.CompleteOnboarding(ctx, userID, upd, resumeFileID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apierror.NotFound("user"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	h.AuditLog.OnboardingCompleted(ctx, r, userID)

	resp := map[string]any{
		"success": true,
		"user":    user,
	}
	if resumeFileID != "" {
		resp["resumeFileId"] = resumeFileID
	}
	httpjson.Respond(w, http.StatusOK, resp)
}
