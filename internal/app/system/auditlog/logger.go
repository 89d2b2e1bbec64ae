// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/placementhub/placementhub/internal/app/store/audit"
	"github.com/placementhub/placementhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout, account creation).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for data events (user/org/post/invite CRUD).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// NewNopLogger returns a logger that discards every event. Intended for
// tests; Log treats the nil receiver as a no-op.
func NewNopLogger() *Logger {
	return nil
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}

	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.OrganizationID != nil {
		fields = append(fields, zap.String("organization_id", event.OrganizationID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// Logging destination is controlled by config: "all", "db", "log", or "off".
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		// Consistency warnings and unknown categories are always logged.
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    userID,
		IP:        ratelimit.ClientIP(r),
		Success:   true,
		Details: map[string]string{
			"email": email,
		},
	})
}

// LoginFailed logs a failed sign-in attempt.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailed,
		IP:            ratelimit.ClientIP(r),
		Success:       false,
		FailureReason: reason,
	})
}

// Logout logs a user logout.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    userID,
		IP:        ratelimit.ClientIP(r),
		Success:   true,
	})
}

// UserCreated logs when a new account is provisioned from an identity
// provider callback.
func (l *Logger) UserCreated(ctx context.Context, r *http.Request, userID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventUserCreated,
		UserID:    userID,
		IP:        ratelimit.ClientIP(r),
		Success:   true,
		Details: map[string]string{
			"email": email,
		},
	})
}

// --- Data Events ---

// UserUpdated logs a profile update.
func (l *Logger) UserUpdated(ctx context.Context, r *http.Request, actorID, targetUserID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserUpdated,
		UserID:    targetUserID,
		ActorID:   actorID,
		IP:        ratelimit.ClientIP(r),
		Success:   true,
	})
}

// UserDeleted logs a user deletion.
func (l *Logger) UserDeleted(ctx context.Context, r *http.Request, actorID, targetUserID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserDeleted,
		UserID:    targetUserID,
		ActorID:   actorID,
		IP:        ratelimit.ClientIP(r),
		Success:   true,
	})
}

// OnboardingCompleted logs when a user finishes onboarding.
func (l *Logger) OnboardingCompleted(ctx context.Context, r *http.Request, userID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventOnboardingCompleted,
		UserID:    userID,
		IP:        ratelimit.ClientIP(r),
		Success:   true,
	})
}

// OrgCreated logs when an organization is created.
func (l *Logger) OrgCreated(ctx context.Context, r *http.Request, actorID string, orgID primitive.ObjectID, orgName string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventOrgCreated,
		ActorID:        actorID,
		OrganizationID: &orgID,
		IP:             ratelimit.ClientIP(r),
		Success:        true,
		Details: map[string]string{
			"org_name": orgName,
		},
	})
}

// OrgUpdated logs when an organization is updated.
func (l *Logger) OrgUpdated(ctx context.Context, r *http.Request, actorID string, orgID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventOrgUpdated,
		ActorID:        actorID,
		OrganizationID: &orgID,
		IP:             ratelimit.ClientIP(r),
		Success:        true,
	})
}

// OrgDeleted logs when an organization is deleted.
func (l *Logger) OrgDeleted(ctx context.Context, r *http.Request, actorID string, orgID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventOrgDeleted,
		ActorID:        actorID,
		OrganizationID: &orgID,
		IP:             ratelimit.ClientIP(r),
		Success:        true,
	})
}

// PostCreated logs when a post is published.
func (l *Logger) PostCreated(ctx context.Context, r *http.Request, actorID string, postID primitive.ObjectID, postType string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventPostCreated,
		ActorID:   actorID,
		IP:        ratelimit.ClientIP(r),
		Success:   true,
		Details: map[string]string{
			"post_id":   postID.Hex(),
			"post_type": postType,
		},
	})
}

// PostDeleted logs when a post is removed.
func (l *Logger) PostDeleted(ctx context.Context, r *http.Request, actorID string, postID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventPostDeleted,
		ActorID:   actorID,
		IP:        ratelimit.ClientIP(r),
		Success:   true,
		Details: map[string]string{
			"post_id": postID.Hex(),
		},
	})
}

// InviteCreated logs when an invitation is issued.
func (l *Logger) InviteCreated(ctx context.Context, r *http.Request, actorID string, inviteID, orgID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventInviteCreated,
		ActorID:        actorID,
		OrganizationID: &orgID,
		IP:             ratelimit.ClientIP(r),
		Success:        true,
		Details: map[string]string{
			"invite_id": inviteID.Hex(),
			"email":     email,
		},
	})
}

// --- Consistency Events ---

// InviteBackrefFailed records that an invitation was created but the
// back-reference on the invited user could not be written. The invite is
// still valid; the user document is just missing the pointer.
func (l *Logger) InviteBackrefFailed(ctx context.Context, inviteID primitive.ObjectID, userID string, cause error) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryConsistency,
		EventType:     audit.EventInviteBackrefFailed,
		UserID:        userID,
		Success:       false,
		FailureReason: cause.Error(),
		Details: map[string]string{
			"invite_id": inviteID.Hex(),
		},
	})
}
