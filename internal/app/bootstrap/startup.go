// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/config"
	invitestore "github.com/placementhub/placementhub/internal/app/store/invites"
	rolestore "github.com/placementhub/placementhub/internal/app/store/roles"
	"github.com/placementhub/placementhub/internal/app/system/workers"
	"go.uber.org/zap"
)

// inviteExpiry runs for the life of the process; Shutdown stops it.
var inviteExpiry *workers.InviteExpiry

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.GoogleClientID == "" || appCfg.GoogleClientSecret == "" {
		logger.Warn("Google OAuth is not configured; /auth/google will reject logins")
	}

	if appCfg.AdminUserID != "" {
		if err := ensureAdminRole(ctx, deps, appCfg.AdminUserID, logger); err != nil {
			return err
		}
	}

	inviteExpiry = workers.NewInviteExpiry(invitestore.New(deps.MongoDatabase), logger, time.Hour)
	inviteExpiry.Start()

	return nil
}

// ensureAdminRole grants the configured user the ADMIN role. The role
// record is upserted, so repeating startup with the same id is a no-op.
func ensureAdminRole(ctx context.Context, deps DBDeps, userID string, logger *zap.Logger) error {
	roles := rolestore.New(deps.MongoDatabase)

	current, err := roles.RoleForUser(ctx, userID)
	if err != nil {
		return err
	}
	if current == "ADMIN" {
		return nil
	}

	if err := roles.Set(ctx, userID, "ADMIN"); err != nil {
		return err
	}
	logger.Info("granted ADMIN role",
		zap.String("user_id", userID),
		zap.String("previous_role", current))
	return nil
}
