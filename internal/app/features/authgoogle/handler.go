// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/placementhub/placementhub/internal/app/store/oauthstate"
	userstore "github.com/placementhub/placementhub/internal/app/store/users"
	"github.com/placementhub/placementhub/internal/app/system/auditlog"
	"github.com/placementhub/placementhub/internal/app/system/auth"
	"github.com/placementhub/placementhub/internal/app/system/timeouts"
	"github.com/placementhub/placementhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Handler handles Google OAuth authentication.
type Handler struct {
	Users      *userstore.Store
	StateStore *oauthstate.Store
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger

	// OAuth configuration
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "https://placementhub.app/auth/google/callback"

	// FrontendURL is where the browser lands after the dance completes.
	FrontendURL string
}

// NewHandler creates a new Google OAuth handler.
func NewHandler(
	users *userstore.Store,
	stateStore *oauthstate.Store,
	sessionMgr *auth.SessionManager,
	audit *auditlog.Logger,
	clientID, clientSecret, baseURL, frontendURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:        users,
		StateStore:   stateStore,
		SessionMgr:   sessionMgr,
		AuditLog:     audit,
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
		FrontendURL:  frontendURL,
	}
}

// oauth2Config returns the Google OAuth2 configuration.
func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google                                                             |
| Initiates the Google OAuth flow by redirecting to Google's consent screen.   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		h.redirectToFrontend(w, r, "error=google_not_configured")
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		h.redirectToFrontend(w, r, "error=internal")
		return
	}

	returnURL := r.URL.Query().Get("return")

	// Store state with 10-minute expiry
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := h.StateStore.Save(ctx, state, returnURL, expiresAt); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		h.redirectToFrontend(w, r, "error=internal")
		return
	}

	dest := h.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline)

	h.Log.Debug("initiating Google OAuth flow",
		zap.String("return_url", returnURL))

	http.Redirect(w, r, dest, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/callback                                                    |
| Exchanges the code for tokens, fetches user info, gets-or-creates the user,  |
| issues a session cookie, and sends the browser back to the frontend with an  |
| onboarding flag.                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		h.AuditLog.LoginFailed(ctx, r, "provider denied")
		h.redirectToFrontend(w, r, "error=google_denied")
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		h.Log.Warn("missing OAuth state parameter")
		h.redirectToFrontend(w, r, "error=invalid_state")
		return
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, timeouts.Short)
	defer cancel()

	returnURL, valid, err := h.StateStore.Validate(ctxTimeout, state)
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		h.redirectToFrontend(w, r, "error=internal")
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		h.AuditLog.LoginFailed(ctx, r, "invalid state")
		h.redirectToFrontend(w, r, "error=invalid_state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		h.redirectToFrontend(w, r, "error=invalid_code")
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		h.redirectToFrontend(w, r, "error=token_exchange")
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		h.redirectToFrontend(w, r, "error=user_info")
		return
	}

	h.Log.Debug("Google user info fetched",
		zap.String("google_id", googleUser.ID),
		zap.String("email", googleUser.Email))

	user, created, err := h.getOrCreate(ctxTimeout, googleUser)
	if err != nil {
		h.Log.Error("failed to get or create user", zap.Error(err))
		h.redirectToFrontend(w, r, "error=internal")
		return
	}

	if err := h.SessionMgr.Issue(w, r, &auth.SessionUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", user.ID))
		h.redirectToFrontend(w, r, "error=session")
		return
	}

	if created {
		h.AuditLog.UserCreated(ctx, r, user.ID, user.Email)
	}
	h.AuditLog.LoginSuccess(ctx, r, user.ID, user.Email)

	h.Log.Info("user logged in via Google OAuth",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email),
		zap.Bool("created", created))

	params := url.Values{}
	if !user.IsCompleted {
		params.Set("onboarding", "1")
	}
	if returnURL != "" {
		params.Set("return", returnURL)
	}
	h.redirectToFrontend(w, r, params.Encode())
}

// getOrCreate looks up the user by Google subject id, creating the record
// on first login.
func (h *Handler) getOrCreate(ctx context.Context, gu *googleUserInfo) (*models.User, bool, error) {
	user, err := h.Users.GetByID(ctx, gu.ID)
	if err == nil {
		return user, false, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, false, err
	}

	created, err := h.Users.Create(ctx, models.User{
		ID:    gu.ID,
		Name:  gu.Name,
		Email: gu.Email,
	})
	if err != nil {
		return nil, false, err
	}
	return &created, true, nil
}

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	return &info, nil
}

// redirectToFrontend sends the browser back to the frontend with the given
// query string.
func (h *Handler) redirectToFrontend(w http.ResponseWriter, r *http.Request, query string) {
	dest := h.FrontendURL
	if dest == "" {
		dest = "/"
	}
	if query != "" {
		dest += "?" + query
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
