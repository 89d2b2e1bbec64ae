// internal/app/features/authcallback/routes.go
package authcallback

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the identity-provider callback.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeCallback) // mounted under /auth/callback
	return r
}
