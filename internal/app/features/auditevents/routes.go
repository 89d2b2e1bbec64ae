// internal/app/features/auditevents/routes.go
package auditevents

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /admin/audit.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeQuery)

	return r
}
