package posts

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeCreate)
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeGet)
	r.Delete("/{id}", h.ServeDelete)
	r.Get("/{id}/eligibility/{userId}", h.ServeEligibility)
	r.Get("/{id}/planner", h.ServePlanner)
	return r
}
