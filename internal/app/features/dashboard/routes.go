// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"
)

// Routes wires the dashboard feature. It is mounted at "/" and expects the
// visitor middleware to run first.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServePage)
	r.Get("/state", h.ServeState)
	r.Get("/events", h.ServeEvents)

	r.Route("/search", func(sr chi.Router) {
		sr.Post("/query", h.ServeSetQuery)
		sr.Post("/category", h.ServeSetCategory)
		sr.Post("/submit", h.ServeSubmit)
		sr.Post("/recent", h.ServeSelectRecent)
	})

	r.Post("/theme/toggle", h.ServeToggleTheme)
	r.Post("/nav/{tab}", h.ServeNavigate)
	r.Post("/company", h.ServeLoadCompany)

	return r
}
