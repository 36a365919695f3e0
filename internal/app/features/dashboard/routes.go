// internal/app/features/dashboard/routes.go
package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a chi.Router with the dashboard pages mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.ServeDashboard)
	r.Post("/range", h.HandleRangeChange)
	r.Get("/print", h.ServePrint)
	return r
}

// APIRoutes returns a chi.Router with the JSON outcomes API mounted.
func APIRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.ServeSnapshot)
	r.Get("/history", h.ServeHistory)
	return r
}
