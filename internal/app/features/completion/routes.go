// internal/app/features/completion/routes.go
package completion

import (
	"github.com/asceticjourney/journey/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the completion view under "/journey/complete".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeComplete)
		pr.Get("/share.txt", h.ServeShareText)
		pr.Get("/card.png", h.ServeCard)
		pr.Get("/stats.json", h.ServeStatsJSON)
	})

	return r
}
