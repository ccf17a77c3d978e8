package logout

import "github.com/go-chi/chi/v5"

// Routes serves /logout. Signed-out visitors are simply sent home, so no
// auth gate is applied.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLogout)
	return r
}
