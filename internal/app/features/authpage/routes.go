// internal/app/features/authpage/routes.go
package authpage

import "github.com/go-chi/chi/v5"

// Routes wires the sign-in flow under "/auth". None of it requires a session.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeAuth)
	r.Post("/", h.HandleAuthPost)
	r.Get("/verify", h.ServeVerify)
	r.Post("/verify", h.HandleVerifyPost)
	return r
}
