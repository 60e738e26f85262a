// internal/app/features/admin/users/routes.go
package users

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreatePost)
	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}", h.HandleUpdatePost)
	r.Post("/{id}/role", h.HandleRolePost)
	r.Post("/{id}/delete", h.HandleDeletePost)
	return r
}
