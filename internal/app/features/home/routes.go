// internal/app/features/home/routes.go
package home

import (
	"github.com/eyemusician1/pacsmin/internal/app/system/paging"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve)
	return r
}

// upcomingPreview limits the landing page to the next three events.
func upcomingPreview() paging.Page {
	return paging.Page{Limit: 3}
}
