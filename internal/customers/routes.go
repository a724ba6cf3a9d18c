package customers

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/customers", h.Index)
	r.Post("/customers", h.Create)
	r.Get("/customers/{id}", h.Read)
	r.Post("/customers/{id}", h.Update)
	r.Delete("/customers/{id}", h.Delete)
	r.Post("/customers/{id}/product/{product_id}", h.AttachProduct)
	r.Delete("/customers/{id}/product/{product_id}", h.DetachProduct)
}
