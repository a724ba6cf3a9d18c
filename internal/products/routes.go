package products

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.Index)
	r.Post("/products", h.Create)
	r.Get("/products/{id}", h.Read)
	r.Post("/products/{id}", h.Update)
	r.Delete("/products/{id}", h.Delete)
	r.Post("/products/{id}/customer/{customer_id}", h.AttachCustomer)
	r.Delete("/products/{id}/customer", h.DetachCustomer)
}
