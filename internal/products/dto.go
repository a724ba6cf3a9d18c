package products

import (
	"net/http"
	"time"

	"github.com/meridian-crm/meridian/internal/customers"
	"github.com/meridian-crm/meridian/internal/shared"
)

// ProductForm carries the submitted form fields for create and update.
// customer_id is optional; when present it must resolve to a live customer.
type ProductForm struct {
	Name       string `form:"name" validate:"required,min=2"`
	Status     string `form:"status" validate:"status"`
	CustomerID string `form:"customer_id"`
}

// FormFromRequest reads the form-encoded body into a ProductForm.
func FormFromRequest(r *http.Request) ProductForm {
	return ProductForm{
		Name:       r.PostFormValue("name"),
		Status:     r.PostFormValue("status"),
		CustomerID: r.PostFormValue("customer_id"),
	}
}

// View is the product serialization: {id, customer, name, status,
// created_at}. Customer nests the owning customer's serialization, or an
// empty object when the product is unowned.
type View struct {
	ID        int64         `json:"id"`
	Customer  any           `json:"customer"`
	Name      string        `json:"name"`
	Status    shared.Status `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewView builds the response shape for a product.
func NewView(p Product) View {
	v := View{
		ID:        p.ID,
		Customer:  struct{}{},
		Name:      p.Name,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}
	if p.Customer != nil {
		v.Customer = customers.NewView(*p.Customer)
	}
	return v
}

// NewViews maps a slice of products to views.
func NewViews(list []Product) []View {
	views := make([]View, 0, len(list))
	for _, p := range list {
		views = append(views, NewView(p))
	}
	return views
}
