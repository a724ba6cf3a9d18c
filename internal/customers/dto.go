package customers

import (
	"net/http"
	"time"

	"github.com/meridian-crm/meridian/internal/shared"
)

// CustomerForm carries the submitted form fields for create and update.
type CustomerForm struct {
	FirstName   string `form:"first_name" validate:"required,min=2"`
	LastName    string `form:"last_name" validate:"required,min=2"`
	Status      string `form:"status" validate:"status"`
	DateOfBirth string `form:"date_of_birth" validate:"required"`
}

// FormFromRequest reads the form-encoded body into a CustomerForm.
func FormFromRequest(r *http.Request) CustomerForm {
	return CustomerForm{
		FirstName:   r.PostFormValue("first_name"),
		LastName:    r.PostFormValue("last_name"),
		Status:      r.PostFormValue("status"),
		DateOfBirth: r.PostFormValue("date_of_birth"),
	}
}

var birthLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339}

// parseBirth accepts the date formats clients have historically sent.
// Unparseable input falls back to the current time rather than erroring;
// validation only requires the field to be non-blank.
func parseBirth(s string) time.Time {
	for _, layout := range birthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}

// View is the customer serialization: {id, first_name, last_name, status,
// birth, created_at}.
type View struct {
	ID        int64         `json:"id"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Status    shared.Status `json:"status"`
	Birth     string        `json:"birth"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewView builds the response shape for a customer.
func NewView(c Customer) View {
	return View{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Status:    c.Status,
		Birth:     c.DateOfBirth.Format("2006-01-02"),
		CreatedAt: c.CreatedAt,
	}
}

// NewViews maps a slice of customers to views.
func NewViews(list []Customer) []View {
	views := make([]View, 0, len(list))
	for _, c := range list {
		views = append(views, NewView(c))
	}
	return views
}
