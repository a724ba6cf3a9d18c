package customers

import (
	"time"

	"github.com/meridian-crm/meridian/internal/shared"
)

// Customer is a persisted customer row. DeletedAt non-nil means the row is
// soft-deleted and must never surface through not-deleted queries.
type Customer struct {
	ID          int64
	UUID        string
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Status      shared.Status
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
}

// ProductRef is a lightweight reference to an owned product, used when
// detaching on delete and when inspecting a customer's product list.
type ProductRef struct {
	ID     int64
	Name   string
	Status shared.Status
}
