package products

import (
	"time"

	"github.com/meridian-crm/meridian/internal/customers"
	"github.com/meridian-crm/meridian/internal/shared"
)

// Product is a persisted product row. The association to its owning customer
// is optional; Customer is populated from the FK when one is set and the
// customer itself is not soft-deleted.
type Product struct {
	ID         int64
	ISSN       string
	Name       string
	Status     shared.Status
	CustomerID *int64
	Customer   *customers.Customer
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
}
