package products

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/meridian-crm/meridian/internal/customers"
	"github.com/meridian-crm/meridian/internal/shared"
)

const maxIDAttempts = 5

// Service owns product business rules on top of the repository.
type Service struct {
	repo  Repository
	newID func() string
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, newID: newISSN}
}

// newISSN generates an ISSN-style candidate, two groups of four digits.
// Uniqueness comes from the check-and-retry loop plus the unique index.
func newISSN() string {
	var buf [4]byte
	_, _ = rand.Read(buf[:])
	n := binary.BigEndian.Uint32(buf[:]) % 100000000
	return fmt.Sprintf("%04d-%04d", n/10000, n%10000)
}

// List returns all products that are not soft-deleted.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.ListNotDeleted(ctx)
}

// Get resolves a live product by id.
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetNotDeleted(ctx, id)
}

// Pending returns live pending products created before the cutoff, oldest
// first.
func (s *Service) Pending(ctx context.Context, cutoff time.Time) ([]Product, error) {
	return s.repo.PendingOlderThan(ctx, cutoff)
}

// Create assigns a unique issn, optionally attaches the product to a live
// customer, persists and re-fetches. A dangling customer_id is a not-found
// before anything persists.
func (s *Service) Create(ctx context.Context, form ProductForm) (*Product, error) {
	customerID, err := s.resolveCustomer(ctx, form.CustomerID)
	if err != nil {
		return nil, err
	}

	candidate := Product{
		Name:       form.Name,
		Status:     shared.CoerceStatus(form.Status),
		CustomerID: customerID,
		CreatedAt:  time.Now().UTC(),
	}

	var id int64
	for attempt := 0; ; attempt++ {
		if attempt == maxIDAttempts {
			return nil, fmt.Errorf("products: exhausted issn attempts")
		}
		candidate.ISSN = s.newID()
		exists, err := s.repo.ISSNExists(ctx, candidate.ISSN)
		if err != nil {
			return nil, fmt.Errorf("products: check issn: %w", err)
		}
		if exists {
			continue
		}
		err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
			var txErr error
			id, txErr = repo.Create(ctx, candidate)
			return txErr
		})
		if customers.IsUniqueViolation(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("products: create: %w", err)
		}
		break
	}

	return s.repo.GetNotDeleted(ctx, id)
}

// Update overwrites name and status; a submitted customer_id re-attaches the
// product, absence leaves the current owner untouched. The issn assigned at
// creation never changes.
func (s *Service) Update(ctx context.Context, id int64, form ProductForm) (*Product, error) {
	existing, err := s.repo.GetNotDeleted(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = form.Name
	existing.Status = shared.CoerceStatus(form.Status)
	if form.CustomerID != "" {
		customerID, err := s.resolveCustomer(ctx, form.CustomerID)
		if err != nil {
			return nil, err
		}
		existing.CustomerID = customerID
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.Update(ctx, id, *existing)
	})
	if err != nil {
		return nil, fmt.Errorf("products: update: %w", err)
	}

	return s.repo.GetNotDeleted(ctx, id)
}

// Delete detaches the product from its customer and stamps deleted_at in one
// transaction.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetNotDeleted(ctx, id); err != nil {
		return err
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.SoftDelete(ctx, id, time.Now().UTC())
	})
	if err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	return nil
}

// AttachCustomer links the product to a live customer and returns the
// refreshed product.
func (s *Service) AttachCustomer(ctx context.Context, id, customerID int64) (*Product, error) {
	if _, err := s.repo.GetNotDeleted(ctx, id); err != nil {
		return nil, err
	}
	live, err := s.repo.CustomerLive(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !live {
		return nil, shared.ErrNotFound
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.SetCustomer(ctx, id, &customerID)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetNotDeleted(ctx, id)
}

// DetachCustomer clears the owning reference and returns the refreshed
// product.
func (s *Service) DetachCustomer(ctx context.Context, id int64) (*Product, error) {
	if _, err := s.repo.GetNotDeleted(ctx, id); err != nil {
		return nil, err
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.SetCustomer(ctx, id, nil)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetNotDeleted(ctx, id)
}

// resolveCustomer turns a submitted customer_id into a verified live
// customer id, or nil when the field was empty.
func (s *Service) resolveCustomer(ctx context.Context, raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, shared.ErrNotFound
	}
	live, err := s.repo.CustomerLive(ctx, id)
	if err != nil {
		return nil, err
	}
	if !live {
		return nil, shared.ErrNotFound
	}
	return &id, nil
}
