package customers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-crm/meridian/internal/shared"
)

// maxIDAttempts bounds the generate-check-retry loop for external
// identifiers. The namespace makes more than one round vanishingly unlikely.
const maxIDAttempts = 5

// Service owns customer business rules on top of the repository.
type Service struct {
	repo  Repository
	newID func() string
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, newID: uuid.NewString}
}

// List returns all customers that are not soft-deleted.
func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.ListNotDeleted(ctx)
}

// Get resolves a live customer by id.
func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.GetNotDeleted(ctx, id)
}

// Products returns the live products currently attached to the customer.
func (s *Service) Products(ctx context.Context, id int64) ([]ProductRef, error) {
	if _, err := s.repo.GetNotDeleted(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ProductsOf(ctx, id)
}

// Create validates nothing itself (the handler owns form validation); it
// assigns a unique uuid, persists the row and re-fetches it for the response.
func (s *Service) Create(ctx context.Context, form CustomerForm) (*Customer, error) {
	now := time.Now().UTC()
	candidate := Customer{
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		DateOfBirth: parseBirth(form.DateOfBirth),
		Status:      shared.CoerceStatus(form.Status),
		CreatedAt:   now,
	}

	var id int64
	for attempt := 0; ; attempt++ {
		if attempt == maxIDAttempts {
			return nil, fmt.Errorf("customers: exhausted uuid attempts")
		}
		candidate.UUID = s.newID()
		exists, err := s.repo.UUIDExists(ctx, candidate.UUID)
		if err != nil {
			return nil, fmt.Errorf("customers: check uuid: %w", err)
		}
		if exists {
			continue
		}
		err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
			var txErr error
			id, txErr = repo.Create(ctx, candidate)
			return txErr
		})
		if IsUniqueViolation(err) {
			// Lost the race between the existence check and the insert.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("customers: create: %w", err)
		}
		break
	}

	return s.repo.GetNotDeleted(ctx, id)
}

// Update overwrites the mutable fields of a live customer and returns the
// refreshed row. The uuid assigned at creation never changes.
func (s *Service) Update(ctx context.Context, id int64, form CustomerForm) (*Customer, error) {
	existing, err := s.repo.GetNotDeleted(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.FirstName = form.FirstName
	existing.LastName = form.LastName
	existing.DateOfBirth = parseBirth(form.DateOfBirth)
	existing.Status = shared.CoerceStatus(form.Status)

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.Update(ctx, id, *existing)
	})
	if err != nil {
		return nil, fmt.Errorf("customers: update: %w", err)
	}

	return s.repo.GetNotDeleted(ctx, id)
}

// Delete detaches every owned product and stamps deleted_at, all in one
// transaction. The row is never physically removed. It returns the product
// ids that were detached.
func (s *Service) Delete(ctx context.Context, id int64) ([]int64, error) {
	if _, err := s.repo.GetNotDeleted(ctx, id); err != nil {
		return nil, err
	}

	var detached []int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		refs, err := repo.ProductsOf(ctx, id)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			detached = append(detached, ref.ID)
		}
		if err := repo.DetachAllProducts(ctx, id); err != nil {
			return err
		}
		return repo.SoftDelete(ctx, id, time.Now().UTC())
	})
	if err != nil {
		return nil, fmt.Errorf("customers: delete: %w", err)
	}
	return detached, nil
}

// AttachProduct links the product to the customer and returns the refreshed
// customer. Both endpoints must be live.
func (s *Service) AttachProduct(ctx context.Context, id, productID int64) (*Customer, error) {
	if _, err := s.repo.GetNotDeleted(ctx, id); err != nil {
		return nil, err
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.AttachProduct(ctx, id, productID)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetNotDeleted(ctx, id)
}

// DetachProduct clears the link and returns the refreshed customer.
func (s *Service) DetachProduct(ctx context.Context, id, productID int64) (*Customer, error) {
	if _, err := s.repo.GetNotDeleted(ctx, id); err != nil {
		return nil, err
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.DetachProduct(ctx, id, productID)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetNotDeleted(ctx, id)
}
