package products

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-crm/meridian/internal/customers"
	"github.com/meridian-crm/meridian/internal/shared"
	_ "github.com/meridian-crm/meridian/testing"
)

// memoryRepo is an in-memory Repository for service tests.
type memoryRepo struct {
	products      map[int64]*Product
	customers     map[int64]*customers.Customer
	nextProductID int64

	issnAlwaysExists bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		products:      make(map[int64]*Product),
		customers:     make(map[int64]*customers.Customer),
		nextProductID: 1,
	}
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, m)
}

func (m *memoryRepo) ListNotDeleted(ctx context.Context) ([]Product, error) {
	var list []Product
	for id := int64(1); id < m.nextProductID; id++ {
		p, ok := m.products[id]
		if !ok || p.DeletedAt != nil {
			continue
		}
		list = append(list, m.withOwner(*p))
	}
	return list, nil
}

func (m *memoryRepo) GetNotDeleted(ctx context.Context, id int64) (*Product, error) {
	p, ok := m.products[id]
	if !ok || p.DeletedAt != nil {
		return nil, shared.ErrNotFound
	}
	copied := m.withOwner(*p)
	return &copied, nil
}

func (m *memoryRepo) ISSNExists(ctx context.Context, issn string) (bool, error) {
	if m.issnAlwaysExists {
		return true, nil
	}
	for _, p := range m.products {
		if p.ISSN == issn {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) Create(ctx context.Context, p Product) (int64, error) {
	id := m.nextProductID
	m.nextProductID++
	p.ID = id
	m.products[id] = &p
	return id, nil
}

func (m *memoryRepo) Update(ctx context.Context, id int64, p Product) error {
	existing, ok := m.products[id]
	if !ok || existing.DeletedAt != nil {
		return nil
	}
	p.ID = id
	p.ISSN = existing.ISSN
	m.products[id] = &p
	return nil
}

func (m *memoryRepo) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	if p, ok := m.products[id]; ok {
		p.DeletedAt = &at
		p.CustomerID = nil
	}
	return nil
}

func (m *memoryRepo) SetCustomer(ctx context.Context, id int64, customerID *int64) error {
	p, ok := m.products[id]
	if !ok || p.DeletedAt != nil {
		return shared.ErrNotFound
	}
	p.CustomerID = customerID
	return nil
}

func (m *memoryRepo) CustomerLive(ctx context.Context, customerID int64) (bool, error) {
	c, ok := m.customers[customerID]
	return ok && c.DeletedAt == nil, nil
}

func (m *memoryRepo) PendingOlderThan(ctx context.Context, cutoff time.Time) ([]Product, error) {
	var list []Product
	for id := int64(1); id < m.nextProductID; id++ {
		p, ok := m.products[id]
		if !ok || p.DeletedAt != nil || p.Status != shared.StatusPending || !p.CreatedAt.Before(cutoff) {
			continue
		}
		list = append(list, m.withOwner(*p))
	}
	for i := 0; i < len(list); i++ {
		for j := i + 1; j < len(list); j++ {
			if list[j].CreatedAt.Before(list[i].CreatedAt) {
				list[i], list[j] = list[j], list[i]
			}
		}
	}
	return list, nil
}

func (m *memoryRepo) withOwner(p Product) Product {
	if p.CustomerID != nil {
		if c, ok := m.customers[*p.CustomerID]; ok && c.DeletedAt == nil {
			copied := *c
			p.Customer = &copied
		}
	}
	return p
}

func (m *memoryRepo) addCustomer(firstName, lastName string) int64 {
	id := int64(len(m.customers) + 1)
	m.customers[id] = &customers.Customer{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		Status:    shared.StatusNew,
		CreatedAt: time.Now().UTC(),
	}
	return id
}

var _ Repository = (*memoryRepo)(nil)

func TestNewISSNShape(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{4}-\d{4}$`)
	for i := 0; i < 50; i++ {
		issn := newISSN()
		require.True(t, pattern.MatchString(issn), "unexpected issn %q", issn)
	}
}

func TestCreateAssignsISSN(t *testing.T) {
	service := NewService(newMemoryRepo())

	created, err := service.Create(context.Background(), ProductForm{Name: "Widget"})
	require.NoError(t, err)
	require.Regexp(t, `^\d{4}-\d{4}$`, created.ISSN)
	require.Equal(t, shared.StatusNew, created.Status)
	require.Nil(t, created.CustomerID)
	require.Nil(t, created.Customer)
}

func TestCreateWithLiveCustomer(t *testing.T) {
	repo := newMemoryRepo()
	customerID := repo.addCustomer("Marisa", "Ward")
	service := NewService(repo)

	created, err := service.Create(context.Background(), ProductForm{
		Name:       "Widget",
		CustomerID: "1",
	})
	require.NoError(t, err)
	require.NotNil(t, created.CustomerID)
	require.Equal(t, customerID, *created.CustomerID)
	require.NotNil(t, created.Customer)
	require.Equal(t, "Marisa", created.Customer.FirstName)
}

func TestCreateWithDanglingCustomerFailsBeforePersist(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo)

	_, err := service.Create(context.Background(), ProductForm{
		Name:       "Widget",
		CustomerID: "42",
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Empty(t, repo.products)
}

func TestCreateWithMalformedCustomerID(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo)

	_, err := service.Create(context.Background(), ProductForm{
		Name:       "Widget",
		CustomerID: "abc",
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Empty(t, repo.products)
}

func TestCreateRetriesOnISSNCollision(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo)

	calls := 0
	service.newID = func() string {
		calls++
		if calls < 2 {
			return "1111-1111"
		}
		return "2222-2222"
	}
	repo.products[999] = &Product{ID: 999, ISSN: "1111-1111"}

	created, err := service.Create(context.Background(), ProductForm{Name: "Widget"})
	require.NoError(t, err)
	require.Equal(t, "2222-2222", created.ISSN)
}

func TestCreateGivesUpAfterBoundedAttempts(t *testing.T) {
	repo := newMemoryRepo()
	repo.issnAlwaysExists = true
	service := NewService(repo)

	_, err := service.Create(context.Background(), ProductForm{Name: "Widget"})
	require.Error(t, err)
	require.Empty(t, repo.products)
}

func TestUpdateKeepsISSNAndOwnerWhenAbsent(t *testing.T) {
	repo := newMemoryRepo()
	repo.addCustomer("Marisa", "Ward")
	service := NewService(repo)

	created, err := service.Create(context.Background(), ProductForm{Name: "Widget", CustomerID: "1"})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), created.ID, ProductForm{
		Name:   "Widget Pro",
		Status: "approved",
	})
	require.NoError(t, err)
	require.Equal(t, created.ISSN, updated.ISSN)
	require.Equal(t, "Widget Pro", updated.Name)
	require.Equal(t, shared.StatusApproved, updated.Status)
	require.NotNil(t, updated.CustomerID, "absent customer_id must not detach")
}

func TestUpdateReattachesOnSubmittedCustomerID(t *testing.T) {
	repo := newMemoryRepo()
	repo.addCustomer("Marisa", "Ward")
	second := repo.addCustomer("Lennart", "Koenig")
	service := NewService(repo)

	created, err := service.Create(context.Background(), ProductForm{Name: "Widget", CustomerID: "1"})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), created.ID, ProductForm{
		Name:       "Widget",
		CustomerID: "2",
	})
	require.NoError(t, err)
	require.Equal(t, second, *updated.CustomerID)
}

func TestDeleteDetachesOwner(t *testing.T) {
	repo := newMemoryRepo()
	repo.addCustomer("Marisa", "Ward")
	service := NewService(repo)

	created, err := service.Create(context.Background(), ProductForm{Name: "Widget", CustomerID: "1"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), created.ID))

	_, err = service.Get(context.Background(), created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)

	row := repo.products[created.ID]
	require.NotNil(t, row.DeletedAt)
	require.Nil(t, row.CustomerID)

	require.ErrorIs(t, service.Delete(context.Background(), created.ID), shared.ErrNotFound)
}

func TestAttachCustomerRequiresLiveCustomer(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo)

	created, err := service.Create(context.Background(), ProductForm{Name: "Widget"})
	require.NoError(t, err)

	_, err = service.AttachCustomer(context.Background(), created.ID, 42)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAttachAndDetachCustomer(t *testing.T) {
	repo := newMemoryRepo()
	customerID := repo.addCustomer("Marisa", "Ward")
	service := NewService(repo)

	created, err := service.Create(context.Background(), ProductForm{Name: "Widget"})
	require.NoError(t, err)

	attached, err := service.AttachCustomer(context.Background(), created.ID, customerID)
	require.NoError(t, err)
	require.NotNil(t, attached.Customer)

	detached, err := service.DetachCustomer(context.Background(), created.ID)
	require.NoError(t, err)
	require.Nil(t, detached.CustomerID)
	require.Nil(t, detached.Customer)
}

func TestPendingFilterAndOrder(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo)
	now := time.Now().UTC()
	cutoff := now.Add(-16 * 7 * 24 * time.Hour)

	old := now.Add(-20 * 7 * 24 * time.Hour)
	older := now.Add(-30 * 7 * 24 * time.Hour)
	repo.Create(context.Background(), Product{ISSN: "0001-0001", Name: "Recent Pending", Status: shared.StatusPending, CreatedAt: now})
	repo.Create(context.Background(), Product{ISSN: "0001-0002", Name: "Old Pending", Status: shared.StatusPending, CreatedAt: old})
	repo.Create(context.Background(), Product{ISSN: "0001-0003", Name: "Older Pending", Status: shared.StatusPending, CreatedAt: older})
	repo.Create(context.Background(), Product{ISSN: "0001-0004", Name: "Old Approved", Status: shared.StatusApproved, CreatedAt: older})
	deletedID, _ := repo.Create(context.Background(), Product{ISSN: "0001-0005", Name: "Old Deleted", Status: shared.StatusPending, CreatedAt: older})
	repo.SoftDelete(context.Background(), deletedID, now)

	list, err := service.Pending(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Older Pending", list[0].Name)
	require.Equal(t, "Old Pending", list[1].Name)
}
