package customers

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-crm/meridian/internal/platform/db"
	"github.com/meridian-crm/meridian/internal/shared"
)

// Repository defines persistence operations for the customers module.
// Association mutations live here because the product FK is the single
// source of truth for both sides of the link.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	ListNotDeleted(ctx context.Context) ([]Customer, error)
	GetNotDeleted(ctx context.Context, id int64) (*Customer, error)
	UUIDExists(ctx context.Context, uuid string) (bool, error)
	Create(ctx context.Context, c Customer) (int64, error)
	Update(ctx context.Context, id int64, c Customer) error
	SoftDelete(ctx context.Context, id int64, at time.Time) error
	ProductsOf(ctx context.Context, customerID int64) ([]ProductRef, error)
	DetachAllProducts(ctx context.Context, customerID int64) error
	AttachProduct(ctx context.Context, customerID, productID int64) error
	DetachProduct(ctx context.Context, customerID, productID int64) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const customerColumns = `id, uuid, first_name, last_name, date_of_birth, status, created_at, updated_at, deleted_at`

func (r *repository) ListNotDeleted(ctx context.Context) ([]Customer, error) {
	rows, err := r.db.Query(ctx, `SELECT `+customerColumns+` FROM customer WHERE deleted_at IS NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCustomers(rows)
}

// GetNotDeleted resolves a single live customer. A query that does not
// resolve to exactly one row collapses to not-found, never to an error.
func (r *repository) GetNotDeleted(ctx context.Context, id int64) (*Customer, error) {
	rows, err := r.db.Query(ctx, `SELECT `+customerColumns+` FROM customer WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	matches, err := scanCustomers(rows)
	if err != nil {
		return nil, err
	}
	if len(matches) != 1 {
		return nil, shared.ErrNotFound
	}
	return &matches[0], nil
}

func (r *repository) UUIDExists(ctx context.Context, uuid string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customer WHERE uuid = $1)`, uuid).Scan(&exists)
	return exists, err
}

func (r *repository) Create(ctx context.Context, c Customer) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO customer (uuid, first_name, last_name, date_of_birth, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		c.UUID, c.FirstName, c.LastName, c.DateOfBirth, string(c.Status), c.CreatedAt,
	).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, c Customer) error {
	_, err := r.db.Exec(ctx,
		`UPDATE customer SET first_name = $1, last_name = $2, date_of_birth = $3, status = $4, updated_at = NOW()
		 WHERE id = $5 AND deleted_at IS NULL`,
		c.FirstName, c.LastName, c.DateOfBirth, string(c.Status), id,
	)
	return err
}

func (r *repository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE customer SET deleted_at = $1, updated_at = $1 WHERE id = $2`, at, id)
	return err
}

func (r *repository) ProductsOf(ctx context.Context, customerID int64) ([]ProductRef, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, status FROM product WHERE customer_id = $1 AND deleted_at IS NULL ORDER BY id`,
		customerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []ProductRef
	for rows.Next() {
		var ref ProductRef
		var status string
		if err := rows.Scan(&ref.ID, &ref.Name, &status); err != nil {
			return nil, err
		}
		ref.Status = shared.Status(status)
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *repository) DetachAllProducts(ctx context.Context, customerID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE product SET customer_id = NULL, updated_at = NOW() WHERE customer_id = $1`,
		customerID,
	)
	return err
}

// AttachProduct points the product FK at the customer. Zero rows means the
// product is absent or soft-deleted.
func (r *repository) AttachProduct(ctx context.Context, customerID, productID int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE product SET customer_id = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`,
		customerID, productID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DetachProduct clears the FK when the product is currently attached to the
// customer. Detaching a live but unattached product is a no-op, matching the
// collection semantics of the association.
func (r *repository) DetachProduct(ctx context.Context, customerID, productID int64) error {
	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM product WHERE id = $1 AND deleted_at IS NULL)`, productID,
	).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return shared.ErrNotFound
	}
	_, err := r.db.Exec(ctx,
		`UPDATE product SET customer_id = NULL, updated_at = NOW() WHERE id = $1 AND customer_id = $2`,
		productID, customerID,
	)
	return err
}

func scanCustomers(rows pgx.Rows) ([]Customer, error) {
	var list []Customer
	for rows.Next() {
		var c Customer
		var status string
		if err := rows.Scan(&c.ID, &c.UUID, &c.FirstName, &c.LastName, &c.DateOfBirth, &status, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt); err != nil {
			return nil, err
		}
		c.Status = shared.Status(status)
		list = append(list, c)
	}
	return list, rows.Err()
}

// IsUniqueViolation reports whether err is a unique-index violation, the
// storage-level backstop for the identifier generation race.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
