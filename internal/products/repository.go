package products

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-crm/meridian/internal/customers"
	"github.com/meridian-crm/meridian/internal/platform/db"
	"github.com/meridian-crm/meridian/internal/shared"
)

// Repository defines persistence operations for the products module.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	ListNotDeleted(ctx context.Context) ([]Product, error)
	GetNotDeleted(ctx context.Context, id int64) (*Product, error)
	ISSNExists(ctx context.Context, issn string) (bool, error)
	Create(ctx context.Context, p Product) (int64, error)
	Update(ctx context.Context, id int64, p Product) error
	SoftDelete(ctx context.Context, id int64, at time.Time) error
	SetCustomer(ctx context.Context, id int64, customerID *int64) error
	CustomerLive(ctx context.Context, customerID int64) (bool, error)
	PendingOlderThan(ctx context.Context, cutoff time.Time) ([]Product, error)
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

// productSelect joins the owning customer row so the nested serialization
// needs no second query. A soft-deleted owner renders as unowned.
const productSelect = `
	SELECT p.id, p.issn, p.name, p.status, p.customer_id, p.created_at, p.updated_at, p.deleted_at,
	       c.id, c.uuid, c.first_name, c.last_name, c.date_of_birth, c.status, c.created_at
	FROM product p
	LEFT JOIN customer c ON c.id = p.customer_id AND c.deleted_at IS NULL`

func (r *repository) ListNotDeleted(ctx context.Context) ([]Product, error) {
	rows, err := r.db.Query(ctx, productSelect+` WHERE p.deleted_at IS NULL ORDER BY p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

// GetNotDeleted resolves a single live product; anything but exactly one row
// collapses to not-found.
func (r *repository) GetNotDeleted(ctx context.Context, id int64) (*Product, error) {
	rows, err := r.db.Query(ctx, productSelect+` WHERE p.id = $1 AND p.deleted_at IS NULL`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	matches, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	if len(matches) != 1 {
		return nil, shared.ErrNotFound
	}
	return &matches[0], nil
}

func (r *repository) ISSNExists(ctx context.Context, issn string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM product WHERE issn = $1)`, issn).Scan(&exists)
	return exists, err
}

func (r *repository) Create(ctx context.Context, p Product) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO product (issn, name, status, customer_id, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		p.ISSN, p.Name, string(p.Status), p.CustomerID, p.CreatedAt,
	).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, p Product) error {
	_, err := r.db.Exec(ctx,
		`UPDATE product SET name = $1, status = $2, customer_id = $3, updated_at = NOW()
		 WHERE id = $4 AND deleted_at IS NULL`,
		p.Name, string(p.Status), p.CustomerID, id,
	)
	return err
}

// SoftDelete stamps deleted_at and clears the owner in the same statement;
// a deleted product never stays attached.
func (r *repository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE product SET deleted_at = $1, updated_at = $1, customer_id = NULL WHERE id = $2`,
		at, id,
	)
	return err
}

func (r *repository) SetCustomer(ctx context.Context, id int64, customerID *int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE product SET customer_id = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`,
		customerID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) CustomerLive(ctx context.Context, customerID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM customer WHERE id = $1 AND deleted_at IS NULL)`, customerID,
	).Scan(&exists)
	return exists, err
}

// PendingOlderThan returns live pending products created before the cutoff,
// oldest first. This is the digest query.
func (r *repository) PendingOlderThan(ctx context.Context, cutoff time.Time) ([]Product, error) {
	rows, err := r.db.Query(ctx,
		productSelect+` WHERE p.status = 'pending' AND p.deleted_at IS NULL AND p.created_at < $1 ORDER BY p.created_at ASC`,
		cutoff,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	var list []Product
	for rows.Next() {
		var p Product
		var status string
		var cID *int64
		var cUUID, cFirst, cLast, cStatus *string
		var cBirth, cCreated *time.Time

		if err := rows.Scan(
			&p.ID, &p.ISSN, &p.Name, &status, &p.CustomerID, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
			&cID, &cUUID, &cFirst, &cLast, &cBirth, &cStatus, &cCreated,
		); err != nil {
			return nil, err
		}
		p.Status = shared.Status(status)
		if cID != nil {
			p.Customer = &customers.Customer{
				ID:          *cID,
				UUID:        *cUUID,
				FirstName:   *cFirst,
				LastName:    *cLast,
				DateOfBirth: *cBirth,
				Status:      shared.Status(*cStatus),
				CreatedAt:   *cCreated,
			}
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
