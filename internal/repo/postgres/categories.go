package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/category"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoryColumns = `id, owner_id, name, created_at, updated_at`

type CategoriesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewCategoriesRepo(pool *pgxpool.Pool, prom *observability.Prom) *CategoriesRepo {
	return &CategoriesRepo{pool: pool, prom: prom}
}

// Create enforces the system-wide name uniqueness through the DB constraint.
func (r *CategoriesRepo) Create(ctx context.Context, c category.Category) (category.Category, error) {
	err := observe(r.prom, "categories.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO categories (`+categoryColumns+`) VALUES ($1,$2,$3,$4,$5)`,
			c.ID, c.OwnerID, c.Name, c.CreatedAt, c.UpdatedAt,
		)
		return err
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return category.Category{}, category.ErrNameTaken
		}
		return category.Category{}, err
	}

	return c, nil
}

func (r *CategoriesRepo) ListOwned(ctx context.Context, ownerID string) ([]category.Category, error) {
	var out []category.Category

	err := observe(r.prom, "categories.list_owned", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+categoryColumns+` FROM categories WHERE owner_id = $1 ORDER BY created_at ASC, id ASC`,
			ownerID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]category.Category, 0, 8)

		for rows.Next() {
			var c category.Category
			if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// GetByID loads unscoped; the update path checks ownership explicitly so it
// can answer Forbidden instead of NotFound.
func (r *CategoriesRepo) GetByID(ctx context.Context, id string) (category.Category, error) {
	var c category.Category

	err := observe(r.prom, "categories.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id,
		).Scan(&c.ID, &c.OwnerID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return category.Category{}, category.ErrNotFound
		}
		return category.Category{}, err
	}

	return c, nil
}

func (r *CategoriesRepo) Update(ctx context.Context, id, name string) (category.Category, error) {
	var c category.Category

	err := observe(r.prom, "categories.update", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE categories SET name = $2, updated_at = $3 WHERE id = $1 RETURNING `+categoryColumns,
			id, name, time.Now().UTC(),
		).Scan(&c.ID, &c.OwnerID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return category.Category{}, category.ErrNotFound
		}
		if IsUniqueViolation(err) {
			return category.Category{}, category.ErrNameTaken
		}
		return category.Category{}, err
	}

	return c, nil
}

// DeleteOwned bakes the owner check into the filter: a non-owner deleting an
// existing category sees NotFound, not Forbidden.
func (r *CategoriesRepo) DeleteOwned(ctx context.Context, id, ownerID string) (category.Category, error) {
	var c category.Category

	err := observe(r.prom, "categories.delete_owned", func() error {
		return r.pool.QueryRow(ctx,
			`DELETE FROM categories WHERE id = $1 AND owner_id = $2 RETURNING `+categoryColumns,
			id, ownerID,
		).Scan(&c.ID, &c.OwnerID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return category.Category{}, category.ErrNotFound
		}
		return category.Category{}, err
	}

	return c, nil
}
