package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo categorías, unidades de medida y proveedores.
type CatalogRepo struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository construye el adaptador.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

func (r *CatalogRepo) CreateCategory(ctx context.Context, c *entity.Category) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO categories (id, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	return insertErr("category", err)
}

func (r *CatalogRepo) GetCategoryByName(ctx context.Context, name string) (*entity.Category, error) {
	var c entity.Category
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, created_at, updated_at FROM categories WHERE name = $1`, name).
		Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *CatalogRepo) CreateUnit(ctx context.Context, u *entity.UnitOfMeasure) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO units_of_measure (id, code, name, description, created_at) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Code, u.Name, u.Description, u.CreatedAt)
	return insertErr("unit", err)
}

func (r *CatalogRepo) GetUnitByCode(ctx context.Context, code string) (*entity.UnitOfMeasure, error) {
	var u entity.UnitOfMeasure
	err := r.pool.QueryRow(ctx, `
		SELECT id, code, name, description, created_at FROM units_of_measure WHERE code = $1`, code).
		Scan(&u.ID, &u.Code, &u.Name, &u.Description, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return &u, nil
}

func (r *CatalogRepo) CreateSupplier(ctx context.Context, s *entity.Supplier) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO suppliers (id, code, name, email, created_at) VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.Code, s.Name, s.Email, s.CreatedAt)
	return insertErr("supplier", err)
}

func (r *CatalogRepo) GetSupplierByCode(ctx context.Context, code string) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.pool.QueryRow(ctx, `
		SELECT id, code, name, email, created_at FROM suppliers WHERE code = $1`, code).
		Scan(&s.ID, &s.Code, &s.Name, &s.Email, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

func insertErr(what string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return fmt.Errorf("insert %s: %w", what, err)
}
