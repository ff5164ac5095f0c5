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

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	pool *pgxpool.Pool
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas.
func NewWarehouseRepository(pool *pgxpool.Pool) *WarehouseRepo {
	return &WarehouseRepo{pool: pool}
}

// Create persiste una nueva bodega.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO warehouses (id, code, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		w.ID, w.Code, w.Name, w.Address, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	return r.getOne(ctx, `SELECT id, code, name, address, created_at, updated_at FROM warehouses WHERE id = $1`, id)
}

// GetByCode obtiene una bodega por código.
func (r *WarehouseRepo) GetByCode(ctx context.Context, code string) (*entity.Warehouse, error) {
	return r.getOne(ctx, `SELECT id, code, name, address, created_at, updated_at FROM warehouses WHERE code = $1`, code)
}

func (r *WarehouseRepo) getOne(ctx context.Context, query, arg string) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := r.pool.QueryRow(ctx, query, arg).Scan(&w.ID, &w.Code, &w.Name, &w.Address, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// List lista bodegas por código con paginación.
func (r *WarehouseRepo) List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, code, name, address, created_at, updated_at
		FROM warehouses ORDER BY code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.Code, &w.Name, &w.Address, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}
