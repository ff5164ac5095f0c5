package repository

import (
	"context"

	"github.com/jhoicas/stockmaster/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	GetByCode(ctx context.Context, code string) (*entity.Warehouse, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error)
}
