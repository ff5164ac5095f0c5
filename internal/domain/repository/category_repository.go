package repository

import (
	"context"

	"github.com/jhoicas/stockmaster/internal/domain/entity"
)

// CatalogRepository puerto para datos maestros menores: categorías, unidades y proveedores.
// Los Get* devuelven nil, nil si no existe la clave natural.
type CatalogRepository interface {
	CreateCategory(ctx context.Context, c *entity.Category) error
	GetCategoryByName(ctx context.Context, name string) (*entity.Category, error)
	CreateUnit(ctx context.Context, u *entity.UnitOfMeasure) error
	GetUnitByCode(ctx context.Context, code string) (*entity.UnitOfMeasure, error)
	CreateSupplier(ctx context.Context, s *entity.Supplier) error
	GetSupplierByCode(ctx context.Context, code string) (*entity.Supplier, error)
}
