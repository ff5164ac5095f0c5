package repository

import (
	"context"

	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ReorderCandidate producto cuyo disponible (quantity - reserved) quedó bajo su punto de reorden.
// WarehouseID vacío indica stock agregado de todas las bodegas.
type ReorderCandidate struct {
	ProductID       string
	SKU             string
	ProductName     string
	WarehouseID     string
	Quantity        decimal.Decimal
	Reserved        decimal.Decimal
	ReorderLevel    decimal.Decimal
	ReorderQuantity decimal.Decimal
	UnitCost        decimal.Decimal
}

// Available disponible para prometer del candidato.
func (c ReorderCandidate) Available() decimal.Decimal {
	return c.Quantity.Sub(c.Reserved)
}

// StockRepository define el puerto del libro de existencias (fila por producto+bodega).
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// GetOrCreate devuelve la fila o la crea en cero. created indica si se insertó.
	GetOrCreate(ctx context.Context, productID, warehouseID string) (stock *entity.StockItem, created bool, err error)
	// GetForUpdate crea la fila si no existe y la bloquea hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockItem, error)
	// Save persiste cantidad y reservado de una fila existente.
	Save(ctx context.Context, stock *entity.StockItem) error
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockItem, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockItem, error)
	// ListBelowReorderLevel productos con reorder_level > 0 y disponible < reorder_level,
	// en la bodega indicada o agregados si warehouseID es vacío. Mayor déficit primero.
	ListBelowReorderLevel(ctx context.Context, warehouseID string) ([]ReorderCandidate, error)
}
