package inventory

import (
	"time"

	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ApplyDelta suma los deltas (con signo) a la fila del libro si el resultado respeta
// 0 <= reservado <= cantidad. Si no, la fila queda intacta y se devuelve
// ErrInsufficientStock (cantidad negativa) o ErrInvalidReservation.
func ApplyDelta(stock *entity.StockItem, quantityDelta, reservedDelta decimal.Decimal, now time.Time) error {
	newQty := stock.Quantity.Add(quantityDelta)
	newReserved := stock.ReservedQuantity.Add(reservedDelta)
	if newQty.IsNegative() {
		return domain.ErrInsufficientStock
	}
	if newReserved.IsNegative() || newReserved.GreaterThan(newQty) {
		return domain.ErrInvalidReservation
	}
	stock.Quantity = newQty
	stock.ReservedQuantity = newReserved
	stock.UpdatedAt = now
	return nil
}

// NewStockItem fila vacía (cantidad y reservado en cero).
func NewStockItem(productID, warehouseID string, now time.Time) *entity.StockItem {
	return &entity.StockItem{
		ProductID:        productID,
		WarehouseID:      warehouseID,
		Quantity:         decimal.Zero,
		ReservedQuantity: decimal.Zero,
		UpdatedAt:        now,
	}
}
