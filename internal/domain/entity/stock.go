package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem es la fila del libro de existencias: única por (producto, bodega).
// Invariante: 0 <= ReservedQuantity <= Quantity.
type StockItem struct {
	ProductID        string
	WarehouseID      string
	Quantity         decimal.Decimal // en mano
	ReservedQuantity decimal.Decimal
	UpdatedAt        time.Time
}

// Available devuelve la cantidad disponible para prometer (en mano - reservada).
func (s *StockItem) Available() decimal.Decimal {
	return s.Quantity.Sub(s.ReservedQuantity)
}

// StockKey identifica una fila del libro.
type StockKey struct {
	ProductID   string
	WarehouseID string
}

// Key devuelve la clave (producto, bodega) de la fila.
func (s *StockItem) Key() StockKey {
	return StockKey{ProductID: s.ProductID, WarehouseID: s.WarehouseID}
}

// Less ordena claves por producto y luego bodega (orden de bloqueo determinista).
func (k StockKey) Less(o StockKey) bool {
	if k.ProductID != o.ProductID {
		return k.ProductID < o.ProductID
	}
	return k.WarehouseID < o.WarehouseID
}
