package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovement es un asiento del diario de movimientos: un efecto sobre el libro
// producido al completar un documento.
type StockMovement struct {
	ID            string
	DocumentID    string
	DocumentKind  DocumentKind
	ProductID     string
	WarehouseID   string
	QuantityDelta decimal.Decimal // positivo entrada, negativo salida
	ReservedDelta decimal.Decimal
	QuantityAfter decimal.Decimal
	UnitCost      decimal.Decimal
	CreatedAt     time.Time
	CreatedBy     *string
}
