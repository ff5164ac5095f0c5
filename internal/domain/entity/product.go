package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto identificado por SKU (único).
// Cost es el costo promedio ponderado, actualizado por las recepciones completadas.
type Product struct {
	ID              string
	SKU             string
	Name            string
	CategoryID      string
	StockUnitID     string
	PurchaseUnitID  string
	ReorderLevel    decimal.Decimal
	ReorderQuantity decimal.Decimal
	Cost            decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
