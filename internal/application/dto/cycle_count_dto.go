package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanCycleCountRequest entrada para armar una hoja de conteo.
// Method: full (por defecto), partial o abc. ProductIDs acota el conteo en cualquier método
// y es obligatorio en partial.
type PlanCycleCountRequest struct {
	WarehouseID   string     `json:"warehouse_id"`
	Method        string     `json:"method,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	ProductIDs    []string   `json:"product_ids,omitempty"`
}

// CountSheetDTO hoja de conteo con la cantidad esperada según el libro al momento de armarla.
type CountSheetDTO struct {
	Reference     string         `json:"reference"`
	WarehouseID   string         `json:"warehouse_id"`
	Method        string         `json:"method"`
	ScheduledDate *time.Time     `json:"scheduled_date,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	Lines         []CountLineDTO `json:"lines"`
}

// CountLineDTO producto a contar.
type CountLineDTO struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Expected    decimal.Decimal `json:"expected"`
}
