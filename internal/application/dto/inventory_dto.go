package dto

import "github.com/shopspring/decimal"

// CreateDocumentRequest entrada para crear un documento de movimiento.
// Status puede ser "draft" (por defecto) o "ready". Items se agregan en orden.
type CreateDocumentRequest struct {
	Kind             string                `json:"kind"`
	Status           string                `json:"status,omitempty"`
	WarehouseID      string                `json:"warehouse_id"`
	ToWarehouseID    string                `json:"to_warehouse_id,omitempty"`
	Partner          string                `json:"partner,omitempty"`
	PartnerReference string                `json:"partner_reference,omitempty"`
	ShippingAddress  string                `json:"shipping_address,omitempty"`
	AdjustmentType   string                `json:"adjustment_type,omitempty"` // set, add|increase, remove|decrease
	Disposition      string                `json:"disposition,omitempty"`     // devoluciones: restock (por defecto), scrap, repair
	Reason           string                `json:"reason,omitempty"`
	Notes            string                `json:"notes,omitempty"`
	CreatedBy        *string               `json:"created_by,omitempty"`
	Items            []DocumentItemRequest `json:"items,omitempty"`
}

// DocumentItemRequest línea de documento; los campos usados dependen del tipo.
type DocumentItemRequest struct {
	ProductID          string          `json:"product_id"`
	Quantity           decimal.Decimal `json:"quantity"`
	QuantityOrdered    decimal.Decimal `json:"quantity_ordered"`
	QuantityReceived   decimal.Decimal `json:"quantity_received"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	CurrentQuantity    decimal.Decimal `json:"current_quantity"`
	AdjustmentQuantity decimal.Decimal `json:"adjustment_quantity"`
	Reason             string          `json:"reason,omitempty"`
}

// ReplenishmentSuggestionDTO línea de la lista de reposición.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	WarehouseID        string          `json:"warehouse_id,omitempty"`
	Available          decimal.Decimal `json:"available"`
	ReorderLevel       decimal.Decimal `json:"reorder_level"`
	Deficit            decimal.Decimal `json:"deficit"`
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	Priority           int             `json:"priority"`
}
