package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind tipo de documento de movimiento de inventario.
type DocumentKind string

const (
	KindReceipt    DocumentKind = "receipt"    // recepción de proveedor
	KindDelivery   DocumentKind = "delivery"   // despacho a cliente
	KindTransfer   DocumentKind = "transfer"   // traslado entre bodegas
	KindAdjustment DocumentKind = "adjustment" // ajuste de conteo
	KindReturn     DocumentKind = "return"     // devolución de cliente
)

// Valid indica si el tipo es conocido.
func (k DocumentKind) Valid() bool {
	switch k {
	case KindReceipt, KindDelivery, KindTransfer, KindAdjustment, KindReturn:
		return true
	}
	return false
}

// DocumentStatus estado del ciclo de vida: draft -> ready -> completed | cancelled.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "draft"
	StatusReady     DocumentStatus = "ready"
	StatusCompleted DocumentStatus = "completed"
	StatusCancelled DocumentStatus = "cancelled"
)

// Terminal indica si el estado ya no admite transiciones.
func (s DocumentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Editable indica si se pueden agregar líneas.
func (s DocumentStatus) Editable() bool {
	return s == StatusDraft || s == StatusReady
}

// AdjustmentType define cómo un ajuste calcula el delta.
type AdjustmentType string

const (
	AdjustmentSet    AdjustmentType = "set"    // adjustment_quantity es el nuevo nivel absoluto
	AdjustmentAdd    AdjustmentType = "add"    // suma adjustment_quantity
	AdjustmentRemove AdjustmentType = "remove" // resta adjustment_quantity
)

// ParseAdjustmentType normaliza el tipo de ajuste; el frontend envía increase/decrease.
func ParseAdjustmentType(s string) (AdjustmentType, bool) {
	switch s {
	case "set":
		return AdjustmentSet, true
	case "add", "increase":
		return AdjustmentAdd, true
	case "remove", "decrease":
		return AdjustmentRemove, true
	}
	return "", false
}

// Disposition destino de la mercancía devuelta.
type Disposition string

const (
	DispositionRestock Disposition = "restock" // vuelve al stock vendible
	DispositionScrap   Disposition = "scrap"   // se da de baja
	DispositionRepair  Disposition = "repair"  // va a reparación, fuera del libro
)

// ParseDisposition valida el destino de una devolución.
func ParseDisposition(s string) (Disposition, bool) {
	switch d := Disposition(s); d {
	case DispositionRestock, DispositionScrap, DispositionRepair:
		return d, true
	}
	return "", false
}

// Document es la cabecera de un documento de movimiento (recepción, despacho, traslado o ajuste)
// con sus líneas en orden. WarehouseID es la bodega origen; ToWarehouseID solo aplica a traslados
// y Disposition solo a devoluciones.
type Document struct {
	ID               string
	Kind             DocumentKind
	Status           DocumentStatus
	WarehouseID      string
	ToWarehouseID    string
	Partner          string // proveedor (recepción) o cliente (despacho), texto libre
	PartnerReference string // PO-1001, SO-2001
	ShippingAddress  string
	AdjustmentType   AdjustmentType
	Disposition      Disposition
	Reason           string
	Notes            string
	Reserved         bool // despacho con stock reservado
	CreatedBy        *string
	CompletedBy      *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
	Items            []DocumentItem
}

// DocumentItem línea de un documento. Los campos usados dependen del Kind del documento:
//   - receipt:    QuantityOrdered, QuantityReceived, UnitPrice
//   - delivery:   Quantity, ReservedQuantity
//   - transfer:   Quantity
//   - adjustment: CurrentQuantity, AdjustmentQuantity, Reason
//   - return:     Quantity, Reason (código de motivo)
type DocumentItem struct {
	ID                 string
	DocumentID         string
	Position           int
	ProductID          string
	Quantity           decimal.Decimal
	QuantityOrdered    decimal.Decimal
	QuantityReceived   decimal.Decimal
	UnitPrice          decimal.Decimal
	ReservedQuantity   decimal.Decimal
	CurrentQuantity    decimal.Decimal
	AdjustmentQuantity decimal.Decimal
	Reason             string
}
