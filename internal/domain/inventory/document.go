package inventory

import (
	"fmt"
	"time"

	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ValidateHeader verifica la cabecera según el tipo de documento.
func ValidateHeader(doc *entity.Document) error {
	if !doc.Kind.Valid() {
		return fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, doc.Kind)
	}
	if doc.WarehouseID == "" {
		return fmt.Errorf("%w: bodega requerida", domain.ErrInvalidInput)
	}
	switch doc.Kind {
	case entity.KindTransfer:
		if doc.ToWarehouseID == "" || doc.ToWarehouseID == doc.WarehouseID {
			return fmt.Errorf("%w: el traslado requiere una bodega destino distinta a la origen", domain.ErrInvalidInput)
		}
	case entity.KindAdjustment:
		if _, ok := entity.ParseAdjustmentType(string(doc.AdjustmentType)); !ok {
			return fmt.Errorf("%w: tipo de ajuste %q", domain.ErrInvalidInput, doc.AdjustmentType)
		}
	case entity.KindReturn:
		if _, ok := entity.ParseDisposition(string(doc.Disposition)); !ok {
			return fmt.Errorf("%w: destino de devolución %q", domain.ErrInvalidInput, doc.Disposition)
		}
	}
	if doc.Kind != entity.KindTransfer && doc.ToWarehouseID != "" {
		return fmt.Errorf("%w: bodega destino solo aplica a traslados", domain.ErrInvalidInput)
	}
	if doc.Kind != entity.KindReturn && doc.Disposition != "" {
		return fmt.Errorf("%w: destino solo aplica a devoluciones", domain.ErrInvalidInput)
	}
	return nil
}

// AddItem agrega una línea al documento. Solo en draft o ready; en otro estado ErrDocumentLocked.
// La línea nace sin reserva, también en un despacho ya reservado.
func AddItem(doc *entity.Document, item entity.DocumentItem, now time.Time) (*entity.DocumentItem, error) {
	if !doc.Status.Editable() {
		return nil, domain.ErrDocumentLocked
	}
	item.DocumentID = doc.ID
	item.Position = len(doc.Items)
	item.ReservedQuantity = decimal.Zero
	if err := validateItem(doc, item.Position, &item); err != nil {
		return nil, err
	}
	if doc.Kind == entity.KindAdjustment {
		for i := range doc.Items {
			if doc.Items[i].ProductID == item.ProductID {
				return nil, itemErr(item.Position, &item, "producto único por ajuste", domain.ErrDuplicate)
			}
		}
	}
	doc.Items = append(doc.Items, item)
	doc.UpdatedAt = now
	return &doc.Items[len(doc.Items)-1], nil
}

// MarkReady draft -> ready.
func MarkReady(doc *entity.Document, now time.Time) error {
	if doc.Status != entity.StatusDraft {
		return domain.ErrInvalidTransition
	}
	doc.Status = entity.StatusReady
	doc.UpdatedAt = now
	return nil
}

// Cancel draft|ready -> cancelled.
func Cancel(doc *entity.Document, now time.Time) error {
	if !doc.Status.Editable() {
		return domain.ErrInvalidTransition
	}
	doc.Status = entity.StatusCancelled
	doc.CancelledAt = &now
	doc.UpdatedAt = now
	return nil
}

// CanComplete verifica que el documento esté en ready.
func CanComplete(doc *entity.Document) error {
	if doc.Status != entity.StatusReady {
		return domain.ErrInvalidTransition
	}
	return nil
}

// MarkCompleted ready -> completed, sellando usuario y fecha.
func MarkCompleted(doc *entity.Document, userID *string, now time.Time) error {
	if err := CanComplete(doc); err != nil {
		return err
	}
	doc.Status = entity.StatusCompleted
	doc.CompletedBy = userID
	doc.CompletedAt = &now
	doc.UpdatedAt = now
	return nil
}

func itemErr(idx int, item *entity.DocumentItem, rule string, err error) *domain.ItemError {
	return &domain.ItemError{Index: idx, ItemID: item.ID, ProductID: item.ProductID, Rule: rule, Err: err}
}

// validateItem reglas estáticas de una línea (no dependen del libro).
func validateItem(doc *entity.Document, idx int, item *entity.DocumentItem) error {
	if item.ProductID == "" {
		return itemErr(idx, item, "producto requerido", domain.ErrInvalidInput)
	}
	switch doc.Kind {
	case entity.KindReceipt:
		if item.QuantityReceived.IsNegative() {
			return itemErr(idx, item, "quantity_received >= 0", domain.ErrInvalidInput)
		}
		if item.QuantityOrdered.IsNegative() || item.UnitPrice.IsNegative() {
			return itemErr(idx, item, "cantidad pedida y precio no negativos", domain.ErrInvalidInput)
		}
	case entity.KindDelivery, entity.KindTransfer:
		if !item.Quantity.IsPositive() {
			return itemErr(idx, item, "quantity > 0", domain.ErrInvalidInput)
		}
		if item.ReservedQuantity.IsNegative() || item.ReservedQuantity.GreaterThan(item.Quantity) {
			return itemErr(idx, item, "reserva de línea entre 0 y quantity", domain.ErrInvalidReservation)
		}
	case entity.KindReturn:
		if !item.Quantity.IsPositive() {
			return itemErr(idx, item, "quantity > 0", domain.ErrInvalidInput)
		}
	case entity.KindAdjustment:
		if item.CurrentQuantity.IsNegative() || item.AdjustmentQuantity.IsNegative() {
			return itemErr(idx, item, "cantidades de ajuste no negativas", domain.ErrInvalidInput)
		}
	}
	return nil
}
