package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/inventory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Tipos de evento de documento.
const (
	EventDocumentCompleted = "document.completed"
	EventDocumentCancelled = "document.cancelled"
)

// DefaultPublishTimeout tope de espera por evento. Vencido, el evento se descarta y queda en el log.
const DefaultPublishTimeout = 2 * time.Second

// DocumentEvent evento publicado al completar o cancelar un documento.
type DocumentEvent struct {
	ID            string              `json:"id"`
	Type          string              `json:"type"`
	DocumentID    string              `json:"document_id"`
	Kind          entity.DocumentKind `json:"kind"`
	WarehouseID   string              `json:"warehouse_id"`
	ToWarehouseID string              `json:"to_warehouse_id,omitempty"`
	Disposition   entity.Disposition  `json:"disposition,omitempty"`
	Reference     string              `json:"reference,omitempty"`
	UserID        *string             `json:"user_id,omitempty"`
	Lines         []EventLine         `json:"lines"`
	OccurredAt    time.Time           `json:"occurred_at"`
}

// EventLine efecto aplicado sobre una fila del libro.
type EventLine struct {
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	QuantityDelta decimal.Decimal `json:"quantity_delta"`
	ReservedDelta decimal.Decimal `json:"reserved_delta"`
	QuantityAfter decimal.Decimal `json:"quantity_after"`
	Available     decimal.Decimal `json:"available_after"`
}

func newDocumentEvent(eventType string, doc *entity.Document, userID *string, applied []inventory.Applied, now time.Time) DocumentEvent {
	lines := make([]EventLine, 0, len(applied))
	for _, a := range applied {
		lines = append(lines, EventLine{
			ProductID:     a.Effect.Key.ProductID,
			WarehouseID:   a.Effect.Key.WarehouseID,
			QuantityDelta: a.Effect.QuantityDelta,
			ReservedDelta: a.Effect.ReservedDelta,
			QuantityAfter: a.After.Quantity,
			Available:     a.After.Available(),
		})
	}
	return DocumentEvent{
		ID:            uuid.New().String(),
		Type:          eventType,
		DocumentID:    doc.ID,
		Kind:          doc.Kind,
		WarehouseID:   doc.WarehouseID,
		ToWarehouseID: doc.ToWarehouseID,
		Disposition:   doc.Disposition,
		Reference:     doc.PartnerReference,
		UserID:        userID,
		Lines:         lines,
		OccurredAt:    now,
	}
}

// publishAfterCommit publica el evento con un tope de tiempo propio. No hereda la cancelación
// de ctx (la transacción ya se confirmó) y nunca devuelve error al caller.
func publishAfterCommit(ctx context.Context, pub EventPublisher, timeout time.Duration, event DocumentEvent, log zerolog.Logger) {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := pub.Publish(ctx, event); err != nil {
		log.Error().Err(err).
			Str("document_id", event.DocumentID).
			Str("event_type", event.Type).
			Dur("timeout", timeout).
			Msg("evento no publicado")
	}
}
