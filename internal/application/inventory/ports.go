package inventory

import (
	"context"

	"github.com/jhoicas/stockmaster/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de completado: si fn devuelve error se hace Rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		docRepo repository.DocumentRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// EventPublisher publica eventos de documentos después del commit.
// Un fallo de publicación no revierte la operación; el caso de uso solo lo registra.
type EventPublisher interface {
	Publish(ctx context.Context, event DocumentEvent) error
}

// NoopPublisher descarta los eventos (mensajería deshabilitada).
type NoopPublisher struct{}

// Publish no hace nada.
func (NoopPublisher) Publish(context.Context, DocumentEvent) error { return nil }
