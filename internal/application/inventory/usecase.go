package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/inventory"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CompletionUseCase completa documentos de movimiento de forma transaccional:
// bloqueo del documento y de las filas del libro (SELECT FOR UPDATE, en orden de clave),
// validación, escritura única por fila, diario y transición a completed; Commit o Rollback.
type CompletionUseCase struct {
	txRunner       TxRunner
	publisher      EventPublisher
	publishTimeout time.Duration
	log            zerolog.Logger
	now            func() time.Time
}

// NewCompletionUseCase construye el caso de uso. publisher puede ser nil (NoopPublisher).
func NewCompletionUseCase(txRunner TxRunner, publisher EventPublisher, log zerolog.Logger) *CompletionUseCase {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &CompletionUseCase{
		txRunner:       txRunner,
		publisher:      publisher,
		publishTimeout: DefaultPublishTimeout,
		log:            log.With().Str("component", "completion").Logger(),
		now:            time.Now,
	}
}

// WithPublishTimeout cambia el tope de espera del evento posterior al commit.
func (uc *CompletionUseCase) WithPublishTimeout(d time.Duration) *CompletionUseCase {
	uc.publishTimeout = d
	return uc
}

// ValidateAndComplete valida las líneas del documento contra el libro y aplica sus efectos
// en una sola transacción. Solo desde ready; en otro estado devuelve ErrInvalidTransition.
// Si una línea incumple una regla devuelve *domain.ItemError, el libro no cambia y el
// documento sigue en ready.
func (uc *CompletionUseCase) ValidateAndComplete(ctx context.Context, documentID string, userID *string) (*entity.Document, error) {
	var (
		doc     *entity.Document
		applied []inventory.Applied
		now     = uc.now()
	)
	err := uc.txRunner.Run(ctx, func(
		docRepo repository.DocumentRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		var err error
		// Bloquea la cabecera: dos completados concurrentes del mismo documento se serializan aquí
		doc, err = docRepo.GetForUpdate(ctx, documentID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if err := inventory.CanComplete(doc); err != nil {
			return err
		}
		plan, err := inventory.PlanCompletion(doc)
		if err != nil {
			return err
		}
		rows, err := lockRows(ctx, stockRepo, plan.Keys())
		if err != nil {
			return err
		}
		applied, err = plan.Apply(rows, now)
		if err != nil {
			return err
		}
		// Una sola escritura por fila con los deltas ya sumados
		for _, key := range plan.Keys() {
			if err := stockRepo.Save(ctx, rows[key]); err != nil {
				return err
			}
		}
		if doc.Kind == entity.KindReceipt {
			if err := updateReceiptCosts(ctx, productRepo, applied); err != nil {
				return err
			}
		}
		for _, a := range applied {
			mov := &entity.StockMovement{
				ID:            uuid.New().String(),
				DocumentID:    doc.ID,
				DocumentKind:  doc.Kind,
				ProductID:     a.Effect.Key.ProductID,
				WarehouseID:   a.Effect.Key.WarehouseID,
				QuantityDelta: a.Effect.QuantityDelta,
				ReservedDelta: a.Effect.ReservedDelta,
				QuantityAfter: a.After.Quantity,
				UnitCost:      a.Effect.UnitCost,
				CreatedAt:     now,
				CreatedBy:     userID,
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
		}
		if err := inventory.MarkCompleted(doc, userID, now); err != nil {
			return err
		}
		return docRepo.UpdateHeader(ctx, doc)
	})
	if err != nil {
		ev := uc.log.Warn().Err(err).Str("document_id", documentID)
		if ie, ok := domain.AsItemError(err); ok {
			ev = ev.Int("item_index", ie.Index).Str("product_id", ie.ProductID).Str("rule", ie.Rule)
		}
		ev.Msg("completado rechazado")
		return nil, err
	}

	uc.log.Info().
		Str("document_id", doc.ID).
		Str("kind", string(doc.Kind)).
		Str("warehouse_id", doc.WarehouseID).
		Int("effects", len(applied)).
		Msg("documento completado")

	publishAfterCommit(ctx, uc.publisher, uc.publishTimeout, newDocumentEvent(EventDocumentCompleted, doc, userID, applied, now), uc.log)
	return doc, nil
}

// lockRows obtiene y bloquea las filas en el orden dado (debe venir ordenado por clave
// para evitar interbloqueos entre transacciones que tocan las mismas filas).
func lockRows(ctx context.Context, stockRepo repository.StockRepository, keys []entity.StockKey) (map[entity.StockKey]*entity.StockItem, error) {
	rows := make(map[entity.StockKey]*entity.StockItem, len(keys))
	for _, key := range keys {
		row, err := stockRepo.GetForUpdate(ctx, key.ProductID, key.WarehouseID)
		if err != nil {
			return nil, err
		}
		rows[key] = row
	}
	return rows, nil
}

// updateReceiptCosts recalcula el costo promedio ponderado de cada producto recibido.
func updateReceiptCosts(ctx context.Context, productRepo repository.ProductRepository, applied []inventory.Applied) error {
	costs := make(map[string]decimal.Decimal)
	order := make([]string, 0, len(applied))
	for _, a := range applied {
		if !a.Effect.UnitCost.IsPositive() {
			continue // sin precio no altera el promedio
		}
		productID := a.Effect.Key.ProductID
		cost, ok := costs[productID]
		if !ok {
			product, err := productRepo.GetByID(ctx, productID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			cost = product.Cost
			order = append(order, productID)
		}
		costs[productID] = inventory.CostCalculator(a.Before.Quantity, cost, a.Effect.QuantityDelta, a.Effect.UnitCost)
	}
	for _, productID := range order {
		if err := productRepo.UpdateCost(ctx, productID, costs[productID]); err != nil {
			return err
		}
	}
	return nil
}
