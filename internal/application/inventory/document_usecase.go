package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stockmaster/internal/application/dto"
	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/inventory"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
	"github.com/rs/zerolog"
)

// DocumentUseCase ciclo de vida de documentos de movimiento (crear, agregar líneas,
// pasar a ready, reservar y cancelar). El completado está en CompletionUseCase.
type DocumentUseCase struct {
	txRunner       TxRunner
	docRepo        repository.DocumentRepository
	productRepo    repository.ProductRepository
	warehouseRepo  repository.WarehouseRepository
	publisher      EventPublisher
	publishTimeout time.Duration
	log            zerolog.Logger
	now            func() time.Time
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(
	txRunner TxRunner,
	docRepo repository.DocumentRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	publisher EventPublisher,
	log zerolog.Logger,
) *DocumentUseCase {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &DocumentUseCase{
		txRunner:       txRunner,
		docRepo:        docRepo,
		productRepo:    productRepo,
		warehouseRepo:  warehouseRepo,
		publisher:      publisher,
		publishTimeout: DefaultPublishTimeout,
		log:            log.With().Str("component", "documents").Logger(),
		now:            time.Now,
	}
}

// WithPublishTimeout cambia el tope de espera del evento de cancelación.
func (uc *DocumentUseCase) WithPublishTimeout(d time.Duration) *DocumentUseCase {
	uc.publishTimeout = d
	return uc
}

// Create crea la cabecera y sus líneas en una transacción.
func (uc *DocumentUseCase) Create(ctx context.Context, in dto.CreateDocumentRequest) (*entity.Document, error) {
	now := uc.now()
	status := entity.DocumentStatus(in.Status)
	if status == "" {
		status = entity.StatusDraft
	}
	if status != entity.StatusDraft && status != entity.StatusReady {
		return nil, fmt.Errorf("%w: estado inicial %q", domain.ErrInvalidInput, in.Status)
	}
	doc := &entity.Document{
		ID:               uuid.New().String(),
		Kind:             entity.DocumentKind(in.Kind),
		Status:           entity.StatusDraft,
		WarehouseID:      in.WarehouseID,
		ToWarehouseID:    in.ToWarehouseID,
		Partner:          in.Partner,
		PartnerReference: in.PartnerReference,
		ShippingAddress:  in.ShippingAddress,
		Reason:           in.Reason,
		Notes:            in.Notes,
		CreatedBy:        in.CreatedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if doc.Kind == entity.KindAdjustment {
		adjType, ok := entity.ParseAdjustmentType(in.AdjustmentType)
		if !ok {
			return nil, fmt.Errorf("%w: tipo de ajuste %q", domain.ErrInvalidInput, in.AdjustmentType)
		}
		doc.AdjustmentType = adjType
	}
	doc.Disposition = entity.Disposition(in.Disposition)
	if doc.Kind == entity.KindReturn && doc.Disposition == "" {
		doc.Disposition = entity.DispositionRestock
	}
	if err := inventory.ValidateHeader(doc); err != nil {
		return nil, err
	}
	if err := uc.ensureWarehouses(ctx, doc); err != nil {
		return nil, err
	}
	for _, in := range in.Items {
		if err := uc.ensureProduct(ctx, in.ProductID); err != nil {
			return nil, err
		}
		if _, err := inventory.AddItem(doc, newItem(in), now); err != nil {
			return nil, err
		}
	}
	if status == entity.StatusReady {
		if err := inventory.MarkReady(doc, now); err != nil {
			return nil, err
		}
	}

	err := uc.txRunner.Run(ctx, func(
		docRepo repository.DocumentRepository,
		_ repository.StockRepository,
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
	) error {
		if err := docRepo.Create(ctx, doc); err != nil {
			return err
		}
		for i := range doc.Items {
			if err := docRepo.AddItem(ctx, &doc.Items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("document_id", doc.ID).Str("kind", string(doc.Kind)).Int("items", len(doc.Items)).Msg("documento creado")
	return doc, nil
}

// AddItem agrega una línea a un documento en draft o ready (ErrDocumentLocked en otro estado).
func (uc *DocumentUseCase) AddItem(ctx context.Context, documentID string, in dto.DocumentItemRequest) (*entity.DocumentItem, error) {
	if err := uc.ensureProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	var added *entity.DocumentItem
	err := uc.txRunner.Run(ctx, func(
		docRepo repository.DocumentRepository,
		_ repository.StockRepository,
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
	) error {
		doc, err := loadForUpdate(ctx, docRepo, documentID)
		if err != nil {
			return err
		}
		added, err = inventory.AddItem(doc, newItem(in), uc.now())
		if err != nil {
			return err
		}
		if err := docRepo.AddItem(ctx, added); err != nil {
			return err
		}
		return docRepo.UpdateHeader(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// MarkReady pasa un documento de draft a ready.
func (uc *DocumentUseCase) MarkReady(ctx context.Context, documentID string) (*entity.Document, error) {
	var doc *entity.Document
	err := uc.txRunner.Run(ctx, func(
		docRepo repository.DocumentRepository,
		_ repository.StockRepository,
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
	) error {
		var err error
		doc, err = loadForUpdate(ctx, docRepo, documentID)
		if err != nil {
			return err
		}
		if err := inventory.MarkReady(doc, uc.now()); err != nil {
			return err
		}
		return docRepo.UpdateHeader(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ReserveDelivery reserva en el libro la cantidad de cada línea de un despacho (draft o ready).
// Falla con *domain.ItemError(ErrInsufficientStock) si alguna línea supera lo disponible;
// en ese caso no se reserva nada.
func (uc *DocumentUseCase) ReserveDelivery(ctx context.Context, documentID string) (*entity.Document, error) {
	var doc *entity.Document
	err := uc.txRunner.Run(ctx, func(
		docRepo repository.DocumentRepository,
		stockRepo repository.StockRepository,
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
	) error {
		var err error
		doc, err = loadForUpdate(ctx, docRepo, documentID)
		if err != nil {
			return err
		}
		plan, err := inventory.PlanReservation(doc)
		if err != nil {
			return err
		}
		if _, err := applyAndSave(ctx, stockRepo, plan, uc.now()); err != nil {
			return err
		}
		for _, e := range plan.Effects {
			item := &doc.Items[e.ItemIndex]
			item.ReservedQuantity = item.ReservedQuantity.Add(e.ReservedDelta)
			if err := docRepo.UpdateItemReservation(ctx, item); err != nil {
				return err
			}
		}
		doc.Reserved = true
		doc.UpdatedAt = uc.now()
		return docRepo.UpdateHeader(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Cancel cancela un documento en draft o ready, liberando las reservas de un despacho.
func (uc *DocumentUseCase) Cancel(ctx context.Context, documentID string, userID *string) (*entity.Document, error) {
	var (
		doc     *entity.Document
		applied []inventory.Applied
		now     = uc.now()
	)
	err := uc.txRunner.Run(ctx, func(
		docRepo repository.DocumentRepository,
		stockRepo repository.StockRepository,
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
	) error {
		var err error
		doc, err = loadForUpdate(ctx, docRepo, documentID)
		if err != nil {
			return err
		}
		if err := inventory.Cancel(doc, now); err != nil {
			return err
		}
		plan := inventory.PlanRelease(doc)
		applied, err = applyAndSave(ctx, stockRepo, plan, now)
		if err != nil {
			return err
		}
		for _, e := range plan.Effects {
			item := &doc.Items[e.ItemIndex]
			item.ReservedQuantity = item.ReservedQuantity.Add(e.ReservedDelta)
			if err := docRepo.UpdateItemReservation(ctx, item); err != nil {
				return err
			}
		}
		doc.Reserved = false
		return docRepo.UpdateHeader(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	publishAfterCommit(ctx, uc.publisher, uc.publishTimeout, newDocumentEvent(EventDocumentCancelled, doc, userID, applied, now), uc.log)
	return doc, nil
}

// Get obtiene un documento con sus líneas.
func (uc *DocumentUseCase) Get(ctx context.Context, documentID string) (*entity.Document, error) {
	doc, err := uc.docRepo.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// List lista documentos con filtros y paginación.
func (uc *DocumentUseCase) List(ctx context.Context, f repository.DocumentFilter, page dto.PageRequest) ([]*entity.Document, error) {
	page.DefaultPage()
	f.Limit, f.Offset = page.Limit, page.Offset
	return uc.docRepo.List(ctx, f)
}

// ListByWarehouse lista los documentos cuya bodega origen es warehouseID.
func (uc *DocumentUseCase) ListByWarehouse(ctx context.Context, warehouseID string, page dto.PageRequest) ([]*entity.Document, error) {
	return uc.List(ctx, repository.DocumentFilter{WarehouseID: warehouseID}, page)
}

// Exists indica si hay algún documento que cumpla el filtro.
func (uc *DocumentUseCase) Exists(ctx context.Context, f repository.DocumentFilter) (bool, error) {
	return uc.docRepo.Exists(ctx, f)
}

func (uc *DocumentUseCase) ensureProduct(ctx context.Context, productID string) error {
	if productID == "" {
		// la regla de línea reporta el producto faltante con su índice
		return nil
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return nil
}

func newItem(in dto.DocumentItemRequest) entity.DocumentItem {
	return entity.DocumentItem{
		ID:                 uuid.New().String(),
		ProductID:          in.ProductID,
		Quantity:           in.Quantity,
		QuantityOrdered:    in.QuantityOrdered,
		QuantityReceived:   in.QuantityReceived,
		UnitPrice:          in.UnitPrice,
		CurrentQuantity:    in.CurrentQuantity,
		AdjustmentQuantity: in.AdjustmentQuantity,
		Reason:             in.Reason,
	}
}

func (uc *DocumentUseCase) ensureWarehouses(ctx context.Context, doc *entity.Document) error {
	ids := []string{doc.WarehouseID}
	if doc.ToWarehouseID != "" {
		ids = append(ids, doc.ToWarehouseID)
	}
	for _, id := range ids {
		wh, err := uc.warehouseRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if wh == nil {
			return fmt.Errorf("%w: bodega %s", domain.ErrNotFound, id)
		}
	}
	return nil
}

func loadForUpdate(ctx context.Context, docRepo repository.DocumentRepository, documentID string) (*entity.Document, error) {
	doc, err := docRepo.GetForUpdate(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// applyAndSave bloquea, aplica y persiste un plan de reservas (sin diario).
func applyAndSave(ctx context.Context, stockRepo repository.StockRepository, plan *inventory.Plan, now time.Time) ([]inventory.Applied, error) {
	rows, err := lockRows(ctx, stockRepo, plan.Keys())
	if err != nil {
		return nil, err
	}
	applied, err := plan.Apply(rows, now)
	if err != nil {
		return nil, err
	}
	for _, key := range plan.Keys() {
		if err := stockRepo.Save(ctx, rows[key]); err != nil {
			return nil, err
		}
	}
	return applied, nil
}
