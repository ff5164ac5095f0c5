package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stockmaster/internal/application/dto"
	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Métodos de conteo cíclico.
const (
	CountMethodFull    = "full"
	CountMethodPartial = "partial"
	CountMethodABC     = "abc"
)

// ReasonCycleCount motivo de los ajustes generados por un conteo.
const ReasonCycleCount = "cycle_count"

const countPageSize = 200

// abcShare fracción de filas (por valor) que entra en un conteo abc sin productos explícitos.
var abcShare = decimal.NewFromFloat(0.2)

// CycleCountUseCase arma hojas de conteo y convierte lo contado en un ajuste "set".
// La hoja no se persiste: el ajuste lleva su referencia en partner_reference.
type CycleCountUseCase struct {
	stockRepo     repository.StockRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	docs          *DocumentUseCase
	log           zerolog.Logger
	now           func() time.Time
}

// NewCycleCountUseCase construye el caso de uso de conteo cíclico.
func NewCycleCountUseCase(
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	docs *DocumentUseCase,
	log zerolog.Logger,
) *CycleCountUseCase {
	return &CycleCountUseCase{
		stockRepo:     stockRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		docs:          docs,
		log:           log.With().Str("component", "cycle_count").Logger(),
		now:           time.Now,
	}
}

// Plan arma la hoja de conteo de una bodega. Sin ProductIDs, full toma todas las filas de la
// bodega y abc el 20% de mayor valor (cantidad × costo), mínimo una.
func (uc *CycleCountUseCase) Plan(ctx context.Context, in dto.PlanCycleCountRequest) (*dto.CountSheetDTO, error) {
	method := strings.ToLower(strings.TrimSpace(in.Method))
	if method == "" {
		method = CountMethodFull
	}
	switch method {
	case CountMethodFull, CountMethodPartial, CountMethodABC:
	default:
		return nil, fmt.Errorf("%w: método de conteo %q", domain.ErrInvalidInput, in.Method)
	}
	if in.WarehouseID == "" {
		return nil, fmt.Errorf("%w: bodega requerida", domain.ErrInvalidInput)
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, in.WarehouseID)
	}

	var lines []dto.CountLineDTO
	if len(in.ProductIDs) > 0 {
		lines, err = uc.linesForProducts(ctx, in.WarehouseID, in.ProductIDs)
	} else {
		switch method {
		case CountMethodPartial:
			return nil, fmt.Errorf("%w: el conteo parcial requiere productos", domain.ErrInvalidInput)
		case CountMethodABC:
			lines, err = uc.linesForWarehouse(ctx, in.WarehouseID, true)
		default:
			lines, err = uc.linesForWarehouse(ctx, in.WarehouseID, false)
		}
	}
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: bodega %s sin existencias que contar", domain.ErrInvalidInput, wh.Code)
	}

	sheet := &dto.CountSheetDTO{
		Reference:     fmt.Sprintf("CC-%s-%s-%s", wh.Code, uc.now().Format("20060102"), uuid.New().String()[:8]),
		WarehouseID:   in.WarehouseID,
		Method:        method,
		ScheduledDate: in.ScheduledDate,
		Notes:         in.Notes,
		Lines:         lines,
	}
	uc.log.Debug().Str("reference", sheet.Reference).Str("method", method).Int("lines", len(lines)).Msg("hoja de conteo armada")
	return sheet, nil
}

// Reconcile compara lo contado con lo esperado y crea un ajuste "set" en ready con una línea
// por diferencia. Las líneas sin conteo se omiten. Devuelve nil si no hay diferencias.
// Si el libro se movió desde el conteo, el completado del ajuste falla con ErrStaleQuantity.
func (uc *CycleCountUseCase) Reconcile(ctx context.Context, sheet dto.CountSheetDTO, counted map[string]decimal.Decimal, userID *string) (*entity.Document, error) {
	expected := make(map[string]decimal.Decimal, len(sheet.Lines))
	for _, l := range sheet.Lines {
		expected[l.ProductID] = l.Expected
	}
	for productID, qty := range counted {
		if _, ok := expected[productID]; !ok {
			return nil, fmt.Errorf("%w: producto %s fuera de la hoja %s", domain.ErrInvalidInput, productID, sheet.Reference)
		}
		if qty.IsNegative() {
			return nil, fmt.Errorf("%w: conteo negativo para %s", domain.ErrInvalidInput, productID)
		}
	}

	var items []dto.DocumentItemRequest
	for _, l := range sheet.Lines {
		qty, ok := counted[l.ProductID]
		if !ok || qty.Equal(l.Expected) {
			continue
		}
		items = append(items, dto.DocumentItemRequest{
			ProductID:          l.ProductID,
			CurrentQuantity:    l.Expected,
			AdjustmentQuantity: qty,
			Reason:             ReasonCycleCount,
		})
	}
	if len(items) == 0 {
		uc.log.Info().Str("reference", sheet.Reference).Msg("conteo sin diferencias")
		return nil, nil
	}

	doc, err := uc.docs.Create(ctx, dto.CreateDocumentRequest{
		Kind:             string(entity.KindAdjustment),
		Status:           string(entity.StatusReady),
		WarehouseID:      sheet.WarehouseID,
		PartnerReference: sheet.Reference,
		AdjustmentType:   string(entity.AdjustmentSet),
		Reason:           ReasonCycleCount,
		Notes:            sheet.Notes,
		CreatedBy:        userID,
		Items:            items,
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("reference", sheet.Reference).Str("document_id", doc.ID).Int("variances", len(items)).Msg("ajuste de conteo creado")
	return doc, nil
}

func (uc *CycleCountUseCase) linesForProducts(ctx context.Context, warehouseID string, productIDs []string) ([]dto.CountLineDTO, error) {
	seen := make(map[string]bool, len(productIDs))
	lines := make([]dto.CountLineDTO, 0, len(productIDs))
	for _, id := range productIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: producto %s repetido en el conteo", domain.ErrDuplicate, id)
		}
		seen[id] = true
		p, err := uc.productRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		rows, err := uc.stockRepo.ListByProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		expected := decimal.Zero
		for _, r := range rows {
			if r.WarehouseID == warehouseID {
				expected = r.Quantity
				break
			}
		}
		lines = append(lines, dto.CountLineDTO{ProductID: p.ID, SKU: p.SKU, ProductName: p.Name, Expected: expected})
	}
	return lines, nil
}

func (uc *CycleCountUseCase) linesForWarehouse(ctx context.Context, warehouseID string, abc bool) ([]dto.CountLineDTO, error) {
	type valued struct {
		line  dto.CountLineDTO
		value decimal.Decimal
	}
	var all []valued
	for offset := 0; ; offset += countPageSize {
		rows, err := uc.stockRepo.ListByWarehouse(ctx, warehouseID, countPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			p, err := uc.productRepo.GetByID(ctx, r.ProductID)
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, r.ProductID)
			}
			all = append(all, valued{
				line:  dto.CountLineDTO{ProductID: p.ID, SKU: p.SKU, ProductName: p.Name, Expected: r.Quantity},
				value: r.Quantity.Mul(p.Cost),
			})
		}
		if len(rows) < countPageSize {
			break
		}
	}

	if abc && len(all) > 0 {
		sort.SliceStable(all, func(i, j int) bool {
			if !all[i].value.Equal(all[j].value) {
				return all[i].value.GreaterThan(all[j].value)
			}
			return all[i].line.SKU < all[j].line.SKU
		})
		n := int(decimal.NewFromInt(int64(len(all))).Mul(abcShare).Ceil().IntPart())
		if n < 1 {
			n = 1
		}
		all = all[:n]
	}

	lines := make([]dto.CountLineDTO, 0, len(all))
	for _, v := range all {
		lines = append(lines, v.line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].SKU < lines[j].SKU })
	return lines, nil
}
