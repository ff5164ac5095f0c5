package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/inventory"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// LedgerUseCase operaciones directas sobre el libro de existencias.
type LedgerUseCase struct {
	txRunner  TxRunner
	stockRepo repository.StockRepository
	now       func() time.Time
}

// NewLedgerUseCase construye el caso de uso. stockRepo se usa solo para lecturas fuera de tx.
func NewLedgerUseCase(txRunner TxRunner, stockRepo repository.StockRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, stockRepo: stockRepo, now: time.Now}
}

// GetOrCreate devuelve la fila (producto, bodega), creándola en cero si no existe.
func (uc *LedgerUseCase) GetOrCreate(ctx context.Context, productID, warehouseID string) (*entity.StockItem, bool, error) {
	return uc.stockRepo.GetOrCreate(ctx, productID, warehouseID)
}

// ApplyDelta aplica deltas con signo a una fila bajo bloqueo. Si el resultado viola
// 0 <= reservado <= cantidad la fila no cambia.
func (uc *LedgerUseCase) ApplyDelta(ctx context.Context, productID, warehouseID string, quantityDelta, reservedDelta decimal.Decimal) (*entity.StockItem, error) {
	var row *entity.StockItem
	err := uc.txRunner.Run(ctx, func(
		_ repository.DocumentRepository,
		stockRepo repository.StockRepository,
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
	) error {
		var err error
		row, err = stockRepo.GetForUpdate(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		if err := inventory.ApplyDelta(row, quantityDelta, reservedDelta, uc.now()); err != nil {
			return err
		}
		return stockRepo.Save(ctx, row)
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// InitializeStock fija cantidad y reservado iniciales solo si la fila no existía.
// Si ya existía la devuelve sin tocarla (created=false).
func (uc *LedgerUseCase) InitializeStock(ctx context.Context, productID, warehouseID string, quantity, reserved decimal.Decimal) (*entity.StockItem, bool, error) {
	var (
		row     *entity.StockItem
		created bool
	)
	err := uc.txRunner.Run(ctx, func(
		_ repository.DocumentRepository,
		stockRepo repository.StockRepository,
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
	) error {
		var err error
		row, created, err = stockRepo.GetOrCreate(ctx, productID, warehouseID)
		if err != nil || !created {
			return err
		}
		if err := inventory.ApplyDelta(row, quantity, reserved, uc.now()); err != nil {
			return err
		}
		return stockRepo.Save(ctx, row)
	})
	if err != nil {
		return nil, false, err
	}
	return row, created, nil
}

// ListByWarehouse lista las filas de una bodega.
func (uc *LedgerUseCase) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockItem, error) {
	return uc.stockRepo.ListByWarehouse(ctx, warehouseID, limit, offset)
}

// ListByProduct lista las filas de un producto en todas las bodegas.
func (uc *LedgerUseCase) ListByProduct(ctx context.Context, productID string) ([]*entity.StockItem, error) {
	return uc.stockRepo.ListByProduct(ctx, productID)
}
