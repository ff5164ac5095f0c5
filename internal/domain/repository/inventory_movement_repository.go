package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockmaster/internal/domain/entity"
)

// StockMovementRepository define el puerto del diario de movimientos.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByDocument(ctx context.Context, documentID string) ([]*entity.StockMovement, error)
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
