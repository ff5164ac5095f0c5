package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/stockmaster/internal/application/dto"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReplenishmentUseCase genera la lista de reposición a partir del libro y de los puntos de
// reorden de cada producto. Es la lectura sobre la que trabaja el resumen de stock bajo.
type ReplenishmentUseCase struct {
	stockRepo repository.StockRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(stockRepo repository.StockRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{stockRepo: stockRepo}
}

// GenerateReplenishmentList devuelve los productos con disponible bajo su reorder_level y la
// cantidad sugerida de pedido: reorder_quantity, o el déficit si es mayor.
// warehouseID puede ser vacío para considerar el stock agregado de todas las bodegas.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, warehouseID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	candidates, err := uc.stockRepo.ListBelowReorderLevel(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(candidates))
	for _, c := range candidates {
		available := c.Available()
		deficit := c.ReorderLevel.Sub(available)
		suggested := decimal.Max(c.ReorderQuantity, deficit)
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          c.ProductID,
			SKU:                c.SKU,
			ProductName:        c.ProductName,
			WarehouseID:        c.WarehouseID,
			Available:          available,
			ReorderLevel:       c.ReorderLevel,
			Deficit:            deficit,
			SuggestedOrderQty:  suggested,
			UnitCost:           c.UnitCost,
			EstimatedOrderCost: suggested.Mul(c.UnitCost),
		})
	}

	// Primero el mayor déficit relativo al punto de reorden; empate por SKU
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		ra := a.Deficit.Div(a.ReorderLevel)
		rb := b.Deficit.Div(b.ReorderLevel)
		if !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		return a.SKU < b.SKU
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
