package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.StockRepository         = (*StockRepo)(nil)
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
)

// StockRepo libro de existencias en memoria.
type StockRepo struct{ b binding }

func (r *StockRepo) GetOrCreate(ctx context.Context, productID, warehouseID string) (*entity.StockItem, bool, error) {
	var (
		out     entity.StockItem
		created bool
	)
	err := r.b.view(func(st *state) error {
		row, ok := st.stock[entity.StockKey{ProductID: productID, WarehouseID: warehouseID}]
		if !ok {
			row = ensureRow(st, productID, warehouseID)
			created = true
		}
		out = *row
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &out, created, nil
}

// GetForUpdate crea la fila si falta. El bloqueo lo da la transacción (mu del store).
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockItem, error) {
	var out entity.StockItem
	err := r.b.view(func(st *state) error {
		out = *ensureRow(st, productID, warehouseID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Save aplica las mismas restricciones que los CHECK de la tabla.
func (r *StockRepo) Save(ctx context.Context, stock *entity.StockItem) error {
	return r.b.view(func(st *state) error {
		key := stock.Key()
		if _, ok := st.stock[key]; !ok {
			return fmt.Errorf("%w: stock %s/%s", domain.ErrNotFound, key.ProductID, key.WarehouseID)
		}
		if stock.Quantity.IsNegative() {
			return domain.ErrInsufficientStock
		}
		if stock.ReservedQuantity.IsNegative() || stock.ReservedQuantity.GreaterThan(stock.Quantity) {
			return domain.ErrInvalidReservation
		}
		cp := *stock
		st.stock[key] = &cp
		return nil
	})
}

func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockItem, error) {
	var list []*entity.StockItem
	err := r.b.view(func(st *state) error {
		for k, v := range st.stock {
			if k.WarehouseID == warehouseID {
				cp := *v
				list = append(list, &cp)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].ProductID < list[j].ProductID })
	return page(list, limit, offset), err
}

func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockItem, error) {
	var list []*entity.StockItem
	err := r.b.view(func(st *state) error {
		for k, v := range st.stock {
			if k.ProductID == productID {
				cp := *v
				list = append(list, &cp)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].WarehouseID < list[j].WarehouseID })
	return list, err
}

// ListBelowReorderLevel mismo criterio y orden que la consulta SQL.
func (r *StockRepo) ListBelowReorderLevel(ctx context.Context, warehouseID string) ([]repository.ReorderCandidate, error) {
	var list []repository.ReorderCandidate
	err := r.b.view(func(st *state) error {
		byProduct := make(map[string]*repository.ReorderCandidate)
		for k, row := range st.stock {
			if warehouseID != "" && k.WarehouseID != warehouseID {
				continue
			}
			p, ok := st.products[k.ProductID]
			if !ok || !p.ReorderLevel.IsPositive() {
				continue
			}
			c, ok := byProduct[k.ProductID]
			if !ok {
				c = &repository.ReorderCandidate{
					ProductID:       p.ID,
					SKU:             p.SKU,
					ProductName:     p.Name,
					WarehouseID:     warehouseID,
					ReorderLevel:    p.ReorderLevel,
					ReorderQuantity: p.ReorderQuantity,
					UnitCost:        p.Cost,
				}
				byProduct[k.ProductID] = c
			}
			c.Quantity = c.Quantity.Add(row.Quantity)
			c.Reserved = c.Reserved.Add(row.ReservedQuantity)
		}
		for _, c := range byProduct {
			if c.Available().LessThan(c.ReorderLevel) {
				list = append(list, *c)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		di := list[i].ReorderLevel.Sub(list[i].Available())
		dj := list[j].ReorderLevel.Sub(list[j].Available())
		if !di.Equal(dj) {
			return di.GreaterThan(dj)
		}
		return list[i].SKU < list[j].SKU
	})
	return list, err
}

func ensureRow(st *state, productID, warehouseID string) *entity.StockItem {
	key := entity.StockKey{ProductID: productID, WarehouseID: warehouseID}
	row, ok := st.stock[key]
	if !ok {
		row = &entity.StockItem{
			ProductID:        productID,
			WarehouseID:      warehouseID,
			Quantity:         decimal.Zero,
			ReservedQuantity: decimal.Zero,
			UpdatedAt:        time.Now(),
		}
		st.stock[key] = row
	}
	return row
}

// MovementRepo diario en memoria (orden de inserción).
type MovementRepo struct{ b binding }

func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	return r.b.view(func(st *state) error {
		cp := *m
		st.movements = append(st.movements, &cp)
		return nil
	})
}

func (r *MovementRepo) ListByDocument(ctx context.Context, documentID string) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	err := r.b.view(func(st *state) error {
		for _, m := range st.movements {
			if m.DocumentID == documentID {
				cp := *m
				list = append(list, &cp)
			}
		}
		return nil
	})
	return list, err
}

// ListByProduct más recientes primero, como la implementación SQL.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	err := r.b.view(func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if m.ProductID != productID {
				continue
			}
			if from != nil && m.CreatedAt.Before(*from) {
				continue
			}
			if to != nil && m.CreatedAt.After(*to) {
				continue
			}
			cp := *m
			list = append(list, &cp)
		}
		return nil
	})
	return page(list, limit, offset), err
}

func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
