package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `product_id, warehouse_id, quantity, reserved_quantity, updated_at`

// GetOrCreate inserta la fila en cero si no existe. created indica si la insertó esta llamada.
func (r *StockRepo) GetOrCreate(ctx context.Context, productID, warehouseID string) (*entity.StockItem, bool, error) {
	query := `
		INSERT INTO stock_items (product_id, warehouse_id, quantity, reserved_quantity, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING
		RETURNING ` + stockColumns
	s, err := scanStock(r.q.QueryRow(ctx, query, productID, warehouseID))
	if err == nil {
		return s, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("insert stock item: %w", err)
	}
	s, err = scanStock(r.q.QueryRow(ctx,
		`SELECT `+stockColumns+` FROM stock_items WHERE product_id = $1 AND warehouse_id = $2`,
		productID, warehouseID))
	if err != nil {
		return nil, false, fmt.Errorf("get stock item: %w", err)
	}
	return s, false, nil
}

// GetForUpdate crea la fila si falta y la bloquea (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockItem, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_items (product_id, warehouse_id, quantity, reserved_quantity, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("ensure stock item: %w", err)
	}
	s, err := scanStock(r.q.QueryRow(ctx, `
		SELECT `+stockColumns+`
		FROM stock_items WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`, productID, warehouseID))
	if err != nil {
		return nil, fmt.Errorf("get stock item for update: %w", err)
	}
	return s, nil
}

// Save persiste cantidad y reservado. Los CHECK de la tabla respaldan las invariantes del libro.
func (r *StockRepo) Save(ctx context.Context, stock *entity.StockItem) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE stock_items SET quantity = $3, reserved_quantity = $4, updated_at = $5
		WHERE product_id = $1 AND warehouse_id = $2`,
		stock.ProductID, stock.WarehouseID, stock.Quantity, stock.ReservedQuantity, stock.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return ledgerConstraintError(err)
		}
		return fmt.Errorf("update stock item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: stock %s/%s", domain.ErrNotFound, stock.ProductID, stock.WarehouseID)
	}
	return nil
}

// ListByWarehouse lista las filas de una bodega ordenadas por producto.
func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+stockColumns+` FROM stock_items
		WHERE warehouse_id = $1 ORDER BY product_id LIMIT $2 OFFSET $3`, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock by warehouse: %w", err)
	}
	return collectStock(rows)
}

// ListByProduct lista las filas de un producto en todas las bodegas.
func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+stockColumns+` FROM stock_items
		WHERE product_id = $1 ORDER BY warehouse_id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock by product: %w", err)
	}
	return collectStock(rows)
}

// ListBelowReorderLevel cruza stock_items con products. Con warehouseID vacío suma las bodegas.
func (r *StockRepo) ListBelowReorderLevel(ctx context.Context, warehouseID string) ([]repository.ReorderCandidate, error) {
	var (
		query string
		args  []any
	)
	if warehouseID != "" {
		query = `
			SELECT p.id, p.sku, p.name, s.warehouse_id::text,
				s.quantity, s.reserved_quantity,
				p.reorder_level, p.reorder_quantity, p.cost
			FROM stock_items s
			JOIN products p ON p.id = s.product_id
			WHERE s.warehouse_id = $1
			  AND p.reorder_level > 0
			  AND s.quantity - s.reserved_quantity < p.reorder_level
			ORDER BY p.reorder_level - (s.quantity - s.reserved_quantity) DESC, p.sku`
		args = []any{warehouseID}
	} else {
		query = `
			SELECT p.id, p.sku, p.name, ''::text,
				SUM(s.quantity), SUM(s.reserved_quantity),
				p.reorder_level, p.reorder_quantity, p.cost
			FROM stock_items s
			JOIN products p ON p.id = s.product_id
			WHERE p.reorder_level > 0
			GROUP BY p.id, p.sku, p.name, p.reorder_level, p.reorder_quantity, p.cost
			HAVING SUM(s.quantity - s.reserved_quantity) < p.reorder_level
			ORDER BY p.reorder_level - SUM(s.quantity - s.reserved_quantity) DESC, p.sku`
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list below reorder level: %w", err)
	}
	defer rows.Close()
	var list []repository.ReorderCandidate
	for rows.Next() {
		var c repository.ReorderCandidate
		if err := rows.Scan(&c.ProductID, &c.SKU, &c.ProductName, &c.WarehouseID,
			&c.Quantity, &c.Reserved, &c.ReorderLevel, &c.ReorderQuantity, &c.UnitCost); err != nil {
			return nil, fmt.Errorf("scan reorder candidate: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanStock(row pgx.Row) (*entity.StockItem, error) {
	var s entity.StockItem
	if err := row.Scan(&s.ProductID, &s.WarehouseID, &s.Quantity, &s.ReservedQuantity, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func collectStock(rows pgx.Rows) ([]*entity.StockItem, error) {
	defer rows.Close()
	var list []*entity.StockItem
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func ledgerConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName == "stock_items_quantity_non_negative" {
		return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, pgErr.Message)
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidReservation, err)
}
