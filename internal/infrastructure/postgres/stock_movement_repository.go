package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo diario de movimientos sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, document_id, document_kind, product_id, warehouse_id,
	quantity_delta, reserved_delta, quantity_after, unit_cost, created_at, created_by`

// Create agrega un asiento al diario.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.DocumentID, string(m.DocumentKind), m.ProductID, m.WarehouseID,
		m.QuantityDelta, m.ReservedDelta, m.QuantityAfter, m.UnitCost, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByDocument asientos de un documento en orden de escritura.
func (r *StockMovementRepo) ListByDocument(ctx context.Context, documentID string) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+movementColumns+` FROM stock_movements
		WHERE document_id = $1 ORDER BY created_at, id`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list movements by document: %w", err)
	}
	return collectMovements(rows)
}

// ListByProduct asientos de un producto, opcionalmente acotados por fecha [from, to].
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	where := []string{"product_id = $1"}
	args := []any{productID}
	if from != nil {
		args = append(args, *from)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s FROM stock_movements
		WHERE %s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		movementColumns, strings.Join(where, " AND "), len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var kind string
		if err := rows.Scan(&m.ID, &m.DocumentID, &kind, &m.ProductID, &m.WarehouseID,
			&m.QuantityDelta, &m.ReservedDelta, &m.QuantityAfter, &m.UnitCost, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.DocumentKind = entity.DocumentKind(kind)
		list = append(list, &m)
	}
	return list, rows.Err()
}
