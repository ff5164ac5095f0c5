package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo documentos de movimiento (cabecera + líneas) sobre PostgreSQL.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, kind, status, warehouse_id, to_warehouse_id, partner, partner_reference,
	shipping_address, adjustment_type, reason, notes, reserved, created_by, completed_by,
	created_at, updated_at, completed_at, cancelled_at, disposition`

const itemColumns = `id, document_id, position, product_id, quantity, quantity_ordered,
	quantity_received, unit_price, reserved_quantity, current_quantity, adjustment_quantity, reason`

// Create inserta la cabecera (las líneas van con AddItem).
func (r *DocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		d.ID, string(d.Kind), string(d.Status), d.WarehouseID, nullIfEmpty(d.ToWarehouseID),
		d.Partner, d.PartnerReference, d.ShippingAddress, string(d.AdjustmentType), d.Reason, d.Notes,
		d.Reserved, d.CreatedBy, d.CompletedBy, d.CreatedAt, d.UpdatedAt, d.CompletedAt, d.CancelledAt, string(d.Disposition),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// Get carga cabecera y líneas; nil, nil si no existe.
func (r *DocumentRepo) Get(ctx context.Context, id string) (*entity.Document, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate bloquea la cabecera (FOR UPDATE) antes de cargar las líneas.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.get(ctx, id, true)
}

func (r *DocumentRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	d, err := scanDocument(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM document_items WHERE document_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list document items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.DocumentItem
		if err := rows.Scan(&it.ID, &it.DocumentID, &it.Position, &it.ProductID, &it.Quantity, &it.QuantityOrdered,
			&it.QuantityReceived, &it.UnitPrice, &it.ReservedQuantity, &it.CurrentQuantity, &it.AdjustmentQuantity, &it.Reason); err != nil {
			return nil, fmt.Errorf("scan document item: %w", err)
		}
		d.Items = append(d.Items, it)
	}
	return d, rows.Err()
}

// UpdateHeader persiste estado, reserva y sellos de tiempo/usuario.
func (r *DocumentRepo) UpdateHeader(ctx context.Context, d *entity.Document) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE documents SET status = $2, reserved = $3, completed_by = $4, completed_at = $5,
			cancelled_at = $6, updated_at = $7
		WHERE id = $1`,
		d.ID, string(d.Status), d.Reserved, d.CompletedBy, d.CompletedAt, d.CancelledAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddItem inserta una línea.
func (r *DocumentRepo) AddItem(ctx context.Context, it *entity.DocumentItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO document_items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		it.ID, it.DocumentID, it.Position, it.ProductID, it.Quantity, it.QuantityOrdered,
		it.QuantityReceived, it.UnitPrice, it.ReservedQuantity, it.CurrentQuantity, it.AdjustmentQuantity, it.Reason,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert document item: %w", err)
	}
	return nil
}

// UpdateItemReservation persiste la reserva de una línea.
func (r *DocumentRepo) UpdateItemReservation(ctx context.Context, it *entity.DocumentItem) error {
	cmd, err := r.q.Exec(ctx, `UPDATE document_items SET reserved_quantity = $2 WHERE id = $1`, it.ID, it.ReservedQuantity)
	if err != nil {
		return fmt.Errorf("update item reservation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List cabeceras (sin líneas) que cumplen el filtro, más recientes primero.
func (r *DocumentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Document, error) {
	where, args := documentWhere(f)
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM documents %s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		documentColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Exists indica si algún documento cumple el filtro (Limit/Offset se ignoran).
func (r *DocumentRepo) Exists(ctx context.Context, f repository.DocumentFilter) (bool, error) {
	where, args := documentWhere(f)
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM documents `+where+`)`, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists document: %w", err)
	}
	return exists, nil
}

func documentWhere(f repository.DocumentFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if f.Kind != "" {
		add("kind", string(f.Kind))
	}
	if f.Status != "" {
		add("status", string(f.Status))
	}
	if f.WarehouseID != "" {
		add("warehouse_id", f.WarehouseID)
	}
	if f.PartnerReference != "" {
		add("partner_reference", f.PartnerReference)
	}
	if f.Notes != "" {
		add("notes", f.Notes)
	}
	if f.Reason != "" {
		add("reason", f.Reason)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var (
		d                                  entity.Document
		kind, status, adjType, disposition string
		toWarehouse                        *string
	)
	if err := row.Scan(&d.ID, &kind, &status, &d.WarehouseID, &toWarehouse, &d.Partner, &d.PartnerReference,
		&d.ShippingAddress, &adjType, &d.Reason, &d.Notes, &d.Reserved, &d.CreatedBy, &d.CompletedBy,
		&d.CreatedAt, &d.UpdatedAt, &d.CompletedAt, &d.CancelledAt, &disposition); err != nil {
		return nil, err
	}
	d.Kind = entity.DocumentKind(kind)
	d.Status = entity.DocumentStatus(status)
	d.AdjustmentType = entity.AdjustmentType(adjType)
	d.Disposition = entity.Disposition(disposition)
	d.ToWarehouseID = derefString(toWarehouse)
	return &d, nil
}
