package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, name, category_id, stock_unit_id, purchase_unit_id,
	reorder_level, reorder_quantity, cost, created_at, updated_at`

// Create persiste un nuevo producto. Devuelve domain.ErrDuplicate si el SKU existe.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.SKU, p.Name, nullIfEmpty(p.CategoryID), nullIfEmpty(p.StockUnitID), nullIfEmpty(p.PurchaseUnitID),
		p.ReorderLevel, p.ReorderQuantity, p.Cost, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID; nil, nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto por SKU; nil, nil si no existe.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// UpdateCost actualiza solo el costo promedio (usado al completar recepciones).
func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET cost = $2, updated_at = now() WHERE id = $1`, productID, cost)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos por SKU con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY sku LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p                               entity.Product
		categoryID, stockUnit, purchase *string
	)
	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &categoryID, &stockUnit, &purchase,
		&p.ReorderLevel, &p.ReorderQuantity, &p.Cost, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.CategoryID = derefString(categoryID)
	p.StockUnitID = derefString(stockUnit)
	p.PurchaseUnitID = derefString(purchase)
	return &p, nil
}
