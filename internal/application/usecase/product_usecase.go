package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stockmaster/internal/application/dto"
	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ProductUseCase casos de uso de productos. Cost y stock se manejan vía documentos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto nuevo. Devuelve domain.ErrDuplicate si el SKU ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*entity.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	return uc.create(ctx, in)
}

// Ensure devuelve el producto con ese SKU o lo crea. created indica si se insertó.
func (uc *ProductUseCase) Ensure(ctx context.Context, in dto.CreateProductRequest) (*entity.Product, bool, error) {
	if err := validateProduct(in); err != nil {
		return nil, false, err
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	p, err := uc.create(ctx, in)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// List lista productos por SKU con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) ([]*entity.Product, error) {
	page.DefaultPage()
	return uc.repo.List(ctx, page.Limit, page.Offset)
}

func (uc *ProductUseCase) create(ctx context.Context, in dto.CreateProductRequest) (*entity.Product, error) {
	now := time.Now()
	product := &entity.Product{
		ID:              uuid.New().String(),
		SKU:             in.SKU,
		Name:            in.Name,
		CategoryID:      in.CategoryID,
		StockUnitID:     in.StockUnitID,
		PurchaseUnitID:  in.PurchaseUnitID,
		ReorderLevel:    in.ReorderLevel,
		ReorderQuantity: in.ReorderQuantity,
		Cost:            decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if product.PurchaseUnitID == "" {
		product.PurchaseUnitID = product.StockUnitID
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func validateProduct(in dto.CreateProductRequest) error {
	if strings.TrimSpace(in.SKU) == "" || strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: sku y nombre son obligatorios", domain.ErrInvalidInput)
	}
	if in.ReorderLevel.IsNegative() || in.ReorderQuantity.IsNegative() {
		return fmt.Errorf("%w: niveles de reorden no negativos", domain.ErrInvalidInput)
	}
	return nil
}
