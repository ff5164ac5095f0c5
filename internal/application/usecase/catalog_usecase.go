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
)

// CatalogUseCase get-or-create de datos maestros menores por clave natural.
type CatalogUseCase struct {
	repo repository.CatalogRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.CatalogRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo}
}

// EnsureCategory devuelve la categoría con ese nombre o la crea.
func (uc *CatalogUseCase) EnsureCategory(ctx context.Context, in dto.CreateCategoryRequest) (*entity.Category, bool, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, false, fmt.Errorf("%w: nombre de categoría obligatorio", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetCategoryByName(ctx, in.Name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	now := time.Now()
	c := &entity.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.CreateCategory(ctx, c); err != nil {
		return nil, false, err
	}
	return c, true, nil
}

// EnsureUnit devuelve la unidad con ese código o la crea.
func (uc *CatalogUseCase) EnsureUnit(ctx context.Context, in dto.CreateUnitRequest) (*entity.UnitOfMeasure, bool, error) {
	if strings.TrimSpace(in.Code) == "" {
		return nil, false, fmt.Errorf("%w: código de unidad obligatorio", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetUnitByCode(ctx, in.Code)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	u := &entity.UnitOfMeasure{
		ID:          uuid.New().String(),
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.CreateUnit(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// EnsureSupplier devuelve el proveedor con ese código o lo crea.
func (uc *CatalogUseCase) EnsureSupplier(ctx context.Context, in dto.CreateSupplierRequest) (*entity.Supplier, bool, error) {
	if strings.TrimSpace(in.Code) == "" {
		return nil, false, fmt.Errorf("%w: código de proveedor obligatorio", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetSupplierByCode(ctx, in.Code)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Email:     in.Email,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.CreateSupplier(ctx, s); err != nil {
		return nil, false, err
	}
	return s, true, nil
}
