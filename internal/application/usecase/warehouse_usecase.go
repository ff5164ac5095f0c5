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

// WarehouseUseCase casos de uso para bodegas.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

// Ensure devuelve la bodega con ese código o la crea.
func (uc *WarehouseUseCase) Ensure(ctx context.Context, in dto.CreateWarehouseRequest) (*entity.Warehouse, bool, error) {
	if strings.TrimSpace(in.Code) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, false, fmt.Errorf("%w: código y nombre de bodega son obligatorios", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, warehouse); err != nil {
		return nil, false, err
	}
	return warehouse, true, nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	return w, nil
}

// List lista bodegas por código con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, page dto.PageRequest) ([]*entity.Warehouse, error) {
	page.DefaultPage()
	return uc.repo.List(ctx, page.Limit, page.Offset)
}
