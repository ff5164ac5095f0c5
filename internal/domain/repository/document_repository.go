package repository

import (
	"context"

	"github.com/jhoicas/stockmaster/internal/domain/entity"
)

// DocumentFilter filtros para listar documentos.
type DocumentFilter struct {
	Kind             entity.DocumentKind
	Status           entity.DocumentStatus
	WarehouseID      string
	PartnerReference string
	Notes            string
	Reason           string
	Limit            int
	Offset           int
}

// DocumentRepository define el puerto de persistencia de documentos de movimiento (cabecera + líneas).
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	// Get carga cabecera y líneas; nil, nil si no existe.
	Get(ctx context.Context, id string) (*entity.Document, error)
	// GetForUpdate igual que Get pero bloquea la cabecera hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Document, error)
	// UpdateHeader persiste estado, reservas y sellos de la cabecera.
	UpdateHeader(ctx context.Context, doc *entity.Document) error
	AddItem(ctx context.Context, item *entity.DocumentItem) error
	UpdateItemReservation(ctx context.Context, item *entity.DocumentItem) error
	List(ctx context.Context, f DocumentFilter) ([]*entity.Document, error)
	Exists(ctx context.Context, f DocumentFilter) (bool, error)
}
