package repository

import (
	"context"

	"github.com/jhoicas/stockmaster/internal/domain/entity"
)

// NotificationJobRepository puerto de la tabla de estado de jobs de notificación.
type NotificationJobRepository interface {
	Get(ctx context.Context, name entity.JobName) (*entity.NotificationJobStatus, error)
	// List ordenado por job_name.
	List(ctx context.Context) ([]*entity.NotificationJobStatus, error)
	// Upsert inserta o actualiza por job_name.
	Upsert(ctx context.Context, status *entity.NotificationJobStatus) error
}
