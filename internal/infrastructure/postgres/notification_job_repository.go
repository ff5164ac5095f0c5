package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
)

var _ repository.NotificationJobRepository = (*NotificationJobRepo)(nil)

// NotificationJobRepo tabla notification_job_status.
type NotificationJobRepo struct {
	pool *pgxpool.Pool
}

// NewNotificationJobRepository construye el adaptador.
func NewNotificationJobRepository(pool *pgxpool.Pool) *NotificationJobRepo {
	return &NotificationJobRepo{pool: pool}
}

const jobColumns = `id, job_name, last_run_at, next_run_at, last_status, last_duration_ms,
	last_message, triggered_by, updated_at`

// Get fila del job; nil, nil si nunca se registró.
func (r *NotificationJobRepo) Get(ctx context.Context, name entity.JobName) (*entity.NotificationJobStatus, error) {
	st, err := scanJob(r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM notification_job_status WHERE job_name = $1`, string(name)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job status: %w", err)
	}
	return st, nil
}

func (r *NotificationJobRepo) List(ctx context.Context) ([]*entity.NotificationJobStatus, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+jobColumns+` FROM notification_job_status ORDER BY job_name`)
	if err != nil {
		return nil, fmt.Errorf("list job status: %w", err)
	}
	defer rows.Close()
	var list []*entity.NotificationJobStatus
	for rows.Next() {
		st, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job status: %w", err)
		}
		list = append(list, st)
	}
	return list, rows.Err()
}

// Upsert inserta o actualiza por job_name y devuelve el id asignado en st.ID.
func (r *NotificationJobRepo) Upsert(ctx context.Context, st *entity.NotificationJobStatus) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notification_job_status (job_name, last_run_at, next_run_at, last_status,
			last_duration_ms, last_message, triggered_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (job_name) DO UPDATE SET
			last_run_at = EXCLUDED.last_run_at,
			next_run_at = EXCLUDED.next_run_at,
			last_status = EXCLUDED.last_status,
			last_duration_ms = EXCLUDED.last_duration_ms,
			last_message = EXCLUDED.last_message,
			triggered_by = EXCLUDED.triggered_by,
			updated_at = EXCLUDED.updated_at
		RETURNING id`,
		string(st.JobName), st.LastRunAt, st.NextRunAt, string(st.LastStatus),
		st.LastDurationMs, st.LastMessage, st.TriggeredBy, st.UpdatedAt,
	).Scan(&st.ID)
	if err != nil {
		return fmt.Errorf("upsert job status: %w", err)
	}
	return nil
}

func scanJob(row pgx.Row) (*entity.NotificationJobStatus, error) {
	var (
		st           entity.NotificationJobStatus
		name, status string
	)
	if err := row.Scan(&st.ID, &name, &st.LastRunAt, &st.NextRunAt, &status, &st.LastDurationMs,
		&st.LastMessage, &st.TriggeredBy, &st.UpdatedAt); err != nil {
		return nil, err
	}
	st.JobName = entity.JobName(name)
	st.LastStatus = entity.JobStatus(status)
	return &st, nil
}
