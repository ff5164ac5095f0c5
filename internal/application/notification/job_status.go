package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
	"github.com/rs/zerolog"
)

// JobStatusService registra el estado de los jobs de notificación que ejecuta el
// scheduler externo. No calcula digests; solo mantiene la fila por job_name.
type JobStatusService struct {
	repo repository.NotificationJobRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewJobStatusService construye el servicio.
func NewJobStatusService(repo repository.NotificationJobRepository, log zerolog.Logger) *JobStatusService {
	return &JobStatusService{
		repo: repo,
		log:  log.With().Str("component", "notification_jobs").Logger(),
		now:  time.Now,
	}
}

// Get devuelve el estado del job. Un job nunca registrado se devuelve en idle.
func (s *JobStatusService) Get(ctx context.Context, name entity.JobName) (*entity.NotificationJobStatus, error) {
	if !name.Valid() {
		return nil, fmt.Errorf("%w: job %q", domain.ErrInvalidInput, name)
	}
	st, err := s.repo.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if st == nil {
		st = &entity.NotificationJobStatus{JobName: name, LastStatus: entity.JobIdle, UpdatedAt: s.now()}
	}
	return st, nil
}

// List devuelve los jobs registrados ordenados por nombre.
func (s *JobStatusService) List(ctx context.Context) ([]*entity.NotificationJobStatus, error) {
	return s.repo.List(ctx)
}

// MarkRunning marca el inicio de una ejecución.
func (s *JobStatusService) MarkRunning(ctx context.Context, name entity.JobName, triggeredBy *string) (*entity.NotificationJobStatus, error) {
	st, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if st.LastStatus == entity.JobRunning {
		return nil, fmt.Errorf("%w: el job %s ya está en ejecución", domain.ErrConflict, name)
	}
	now := s.now()
	st.LastStatus = entity.JobRunning
	st.LastRunAt = &now
	st.LastDurationMs = nil
	st.LastMessage = ""
	st.TriggeredBy = triggeredBy
	st.UpdatedAt = now
	if err := s.repo.Upsert(ctx, st); err != nil {
		return nil, err
	}
	s.log.Info().Str("job", string(name)).Msg("job iniciado")
	return st, nil
}

// MarkFinished cierra la ejecución en curso con success o failed y programa la siguiente.
// runErr nil significa success; nextRunAt puede ser nil.
func (s *JobStatusService) MarkFinished(ctx context.Context, name entity.JobName, runErr error, message string, nextRunAt *time.Time) (*entity.NotificationJobStatus, error) {
	st, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if st.LastStatus != entity.JobRunning {
		return nil, fmt.Errorf("%w: el job %s no está en ejecución", domain.ErrInvalidTransition, name)
	}
	now := s.now()
	if st.LastRunAt != nil {
		ms := int(now.Sub(*st.LastRunAt).Milliseconds())
		st.LastDurationMs = &ms
	}
	st.LastStatus = entity.JobSuccess
	st.LastMessage = message
	if runErr != nil {
		st.LastStatus = entity.JobFailed
		if message == "" {
			st.LastMessage = runErr.Error()
		}
	}
	st.NextRunAt = nextRunAt
	st.UpdatedAt = now
	if err := s.repo.Upsert(ctx, st); err != nil {
		return nil, err
	}
	ev := s.log.Info()
	if runErr != nil {
		ev = s.log.Warn().Err(runErr)
	}
	ev.Str("job", string(name)).Str("status", string(st.LastStatus)).Msg("job finalizado")
	return st, nil
}
