package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
)

var _ repository.NotificationJobRepository = (*JobRepo)(nil)

// JobRepo estado de jobs de notificación en memoria.
type JobRepo struct{ b binding }

func (r *JobRepo) Get(ctx context.Context, name entity.JobName) (*entity.NotificationJobStatus, error) {
	var out *entity.NotificationJobStatus
	err := r.b.view(func(st *state) error {
		if j, ok := st.jobs[name]; ok {
			cp := *j
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *JobRepo) List(ctx context.Context) ([]*entity.NotificationJobStatus, error) {
	var list []*entity.NotificationJobStatus
	err := r.b.view(func(st *state) error {
		for _, j := range st.jobs {
			cp := *j
			list = append(list, &cp)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].JobName < list[j].JobName })
	return list, err
}

func (r *JobRepo) Upsert(ctx context.Context, s *entity.NotificationJobStatus) error {
	return r.b.view(func(st *state) error {
		if cur, ok := st.jobs[s.JobName]; ok {
			s.ID = cur.ID
		} else {
			st.jobSeq++
			s.ID = st.jobSeq
		}
		cp := *s
		st.jobs[s.JobName] = &cp
		return nil
	})
}
