package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo documentos de movimiento en memoria.
type DocumentRepo struct{ b binding }

func (r *DocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	return r.b.view(func(st *state) error {
		if _, ok := st.documents[d.ID]; ok {
			return domain.ErrDuplicate
		}
		cp := copyDocument(d)
		cp.Items = nil
		st.documents[d.ID] = cp
		return nil
	})
}

func (r *DocumentRepo) Get(ctx context.Context, id string) (*entity.Document, error) {
	var out *entity.Document
	err := r.b.view(func(st *state) error {
		if d, ok := st.documents[id]; ok {
			out = copyDocument(d)
		}
		return nil
	})
	return out, err
}

// GetForUpdate igual que Get: la transacción ya tiene el store para sí.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.Get(ctx, id)
}

func (r *DocumentRepo) UpdateHeader(ctx context.Context, d *entity.Document) error {
	return r.b.view(func(st *state) error {
		cur, ok := st.documents[d.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Status = d.Status
		cur.Reserved = d.Reserved
		cur.CompletedBy = d.CompletedBy
		cur.CompletedAt = d.CompletedAt
		cur.CancelledAt = d.CancelledAt
		cur.UpdatedAt = d.UpdatedAt
		return nil
	})
}

func (r *DocumentRepo) AddItem(ctx context.Context, it *entity.DocumentItem) error {
	return r.b.view(func(st *state) error {
		d, ok := st.documents[it.DocumentID]
		if !ok {
			return domain.ErrNotFound
		}
		for _, existing := range d.Items {
			if existing.Position == it.Position || existing.ID == it.ID {
				return domain.ErrDuplicate
			}
		}
		d.Items = append(d.Items, *it)
		sort.SliceStable(d.Items, func(i, j int) bool { return d.Items[i].Position < d.Items[j].Position })
		return nil
	})
}

func (r *DocumentRepo) UpdateItemReservation(ctx context.Context, it *entity.DocumentItem) error {
	return r.b.view(func(st *state) error {
		d, ok := st.documents[it.DocumentID]
		if !ok {
			return domain.ErrNotFound
		}
		for i := range d.Items {
			if d.Items[i].ID == it.ID {
				d.Items[i].ReservedQuantity = it.ReservedQuantity
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

// List cabeceras sin líneas, más recientes primero.
func (r *DocumentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Document, error) {
	var list []*entity.Document
	err := r.b.view(func(st *state) error {
		for _, d := range st.documents {
			if matches(d, f) {
				cp := copyDocument(d)
				cp.Items = nil
				list = append(list, cp)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return page(list, f.Limit, f.Offset), err
}

func (r *DocumentRepo) Exists(ctx context.Context, f repository.DocumentFilter) (bool, error) {
	var found bool
	err := r.b.view(func(st *state) error {
		for _, d := range st.documents {
			if matches(d, f) {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func matches(d *entity.Document, f repository.DocumentFilter) bool {
	switch {
	case f.Kind != "" && d.Kind != f.Kind,
		f.Status != "" && d.Status != f.Status,
		f.WarehouseID != "" && d.WarehouseID != f.WarehouseID,
		f.PartnerReference != "" && d.PartnerReference != f.PartnerReference,
		f.Notes != "" && d.Notes != f.Notes,
		f.Reason != "" && d.Reason != f.Reason:
		return false
	}
	return true
}
