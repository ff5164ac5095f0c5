package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
	_ repository.CatalogRepository   = (*CatalogRepo)(nil)
	_ repository.UserRepository      = (*UserRepo)(nil)
)

// ProductRepo productos en memoria (SKU único).
type ProductRepo struct{ b binding }

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.b.view(func(st *state) error {
		for _, existing := range st.products {
			if existing.SKU == p.SKU {
				return domain.ErrDuplicate
			}
		}
		cp := *p
		st.products[p.ID] = &cp
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.b.view(func(st *state) error {
		if p, ok := st.products[id]; ok {
			cp := *p
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.b.view(func(st *state) error {
		for _, p := range st.products {
			if p.SKU == sku {
				cp := *p
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	return r.b.view(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.ErrNotFound
		}
		p.Cost = cost
		return nil
	})
}

func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	err := r.b.view(func(st *state) error {
		for _, p := range st.products {
			cp := *p
			list = append(list, &cp)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return page(list, limit, offset), err
}

// WarehouseRepo bodegas en memoria (código único).
type WarehouseRepo struct{ b binding }

func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	return r.b.view(func(st *state) error {
		for _, existing := range st.warehouses {
			if existing.Code == w.Code {
				return domain.ErrDuplicate
			}
		}
		cp := *w
		st.warehouses[w.ID] = &cp
		return nil
	})
}

func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.b.view(func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			cp := *w
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) GetByCode(ctx context.Context, code string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.b.view(func(st *state) error {
		for _, w := range st.warehouses {
			if w.Code == code {
				cp := *w
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	var list []*entity.Warehouse
	err := r.b.view(func(st *state) error {
		for _, w := range st.warehouses {
			cp := *w
			list = append(list, &cp)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return page(list, limit, offset), err
}

// CatalogRepo categorías, unidades y proveedores en memoria. Los mapas se indexan por clave natural.
type CatalogRepo struct{ b binding }

func (r *CatalogRepo) CreateCategory(ctx context.Context, c *entity.Category) error {
	return r.b.view(func(st *state) error {
		if _, ok := st.categories[c.Name]; ok {
			return domain.ErrDuplicate
		}
		cp := *c
		st.categories[c.Name] = &cp
		return nil
	})
}

func (r *CatalogRepo) GetCategoryByName(ctx context.Context, name string) (*entity.Category, error) {
	var out *entity.Category
	err := r.b.view(func(st *state) error {
		if c, ok := st.categories[name]; ok {
			cp := *c
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *CatalogRepo) CreateUnit(ctx context.Context, u *entity.UnitOfMeasure) error {
	return r.b.view(func(st *state) error {
		if _, ok := st.units[u.Code]; ok {
			return domain.ErrDuplicate
		}
		cp := *u
		st.units[u.Code] = &cp
		return nil
	})
}

func (r *CatalogRepo) GetUnitByCode(ctx context.Context, code string) (*entity.UnitOfMeasure, error) {
	var out *entity.UnitOfMeasure
	err := r.b.view(func(st *state) error {
		if u, ok := st.units[code]; ok {
			cp := *u
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *CatalogRepo) CreateSupplier(ctx context.Context, s *entity.Supplier) error {
	return r.b.view(func(st *state) error {
		if _, ok := st.suppliers[s.Code]; ok {
			return domain.ErrDuplicate
		}
		cp := *s
		st.suppliers[s.Code] = &cp
		return nil
	})
}

func (r *CatalogRepo) GetSupplierByCode(ctx context.Context, code string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.b.view(func(st *state) error {
		if s, ok := st.suppliers[code]; ok {
			cp := *s
			out = &cp
		}
		return nil
	})
	return out, err
}

// UserRepo usuarios en memoria, indexados por email.
type UserRepo struct{ b binding }

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	return r.b.view(func(st *state) error {
		if _, ok := st.users[u.Email]; ok {
			return domain.ErrDuplicate
		}
		cp := *u
		st.users[u.Email] = &cp
		return nil
	})
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.b.view(func(st *state) error {
		if u, ok := st.users[email]; ok {
			cp := *u
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return r.b.view(func(st *state) error {
		for _, u := range st.users {
			if u.ID == userID {
				u.PasswordHash = passwordHash
				return nil
			}
		}
		return domain.ErrNotFound
	})
}
