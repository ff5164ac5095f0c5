// Package memory implementa los puertos de persistencia en memoria. Lo usan los tests y
// el seeder en modo --dry-run. Las transacciones trabajan sobre una copia del estado que
// reemplaza al original solo si el callback termina sin error.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stockmaster/internal/application/inventory"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	users      map[string]*entity.User
	categories map[string]*entity.Category
	units      map[string]*entity.UnitOfMeasure
	suppliers  map[string]*entity.Supplier
	warehouses map[string]*entity.Warehouse
	products   map[string]*entity.Product
	stock      map[entity.StockKey]*entity.StockItem
	documents  map[string]*entity.Document
	movements  []*entity.StockMovement
	jobs       map[entity.JobName]*entity.NotificationJobStatus
	jobSeq     int64
}

func newState() *state {
	return &state{
		users:      make(map[string]*entity.User),
		categories: make(map[string]*entity.Category),
		units:      make(map[string]*entity.UnitOfMeasure),
		suppliers:  make(map[string]*entity.Supplier),
		warehouses: make(map[string]*entity.Warehouse),
		products:   make(map[string]*entity.Product),
		stock:      make(map[entity.StockKey]*entity.StockItem),
		documents:  make(map[string]*entity.Document),
		jobs:       make(map[entity.JobName]*entity.NotificationJobStatus),
	}
}

// clone copia profunda; los valores de entidad no comparten memoria con el original.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		cp := *v
		c.users[k] = &cp
	}
	for k, v := range s.categories {
		cp := *v
		c.categories[k] = &cp
	}
	for k, v := range s.units {
		cp := *v
		c.units[k] = &cp
	}
	for k, v := range s.suppliers {
		cp := *v
		c.suppliers[k] = &cp
	}
	for k, v := range s.warehouses {
		cp := *v
		c.warehouses[k] = &cp
	}
	for k, v := range s.products {
		cp := *v
		c.products[k] = &cp
	}
	for k, v := range s.stock {
		cp := *v
		c.stock[k] = &cp
	}
	for k, v := range s.documents {
		c.documents[k] = copyDocument(v)
	}
	c.movements = make([]*entity.StockMovement, len(s.movements))
	for i, v := range s.movements {
		cp := *v
		c.movements[i] = &cp
	}
	for k, v := range s.jobs {
		cp := *v
		c.jobs[k] = &cp
	}
	c.jobSeq = s.jobSeq
	return c
}

// Store base en memoria. Las transacciones se serializan con mu.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn sobre una copia del estado; si fn devuelve error la copia se descarta.
func (s *Store) Run(ctx context.Context, fn func(
	docRepo repository.DocumentRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := s.st.clone()
	b := binding{tx: tx}
	if err := fn(&DocumentRepo{b}, &StockRepo{b}, &MovementRepo{b}, &ProductRepo{b}); err != nil {
		return err
	}
	s.st = tx
	return nil
}

// binding decide sobre qué estado opera un repositorio: el de una tx abierta (ya bajo mu)
// o el del store, tomando mu en cada llamada.
type binding struct {
	store *Store
	tx    *state
}

func (b binding) view(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return fn(b.store.st)
}

// Repositorios fuera de transacción.

func (s *Store) Documents() *DocumentRepo   { return &DocumentRepo{binding{store: s}} }
func (s *Store) Stock() *StockRepo          { return &StockRepo{binding{store: s}} }
func (s *Store) Movements() *MovementRepo   { return &MovementRepo{binding{store: s}} }
func (s *Store) Products() *ProductRepo     { return &ProductRepo{binding{store: s}} }
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{binding{store: s}} }
func (s *Store) Catalog() *CatalogRepo      { return &CatalogRepo{binding{store: s}} }
func (s *Store) Users() *UserRepo           { return &UserRepo{binding{store: s}} }
func (s *Store) NotificationJobs() *JobRepo { return &JobRepo{binding{store: s}} }

func copyDocument(d *entity.Document) *entity.Document {
	cp := *d
	cp.Items = append([]entity.DocumentItem(nil), d.Items...)
	return &cp
}
