package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/stockmaster/internal/application/auth"
	"github.com/jhoicas/stockmaster/internal/application/dto"
	"github.com/jhoicas/stockmaster/internal/application/inventory"
	"github.com/jhoicas/stockmaster/internal/application/usecase"
	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Deps casos de uso que orquesta el seeder.
type Deps struct {
	Users      *auth.UserUseCase
	Catalog    *usecase.CatalogUseCase
	Warehouses *usecase.WarehouseUseCase
	Products   *usecase.ProductUseCase
	Ledger     *inventory.LedgerUseCase
	Documents  *inventory.DocumentUseCase
	Completion *inventory.CompletionUseCase
}

// Options identidad demo.
type Options struct {
	DemoEmail    string
	DemoPassword string
}

// Report conteo de lo creado en una corrida.
type Report struct {
	Created   map[string]int
	Completed int
	Skipped   int
	Failures  []Failure
}

// Failure documento demo cuyo completado fue rechazado.
type Failure struct {
	Label string
	Err   error
}

// Seeder carga datos maestros, niveles de stock y documentos de ejemplo.
// Los datos maestros se buscan por clave natural antes de crearse; los documentos con
// referencia se crean una sola vez; la actividad extra se agrega en cada corrida.
type Seeder struct {
	deps Deps
	opts Options
	log  zerolog.Logger

	userID     string
	categories map[string]string
	units      map[string]string
	warehouses map[string]string
	products   map[string]string
}

// NewSeeder construye el seeder.
func NewSeeder(deps Deps, opts Options, log zerolog.Logger) *Seeder {
	if opts.DemoEmail == "" {
		opts.DemoEmail = "demo@stockmaster.com"
	}
	if opts.DemoPassword == "" {
		opts.DemoPassword = "Demo1234!"
	}
	return &Seeder{
		deps:       deps,
		opts:       opts,
		log:        log.With().Str("component", "seed").Logger(),
		categories: make(map[string]string),
		units:      make(map[string]string),
		warehouses: make(map[string]string),
		products:   make(map[string]string),
	}
}

// Run ejecuta la carga completa. Un completado rechazado se registra en el reporte y la
// carga sigue; cualquier otro error la aborta.
func (s *Seeder) Run(ctx context.Context) (*Report, error) {
	rep := &Report{Created: make(map[string]int)}
	steps := []struct {
		name string
		fn   func(context.Context, *Report) error
	}{
		{"usuario demo", s.seedUser},
		{"categorías", s.seedCategories},
		{"unidades", s.seedUnits},
		{"bodegas", s.seedWarehouses},
		{"productos", s.seedProducts},
		{"niveles de stock", s.seedStock},
		{"proveedores", s.seedSuppliers},
		{"documentos", s.seedDocuments},
	}
	for _, step := range steps {
		if err := step.fn(ctx, rep); err != nil {
			return rep, fmt.Errorf("seed %s: %w", step.name, err)
		}
	}
	s.log.Info().
		Interface("created", rep.Created).
		Int("completed", rep.Completed).
		Int("skipped", rep.Skipped).
		Int("failed", len(rep.Failures)).
		Msg("datos demo cargados")
	return rep, nil
}

func (s *Seeder) seedUser(ctx context.Context, rep *Report) error {
	user, created, err := s.deps.Users.EnsureUser(ctx, dto.EnsureUserRequest{
		Email:    s.opts.DemoEmail,
		Username: "demo",
		Password: s.opts.DemoPassword,
		Role:     entity.RoleInventoryManager,
		IsStaff:  true,
	})
	if err != nil {
		return err
	}
	s.userID = user.ID
	count(rep, "users", created)
	s.log.Info().Str("email", user.Email).Bool("created", created).Msg("usuario demo")
	return nil
}

func (s *Seeder) seedCategories(ctx context.Context, rep *Report) error {
	for _, c := range categories {
		cat, created, err := s.deps.Catalog.EnsureCategory(ctx, dto.CreateCategoryRequest{Name: c.name, Description: c.description})
		if err != nil {
			return err
		}
		s.categories[c.name] = cat.ID
		count(rep, "categories", created)
	}
	return nil
}

func (s *Seeder) seedUnits(ctx context.Context, rep *Report) error {
	for _, u := range units {
		unit, created, err := s.deps.Catalog.EnsureUnit(ctx, dto.CreateUnitRequest{Code: u.code, Name: u.name, Description: u.description})
		if err != nil {
			return err
		}
		s.units[u.code] = unit.ID
		count(rep, "units", created)
	}
	return nil
}

func (s *Seeder) seedWarehouses(ctx context.Context, rep *Report) error {
	for _, w := range warehouses {
		wh, created, err := s.deps.Warehouses.Ensure(ctx, dto.CreateWarehouseRequest{Code: w.code, Name: w.name})
		if err != nil {
			return err
		}
		s.warehouses[w.code] = wh.ID
		count(rep, "warehouses", created)
	}
	return nil
}

func (s *Seeder) seedProducts(ctx context.Context, rep *Report) error {
	for _, p := range products {
		product, created, err := s.deps.Products.Ensure(ctx, dto.CreateProductRequest{
			SKU:             p.sku,
			Name:            p.name,
			CategoryID:      s.categories[p.category],
			StockUnitID:     s.units[p.unit],
			PurchaseUnitID:  s.units[p.unit],
			ReorderLevel:    decimal.NewFromInt(p.reorderLevel),
			ReorderQuantity: decimal.NewFromInt(p.reorderQty),
		})
		if err != nil {
			return err
		}
		s.products[p.sku] = product.ID
		count(rep, "products", created)
	}
	return nil
}

// seedStock fija niveles iniciales solo en filas que no existían.
func (s *Seeder) seedStock(ctx context.Context, rep *Report) error {
	for _, st := range stockMatrix {
		_, created, err := s.deps.Ledger.InitializeStock(ctx,
			s.products[st.sku], s.warehouses[st.warehouse],
			decimal.NewFromInt(st.qty), decimal.NewFromInt(st.reserved))
		if err != nil {
			return fmt.Errorf("%s@%s: %w", st.sku, st.warehouse, err)
		}
		count(rep, "stock_items", created)
	}
	return nil
}

func (s *Seeder) seedSuppliers(ctx context.Context, rep *Report) error {
	for _, sp := range suppliers {
		_, created, err := s.deps.Catalog.EnsureSupplier(ctx, dto.CreateSupplierRequest{Code: sp.code, Name: sp.name, Email: sp.email})
		if err != nil {
			return err
		}
		count(rep, "suppliers", created)
	}
	return nil
}

func (s *Seeder) seedDocuments(ctx context.Context, rep *Report) error {
	for _, d := range s.demoDocuments() {
		if d.guard != nil {
			exists, err := s.deps.Documents.Exists(ctx, *d.guard)
			if err != nil {
				return err
			}
			if exists {
				rep.Skipped++
				continue
			}
		}
		if err := s.createAndComplete(ctx, rep, d); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) createAndComplete(ctx context.Context, rep *Report, d docSeed) error {
	req := d.req
	req.Status = string(entity.StatusReady)
	req.CreatedBy = &s.userID
	doc, err := s.deps.Documents.Create(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: %w", d.label, err)
	}
	count(rep, "documents", true)
	if _, err := s.deps.Completion.ValidateAndComplete(ctx, doc.ID, &s.userID); err != nil {
		if !isRejection(err) {
			return fmt.Errorf("%s: %w", d.label, err)
		}
		// El documento queda en ready; la carga continúa
		s.log.Warn().Err(err).Str("document", d.label).Msg("completado demo rechazado")
		rep.Failures = append(rep.Failures, Failure{Label: d.label, Err: err})
		return nil
	}
	rep.Completed++
	return nil
}

// isRejection distingue un rechazo de negocio de un fallo de infraestructura.
func isRejection(err error) bool {
	if _, ok := domain.AsItemError(err); ok {
		return true
	}
	for _, target := range []error{
		domain.ErrInsufficientStock, domain.ErrInvalidReservation, domain.ErrStaleQuantity,
		domain.ErrInvalidTransition, domain.ErrInvalidInput,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func count(rep *Report, key string, created bool) {
	if created {
		rep.Created[key]++
	}
}

type docSeed struct {
	label string
	// guard: si hay algún documento que cumpla el filtro se omite. nil: siempre se crea.
	guard *repository.DocumentFilter
	req   dto.CreateDocumentRequest
}

func (s *Seeder) demoDocuments() []docSeed {
	wh := s.warehouses
	p := s.products
	docs := []docSeed{
		{
			label: "recepción PO-1001",
			guard: &repository.DocumentFilter{Kind: entity.KindReceipt},
			req: dto.CreateDocumentRequest{
				Kind: string(entity.KindReceipt), WarehouseID: wh[whMain],
				Partner: "Global Electronics", PartnerReference: "PO-1001",
				Items: []dto.DocumentItemRequest{
					{ProductID: p["LAP-001"], QuantityOrdered: dec("10"), QuantityReceived: dec("10"), UnitPrice: dec("800.00")},
				},
			},
		},
		{
			label: "despacho SO-2001",
			guard: &repository.DocumentFilter{Kind: entity.KindDelivery},
			req: dto.CreateDocumentRequest{
				Kind: string(entity.KindDelivery), WarehouseID: wh[whMain],
				Partner: "Acme Corp", PartnerReference: "SO-2001", ShippingAddress: "123 Business St",
				Items: []dto.DocumentItemRequest{{ProductID: p["LAP-001"], Quantity: dec("2")}},
			},
		},
		{
			label: "traslado inicial",
			guard: &repository.DocumentFilter{Kind: entity.KindTransfer},
			req: dto.CreateDocumentRequest{
				Kind: string(entity.KindTransfer), WarehouseID: wh[whMain], ToWarehouseID: wh[whSecondary],
				Notes: "Initial stock balancing",
				Items: []dto.DocumentItemRequest{{ProductID: p["STL-001"], Quantity: dec("50")}},
			},
		},
		{
			label: "ajuste de fin de año",
			guard: &repository.DocumentFilter{Kind: entity.KindAdjustment},
			req: dto.CreateDocumentRequest{
				Kind: string(entity.KindAdjustment), WarehouseID: wh[whSecondary],
				AdjustmentType: string(entity.AdjustmentSet), Reason: "Year-end count correction",
				Items: []dto.DocumentItemRequest{
					{ProductID: p["BOX-001"], CurrentQuantity: dec("150"), AdjustmentQuantity: dec("140"), Reason: "10 damaged boxes removed"},
				},
			},
		},
		{
			label: "recepción PO-HUB-301",
			guard: &repository.DocumentFilter{Kind: entity.KindReceipt, PartnerReference: "PO-HUB-301"},
			req: dto.CreateDocumentRequest{
				Kind: string(entity.KindReceipt), WarehouseID: wh[whHub],
				Partner: "Northern Components", PartnerReference: "PO-HUB-301",
				Items: []dto.DocumentItemRequest{
					{ProductID: p["BAT-500"], QuantityOrdered: dec("25"), QuantityReceived: dec("25"), UnitPrice: dec("55")},
					{ProductID: p["KIT-900"], QuantityOrdered: dec("10"), QuantityReceived: dec("10"), UnitPrice: dec("95")},
				},
			},
		},
		{
			label: "recepción PO-ECO-112",
			guard: &repository.DocumentFilter{Kind: entity.KindReceipt, PartnerReference: "PO-ECO-112"},
			req: dto.CreateDocumentRequest{
				Kind: string(entity.KindReceipt), WarehouseID: wh[whSecondary],
				Partner: "EcoPack Solutions", PartnerReference: "PO-ECO-112",
				Items: []dto.DocumentItemRequest{
					{ProductID: p["PKG-250"], QuantityOrdered: dec("120"), QuantityReceived: dec("120"), UnitPrice: dec("12.50")},
				},
			},
		},
		{
			// DRV-050 no tiene stock en WH-002: el completado se rechaza completo
			label: "despacho SO-RED-88",
			guard: &repository.DocumentFilter{Kind: entity.KindDelivery, PartnerReference: "SO-RED-88"},
			req: dto.CreateDocumentRequest{
				Kind: string(entity.KindDelivery), WarehouseID: wh[whSecondary],
				Partner: "Redline Robotics", PartnerReference: "SO-RED-88", ShippingAddress: "22 Automation Way",
				Items: []dto.DocumentItemRequest{
					{ProductID: p["SEN-330"], Quantity: dec("12")},
					{ProductID: p["DRV-050"], Quantity: dec("4")},
				},
			},
		},
		{
			label: "traslado de tablets al hub",
			guard: &repository.DocumentFilter{Kind: entity.KindTransfer, Notes: "Balancing tablets to hub"},
			req: dto.CreateDocumentRequest{
				Kind: string(entity.KindTransfer), WarehouseID: wh[whMain], ToWarehouseID: wh[whHub],
				Notes: "Balancing tablets to hub",
				Items: []dto.DocumentItemRequest{{ProductID: p["TAB-201"], Quantity: dec("6")}},
			},
		},
		{
			label: "ajuste de calibración de servos",
			guard: &repository.DocumentFilter{Kind: entity.KindAdjustment, Reason: "Routine servo calibration loss"},
			req: dto.CreateDocumentRequest{
				Kind: string(entity.KindAdjustment), WarehouseID: wh[whMain],
				AdjustmentType: string(entity.AdjustmentRemove), Reason: "Routine servo calibration loss",
				Items: []dto.DocumentItemRequest{
					{ProductID: p["DRV-050"], CurrentQuantity: dec("12"), AdjustmentQuantity: dec("10"), Reason: "2 drives consumed during calibration"},
				},
			},
		},
	}

	// Actividad extra en cada corrida (no idempotente)
	for i := 0; i < 3; i++ {
		req := dto.CreateDocumentRequest{
			Kind: string(entity.KindReceipt), WarehouseID: wh[whMain],
			PartnerReference: fmt.Sprintf("PO-EXTRA-%d", 100+i),
		}
		if i%2 == 0 {
			req.Partner = "Global Electronics"
			req.Items = []dto.DocumentItemRequest{
				{ProductID: p["LAP-001"], QuantityOrdered: dec("5"), QuantityReceived: dec("5"), UnitPrice: dec("780.00")},
			}
		} else {
			req.Partner = "Steel Corp"
			req.Items = []dto.DocumentItemRequest{
				{ProductID: p["STL-001"], QuantityOrdered: dec("100"), QuantityReceived: dec("100"), UnitPrice: dec("2.50")},
			}
		}
		docs = append(docs, docSeed{label: "recepción " + req.PartnerReference, req: req})
	}
	docs = append(docs,
		docSeed{
			label: "despacho SO-EXTRA-1",
			req: dto.CreateDocumentRequest{
				Kind: string(entity.KindDelivery), WarehouseID: wh[whMain],
				Partner: "Demo Customer", PartnerReference: "SO-EXTRA-1", ShippingAddress: "456 Demo Ave",
				Items: []dto.DocumentItemRequest{{ProductID: p["LAP-001"], Quantity: dec("1")}},
			},
		},
		docSeed{
			label: "traslado demo automático",
			req: dto.CreateDocumentRequest{
				Kind: string(entity.KindTransfer), WarehouseID: wh[whMain], ToWarehouseID: wh[whSecondary],
				Notes: "Auto-generated demo transfer",
				Items: []dto.DocumentItemRequest{{ProductID: p["STL-001"], Quantity: dec("20")}},
			},
		},
	)
	return docs
}
