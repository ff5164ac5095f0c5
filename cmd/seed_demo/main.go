// seed_demo carga datos demo: usuario, catálogos, bodegas, productos, niveles de stock y
// documentos completados por el motor de inventario.
//
// Uso:
//
//	go run ./cmd/seed_demo            # contra PostgreSQL (aplica migraciones antes)
//	go run ./cmd/seed_demo -dry-run   # contra un almacén en memoria, sin tocar la BD
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/stockmaster/internal/application/auth"
	"github.com/jhoicas/stockmaster/internal/application/inventory"
	"github.com/jhoicas/stockmaster/internal/application/seed"
	"github.com/jhoicas/stockmaster/internal/application/usecase"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
	"github.com/jhoicas/stockmaster/internal/infrastructure/memory"
	"github.com/jhoicas/stockmaster/internal/infrastructure/messaging"
	"github.com/jhoicas/stockmaster/internal/infrastructure/postgres"
	"github.com/jhoicas/stockmaster/pkg/config"
	"github.com/jhoicas/stockmaster/pkg/logger"
)

// repos lo que necesita el seeder, venga de PostgreSQL o de memoria.
type repos struct {
	tx         inventory.TxRunner
	users      repository.UserRepository
	catalog    repository.CatalogRepository
	warehouses repository.WarehouseRepository
	products   repository.ProductRepository
	stock      repository.StockRepository
	documents  repository.DocumentRepository
	cleanup    func()
}

func main() {
	dryRun := flag.Bool("dry-run", false, "ejecutar contra un almacén en memoria")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: cfg.App.Name + "-seed"})
	zl := log.Zerolog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var r *repos
	if *dryRun {
		log.Info().Msg("modo dry-run: almacén en memoria")
		r = memoryRepos()
	} else {
		r, err = postgresRepos(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("preparar PostgreSQL")
		}
	}
	defer r.cleanup()

	var publisher inventory.EventPublisher = inventory.NoopPublisher{}
	if cfg.RabbitMQ.Enabled() && !*dryRun {
		client := messaging.NewClient(messaging.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RetryCount: cfg.RabbitMQ.RetryCount,
			RetryDelay: 2 * time.Second,
		}, zl)
		if err := client.Connect(); err != nil {
			// Los eventos son de mejor esfuerzo: sin broker el seed sigue
			log.Warn().Err(err).Msg("RabbitMQ no disponible; eventos deshabilitados")
		} else {
			defer client.Close()
			publisher = messaging.NewPublisher(client, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.RetryCount, zl)
		}
	}

	seeder := seed.NewSeeder(seed.Deps{
		Users:      auth.NewUserUseCase(r.users, 0),
		Catalog:    usecase.NewCatalogUseCase(r.catalog),
		Warehouses: usecase.NewWarehouseUseCase(r.warehouses),
		Products:   usecase.NewProductUseCase(r.products),
		Ledger:     inventory.NewLedgerUseCase(r.tx, r.stock),
		Documents:  inventory.NewDocumentUseCase(r.tx, r.documents, r.products, r.warehouses, publisher, zl),
		Completion: inventory.NewCompletionUseCase(r.tx, publisher, zl),
	}, seed.Options{
		DemoEmail:    cfg.Seed.DemoEmail,
		DemoPassword: cfg.Seed.DemoPassword,
	}, zl)

	rep, err := seeder.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("seed abortado")
	}
	for _, f := range rep.Failures {
		log.Warn().Err(f.Err).Str("document", f.Label).Msg("documento demo rechazado")
	}
	log.Info().
		Bool("dry_run", *dryRun).
		Int("completed", rep.Completed).
		Int("skipped", rep.Skipped).
		Int("failed", len(rep.Failures)).
		Msg("seed terminado")

	// Lista de reposición resultante, la misma lectura que usa el resumen de stock bajo
	low, err := inventory.NewReplenishmentUseCase(r.stock).GenerateReplenishmentList(ctx, "")
	if err != nil {
		log.Warn().Err(err).Msg("calcular reposición")
		return
	}
	for _, s := range low {
		log.Info().
			Int("priority", s.Priority).
			Str("sku", s.SKU).
			Str("available", s.Available.String()).
			Str("reorder_level", s.ReorderLevel.String()).
			Str("suggested_qty", s.SuggestedOrderQty.String()).
			Msg("bajo punto de reorden")
	}
}

func memoryRepos() *repos {
	store := memory.NewStore()
	return &repos{
		tx:         store,
		users:      store.Users(),
		catalog:    store.Catalog(),
		warehouses: store.Warehouses(),
		products:   store.Products(),
		stock:      store.Stock(),
		documents:  store.Documents(),
		cleanup:    func() {},
	}
}

func postgresRepos(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repos, error) {
	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.Zerolog())
	if err != nil {
		return nil, err
	}
	upErr := m.Up()
	if err := m.Close(); err != nil {
		log.Warn().Err(err).Msg("cerrar migrador")
	}
	if upErr != nil {
		return nil, upErr
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, log.Zerolog())
	if err != nil {
		return nil, err
	}
	return &repos{
		tx:         postgres.NewTxRunner(pool),
		users:      postgres.NewUserRepository(pool),
		catalog:    postgres.NewCatalogRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		products:   postgres.NewProductRepository(pool),
		stock:      postgres.NewStockRepository(pool),
		documents:  postgres.NewDocumentRepository(pool),
		cleanup:    pool.Close,
	}, nil
}
