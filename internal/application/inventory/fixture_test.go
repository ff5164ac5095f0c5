package inventory_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmaster/internal/application/dto"
	"github.com/jhoicas/stockmaster/internal/application/inventory"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	whMain = "wh-main"
	whHub  = "wh-hub"
	prodA  = "prod-a"
	prodB  = "prod-b"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event inventory.DocumentEvent) error {
	return m.Called(ctx, event).Error(0)
}

type fixture struct {
	ctx        context.Context
	store      *memory.Store
	pub        *mockPublisher
	docs       *inventory.DocumentUseCase
	completion *inventory.CompletionUseCase
	ledger     *inventory.LedgerUseCase
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *string { return &s }

// newFixture dos bodegas y dos productos; prodA con costo promedio 10.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	for _, w := range []*entity.Warehouse{{ID: whMain, Code: "WH-001", Name: "Principal"}, {ID: whHub, Code: "WH-003", Name: "Hub"}} {
		require.NoError(t, store.Warehouses().Create(ctx, w))
	}
	for _, p := range []*entity.Product{{ID: prodA, SKU: "LAP-001", Name: "Laptop", Cost: d("10")}, {ID: prodB, SKU: "MOU-010", Name: "Mouse"}} {
		require.NoError(t, store.Products().Create(ctx, p))
	}
	pub := &mockPublisher{}
	log := zerolog.Nop()
	return &fixture{
		ctx:        ctx,
		store:      store,
		pub:        pub,
		docs:       inventory.NewDocumentUseCase(store, store.Documents(), store.Products(), store.Warehouses(), pub, log),
		completion: inventory.NewCompletionUseCase(store, pub, log),
		ledger:     inventory.NewLedgerUseCase(store, store.Stock()),
	}
}

func (f *fixture) stock(t *testing.T, productID, warehouseID, qty, reserved string) {
	t.Helper()
	_, created, err := f.ledger.InitializeStock(f.ctx, productID, warehouseID, d(qty), d(reserved))
	require.NoError(t, err)
	require.True(t, created, "la fila %s/%s ya existía", productID, warehouseID)
}

func (f *fixture) row(t *testing.T, productID, warehouseID string) *entity.StockItem {
	t.Helper()
	r, _, err := f.store.Stock().GetOrCreate(f.ctx, productID, warehouseID)
	require.NoError(t, err)
	return r
}

func (f *fixture) assertRow(t *testing.T, productID, warehouseID, qty, reserved string) {
	t.Helper()
	r := f.row(t, productID, warehouseID)
	assert.True(t, r.Quantity.Equal(d(qty)), "%s/%s cantidad: esperado %s, obtenido %s", productID, warehouseID, qty, r.Quantity)
	assert.True(t, r.ReservedQuantity.Equal(d(reserved)), "%s/%s reservado: esperado %s, obtenido %s", productID, warehouseID, reserved, r.ReservedQuantity)
}

func (f *fixture) create(t *testing.T, req dto.CreateDocumentRequest) *entity.Document {
	t.Helper()
	if req.Status == "" {
		req.Status = string(entity.StatusReady)
	}
	doc, err := f.docs.Create(f.ctx, req)
	require.NoError(t, err)
	return doc
}

func (f *fixture) expectEvent(eventType string, kind entity.DocumentKind) {
	f.pub.On("Publish", mock.Anything, mock.MatchedBy(func(e inventory.DocumentEvent) bool {
		return e.Type == eventType && e.Kind == kind
	})).Return(nil).Once()
}
