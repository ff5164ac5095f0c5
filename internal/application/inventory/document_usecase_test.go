package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmaster/internal/application/dto"
	"github.com/jhoicas/stockmaster/internal/application/inventory"
	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
)

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name    string
		req     dto.CreateDocumentRequest
		wantErr error
	}{
		{
			name:    "estado inicial completed",
			req:     dto.CreateDocumentRequest{Kind: "receipt", Status: "completed", WarehouseID: whMain},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "bodega inexistente",
			req:     dto.CreateDocumentRequest{Kind: "receipt", WarehouseID: "wh-x"},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "producto inexistente",
			req: dto.CreateDocumentRequest{Kind: "receipt", WarehouseID: whMain,
				Items: []dto.DocumentItemRequest{{ProductID: "prod-x", QuantityReceived: d("1")}}},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "tipo de ajuste desconocido",
			req:     dto.CreateDocumentRequest{Kind: "adjustment", WarehouseID: whMain, AdjustmentType: "double"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "traslado sin destino",
			req:     dto.CreateDocumentRequest{Kind: "transfer", WarehouseID: whMain},
			wantErr: domain.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.docs.Create(f.ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	list, err := f.docs.List(f.ctx, repository.DocumentFilter{}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list, "ningún documento inválido se persiste")
}

func TestCreate_AdjustmentAliases(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t, dto.CreateDocumentRequest{Kind: "adjustment", WarehouseID: whMain, AdjustmentType: "decrease"})
	assert.Equal(t, entity.AdjustmentRemove, doc.AdjustmentType)
}

func TestAddItem(t *testing.T) {
	f := newFixture(t)
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	doc := f.create(t, dto.CreateDocumentRequest{Kind: "receipt", Status: "draft", WarehouseID: whMain})

	item, err := f.docs.AddItem(f.ctx, doc.ID, dto.DocumentItemRequest{ProductID: prodA, QuantityReceived: d("2")})
	require.NoError(t, err)
	assert.Equal(t, 0, item.Position)
	item, err = f.docs.AddItem(f.ctx, doc.ID, dto.DocumentItemRequest{ProductID: prodB, QuantityReceived: d("3")})
	require.NoError(t, err)
	assert.Equal(t, 1, item.Position)

	stored, err := f.docs.Get(f.ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, prodA, stored.Items[0].ProductID)

	_, err = f.docs.MarkReady(f.ctx, doc.ID)
	require.NoError(t, err)
	_, err = f.completion.ValidateAndComplete(f.ctx, doc.ID, nil)
	require.NoError(t, err)

	_, err = f.docs.AddItem(f.ctx, doc.ID, dto.DocumentItemRequest{ProductID: prodA, QuantityReceived: d("1")})
	assert.ErrorIs(t, err, domain.ErrDocumentLocked)
	_, err = f.docs.AddItem(f.ctx, "no-existe", dto.DocumentItemRequest{ProductID: prodA})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReserveDelivery_ThenComplete(t *testing.T) {
	f := newFixture(t)
	f.stock(t, prodA, whMain, "10", "0")
	doc := f.create(t, dto.CreateDocumentRequest{
		Kind: "delivery", WarehouseID: whMain, PartnerReference: "SO-2001",
		Items: []dto.DocumentItemRequest{{ProductID: prodA, Quantity: d("6")}},
	})

	reserved, err := f.docs.ReserveDelivery(f.ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, reserved.Reserved)
	assert.True(t, reserved.Items[0].ReservedQuantity.Equal(d("6")))
	f.assertRow(t, prodA, whMain, "10", "6")

	// otro despacho ya no puede tomar lo reservado
	other := f.create(t, dto.CreateDocumentRequest{
		Kind: "delivery", WarehouseID: whMain,
		Items: []dto.DocumentItemRequest{{ProductID: prodA, Quantity: d("5")}},
	})
	_, err = f.completion.ValidateAndComplete(f.ctx, other.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// reservar dos veces no duplica la reserva
	_, err = f.docs.ReserveDelivery(f.ctx, doc.ID)
	require.NoError(t, err)
	f.assertRow(t, prodA, whMain, "10", "6")

	f.expectEvent(inventory.EventDocumentCompleted, entity.KindDelivery)
	_, err = f.completion.ValidateAndComplete(f.ctx, doc.ID, nil)
	require.NoError(t, err)
	f.assertRow(t, prodA, whMain, "4", "0")
	f.pub.AssertExpectations(t)
}

func TestReserveDelivery_AddItemAfterReservation(t *testing.T) {
	f := newFixture(t)
	f.stock(t, prodA, whMain, "10", "0")
	f.stock(t, prodB, whMain, "5", "0")
	doc := f.create(t, dto.CreateDocumentRequest{
		Kind: "delivery", WarehouseID: whMain,
		Items: []dto.DocumentItemRequest{{ProductID: prodA, Quantity: d("3")}},
	})
	_, err := f.docs.ReserveDelivery(f.ctx, doc.ID)
	require.NoError(t, err)

	item, err := f.docs.AddItem(f.ctx, doc.ID, dto.DocumentItemRequest{ProductID: prodB, Quantity: d("1")})
	require.NoError(t, err, "un despacho reservado en ready sigue admitiendo líneas")
	assert.Equal(t, 1, item.Position)
	assert.True(t, item.ReservedQuantity.IsZero())
	f.assertRow(t, prodB, whMain, "5", "0")

	// volver a reservar solo toma lo que falta: la línea nueva
	stored, err := f.docs.ReserveDelivery(f.ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, stored.Items[1].ReservedQuantity.Equal(d("1")))
	f.assertRow(t, prodA, whMain, "10", "3")
	f.assertRow(t, prodB, whMain, "5", "1")

	f.expectEvent(inventory.EventDocumentCompleted, entity.KindDelivery)
	_, err = f.completion.ValidateAndComplete(f.ctx, doc.ID, nil)
	require.NoError(t, err)
	f.assertRow(t, prodA, whMain, "7", "0")
	f.assertRow(t, prodB, whMain, "4", "0")
	f.pub.AssertExpectations(t)
}

func TestReserveDelivery_UnreservedLineCompletesAgainstAvailable(t *testing.T) {
	f := newFixture(t)
	f.stock(t, prodA, whMain, "10", "0")
	doc := f.create(t, dto.CreateDocumentRequest{
		Kind: "delivery", WarehouseID: whMain,
		Items: []dto.DocumentItemRequest{{ProductID: prodA, Quantity: d("6")}},
	})
	_, err := f.docs.ReserveDelivery(f.ctx, doc.ID)
	require.NoError(t, err)

	// 6 reservadas + 5 sin reservar > 10 en mano
	_, err = f.docs.AddItem(f.ctx, doc.ID, dto.DocumentItemRequest{ProductID: prodA, Quantity: d("5")})
	require.NoError(t, err)
	_, err = f.completion.ValidateAndComplete(f.ctx, doc.ID, nil)
	ie, ok := domain.AsItemError(err)
	require.True(t, ok, "error: %v", err)
	assert.Equal(t, 1, ie.Index)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	f.assertRow(t, prodA, whMain, "10", "6")
}

func TestReserveDelivery_InsufficientReservesNothing(t *testing.T) {
	f := newFixture(t)
	f.stock(t, prodA, whMain, "10", "0")
	f.stock(t, prodB, whMain, "1", "0")
	doc := f.create(t, dto.CreateDocumentRequest{
		Kind: "delivery", WarehouseID: whMain,
		Items: []dto.DocumentItemRequest{
			{ProductID: prodA, Quantity: d("2")},
			{ProductID: prodB, Quantity: d("2")},
		},
	})

	_, err := f.docs.ReserveDelivery(f.ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	f.assertRow(t, prodA, whMain, "10", "0")

	stored, err := f.docs.Get(f.ctx, doc.ID)
	require.NoError(t, err)
	assert.False(t, stored.Reserved)
	assert.True(t, stored.Items[0].ReservedQuantity.IsZero())
}

func TestCancel_ReleasesReservation(t *testing.T) {
	f := newFixture(t)
	f.stock(t, prodA, whMain, "10", "0")
	doc := f.create(t, dto.CreateDocumentRequest{
		Kind: "delivery", WarehouseID: whMain,
		Items: []dto.DocumentItemRequest{{ProductID: prodA, Quantity: d("4")}},
	})
	_, err := f.docs.ReserveDelivery(f.ctx, doc.ID)
	require.NoError(t, err)
	f.assertRow(t, prodA, whMain, "10", "4")

	f.expectEvent(inventory.EventDocumentCancelled, entity.KindDelivery)
	cancelled, err := f.docs.Cancel(f.ctx, doc.ID, ptr("user-1"))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, cancelled.Status)
	assert.False(t, cancelled.Reserved)
	f.assertRow(t, prodA, whMain, "10", "0")
	f.pub.AssertExpectations(t)

	_, err = f.docs.Cancel(f.ctx, doc.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.completion.ValidateAndComplete(f.ctx, doc.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestListAndExists(t *testing.T) {
	f := newFixture(t)
	f.create(t, dto.CreateDocumentRequest{Kind: "receipt", WarehouseID: whMain, PartnerReference: "PO-1001"})
	f.create(t, dto.CreateDocumentRequest{Kind: "receipt", WarehouseID: whHub, PartnerReference: "PO-HUB-301"})
	f.create(t, dto.CreateDocumentRequest{Kind: "transfer", WarehouseID: whMain, ToWarehouseID: whHub})

	byMain, err := f.docs.ListByWarehouse(f.ctx, whMain, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, byMain, 2)

	receipts, err := f.docs.List(f.ctx, repository.DocumentFilter{Kind: entity.KindReceipt}, dto.PageRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, receipts, 1)

	ok, err := f.docs.Exists(f.ctx, repository.DocumentFilter{PartnerReference: "PO-HUB-301"})
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.docs.Exists(f.ctx, repository.DocumentFilter{PartnerReference: "PO-404"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.docs.Get(f.ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
