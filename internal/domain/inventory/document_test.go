package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/inventory"
)

func newDoc(kind entity.DocumentKind) *entity.Document {
	doc := &entity.Document{ID: "doc-1", Kind: kind, Status: entity.StatusDraft, WarehouseID: "w1"}
	switch kind {
	case entity.KindTransfer:
		doc.ToWarehouseID = "w2"
	case entity.KindAdjustment:
		doc.AdjustmentType = entity.AdjustmentSet
	case entity.KindReturn:
		doc.Disposition = entity.DispositionRestock
	}
	return doc
}

// ──────────────────────────────────────────────────────────────────────────────
// Cabecera
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateHeader(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*entity.Document)
		kind    entity.DocumentKind
		wantErr bool
	}{
		{name: "recepción válida", kind: entity.KindReceipt},
		{name: "tipo desconocido", kind: entity.KindReceipt, mutate: func(d *entity.Document) { d.Kind = "consignment" }, wantErr: true},
		{name: "sin bodega", kind: entity.KindDelivery, mutate: func(d *entity.Document) { d.WarehouseID = "" }, wantErr: true},
		{name: "traslado sin destino", kind: entity.KindTransfer, mutate: func(d *entity.Document) { d.ToWarehouseID = "" }, wantErr: true},
		{name: "traslado a la misma bodega", kind: entity.KindTransfer, mutate: func(d *entity.Document) { d.ToWarehouseID = "w1" }, wantErr: true},
		{name: "destino en un despacho", kind: entity.KindDelivery, mutate: func(d *entity.Document) { d.ToWarehouseID = "w2" }, wantErr: true},
		{name: "ajuste sin tipo", kind: entity.KindAdjustment, mutate: func(d *entity.Document) { d.AdjustmentType = "" }, wantErr: true},
		{name: "ajuste con alias increase", kind: entity.KindAdjustment, mutate: func(d *entity.Document) { d.AdjustmentType = "increase" }},
		{name: "devolución a stock", kind: entity.KindReturn},
		{name: "devolución a desecho", kind: entity.KindReturn, mutate: func(d *entity.Document) { d.Disposition = entity.DispositionScrap }},
		{name: "devolución sin destino", kind: entity.KindReturn, mutate: func(d *entity.Document) { d.Disposition = "" }, wantErr: true},
		{name: "devolución con destino desconocido", kind: entity.KindReturn, mutate: func(d *entity.Document) { d.Disposition = "resell" }, wantErr: true},
		{name: "destino en una recepción", kind: entity.KindReceipt, mutate: func(d *entity.Document) { d.Disposition = entity.DispositionRestock }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newDoc(tt.kind)
			if tt.mutate != nil {
				tt.mutate(doc)
			}
			err := inventory.ValidateHeader(doc)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Líneas y transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestAddItem_AssignsPositionAndClearsReservation(t *testing.T) {
	doc := newDoc(entity.KindDelivery)
	_, err := inventory.AddItem(doc, entity.DocumentItem{ID: "i1", ProductID: "p1", Quantity: d("2"), ReservedQuantity: d("2")}, testNow)
	require.NoError(t, err)
	it, err := inventory.AddItem(doc, entity.DocumentItem{ID: "i2", ProductID: "p2", Quantity: d("1")}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1, it.Position)
	assert.Equal(t, "doc-1", it.DocumentID)
	assert.True(t, doc.Items[0].ReservedQuantity.IsZero(), "la reserva solo la fija ReserveDelivery")
	assert.Equal(t, testNow, doc.UpdatedAt)
}

func TestAddItem_ReservedDeliveryAcceptsUnreservedLine(t *testing.T) {
	doc := newDoc(entity.KindDelivery)
	doc.Status = entity.StatusReady
	doc.Reserved = true

	it, err := inventory.AddItem(doc, entity.DocumentItem{ID: "i1", ProductID: "p1", Quantity: d("1")}, testNow)
	require.NoError(t, err)
	assert.True(t, it.ReservedQuantity.IsZero())
	assert.True(t, doc.Reserved, "el despacho conserva sus reservas previas")
}

func TestAddItem_Rejections(t *testing.T) {
	t.Run("documento completado", func(t *testing.T) {
		doc := newDoc(entity.KindReceipt)
		doc.Status = entity.StatusCompleted
		_, err := inventory.AddItem(doc, entity.DocumentItem{ProductID: "p1"}, testNow)
		assert.ErrorIs(t, err, domain.ErrDocumentLocked)
	})
	t.Run("cantidad cero en despacho", func(t *testing.T) {
		doc := newDoc(entity.KindDelivery)
		_, err := inventory.AddItem(doc, entity.DocumentItem{ProductID: "p1"}, testNow)
		ie, ok := domain.AsItemError(err)
		require.True(t, ok)
		assert.Equal(t, 0, ie.Index)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("producto repetido en ajuste", func(t *testing.T) {
		doc := newDoc(entity.KindAdjustment)
		_, err := inventory.AddItem(doc, entity.DocumentItem{ProductID: "p1", AdjustmentQuantity: d("3")}, testNow)
		require.NoError(t, err)
		_, err = inventory.AddItem(doc, entity.DocumentItem{ProductID: "p1", AdjustmentQuantity: d("4")}, testNow)
		assert.ErrorIs(t, err, domain.ErrDuplicate)
		assert.Len(t, doc.Items, 1)
	})
	t.Run("recepción con cantidad recibida negativa", func(t *testing.T) {
		doc := newDoc(entity.KindReceipt)
		_, err := inventory.AddItem(doc, entity.DocumentItem{ProductID: "p1", QuantityReceived: d("-1")}, testNow)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestTransitions(t *testing.T) {
	doc := newDoc(entity.KindReceipt)
	assert.ErrorIs(t, inventory.CanComplete(doc), domain.ErrInvalidTransition, "draft no se completa")

	require.NoError(t, inventory.MarkReady(doc, testNow))
	assert.ErrorIs(t, inventory.MarkReady(doc, testNow), domain.ErrInvalidTransition)
	require.NoError(t, inventory.CanComplete(doc))

	user := "u1"
	require.NoError(t, inventory.MarkCompleted(doc, &user, testNow))
	assert.Equal(t, entity.StatusCompleted, doc.Status)
	assert.Equal(t, &user, doc.CompletedBy)
	require.NotNil(t, doc.CompletedAt)

	assert.ErrorIs(t, inventory.MarkCompleted(doc, &user, testNow), domain.ErrInvalidTransition)
	assert.ErrorIs(t, inventory.Cancel(doc, testNow), domain.ErrInvalidTransition)
}

func TestCancel(t *testing.T) {
	for _, status := range []entity.DocumentStatus{entity.StatusDraft, entity.StatusReady} {
		doc := newDoc(entity.KindTransfer)
		doc.Status = status
		require.NoError(t, inventory.Cancel(doc, testNow), status)
		assert.Equal(t, entity.StatusCancelled, doc.Status)
		require.NotNil(t, doc.CancelledAt)
	}
	doc := newDoc(entity.KindTransfer)
	doc.Status = entity.StatusCancelled
	assert.ErrorIs(t, inventory.Cancel(doc, testNow), domain.ErrInvalidTransition)
}
