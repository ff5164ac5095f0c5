package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/inventory"
)

func key(p, w string) entity.StockKey { return entity.StockKey{ProductID: p, WarehouseID: w} }

func ready(doc *entity.Document, items ...entity.DocumentItem) *entity.Document {
	for _, it := range items {
		_, err := inventory.AddItem(doc, it, testNow)
		if err != nil {
			panic(err)
		}
	}
	doc.Status = entity.StatusReady
	return doc
}

// rows construye filas del libro; cada valor es {cantidad, reservado}.
func rows(vals map[entity.StockKey][2]string) map[entity.StockKey]*entity.StockItem {
	out := make(map[entity.StockKey]*entity.StockItem, len(vals))
	for k, v := range vals {
		out[k] = &entity.StockItem{ProductID: k.ProductID, WarehouseID: k.WarehouseID, Quantity: d(v[0]), ReservedQuantity: d(v[1])}
	}
	return out
}

func apply(t *testing.T, doc *entity.Document, ledger map[entity.StockKey]*entity.StockItem) ([]inventory.Applied, error) {
	t.Helper()
	plan, err := inventory.PlanCompletion(doc)
	if err != nil {
		return nil, err
	}
	for _, k := range plan.Keys() {
		if _, ok := ledger[k]; !ok {
			ledger[k] = inventory.NewStockItem(k.ProductID, k.WarehouseID, testNow)
		}
	}
	return plan.Apply(ledger, testNow)
}

// ──────────────────────────────────────────────────────────────────────────────
// Efectos por tipo de documento
// ──────────────────────────────────────────────────────────────────────────────

func TestPlanCompletion_Receipt(t *testing.T) {
	doc := ready(newDoc(entity.KindReceipt),
		entity.DocumentItem{ProductID: "p1", QuantityOrdered: d("10"), QuantityReceived: d("8"), UnitPrice: d("5")},
		entity.DocumentItem{ProductID: "p2", QuantityOrdered: d("4"), QuantityReceived: d("0")},
	)
	ledger := rows(map[entity.StockKey][2]string{key("p1", "w1"): {"2", "1"}})

	applied, err := apply(t, doc, ledger)
	require.NoError(t, err)
	require.Len(t, applied, 1, "las líneas sin cantidad recibida no generan efecto")
	assert.True(t, ledger[key("p1", "w1")].Quantity.Equal(d("10")))
	assert.True(t, ledger[key("p1", "w1")].ReservedQuantity.Equal(d("1")), "la recepción no toca reservas")
	assert.True(t, applied[0].Effect.UnitCost.Equal(d("5")))
	assert.True(t, applied[0].Before.Quantity.Equal(d("2")))
}

func TestPlanCompletion_DeliveryUsesAvailable(t *testing.T) {
	doc := ready(newDoc(entity.KindDelivery), entity.DocumentItem{ProductID: "p1", Quantity: d("5")})

	// 10 en mano, 6 reservados por otros: disponible 4
	_, err := apply(t, doc, rows(map[entity.StockKey][2]string{key("p1", "w1"): {"10", "6"}}))
	ie, ok := domain.AsItemError(err)
	require.True(t, ok)
	assert.Equal(t, 0, ie.Index)
	assert.Equal(t, "p1", ie.ProductID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	ledger := rows(map[entity.StockKey][2]string{key("p1", "w1"): {"10", "5"}})
	_, err = apply(t, doc, ledger)
	require.NoError(t, err)
	assert.True(t, ledger[key("p1", "w1")].Quantity.Equal(d("5")))
	assert.True(t, ledger[key("p1", "w1")].ReservedQuantity.Equal(d("5")))
}

func TestPlanCompletion_DeliveryConsumesOwnReservation(t *testing.T) {
	doc := ready(newDoc(entity.KindDelivery), entity.DocumentItem{ProductID: "p1", Quantity: d("5")})
	doc.Items[0].ReservedQuantity = d("5")
	doc.Reserved = true

	// todo lo disponible está reservado por este mismo despacho
	ledger := rows(map[entity.StockKey][2]string{key("p1", "w1"): {"5", "5"}})
	_, err := apply(t, doc, ledger)
	require.NoError(t, err)
	assert.True(t, ledger[key("p1", "w1")].Quantity.IsZero())
	assert.True(t, ledger[key("p1", "w1")].ReservedQuantity.IsZero())
}

func TestPlanCompletion_Transfer(t *testing.T) {
	doc := ready(newDoc(entity.KindTransfer), entity.DocumentItem{ProductID: "p1", Quantity: d("3")})
	ledger := rows(map[entity.StockKey][2]string{key("p1", "w1"): {"10", "0"}})

	applied, err := apply(t, doc, ledger)
	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.True(t, ledger[key("p1", "w1")].Quantity.Equal(d("7")))
	assert.True(t, ledger[key("p1", "w2")].Quantity.Equal(d("3")), "la fila destino se crea")
}

func TestPlanCompletion_TransferSameProductTwiceIsCumulative(t *testing.T) {
	doc := ready(newDoc(entity.KindTransfer),
		entity.DocumentItem{ProductID: "p1", Quantity: d("3")},
		entity.DocumentItem{ProductID: "p1", Quantity: d("3")},
	)
	_, err := apply(t, doc, rows(map[entity.StockKey][2]string{key("p1", "w1"): {"5", "0"}}))
	ie, ok := domain.AsItemError(err)
	require.True(t, ok)
	assert.Equal(t, 1, ie.Index, "la segunda línea ve lo que dejó la primera")
}

func TestPlanCompletion_Adjustments(t *testing.T) {
	tests := []struct {
		adj     entity.AdjustmentType
		current string
		qty     string
		want    string
	}{
		{entity.AdjustmentSet, "12", "20", "20"},
		{entity.AdjustmentSet, "12", "0", "0"},
		{"increase", "12", "3", "15"},
		{"decrease", "12", "10", "2"},
	}
	for _, tt := range tests {
		t.Run(string(tt.adj)+"_"+tt.qty, func(t *testing.T) {
			doc := newDoc(entity.KindAdjustment)
			doc.AdjustmentType = tt.adj
			ready(doc, entity.DocumentItem{ProductID: "p1", CurrentQuantity: d(tt.current), AdjustmentQuantity: d(tt.qty)})
			ledger := rows(map[entity.StockKey][2]string{key("p1", "w1"): {tt.current, "0"}})

			_, err := apply(t, doc, ledger)
			require.NoError(t, err)
			assert.True(t, ledger[key("p1", "w1")].Quantity.Equal(d(tt.want)), "got %s", ledger[key("p1", "w1")].Quantity)
		})
	}
}

func TestPlanCompletion_AdjustmentStaleQuantity(t *testing.T) {
	doc := ready(newDoc(entity.KindAdjustment), entity.DocumentItem{ProductID: "p1", CurrentQuantity: d("10"), AdjustmentQuantity: d("8")})
	_, err := apply(t, doc, rows(map[entity.StockKey][2]string{key("p1", "w1"): {"11", "0"}}))
	assert.ErrorIs(t, err, domain.ErrStaleQuantity)
}

func TestPlanCompletion_AdjustmentCannotBreakReservation(t *testing.T) {
	doc := newDoc(entity.KindAdjustment)
	doc.AdjustmentType = entity.AdjustmentRemove
	ready(doc, entity.DocumentItem{ProductID: "p1", CurrentQuantity: d("10"), AdjustmentQuantity: d("8")})
	_, err := apply(t, doc, rows(map[entity.StockKey][2]string{key("p1", "w1"): {"10", "5"}}))
	assert.ErrorIs(t, err, domain.ErrInvalidReservation)
}

func TestPlanCompletion_ReturnDisposition(t *testing.T) {
	t.Run("restock suma al stock sin tocar reservas", func(t *testing.T) {
		doc := ready(newDoc(entity.KindReturn), entity.DocumentItem{ProductID: "p1", Quantity: d("3"), Reason: "defective"})
		ledger := rows(map[entity.StockKey][2]string{key("p1", "w1"): {"5", "2"}})

		applied, err := apply(t, doc, ledger)
		require.NoError(t, err)
		require.Len(t, applied, 1)
		assert.False(t, applied[0].Effect.Outbound)
		assert.True(t, ledger[key("p1", "w1")].Quantity.Equal(d("8")))
		assert.True(t, ledger[key("p1", "w1")].ReservedQuantity.Equal(d("2")))
	})

	for _, disp := range []entity.Disposition{entity.DispositionScrap, entity.DispositionRepair} {
		t.Run(string(disp)+" no mueve el libro", func(t *testing.T) {
			doc := newDoc(entity.KindReturn)
			doc.Disposition = disp
			ready(doc, entity.DocumentItem{ProductID: "p1", Quantity: d("3")})
			ledger := rows(map[entity.StockKey][2]string{key("p1", "w1"): {"5", "0"}})

			applied, err := apply(t, doc, ledger)
			require.NoError(t, err)
			assert.Empty(t, applied)
			assert.True(t, ledger[key("p1", "w1")].Quantity.Equal(d("5")))
		})
	}

	t.Run("cantidad cero", func(t *testing.T) {
		doc := newDoc(entity.KindReturn)
		doc.Items = []entity.DocumentItem{{ProductID: "p1", Quantity: d("0")}}
		doc.Status = entity.StatusReady
		_, err := inventory.PlanCompletion(doc)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		ie, ok := domain.AsItemError(err)
		require.True(t, ok)
		assert.Equal(t, 0, ie.Index)
	})
}

func TestPlanCompletion_EmptyDocument(t *testing.T) {
	doc := ready(newDoc(entity.KindReceipt))
	_, err := inventory.PlanCompletion(doc)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden de bloqueo, reservas y liberación
// ──────────────────────────────────────────────────────────────────────────────

func TestPlanKeys_SortedAndUnique(t *testing.T) {
	doc := ready(newDoc(entity.KindTransfer),
		entity.DocumentItem{ProductID: "p2", Quantity: d("1")},
		entity.DocumentItem{ProductID: "p1", Quantity: d("1")},
		entity.DocumentItem{ProductID: "p2", Quantity: d("1")},
	)
	plan, err := inventory.PlanCompletion(doc)
	require.NoError(t, err)
	assert.Equal(t, []entity.StockKey{key("p1", "w1"), key("p1", "w2"), key("p2", "w1"), key("p2", "w2")}, plan.Keys())

	totals := plan.Totals()
	assert.True(t, totals[key("p2", "w1")][0].Equal(d("-2")))
	assert.True(t, totals[key("p2", "w2")][0].Equal(d("2")))
}

func TestPlanReservation(t *testing.T) {
	doc := ready(newDoc(entity.KindDelivery),
		entity.DocumentItem{ProductID: "p1", Quantity: d("4")},
		entity.DocumentItem{ProductID: "p2", Quantity: d("2")},
	)
	doc.Items[1].ReservedQuantity = d("2")

	plan, err := inventory.PlanReservation(doc)
	require.NoError(t, err)
	require.Len(t, plan.Effects, 1, "la línea ya reservada no se vuelve a reservar")
	assert.True(t, plan.Effects[0].ReservedDelta.Equal(d("4")))

	ledger := rows(map[entity.StockKey][2]string{key("p1", "w1"): {"3", "0"}})
	_, err = plan.Apply(ledger, testNow)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = inventory.PlanReservation(newDoc(entity.KindReceipt))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPlanRelease(t *testing.T) {
	doc := ready(newDoc(entity.KindDelivery), entity.DocumentItem{ProductID: "p1", Quantity: d("4")})
	doc.Items[0].ReservedQuantity = d("4")

	plan := inventory.PlanRelease(doc)
	require.Len(t, plan.Effects, 1)
	ledger := rows(map[entity.StockKey][2]string{key("p1", "w1"): {"10", "4"}})
	_, err := plan.Apply(ledger, testNow)
	require.NoError(t, err)
	assert.True(t, ledger[key("p1", "w1")].ReservedQuantity.IsZero())

	assert.Empty(t, inventory.PlanRelease(newDoc(entity.KindTransfer)).Effects)
}
