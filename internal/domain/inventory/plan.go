package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Effect efecto de una línea sobre una fila del libro.
type Effect struct {
	Key           entity.StockKey
	ItemIndex     int
	QuantityDelta decimal.Decimal
	ReservedDelta decimal.Decimal
	UnitCost      decimal.Decimal // solo recepciones
	// Outbound exige que lo que sale sin reserva previa quepa en lo disponible.
	Outbound bool
	// Expected, si no es nil, es la cantidad que la línea espera encontrar en el libro (ajustes).
	Expected *decimal.Decimal
}

// Plan efectos de un documento en orden de línea.
type Plan struct {
	Doc     *entity.Document
	Effects []Effect
}

// Applied resultado de aplicar un efecto: fila antes y después.
type Applied struct {
	Effect Effect
	Before entity.StockItem
	After  entity.StockItem
}

// Keys devuelve las claves tocadas, sin repetir, en orden determinista (orden de bloqueo).
func (p *Plan) Keys() []entity.StockKey {
	seen := make(map[entity.StockKey]struct{}, len(p.Effects))
	keys := make([]entity.StockKey, 0, len(p.Effects))
	for _, e := range p.Effects {
		if _, ok := seen[e.Key]; ok {
			continue
		}
		seen[e.Key] = struct{}{}
		keys = append(keys, e.Key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Totals suma los deltas por clave.
func (p *Plan) Totals() map[entity.StockKey][2]decimal.Decimal {
	out := make(map[entity.StockKey][2]decimal.Decimal, len(p.Effects))
	for _, e := range p.Effects {
		t := out[e.Key]
		t[0] = t[0].Add(e.QuantityDelta)
		t[1] = t[1].Add(e.ReservedDelta)
		out[e.Key] = t
	}
	return out
}

// PlanCompletion valida las reglas estáticas del documento y calcula sus efectos.
// No consulta el libro: las reglas que dependen del stock se evalúan en Apply.
func PlanCompletion(doc *entity.Document) (*Plan, error) {
	if err := ValidateHeader(doc); err != nil {
		return nil, err
	}
	if len(doc.Items) == 0 {
		return nil, fmt.Errorf("%w: documento sin líneas", domain.ErrInvalidInput)
	}
	plan := &Plan{Doc: doc, Effects: make([]Effect, 0, len(doc.Items)+1)}
	adjSeen := make(map[string]int)
	for i := range doc.Items {
		item := &doc.Items[i]
		if err := validateItem(doc, i, item); err != nil {
			return nil, err
		}
		src := entity.StockKey{ProductID: item.ProductID, WarehouseID: doc.WarehouseID}
		switch doc.Kind {
		case entity.KindReceipt:
			if item.QuantityReceived.IsZero() {
				continue
			}
			plan.Effects = append(plan.Effects, Effect{
				Key: src, ItemIndex: i,
				QuantityDelta: item.QuantityReceived,
				UnitCost:      item.UnitPrice,
			})
		case entity.KindDelivery:
			plan.Effects = append(plan.Effects, Effect{
				Key: src, ItemIndex: i,
				QuantityDelta: item.Quantity.Neg(),
				ReservedDelta: item.ReservedQuantity.Neg(),
				Outbound:      true,
			})
		case entity.KindTransfer:
			dst := entity.StockKey{ProductID: item.ProductID, WarehouseID: doc.ToWarehouseID}
			plan.Effects = append(plan.Effects,
				Effect{Key: src, ItemIndex: i, QuantityDelta: item.Quantity.Neg(), Outbound: true},
				Effect{Key: dst, ItemIndex: i, QuantityDelta: item.Quantity},
			)
		case entity.KindReturn:
			// scrap y repair no vuelven al stock vendible
			if doc.Disposition != entity.DispositionRestock {
				continue
			}
			plan.Effects = append(plan.Effects, Effect{
				Key: src, ItemIndex: i,
				QuantityDelta: item.Quantity,
			})
		case entity.KindAdjustment:
			if prev, ok := adjSeen[item.ProductID]; ok {
				return nil, itemErr(i, item, fmt.Sprintf("producto repetido (línea %d)", prev), domain.ErrDuplicate)
			}
			adjSeen[item.ProductID] = i
			adjType, _ := entity.ParseAdjustmentType(string(doc.AdjustmentType))
			var delta decimal.Decimal
			switch adjType {
			case entity.AdjustmentSet:
				delta = item.AdjustmentQuantity.Sub(item.CurrentQuantity)
			case entity.AdjustmentAdd:
				delta = item.AdjustmentQuantity
			case entity.AdjustmentRemove:
				delta = item.AdjustmentQuantity.Neg()
			}
			expected := item.CurrentQuantity
			plan.Effects = append(plan.Effects, Effect{
				Key: src, ItemIndex: i,
				QuantityDelta: delta,
				Expected:      &expected,
			})
		}
	}
	return plan, nil
}

// PlanReservation reserva lo que falte por reservar de cada línea de un despacho.
func PlanReservation(doc *entity.Document) (*Plan, error) {
	if doc.Kind != entity.KindDelivery {
		return nil, fmt.Errorf("%w: solo los despachos admiten reserva", domain.ErrInvalidInput)
	}
	if !doc.Status.Editable() {
		return nil, domain.ErrDocumentLocked
	}
	plan := &Plan{Doc: doc}
	for i := range doc.Items {
		item := &doc.Items[i]
		missing := item.Quantity.Sub(item.ReservedQuantity)
		if !missing.IsPositive() {
			continue
		}
		plan.Effects = append(plan.Effects, Effect{
			Key:           entity.StockKey{ProductID: item.ProductID, WarehouseID: doc.WarehouseID},
			ItemIndex:     i,
			ReservedDelta: missing,
			Outbound:      true,
		})
	}
	return plan, nil
}

// PlanRelease libera las reservas de un despacho (al cancelar).
func PlanRelease(doc *entity.Document) *Plan {
	plan := &Plan{Doc: doc}
	if doc.Kind != entity.KindDelivery {
		return plan
	}
	for i := range doc.Items {
		item := &doc.Items[i]
		if !item.ReservedQuantity.IsPositive() {
			continue
		}
		plan.Effects = append(plan.Effects, Effect{
			Key:           entity.StockKey{ProductID: item.ProductID, WarehouseID: doc.WarehouseID},
			ItemIndex:     i,
			ReservedDelta: item.ReservedQuantity.Neg(),
		})
	}
	return plan
}

// Apply evalúa el plan contra las filas del libro (ya bloqueadas por el caller) y las muta
// en orden de línea. Las filas deben existir para todas las claves de Keys(). Si alguna regla
// falla devuelve *domain.ItemError y el caller descarta las filas (rollback).
func (p *Plan) Apply(rows map[entity.StockKey]*entity.StockItem, now time.Time) ([]Applied, error) {
	// snapshot para la verificación optimista de los ajustes
	original := make(map[entity.StockKey]decimal.Decimal, len(rows))
	for k, r := range rows {
		original[k] = r.Quantity
	}
	applied := make([]Applied, 0, len(p.Effects))
	for _, e := range p.Effects {
		item := &p.Doc.Items[e.ItemIndex]
		row, ok := rows[e.Key]
		if !ok {
			return nil, fmt.Errorf("fila de stock no cargada: %s/%s", e.Key.ProductID, e.Key.WarehouseID)
		}
		if e.Expected != nil && !original[e.Key].Equal(*e.Expected) {
			return nil, itemErr(e.ItemIndex, item,
				fmt.Sprintf("current_quantity %s != libro %s", e.Expected.String(), original[e.Key].String()),
				domain.ErrStaleQuantity)
		}
		if e.Outbound {
			// lo que sale sin reserva propia debe caber en lo disponible para prometer
			need := e.QuantityDelta.Neg().Add(e.ReservedDelta)
			if need.GreaterThan(row.Available()) {
				return nil, itemErr(e.ItemIndex, item,
					fmt.Sprintf("solicitado %s > disponible %s", need.String(), row.Available().String()),
					domain.ErrInsufficientStock)
			}
		}
		before := *row
		if err := ApplyDelta(row, e.QuantityDelta, e.ReservedDelta, now); err != nil {
			return nil, itemErr(e.ItemIndex, item, "límites del libro", err)
		}
		applied = append(applied, Applied{Effect: e, Before: before, After: *row})
	}
	return applied, nil
}
