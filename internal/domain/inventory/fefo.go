package inventory

import (
	"sort"

	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
)

// BatchDeduction es la porción de un plan FEFO que toca un lote: cuánto se
// descuenta y el stock resultante (si queda en cero el lote se elimina).
type BatchDeduction struct {
	Batch    *entity.Batch
	Quantity int64
	NewStock int64
}

// DeductionPlan es el resultado de planear una salida FEFO sobre un snapshot de
// lotes. Si Fulfilled es false el plan no debe aplicarse: la transacción entera
// se descarta y no queda mutación parcial.
type DeductionPlan struct {
	Deductions []BatchDeduction
	Remaining  int64
	Fulfilled  bool
}

// SortFEFO ordena los lotes en orden FEFO estable: vencimiento ascendente con
// nulos al final ("no vence" se consume de último), recepción ascendente como
// desempate. No muta el slice recibido.
func SortFEFO(batches []*entity.Batch) []*entity.Batch {
	ordered := make([]*entity.Batch, len(batches))
	copy(ordered, batches)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ExpiresBefore(ordered[j])
	})
	return ordered
}

// PlanDeduction recorre los lotes en orden FEFO y arma el plan de descuento:
// de cada lote toma min(stock del lote, pendiente) hasta cubrir la cantidad.
// Es una función pura sobre el snapshot: la decisión es determinista y quien
// llama la aplica dentro de la misma transacción que tomó el snapshot.
func PlanDeduction(batches []*entity.Batch, quantity int64) DeductionPlan {
	plan := DeductionPlan{Remaining: quantity}
	if quantity <= 0 {
		plan.Fulfilled = quantity == 0
		return plan
	}
	for _, b := range SortFEFO(batches) {
		if plan.Remaining == 0 {
			break
		}
		if b.Stock <= 0 {
			continue
		}
		take := b.Stock
		if take > plan.Remaining {
			take = plan.Remaining
		}
		plan.Deductions = append(plan.Deductions, BatchDeduction{
			Batch:    b,
			Quantity: take,
			NewStock: b.Stock - take,
		})
		plan.Remaining -= take
	}
	plan.Fulfilled = plan.Remaining == 0
	return plan
}

// SumStock suma el stock de un conjunto de lotes (total "real" contra el que se
// valida el agregado del producto).
func SumStock(batches []*entity.Batch) int64 {
	var total int64
	for _, b := range batches {
		total += b.Stock
	}
	return total
}
