package inventory

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/restops-core/internal/domain"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
)

// AllocationSlice es la porción tomada de un lote durante una asignación FIFO.
type AllocationSlice struct {
	Batch    *entity.StockBatch
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// AllocationResult es el resultado de una selección FIFO: las porciones en
// orden de consumo y el faltante si el stock abierto no alcanzó.
type AllocationResult struct {
	Slices    []AllocationSlice
	Allocated decimal.Decimal
	Shortfall decimal.Decimal
}

// TotalCost devuelve el costo ponderado de lo asignado (sin el faltante).
func (r AllocationResult) TotalCost() decimal.Decimal {
	var total decimal.Decimal
	for _, s := range r.Slices {
		total = total.Add(s.Quantity.Mul(s.UnitCost))
	}
	return total
}

// SelectFIFO consume greedy desde el lote abierto más antiguo hasta satisfacer
// qty, partiendo entre lotes cuando hace falta. Ordena por ReceivedAt
// ascendente con desempate por Seq (orden de inserción). No muta los lotes;
// el caller aplica los decrementos dentro de su transacción.
func SelectFIFO(batches []*entity.StockBatch, qty decimal.Decimal) (AllocationResult, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return AllocationResult{}, domain.ErrInvalidQuantity
	}

	open := make([]*entity.StockBatch, 0, len(batches))
	for _, b := range batches {
		if !b.Exhausted() {
			open = append(open, b)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		if !open[i].ReceivedAt.Equal(open[j].ReceivedAt) {
			return open[i].ReceivedAt.Before(open[j].ReceivedAt)
		}
		return open[i].Seq < open[j].Seq
	})

	result := AllocationResult{}
	pending := qty
	for _, b := range open {
		if !pending.GreaterThan(decimal.Zero) {
			break
		}
		take := decimal.Min(pending, b.Remaining)
		result.Slices = append(result.Slices, AllocationSlice{
			Batch:    b,
			Quantity: take,
			UnitCost: b.UnitCost,
		})
		result.Allocated = result.Allocated.Add(take)
		pending = pending.Sub(take)
	}
	result.Shortfall = pending
	return result, nil
}
