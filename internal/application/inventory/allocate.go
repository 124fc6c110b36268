package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/restops-core/internal/domain"
	"github.com/tu-usuario/restops-core/internal/domain/accounting"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
	domaininv "github.com/tu-usuario/restops-core/internal/domain/inventory"
)

// consumeParams describe una salida de stock a ejecutar dentro de una tx.
type consumeParams struct {
	companyID      string
	item           *entity.InventoryItem
	location       *entity.Location
	quantity       decimal.Decimal
	movementType   string
	reason         string
	orderRef       string
	correlationID  string
	idempotencyKey string // solo en el primer movimiento de la operación
	userID         string
	now            time.Time
	blockAlways    bool // traslados: nunca permiten saldo negativo
}

// consumeFIFO bloquea los lotes abiertos del (ítem, sede), selecciona FIFO y
// aplica los decrementos, escribiendo un movimiento por lote tocado con el
// mismo CorrelationID. El SELECT FOR UPDATE serializa las ventas concurrentes
// del mismo ítem sin bloquear ítems no relacionados.
func consumeFIFO(ctx context.Context, r Repos, p consumeParams) ([]*entity.StockMovement, error) {
	batches, err := r.Batches.ListOpenForUpdate(ctx, p.item.ID, p.location.ID)
	if err != nil {
		return nil, err
	}
	return applyConsumption(ctx, r, p, batches)
}

// applyConsumption ejecuta la selección FIFO sobre lotes ya bloqueados por la
// transacción del caller.
func applyConsumption(ctx context.Context, r Repos, p consumeParams, batches []*entity.StockBatch) ([]*entity.StockMovement, error) {
	sel, err := domaininv.SelectFIFO(batches, p.quantity)
	if err != nil {
		return nil, err
	}
	if sel.Shortfall.GreaterThan(decimal.Zero) {
		if p.blockAlways || p.location.NegativeStock != entity.NegativeStockAllow {
			return nil, domain.ErrInsufficientStock
		}
	}

	movs := make([]*entity.StockMovement, 0, len(sel.Slices)+1)
	for _, s := range sel.Slices {
		newRemaining := s.Batch.Remaining.Sub(s.Quantity)
		if err := r.Batches.UpdateRemaining(ctx, s.Batch.ID, newRemaining); err != nil {
			return nil, err
		}
		s.Batch.Remaining = newRemaining
		movs = append(movs, &entity.StockMovement{
			ID:            uuid.New().String(),
			CompanyID:     p.companyID,
			ItemID:        p.item.ID,
			LocationID:    p.location.ID,
			BatchID:       s.Batch.ID,
			CorrelationID: p.correlationID,
			Type:          p.movementType,
			Quantity:      s.Quantity.Neg(),
			UnitCost:      s.UnitCost,
			TotalCost:     s.Quantity.Neg().Mul(s.UnitCost),
			Reason:        p.reason,
			OrderRef:      p.orderRef,
			CreatedAt:     p.now,
			CreatedBy:     p.userID,
		})
	}

	if sel.Shortfall.GreaterThan(decimal.Zero) {
		// Política ALLOW: el faltante se costea al lote más reciente (o al
		// último costo conocido del ítem) y queda marcado, no absorbido.
		cost := p.item.LastCost
		if latest, err := r.Batches.LatestOpen(ctx, p.item.ID, p.location.ID); err != nil {
			return nil, err
		} else if latest != nil {
			cost = latest.UnitCost
		} else if len(sel.Slices) > 0 {
			cost = sel.Slices[len(sel.Slices)-1].UnitCost
		}
		movs = append(movs, &entity.StockMovement{
			ID:            uuid.New().String(),
			CompanyID:     p.companyID,
			ItemID:        p.item.ID,
			LocationID:    p.location.ID,
			CorrelationID: p.correlationID,
			Type:          p.movementType,
			Quantity:      sel.Shortfall.Neg(),
			UnitCost:      cost,
			TotalCost:     sel.Shortfall.Neg().Mul(cost),
			Reason:        p.reason,
			OrderRef:      p.orderRef,
			NegativeStock: true,
			CreatedAt:     p.now,
			CreatedBy:     p.userID,
		})
	}

	for i, mov := range movs {
		if i == 0 {
			mov.IdempotencyKey = p.idempotencyKey
		}
		if err := r.Movements.Create(ctx, mov); err != nil {
			return nil, err
		}
	}
	return movs, nil
}

// openSyntheticBatch crea un lote fechado "ahora" para ajustes positivos
// (stock encontrado) al costo indicado.
func openSyntheticBatch(ctx context.Context, r Repos, companyID string, item *entity.InventoryItem, locationID string, qty, unitCost decimal.Decimal, now time.Time, sourceRef string) (*entity.StockBatch, error) {
	batch := &entity.StockBatch{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		ItemID:     item.ID,
		LocationID: locationID,
		Received:   qty,
		Remaining:  qty,
		UnitCost:   unitCost,
		ReceivedAt: now,
		SourceRef:  sourceRef,
		CreatedAt:  now,
	}
	if err := r.Batches.Create(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// resolveMapping obtiene el mapeo contable aplicable o falla cerrado.
func resolveMapping(ctx context.Context, r Repos, companyID, locationID string) (*entity.AccountMapping, error) {
	mapping, err := r.Mappings.Resolve(ctx, companyID, locationID)
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		return nil, domain.ErrMissingAccountMapping
	}
	return mapping, nil
}

// postAndStore deriva y persiste el asiento contable de cada movimiento,
// dentro de la misma transacción.
func postAndStore(ctx context.Context, r Repos, mapping *entity.AccountMapping, movs []*entity.StockMovement) error {
	for _, mov := range movs {
		entry, err := accounting.PostMovement(mov, mapping)
		if err != nil {
			return err
		}
		if err := r.Journal.Create(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// saleCOGS suma el costo realizado de los movimientos de venta (excluye reversas).
func saleCOGS(movs []*entity.StockMovement) decimal.Decimal {
	var total decimal.Decimal
	for _, m := range movs {
		if m.Type == entity.MovementTypeSale && m.Reason != entity.ReasonReversal {
			total = total.Add(m.TotalCost.Neg())
		}
	}
	return total
}
