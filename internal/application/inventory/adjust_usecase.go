package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/restops-core/internal/application/dto"
	"github.com/tu-usuario/restops-core/internal/domain"
	"github.com/tu-usuario/restops-core/internal/domain/accounting"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
	"github.com/tu-usuario/restops-core/internal/domain/repository"
)

// AdjustmentUseCase cubre mermas, ajustes directos, conteos físicos y
// traslados entre sedes. Todas las rutas mutantes pasan por el diario de
// movimientos dentro de la misma transacción que toca los lotes.
type AdjustmentUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
) *AdjustmentUseCase {
	return &AdjustmentUseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
	}
}

// RegisterWastage registra una merma (vencido, dañado, pérdida de
// preparación): consume FIFO y contabiliza gasto por merma contra el activo.
func (uc *AdjustmentUseCase) RegisterWastage(ctx context.Context, companyID, userID string, in dto.WastageRequest) (string, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return "", domain.ErrInvalidQuantity
	}
	item, loc, err := validateItemLocation(ctx, uc.itemRepo, uc.locationRepo, companyID, in.ItemID, in.LocationID)
	if err != nil {
		return "", err
	}

	now := time.Now()
	correlationID := uuid.New().String()
	err = runWithRetry(ctx, uc.txRunner, func(r Repos) error {
		mapping, err := resolveMapping(ctx, r, companyID, in.LocationID)
		if err != nil {
			return err
		}
		movs, err := consumeFIFO(ctx, r, consumeParams{
			companyID:     companyID,
			item:          item,
			location:      loc,
			quantity:      in.Quantity,
			movementType:  entity.MovementTypeWastage,
			reason:        in.Reason,
			orderRef:      in.SourceRef,
			correlationID: correlationID,
			userID:        userID,
			now:           now,
		})
		if err != nil {
			return err
		}
		return postAndStore(ctx, r, mapping, movs)
	})
	if err != nil {
		return "", err
	}
	return correlationID, nil
}

// Adjust aplica una corrección directa. Delta positivo abre un lote sintético
// fechado "ahora" al último costo conocido del ítem (stock encontrado); delta
// negativo corre la misma asignación FIFO que un consumo (shrink).
func (uc *AdjustmentUseCase) Adjust(ctx context.Context, companyID, userID string, in dto.AdjustmentRequest) (string, error) {
	if in.Delta.IsZero() {
		return "", domain.ErrInvalidQuantity
	}
	item, loc, err := validateItemLocation(ctx, uc.itemRepo, uc.locationRepo, companyID, in.ItemID, in.LocationID)
	if err != nil {
		return "", err
	}

	now := time.Now()
	correlationID := uuid.New().String()
	err = runWithRetry(ctx, uc.txRunner, func(r Repos) error {
		mapping, err := resolveMapping(ctx, r, companyID, in.LocationID)
		if err != nil {
			return err
		}
		movs, err := applyAdjustment(ctx, r, adjustmentParams{
			companyID:     companyID,
			item:          item,
			location:      loc,
			delta:         in.Delta,
			reason:        in.Reason,
			correlationID: correlationID,
			userID:        userID,
			now:           now,
		}, nil)
		if err != nil {
			return err
		}
		return postAndStore(ctx, r, mapping, movs)
	})
	if err != nil {
		return "", err
	}
	return correlationID, nil
}

// SubmitCount procesa un conteo físico: por cada ítem compara lo contado
// contra el remanente vivo y aplica la diferencia como ajuste con razón
// STOCKTAKE_VARIANCE. Todo el conteo es una sola transacción.
func (uc *AdjustmentUseCase) SubmitCount(ctx context.Context, companyID, userID string, in dto.StockCountRequest) (*dto.StockCountResponse, error) {
	loc, err := uc.locationRepo.GetByID(ctx, in.LocationID)
	if err != nil || loc == nil {
		return nil, domain.ErrNotFound
	}
	if loc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	items := make([]*entity.InventoryItem, 0, len(in.Counts))
	for _, line := range in.Counts {
		if line.Counted.IsNegative() {
			return nil, domain.ErrInvalidQuantity
		}
		item, _, err := validateItemLocation(ctx, uc.itemRepo, uc.locationRepo, companyID, line.ItemID, in.LocationID)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	now := time.Now()
	correlationID := uuid.New().String()
	var resp *dto.StockCountResponse
	err = runWithRetry(ctx, uc.txRunner, func(r Repos) error {
		resp = &dto.StockCountResponse{CorrelationID: correlationID}
		mapping, err := resolveMapping(ctx, r, companyID, in.LocationID)
		if err != nil {
			return err
		}
		for i, line := range in.Counts {
			item := items[i]
			// El FOR UPDATE fija la foto del remanente para este conteo.
			batches, err := r.Batches.ListOpenForUpdate(ctx, item.ID, in.LocationID)
			if err != nil {
				return err
			}
			var live decimal.Decimal
			for _, b := range batches {
				live = live.Add(b.Remaining)
			}
			delta := line.Counted.Sub(live)
			if delta.IsZero() {
				continue
			}
			movs, err := applyAdjustment(ctx, r, adjustmentParams{
				companyID:     companyID,
				item:          item,
				location:      loc,
				delta:         delta,
				reason:        entity.ReasonStocktakeVariance,
				correlationID: correlationID,
				userID:        userID,
				now:           now,
			}, batches)
			if err != nil {
				return err
			}
			if err := postAndStore(ctx, r, mapping, movs); err != nil {
				return err
			}
			resp.Variances = append(resp.Variances, dto.StockCountVariance{
				ItemID:   item.ID,
				Expected: live,
				Counted:  line.Counted,
				Delta:    delta,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Transfer traslada stock entre sedes conservando el costo y la antigüedad
// FIFO: cada porción asignada en origen abre en destino un lote con el mismo
// costo unitario y fecha de recepción original. Los traslados nunca permiten
// saldo negativo en origen.
func (uc *AdjustmentUseCase) Transfer(ctx context.Context, companyID, userID string, in dto.TransferRequest) (string, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return "", domain.ErrInvalidQuantity
	}
	if in.FromLocationID == in.ToLocationID {
		return "", domain.ErrInvalidInput
	}
	item, fromLoc, err := validateItemLocation(ctx, uc.itemRepo, uc.locationRepo, companyID, in.ItemID, in.FromLocationID)
	if err != nil {
		return "", err
	}
	toLoc, err := uc.locationRepo.GetByID(ctx, in.ToLocationID)
	if err != nil || toLoc == nil {
		return "", domain.ErrNotFound
	}
	if toLoc.CompanyID != companyID {
		return "", domain.ErrForbidden
	}

	now := time.Now()
	correlationID := uuid.New().String()
	err = runWithRetry(ctx, uc.txRunner, func(r Repos) error {
		fromMap, err := resolveMapping(ctx, r, companyID, in.FromLocationID)
		if err != nil {
			return err
		}
		toMap, err := resolveMapping(ctx, r, companyID, in.ToLocationID)
		if err != nil {
			return err
		}
		outMovs, err := consumeFIFO(ctx, r, consumeParams{
			companyID:     companyID,
			item:          item,
			location:      fromLoc,
			quantity:      in.Quantity,
			movementType:  entity.MovementTypeTransferOut,
			correlationID: correlationID,
			userID:        userID,
			now:           now,
			blockAlways:   true,
		})
		if err != nil {
			return err
		}
		for _, out := range outMovs {
			src, err := r.Batches.GetByID(ctx, out.BatchID)
			if err != nil || src == nil {
				return domain.ErrBatchNotFound
			}
			qty := out.Quantity.Neg()
			dest := &entity.StockBatch{
				ID:         uuid.New().String(),
				CompanyID:  companyID,
				ItemID:     item.ID,
				LocationID: in.ToLocationID,
				Received:   qty,
				Remaining:  qty,
				UnitCost:   out.UnitCost,
				ReceivedAt: src.ReceivedAt, // conserva la antigüedad FIFO
				ExpiresAt:  src.ExpiresAt,
				SourceRef:  correlationID,
				CreatedAt:  now,
			}
			if err := r.Batches.Create(ctx, dest); err != nil {
				return err
			}
			inMov := &entity.StockMovement{
				ID:            uuid.New().String(),
				CompanyID:     companyID,
				ItemID:        item.ID,
				LocationID:    in.ToLocationID,
				BatchID:       dest.ID,
				CorrelationID: correlationID,
				Type:          entity.MovementTypeTransferIn,
				Quantity:      qty,
				UnitCost:      out.UnitCost,
				TotalCost:     qty.Mul(out.UnitCost),
				CreatedAt:     now,
				CreatedBy:     userID,
			}
			if err := r.Movements.Create(ctx, inMov); err != nil {
				return err
			}
			entry, err := accounting.PostTransfer(out, inMov, fromMap, toMap)
			if err != nil {
				return err
			}
			if entry != nil {
				if err := r.Journal.Create(ctx, entry); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return correlationID, nil
}

// adjustmentParams describe un ajuste (positivo o negativo) a aplicar en tx.
type adjustmentParams struct {
	companyID     string
	item          *entity.InventoryItem
	location      *entity.Location
	delta         decimal.Decimal
	reason        string
	correlationID string
	userID        string
	now           time.Time
}

// applyAdjustment ejecuta el ajuste. lockedBatches permite reutilizar lotes ya
// bloqueados en la misma tx (conteos); nil hace el bloqueo aquí.
func applyAdjustment(ctx context.Context, r Repos, p adjustmentParams, lockedBatches []*entity.StockBatch) ([]*entity.StockMovement, error) {
	if p.delta.IsPositive() {
		batch, err := openSyntheticBatch(ctx, r, p.companyID, p.item, p.location.ID, p.delta, p.item.LastCost, p.now, p.reason)
		if err != nil {
			return nil, err
		}
		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			CompanyID:     p.companyID,
			ItemID:        p.item.ID,
			LocationID:    p.location.ID,
			BatchID:       batch.ID,
			CorrelationID: p.correlationID,
			Type:          entity.MovementTypeAdjustment,
			Quantity:      p.delta,
			UnitCost:      p.item.LastCost,
			TotalCost:     p.delta.Mul(p.item.LastCost),
			Reason:        p.reason,
			CreatedAt:     p.now,
			CreatedBy:     p.userID,
		}
		if err := r.Movements.Create(ctx, mov); err != nil {
			return nil, err
		}
		return []*entity.StockMovement{mov}, nil
	}

	params := consumeParams{
		companyID:     p.companyID,
		item:          p.item,
		location:      p.location,
		quantity:      p.delta.Neg(),
		movementType:  entity.MovementTypeAdjustment,
		reason:        p.reason,
		correlationID: p.correlationID,
		userID:        p.userID,
		now:           p.now,
	}
	if lockedBatches != nil {
		return applyConsumption(ctx, r, params, lockedBatches)
	}
	return consumeFIFO(ctx, r, params)
}
