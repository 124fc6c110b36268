package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/restops-core/internal/application/dto"
	"github.com/tu-usuario/restops-core/internal/domain"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
	"github.com/tu-usuario/restops-core/internal/domain/repository"
	"github.com/tu-usuario/restops-core/internal/domain/uom"
)

// ReceiveUseCase registra recepciones de mercancía: crea el lote de costo,
// escribe el movimiento PURCHASE y contabiliza activo contra GRNI, todo en una
// sola transacción.
type ReceiveUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
	resolver     *uom.Resolver
	tolerancePct decimal.Decimal // sobre-recepción permitida contra OC (5 = 5%)
}

// NewReceiveUseCase construye el caso de uso.
func NewReceiveUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	resolver *uom.Resolver,
	tolerancePct decimal.Decimal,
) *ReceiveUseCase {
	return &ReceiveUseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		resolver:     resolver,
		tolerancePct: tolerancePct,
	}
}

// ReceiveGoods crea un lote nuevo. Cantidad y costo deben ser estrictamente
// positivos; se rechazan antes de tocar estado. Actualiza el último costo
// conocido del ítem.
func (uc *ReceiveUseCase) ReceiveGoods(ctx context.Context, companyID, userID string, in dto.ReceiveGoodsRequest) (*dto.ReceiveGoodsResponse, error) {
	item, _, err := validateItemLocation(ctx, uc.itemRepo, uc.locationRepo, companyID, in.ItemID, in.LocationID)
	if err != nil {
		return nil, err
	}
	qty, unitCost, err := uc.toBaseUnit(item, in.Quantity, in.UnitCost, in.Unit)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	receivedAt := now
	if in.ReceivedAt != nil {
		receivedAt = *in.ReceivedAt
	}

	var resp *dto.ReceiveGoodsResponse
	err = runWithRetry(ctx, uc.txRunner, func(r Repos) error {
		resp = nil
		if in.IdempotencyKey != "" {
			// La verificación corre dentro de la misma tx que la escritura que
			// protege: dos reintentos no pueden pasar ambos el "no visto".
			correlationID, err := r.Movements.FindCorrelationByIdempotencyKey(ctx, companyID, in.IdempotencyKey)
			if err != nil {
				return err
			}
			if correlationID != "" {
				prior, err := r.Movements.ListByCorrelation(ctx, correlationID)
				if err != nil {
					return err
				}
				resp = &dto.ReceiveGoodsResponse{
					BatchID:       prior[0].BatchID,
					CorrelationID: correlationID,
					TotalCost:     prior[0].TotalCost,
				}
				return nil
			}
		}

		correlationID := uuid.New().String()
		batch := &entity.StockBatch{
			ID:         uuid.New().String(),
			CompanyID:  companyID,
			ItemID:     item.ID,
			LocationID: in.LocationID,
			Received:   qty,
			Remaining:  qty,
			UnitCost:   unitCost,
			ReceivedAt: receivedAt,
			ExpiresAt:  in.ExpiresAt,
			SourceRef:  in.SourceRef,
			CreatedAt:  now,
		}
		if err := r.Batches.Create(ctx, batch); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			ID:             uuid.New().String(),
			CompanyID:      companyID,
			ItemID:         item.ID,
			LocationID:     in.LocationID,
			BatchID:        batch.ID,
			CorrelationID:  correlationID,
			Type:           entity.MovementTypePurchase,
			Quantity:       qty,
			UnitCost:       unitCost,
			TotalCost:      qty.Mul(unitCost),
			OrderRef:       in.SourceRef,
			IdempotencyKey: in.IdempotencyKey,
			CreatedAt:      now,
			CreatedBy:      userID,
		}
		if err := r.Movements.Create(ctx, mov); err != nil {
			return err
		}
		mapping, err := resolveMapping(ctx, r, companyID, in.LocationID)
		if err != nil {
			return err
		}
		if err := postAndStore(ctx, r, mapping, []*entity.StockMovement{mov}); err != nil {
			return err
		}
		if err := r.Items.UpdateLastCost(ctx, item.ID, unitCost); err != nil {
			return err
		}
		resp = &dto.ReceiveGoodsResponse{
			BatchID:       batch.ID,
			CorrelationID: correlationID,
			TotalCost:     mov.TotalCost,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ReceiveAgainstPO recibe contra una orden de compra. Cada línea valida
// recibido <= ordenado * (1 + tolerancia) antes de tocar estado; si alguna
// excede, ninguna se aplica (ErrOverReceipt).
func (uc *ReceiveUseCase) ReceiveAgainstPO(ctx context.Context, companyID, userID string, in dto.ReceivePORequest) (string, error) {
	hundred := decimal.NewFromInt(100)
	maxFactor := decimal.NewFromInt(1).Add(uc.tolerancePct.Div(hundred))
	for _, line := range in.Lines {
		if !line.Received.GreaterThan(decimal.Zero) {
			return "", domain.ErrInvalidQuantity
		}
		if !line.UnitCost.GreaterThan(decimal.Zero) {
			return "", domain.ErrInvalidCost
		}
		if line.Received.GreaterThan(line.Ordered.Mul(maxFactor)) {
			return "", domain.ErrOverReceipt
		}
	}

	type baseLine struct {
		item     *entity.InventoryItem
		qty      decimal.Decimal
		unitCost decimal.Decimal
		expires  *time.Time
	}
	lines := make([]baseLine, 0, len(in.Lines))
	for _, line := range in.Lines {
		item, _, err := validateItemLocation(ctx, uc.itemRepo, uc.locationRepo, companyID, line.ItemID, in.LocationID)
		if err != nil {
			return "", err
		}
		qty, unitCost, err := uc.toBaseUnit(item, line.Received, line.UnitCost, line.Unit)
		if err != nil {
			return "", err
		}
		lines = append(lines, baseLine{item: item, qty: qty, unitCost: unitCost, expires: line.ExpiresAt})
	}

	now := time.Now()
	correlationID := uuid.New().String()
	err := runWithRetry(ctx, uc.txRunner, func(r Repos) error {
		mapping, err := resolveMapping(ctx, r, companyID, in.LocationID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			batch := &entity.StockBatch{
				ID:         uuid.New().String(),
				CompanyID:  companyID,
				ItemID:     line.item.ID,
				LocationID: in.LocationID,
				Received:   line.qty,
				Remaining:  line.qty,
				UnitCost:   line.unitCost,
				ReceivedAt: now,
				ExpiresAt:  line.expires,
				SourceRef:  in.POID,
				CreatedAt:  now,
			}
			if err := r.Batches.Create(ctx, batch); err != nil {
				return err
			}
			mov := &entity.StockMovement{
				ID:            uuid.New().String(),
				CompanyID:     companyID,
				ItemID:        line.item.ID,
				LocationID:    in.LocationID,
				BatchID:       batch.ID,
				CorrelationID: correlationID,
				Type:          entity.MovementTypePurchase,
				Quantity:      line.qty,
				UnitCost:      line.unitCost,
				TotalCost:     line.qty.Mul(line.unitCost),
				OrderRef:      in.POID,
				CreatedAt:     now,
				CreatedBy:     userID,
			}
			if err := r.Movements.Create(ctx, mov); err != nil {
				return err
			}
			if err := postAndStore(ctx, r, mapping, []*entity.StockMovement{mov}); err != nil {
				return err
			}
			if err := r.Items.UpdateLastCost(ctx, line.item.ID, line.unitCost); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return correlationID, nil
}

// toBaseUnit valida cantidad y costo y los convierte a la unidad base del
// ítem. El costo unitario entra por unidad recibida y sale por unidad base,
// conservando el costo total.
func (uc *ReceiveUseCase) toBaseUnit(item *entity.InventoryItem, qty, unitCost decimal.Decimal, unit string) (decimal.Decimal, decimal.Decimal, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return decimal.Zero, decimal.Zero, domain.ErrInvalidQuantity
	}
	if !unitCost.GreaterThan(decimal.Zero) {
		return decimal.Zero, decimal.Zero, domain.ErrInvalidCost
	}
	if unit == "" || unit == item.BaseUnit {
		return qty, unitCost, nil
	}
	baseQty, err := uc.resolver.Convert(qty, unit, item.BaseUnit)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	baseCost := qty.Mul(unitCost).Div(baseQty)
	return baseQty, baseCost, nil
}
