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
	domaininv "github.com/tu-usuario/restops-core/internal/domain/inventory"
	"github.com/tu-usuario/restops-core/internal/domain/repository"
	"github.com/tu-usuario/restops-core/internal/domain/uom"
)

// SaleUseCase convierte ventas del POS en consumo FIFO de ingredientes:
// resuelve la receta de cada línea, asigna lotes, escribe el diario de
// movimientos y contabiliza COGS, todo en una transacción por orden.
type SaleUseCase struct {
	txRunner     TxRunner
	recipeRepo   repository.RecipeRepository
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
	resolver     *uom.Resolver
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner TxRunner,
	recipeRepo repository.RecipeRepository,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	resolver *uom.Resolver,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:     txRunner,
		recipeRepo:   recipeRepo,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		resolver:     resolver,
	}
}

// CommitSale confirma una venta: por cada línea resuelve el consumo por
// receta, luego asigna FIFO por ingrediente y devuelve el COGS realizado.
// Idempotente: reintentar con la misma clave devuelve el resultado previo sin
// duplicar movimientos.
func (uc *SaleUseCase) CommitSale(ctx context.Context, companyID, userID string, in dto.CommitSaleRequest) (*dto.CommitSaleResponse, error) {
	loc, err := uc.locationRepo.GetByID(ctx, in.LocationID)
	if err != nil || loc == nil {
		return nil, domain.ErrNotFound
	}
	if loc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	// Resolver consumo por receta (lecturas puras, fuera de la tx) y acumular
	// entre líneas por ingrediente: una sola asignación FIFO por ítem.
	totals := map[string]decimal.Decimal{}
	order := []string{}
	itemsByID := map[string]*entity.InventoryItem{}
	for _, line := range in.Lines {
		menuItem, err := uc.recipeRepo.GetMenuItem(ctx, line.MenuItemID)
		if err != nil || menuItem == nil {
			return nil, domain.ErrNotFound
		}
		if menuItem.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		rows, err := uc.recipeRepo.ListIngredients(ctx, line.MenuItemID)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if _, ok := itemsByID[row.ItemID]; ok {
				continue
			}
			item, err := uc.itemRepo.GetByID(ctx, row.ItemID)
			if err != nil || item == nil {
				return nil, domain.ErrNotFound
			}
			itemsByID[row.ItemID] = item
		}
		selected := make(map[string]bool, len(line.ModifierOptionIDs))
		for _, optID := range line.ModifierOptionIDs {
			selected[optID] = true
		}
		consumption, err := domaininv.ResolveConsumption(menuItem, rows, line.Quantity, selected, itemsByID, uc.resolver)
		if err != nil {
			return nil, err
		}
		for _, c := range consumption {
			if _, seen := totals[c.ItemID]; !seen {
				order = append(order, c.ItemID)
			}
			totals[c.ItemID] = totals[c.ItemID].Add(c.Quantity)
		}
	}

	now := time.Now()
	var resp *dto.CommitSaleResponse
	err = runWithRetry(ctx, uc.txRunner, func(r Repos) error {
		resp = nil
		if in.IdempotencyKey != "" {
			correlationID, err := r.Movements.FindCorrelationByIdempotencyKey(ctx, companyID, in.IdempotencyKey)
			if err != nil {
				return err
			}
			if correlationID != "" {
				prior, err := r.Movements.ListByCorrelation(ctx, correlationID)
				if err != nil {
					return err
				}
				resp = &dto.CommitSaleResponse{
					OrderID:        in.OrderID,
					CorrelationID:  correlationID,
					COGS:           saleCOGS(prior),
					AlreadyApplied: true,
				}
				return nil
			}
		}

		correlationID := uuid.New().String()
		mapping, err := resolveMapping(ctx, r, companyID, in.LocationID)
		if err != nil {
			return err
		}
		var all []*entity.StockMovement
		idempotencyKey := in.IdempotencyKey // solo el primer movimiento la lleva
		for _, itemID := range order {
			movs, err := consumeFIFO(ctx, r, consumeParams{
				companyID:      companyID,
				item:           itemsByID[itemID],
				location:       loc,
				quantity:       totals[itemID],
				movementType:   entity.MovementTypeSale,
				orderRef:       in.OrderID,
				correlationID:  correlationID,
				idempotencyKey: idempotencyKey,
				userID:         userID,
				now:            now,
			})
			if err != nil {
				return err
			}
			idempotencyKey = ""
			all = append(all, movs...)
		}
		if err := postAndStore(ctx, r, mapping, all); err != nil {
			return err
		}
		resp = &dto.CommitSaleResponse{
			OrderID:       in.OrderID,
			CorrelationID: correlationID,
			COGS:          saleCOGS(all),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// VoidSale anula una venta: re-acredita exactamente los pares (lote, cantidad)
// que la asignación original consumió y escribe movimientos de reversa. Solo
// es válido mientras los lotes originales existan (ErrBatchNotFound si no);
// jamás se reconstituyen lotes.
func (uc *SaleUseCase) VoidSale(ctx context.Context, companyID, userID, orderID string) (*dto.VoidSaleResponse, error) {
	now := time.Now()
	var resp *dto.VoidSaleResponse
	err := runWithRetry(ctx, uc.txRunner, func(r Repos) error {
		resp = nil
		existing, err := r.Movements.ListByOrderRef(ctx, companyID, orderID)
		if err != nil {
			return err
		}
		var originals []*entity.StockMovement
		for _, m := range existing {
			if m.Type != entity.MovementTypeSale {
				continue
			}
			if m.Reason == entity.ReasonReversal {
				// La orden ya fue anulada antes.
				return domain.ErrDuplicate
			}
			originals = append(originals, m)
		}
		if len(originals) == 0 {
			return domain.ErrNotFound
		}

		mapping, err := resolveMapping(ctx, r, companyID, originals[0].LocationID)
		if err != nil {
			return err
		}

		correlationID := uuid.New().String()
		var reversed decimal.Decimal
		for _, orig := range originals {
			if orig.BatchID != "" {
				batch, err := r.Batches.GetForUpdate(ctx, orig.BatchID)
				if err != nil {
					return err
				}
				if batch == nil {
					return domain.ErrBatchNotFound
				}
				if err := r.Batches.UpdateRemaining(ctx, batch.ID, batch.Remaining.Add(orig.Quantity.Neg())); err != nil {
					return err
				}
			}
			rev := &entity.StockMovement{
				ID:            uuid.New().String(),
				CompanyID:     orig.CompanyID,
				ItemID:        orig.ItemID,
				LocationID:    orig.LocationID,
				BatchID:       orig.BatchID,
				CorrelationID: correlationID,
				Type:          entity.MovementTypeSale,
				Quantity:      orig.Quantity.Neg(),
				UnitCost:      orig.UnitCost,
				TotalCost:     orig.TotalCost.Neg(),
				Reason:        entity.ReasonReversal,
				OrderRef:      orderID,
				// La reversa de un faltante hereda la marca: ninguno de los dos
				// tocó lotes y ambos quedan fuera del replay de conciliación.
				NegativeStock: orig.NegativeStock,
				CreatedAt:     now,
				CreatedBy:     userID,
			}
			if err := r.Movements.Create(ctx, rev); err != nil {
				return err
			}
			entry, err := accounting.PostMovement(rev, mapping)
			if err != nil {
				return err
			}
			if err := r.Journal.Create(ctx, entry); err != nil {
				return err
			}
			reversed = reversed.Add(orig.TotalCost.Neg())
		}
		resp = &dto.VoidSaleResponse{
			OrderID:       orderID,
			CorrelationID: correlationID,
			ReversedCOGS:  reversed,
			Movements:     len(originals),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
