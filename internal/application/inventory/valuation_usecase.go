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

// ValuationUseCase expone valoración, conciliación y costeo de recetas.
// Solo lecturas: corre fuera de transacciones de escritura y nunca bloquea a
// los escritores; el resultado es "a la fecha" del punto de commit leído.
type ValuationUseCase struct {
	batchRepo    repository.BatchRepository
	movementRepo repository.MovementRepository
	journalRepo  repository.JournalRepository
	mappingRepo  repository.AccountMappingRepository
	recipeRepo   repository.RecipeRepository
	itemRepo     repository.ItemRepository
	resolver     *uom.Resolver
}

// NewValuationUseCase construye el caso de uso.
func NewValuationUseCase(
	batchRepo repository.BatchRepository,
	movementRepo repository.MovementRepository,
	journalRepo repository.JournalRepository,
	mappingRepo repository.AccountMappingRepository,
	recipeRepo repository.RecipeRepository,
	itemRepo repository.ItemRepository,
	resolver *uom.Resolver,
) *ValuationUseCase {
	return &ValuationUseCase{
		batchRepo:    batchRepo,
		movementRepo: movementRepo,
		journalRepo:  journalRepo,
		mappingRepo:  mappingRepo,
		recipeRepo:   recipeRepo,
		itemRepo:     itemRepo,
		resolver:     resolver,
	}
}

// CurrentValuation devuelve Σ(remanente × costo unitario) sobre los lotes
// abiertos. locationID vacío = toda la empresa.
func (uc *ValuationUseCase) CurrentValuation(ctx context.Context, companyID, locationID string) (*dto.ValuationResponse, error) {
	total, err := uc.batchRepo.Valuation(ctx, companyID, locationID)
	if err != nil {
		return nil, err
	}
	return &dto.ValuationResponse{
		LocationID: locationID,
		Total:      total,
		AsOf:       time.Now(),
	}, nil
}

// Reconcile reproduce el diario de movimientos hasta asOf y lo compara contra
// el remanente vivo de los lotes, y cruza la valoración contra el saldo del
// activo de inventario en el libro contable. Cualquier desfase se reporta
// (LEDGER_DRIFT / GL_MISMATCH) para investigación manual; jamás se corrige en
// silencio.
func (uc *ValuationUseCase) Reconcile(ctx context.Context, companyID, locationID string, asOf time.Time) (*dto.ReconciliationReport, error) {
	journalSums, err := uc.movementRepo.SumByItem(ctx, companyID, locationID, asOf)
	if err != nil {
		return nil, err
	}
	batchSums, err := uc.batchRepo.RemainingTotals(ctx, companyID, locationID)
	if err != nil {
		return nil, err
	}

	report := &dto.ReconciliationReport{LocationID: locationID, AsOf: asOf}

	seen := map[string]bool{}
	for itemID, journalQty := range journalSums {
		seen[itemID] = true
		batchQty := batchSums[itemID]
		if !journalQty.Equal(batchQty) {
			report.Findings = append(report.Findings, dto.ReconciliationFinding{
				Code:       dto.FindingLedgerDrift,
				ItemID:     itemID,
				JournalQty: journalQty,
				BatchQty:   batchQty,
				Detail:     "el replay del diario no cuadra con el remanente de lotes",
			})
		}
	}
	for itemID, batchQty := range batchSums {
		if seen[itemID] || batchQty.IsZero() {
			continue
		}
		report.Findings = append(report.Findings, dto.ReconciliationFinding{
			Code:     dto.FindingLedgerDrift,
			ItemID:   itemID,
			BatchQty: batchQty,
			Detail:   "lotes con remanente sin movimientos en el diario",
		})
	}

	valuation, err := uc.batchRepo.Valuation(ctx, companyID, locationID)
	if err != nil {
		return nil, err
	}
	report.Valuation = valuation

	mapping, err := uc.mappingRepo.Resolve(ctx, companyID, locationID)
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		return nil, domain.ErrMissingAccountMapping
	}
	glBalance, err := uc.journalRepo.AccountBalance(ctx, companyID, mapping.InventoryAsset)
	if err != nil {
		return nil, err
	}
	report.GLBalance = glBalance
	// El cruce contra el GL solo aplica a la vista consolidada: el saldo de la
	// cuenta de activo no distingue sedes.
	if locationID == "" && !valuation.Equal(glBalance) {
		report.Findings = append(report.Findings, dto.ReconciliationFinding{
			Code:       dto.FindingGLMismatch,
			JournalQty: glBalance,
			BatchQty:   valuation,
			Detail:     "la valoración no cuadra con el saldo del activo de inventario",
		})
	}

	report.Clean = len(report.Findings) == 0
	return report, nil
}

// UpsertAccountMapping crea o reemplaza el mapeo contable de la empresa
// (location_id vacío = default organizacional, no vacío = override de sede).
// Las cuentas núcleo son obligatorias; sin ellas el motor fallaría cerrado en
// cada movimiento.
func (uc *ValuationUseCase) UpsertAccountMapping(ctx context.Context, companyID string, in dto.AccountMappingRequest) (*entity.AccountMapping, error) {
	if in.InventoryAsset == "" || in.COGS == "" || in.WasteExpense == "" || in.ShrinkExpense == "" || in.GRNI == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	mapping := &entity.AccountMapping{
		ID:                    uuid.New().String(),
		CompanyID:             companyID,
		LocationID:            in.LocationID,
		InventoryAsset:        in.InventoryAsset,
		COGS:                  in.COGS,
		WasteExpense:          in.WasteExpense,
		ShrinkExpense:         in.ShrinkExpense,
		GRNI:                  in.GRNI,
		InventoryGain:         in.InventoryGain,
		InterLocationClearing: in.InterLocationClearing,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := uc.mappingRepo.Upsert(ctx, mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}

// JournalByCorrelation devuelve los asientos contables de una operación
// (auditoría: del correlation_id de cualquier respuesta a sus asientos).
func (uc *ValuationUseCase) JournalByCorrelation(ctx context.Context, companyID, correlationID string) ([]dto.JournalEntryDTO, error) {
	entries, err := uc.journalRepo.ListByCorrelation(ctx, correlationID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.JournalEntryDTO, 0, len(entries))
	for _, e := range entries {
		if e.CompanyID != companyID {
			continue
		}
		lines := make([]dto.JournalLineDTO, 0, len(e.Lines))
		for _, l := range e.Lines {
			lines = append(lines, dto.JournalLineDTO{AccountID: l.AccountID, Debit: l.Debit, Credit: l.Credit})
		}
		out = append(out, dto.JournalEntryDTO{
			ID:            e.ID,
			MovementID:    e.MovementID,
			CorrelationID: e.CorrelationID,
			Memo:          e.Memo,
			Lines:         lines,
			PostedAt:      e.PostedAt,
		})
	}
	if len(out) == 0 {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

// RecipeCost devuelve el costo actual de la receta de un ítem de menú usando
// el costo de la cabeza FIFO de cada ingrediente (consistente con el costeo de
// ventas, no un promedio móvil). Sin lotes abiertos usa el último costo
// conocido del ítem.
func (uc *ValuationUseCase) RecipeCost(ctx context.Context, companyID, menuItemID, locationID string) (*dto.RecipeCostResponse, error) {
	menuItem, err := uc.recipeRepo.GetMenuItem(ctx, menuItemID)
	if err != nil || menuItem == nil {
		return nil, domain.ErrNotFound
	}
	if menuItem.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	rows, err := uc.recipeRepo.ListIngredients(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 && menuItem.Tracked {
		return nil, domain.ErrMissingRecipe
	}

	var total decimal.Decimal
	for _, row := range rows {
		item, err := uc.itemRepo.GetByID(ctx, row.ItemID)
		if err != nil || item == nil {
			return nil, domain.ErrNotFound
		}
		baseQty, err := uc.resolver.Convert(row.Quantity, row.Unit, item.BaseUnit)
		if err != nil {
			return nil, err
		}
		unitCost := item.LastCost
		if head, err := uc.batchRepo.OldestOpen(ctx, row.ItemID, locationID); err != nil {
			return nil, err
		} else if head != nil {
			unitCost = head.UnitCost
		}
		total = total.Add(baseQty.Mul(unitCost))
	}
	return &dto.RecipeCostResponse{MenuItemID: menuItemID, Cost: total}, nil
}
