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

const defaultPageSize = 50

// CatalogUseCase administra el catálogo de ítems y expone las lecturas de
// reporting: stock vivo, historial de movimientos y punto de reorden. Solo
// lecturas y altas de catálogo: nunca toca lotes ni el diario.
type CatalogUseCase struct {
	itemRepo     repository.ItemRepository
	batchRepo    repository.BatchRepository
	movementRepo repository.MovementRepository
	resolver     *uom.Resolver
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(
	itemRepo repository.ItemRepository,
	batchRepo repository.BatchRepository,
	movementRepo repository.MovementRepository,
	resolver *uom.Resolver,
) *CatalogUseCase {
	return &CatalogUseCase{
		itemRepo:     itemRepo,
		batchRepo:    batchRepo,
		movementRepo: movementRepo,
		resolver:     resolver,
	}
}

// CreateItem da de alta un SKU. El código es único por empresa y la unidad
// base debe ser conocida por el resolver de unidades: un ítem con unidad
// inconvertible rompería recetas y recepciones después.
func (uc *CatalogUseCase) CreateItem(ctx context.Context, companyID string, in dto.CreateItemRequest) (*dto.ItemDTO, error) {
	if _, err := uc.resolver.Convert(decimal.NewFromInt(1), in.BaseUnit, in.BaseUnit); err != nil {
		return nil, err
	}
	existing, err := uc.itemRepo.GetByCompanyAndSKU(ctx, companyID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	item := &entity.InventoryItem{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		SKU:          in.SKU,
		Name:         in.Name,
		Category:     in.Category,
		BaseUnit:     in.BaseUnit,
		LastCost:     in.LastCost,
		ReorderLevel: in.ReorderLevel,
		ReorderQty:   in.ReorderQty,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return itemToDTO(item), nil
}

// ListItems lista el catálogo de la empresa paginado.
func (uc *CatalogUseCase) ListItems(ctx context.Context, companyID string, limit, offset int) ([]dto.ItemDTO, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	items, err := uc.itemRepo.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, *itemToDTO(it))
	}
	return out, nil
}

// DeactivateItem desactiva un SKU. Los ítems con lotes o recetas no se
// eliminan: el historial de costeo los sigue referenciando.
func (uc *CatalogUseCase) DeactivateItem(ctx context.Context, companyID, itemID string) error {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil || item == nil {
		return domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return uc.itemRepo.Deactivate(ctx, itemID)
}

// ItemStock devuelve el remanente vivo de un ítem en una sede.
func (uc *CatalogUseCase) ItemStock(ctx context.Context, companyID, itemID, locationID string) (*dto.ItemStockResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil || item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	remaining, err := uc.batchRepo.RemainingByItem(ctx, itemID, locationID)
	if err != nil {
		return nil, err
	}
	return &dto.ItemStockResponse{ItemID: itemID, LocationID: locationID, Remaining: remaining}, nil
}

// ItemMovements devuelve el historial del diario de un ítem, del más reciente
// al más antiguo, opcionalmente acotado por fechas.
func (uc *CatalogUseCase) ItemMovements(ctx context.Context, companyID, itemID string, from, to *time.Time, limit, offset int) ([]dto.MovementDTO, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil || item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	movs, err := uc.movementRepo.ListByItem(ctx, itemID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementDTO, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovementDTO{
			ID:            m.ID,
			ItemID:        m.ItemID,
			LocationID:    m.LocationID,
			BatchID:       m.BatchID,
			CorrelationID: m.CorrelationID,
			Type:          m.Type,
			Quantity:      m.Quantity,
			UnitCost:      m.UnitCost,
			TotalCost:     m.TotalCost,
			Reason:        m.Reason,
			OrderRef:      m.OrderRef,
			NegativeStock: m.NegativeStock,
			CreatedAt:     m.CreatedAt,
		})
	}
	return out, nil
}

// ReorderReport devuelve los ítems activos cuyo remanente está bajo su punto
// de reorden en la sede (vacía = stock global de la empresa).
func (uc *CatalogUseCase) ReorderReport(ctx context.Context, companyID, locationID string) ([]dto.ItemDTO, error) {
	items, err := uc.itemRepo.ListBelowReorder(ctx, companyID, locationID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, *itemToDTO(it))
	}
	return out, nil
}

func itemToDTO(it *entity.InventoryItem) *dto.ItemDTO {
	return &dto.ItemDTO{
		ID:           it.ID,
		SKU:          it.SKU,
		Name:         it.Name,
		Category:     it.Category,
		BaseUnit:     it.BaseUnit,
		LastCost:     it.LastCost,
		ReorderLevel: it.ReorderLevel,
		ReorderQty:   it.ReorderQty,
		Active:       it.Active,
	}
}
