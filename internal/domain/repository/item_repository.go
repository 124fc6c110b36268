package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para InventoryItem (DIP).
// Los ítems referenciados por lotes o recetas no se eliminan: se desactivan.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.InventoryItem, error)
	UpdateLastCost(ctx context.Context, itemID string, cost decimal.Decimal) error
	Deactivate(ctx context.Context, id string) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.InventoryItem, error)
	// ListBelowReorder devuelve los ítems cuyo remanente total en la sede está
	// bajo el punto de reorden (sede vacía = stock global de la empresa).
	ListBelowReorder(ctx context.Context, companyID, locationID string) ([]*entity.InventoryItem, error)
}
