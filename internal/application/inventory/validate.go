package inventory

import (
	"context"

	"github.com/tu-usuario/restops-core/internal/domain"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
	"github.com/tu-usuario/restops-core/internal/domain/repository"
)

// validateItemLocation verifica ítem y sede: existen, pertenecen a la empresa
// y el ítem está activo. Toda operación que toca lotes pasa por aquí antes de
// abrir la transacción.
func validateItemLocation(
	ctx context.Context,
	items repository.ItemRepository,
	locations repository.LocationRepository,
	companyID, itemID, locationID string,
) (*entity.InventoryItem, *entity.Location, error) {
	item, err := items.GetByID(ctx, itemID)
	if err != nil || item == nil {
		return nil, nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, nil, domain.ErrForbidden
	}
	if !item.Active {
		return nil, nil, domain.ErrInvalidInput
	}
	loc, err := locations.GetByID(ctx, locationID)
	if err != nil || loc == nil {
		return nil, nil, domain.ErrNotFound
	}
	if loc.CompanyID != companyID {
		return nil, nil, domain.ErrForbidden
	}
	return item, loc, nil
}
