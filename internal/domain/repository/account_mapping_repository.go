package repository

import (
	"context"

	"github.com/tu-usuario/restops-core/internal/domain/entity"
)

// AccountMappingRepository define el puerto del mapeo contable por tenant.
type AccountMappingRepository interface {
	// Resolve devuelve el mapeo aplicable: el override de la sede si existe,
	// si no el default de la empresa. Nil si no hay ninguno configurado.
	Resolve(ctx context.Context, companyID, locationID string) (*entity.AccountMapping, error)
	Upsert(ctx context.Context, mapping *entity.AccountMapping) error
}
