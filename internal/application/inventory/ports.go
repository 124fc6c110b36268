package inventory

import (
	"context"

	"github.com/tu-usuario/restops-core/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Items     repository.ItemRepository
	Locations repository.LocationRepository
	Batches   repository.BatchRepository
	Movements repository.MovementRepository
	Recipes   repository.RecipeRepository
	Mappings  repository.AccountMappingRepository
	Journal   repository.JournalRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// inventario: la asignación de lotes, el movimiento del diario y el asiento
// contable son un solo commit, nunca dos.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
