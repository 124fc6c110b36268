package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/restops-core/internal/application/inventory"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Los fallos de serialización, deadlocks y violaciones de
// unicidad (carrera de claves de idempotencia) se traducen a
// ErrConcurrentUpdate para que la capa de aplicación reintente con backoff.
func (r *TxRunner) Run(ctx context.Context, fn func(r inventory.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := inventory.Repos{
		Items:     NewItemRepository(tx),
		Locations: NewLocationRepository(tx),
		Batches:   NewBatchRepository(tx),
		Movements: NewMovementRepository(tx),
		Recipes:   NewRecipeRepository(tx),
		Mappings:  NewAccountMappingRepository(tx),
		Journal:   NewJournalRepository(tx),
	}

	if err := fn(repos); err != nil {
		return translateConcurrencyError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateConcurrencyError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
