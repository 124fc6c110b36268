package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/tu-usuario/restops-core/internal/domain"
)

// Reintentos acotados para conflictos de serialización sobre el mismo
// (ítem, sede). Tras agotar los intentos se propaga ErrConcurrentUpdate.
const (
	maxTxAttempts = 4
	baseBackoff   = 20 * time.Millisecond
)

// runWithRetry ejecuta fn en transacción y reintenta con backoff exponencial
// cuando el runner reporta un conflicto concurrente (serialization failure,
// deadlock o carrera sobre la clave de idempotencia). fn debe ser re-ejecutable
// desde cero: todo su estado se construye dentro del callback.
func runWithRetry(ctx context.Context, runner TxRunner, fn func(r Repos) error) error {
	backoff := baseBackoff
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = runner.Run(ctx, fn)
		if !errors.Is(err, domain.ErrConcurrentUpdate) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
