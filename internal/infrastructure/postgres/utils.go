package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tu-usuario/restops-core/internal/domain"
)

// Códigos de error PostgreSQL relevantes para el motor.
const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único.
func isUniqueViolation(err error) bool {
	return pgErrCode(err) == codeUniqueViolation
}

// translateConcurrencyError mapea fallos de serialización, deadlocks y
// violaciones de unicidad a ErrConcurrentUpdate: la capa de aplicación los
// reintenta y, en el caso de la clave de idempotencia, el reintento encuentra
// la operación ya aplicada.
func translateConcurrencyError(err error) error {
	switch pgErrCode(err) {
	case codeSerializationFailure, codeDeadlockDetected, codeUniqueViolation:
		return domain.ErrConcurrentUpdate
	}
	return err
}
