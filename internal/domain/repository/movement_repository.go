package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
)

// MovementRepository define el puerto del diario de movimientos. Append-only:
// no expone Update ni Delete; las correcciones son movimientos nuevos con
// razón REVERSAL.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByCorrelation(ctx context.Context, correlationID string) ([]*entity.StockMovement, error)
	ListByOrderRef(ctx context.Context, companyID, orderRef string) ([]*entity.StockMovement, error)
	// FindCorrelationByIdempotencyKey devuelve el CorrelationID de una
	// operación ya aplicada con esa clave, o "" si no se ha visto. Debe
	// evaluarse dentro de la misma transacción que la escritura que protege.
	FindCorrelationByIdempotencyKey(ctx context.Context, companyID, key string) (string, error)
	// SumByItem devuelve la suma firmada de cantidades por ítem hasta asOf
	// (replay del diario para conciliación). Excluye los faltantes marcados
	// NegativeStock: esos nunca tocaron lotes y se reportan aparte.
	SumByItem(ctx context.Context, companyID, locationID string, asOf time.Time) (map[string]decimal.Decimal, error)
}
