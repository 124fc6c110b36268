package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
)

// BatchRepository define el puerto para los lotes de costo. Las operaciones
// ForUpdate bloquean filas (SELECT FOR UPDATE) y solo tienen sentido dentro de
// una transacción: ahí se serializa la contención por (ítem, sede) sin
// bloquear ítems no relacionados.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.StockBatch) error
	GetByID(ctx context.Context, id string) (*entity.StockBatch, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StockBatch, error)
	// ListOpenForUpdate devuelve los lotes con remanente > 0 de un (ítem, sede)
	// en orden FIFO (received_at, seq), bloqueados para la transacción actual.
	ListOpenForUpdate(ctx context.Context, itemID, locationID string) ([]*entity.StockBatch, error)
	// LatestOpen devuelve el lote abierto más reciente (costo de referencia
	// bajo política de stock negativo). Nil si no hay lotes abiertos.
	LatestOpen(ctx context.Context, itemID, locationID string) (*entity.StockBatch, error)
	// OldestOpen devuelve la cabeza FIFO (costeo de recetas). Nil si no hay.
	OldestOpen(ctx context.Context, itemID, locationID string) (*entity.StockBatch, error)
	UpdateRemaining(ctx context.Context, id string, remaining decimal.Decimal) error
	// RemainingByItem suma el remanente de todos los lotes de un (ítem, sede).
	RemainingByItem(ctx context.Context, itemID, locationID string) (decimal.Decimal, error)
	// RemainingTotals devuelve remanente por ítem (sede vacía = toda la empresa).
	RemainingTotals(ctx context.Context, companyID, locationID string) (map[string]decimal.Decimal, error)
	// Valuation devuelve la valoración Σ(remanente × costo unitario) sobre los
	// lotes abiertos (sede vacía = toda la empresa).
	Valuation(ctx context.Context, companyID, locationID string) (decimal.Decimal, error)
}
