package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
)

// JournalRepository define el puerto hacia el libro contable (colaborador
// externo: este núcleo produce asientos, no los posee).
type JournalRepository interface {
	Create(ctx context.Context, entry *entity.JournalEntry) error
	ListByCorrelation(ctx context.Context, correlationID string) ([]*entity.JournalEntry, error)
	// AccountBalance devuelve débitos menos créditos acumulados de una cuenta
	// (cross-check de la valoración contra el activo de inventario).
	AccountBalance(ctx context.Context, companyID, accountID string) (decimal.Decimal, error)
}
