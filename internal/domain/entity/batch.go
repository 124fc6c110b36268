package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBatch representa un lote de costo: una cantidad de un ítem recibida en
// una fecha a un costo unitario fijo. Received y UnitCost son inmutables desde
// la creación; Remaining decrece con cada consumo FIFO (y solo se re-acredita
// por reversas). Invariante: 0 <= Remaining <= Received.
// Un lote con Remaining == 0 está agotado pero se conserva para auditoría y
// valoración histórica; nunca se elimina.
type StockBatch struct {
	ID         string
	CompanyID  string
	ItemID     string
	LocationID string
	Seq        int64           // orden de inserción; desempata el orden FIFO
	Received   decimal.Decimal // cantidad recibida (fija)
	Remaining  decimal.Decimal
	UnitCost   decimal.Decimal // costo unitario (fijo, los lotes no se revalorizan)
	ReceivedAt time.Time       // define el orden FIFO
	ExpiresAt  *time.Time
	SourceRef  string // documento de origen (remisión, OC, conteo)
	CreatedAt  time.Time
}

// Exhausted indica si el lote quedó sin cantidad disponible.
func (b *StockBatch) Exhausted() bool {
	return !b.Remaining.GreaterThan(decimal.Zero)
}
