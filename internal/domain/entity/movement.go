package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypePurchase    = "PURCHASE"
	MovementTypeSale        = "SALE"
	MovementTypeWastage     = "WASTAGE"
	MovementTypeAdjustment  = "ADJUSTMENT"
	MovementTypeTransferOut = "TRANSFER_OUT"
	MovementTypeTransferIn  = "TRANSFER_IN"
)

// Códigos de razón de un movimiento.
const (
	ReasonReversal          = "REVERSAL"           // corrección por anulación/devolución
	ReasonStocktakeVariance = "STOCKTAKE_VARIANCE" // diferencia de conteo físico
	ReasonExpired           = "EXPIRED"
	ReasonDamaged           = "DAMAGED"
	ReasonPreparationLoss   = "PREPARATION_LOSS"
)

// StockMovement es un registro inmutable de auditoría: cada mutación de lotes
// pasa por aquí en la misma transacción. Nunca se edita ni se elimina; las
// correcciones son movimientos nuevos con razón REVERSAL.
// Una asignación FIFO que cruza lotes produce varios movimientos, uno por lote
// tocado, compartiendo CorrelationID.
type StockMovement struct {
	ID             string
	Seq            int64 // secuencia append-only asignada por la base
	CompanyID      string
	ItemID         string
	LocationID     string
	BatchID        string // lote tocado; vacío en faltantes bajo política ALLOW
	CorrelationID  string // agrupa los movimientos de una misma operación
	Type           string
	Quantity       decimal.Decimal // firmado: positivo entrada, negativo salida
	UnitCost       decimal.Decimal
	TotalCost      decimal.Decimal // impacto de costo firmado (Quantity * UnitCost)
	Reason         string
	OrderRef       string // orden POS, remisión o documento de origen
	IdempotencyKey string // clave del caller; única cuando no es vacía
	NegativeStock  bool   // la asignación dejó saldo negativo (política ALLOW)
	CreatedAt      time.Time
	CreatedBy      string
}
