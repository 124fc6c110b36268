package dto

import "github.com/shopspring/decimal"

// CommitSaleRequest body para POST /api/sales: confirma una venta del POS y
// descuenta inventario por receta. IdempotencyKey permite reintentos de red
// sin duplicar consumo.
type CommitSaleRequest struct {
	OrderID        string     `json:"order_id" validate:"required"`
	LocationID     string     `json:"location_id" validate:"required"`
	IdempotencyKey string     `json:"idempotency_key,omitempty"`
	Lines          []SaleLine `json:"lines" validate:"required,min=1,dive"`
}

// SaleLine línea de venta: ítem de menú, cantidad y modificadores elegidos.
type SaleLine struct {
	MenuItemID        string          `json:"menu_item_id" validate:"required"`
	Quantity          decimal.Decimal `json:"quantity"`
	ModifierOptionIDs []string        `json:"modifier_option_ids,omitempty"`
}

// CommitSaleResponse devuelve el COGS realizado de la orden; reporting lo
// consume tal cual, no se recalcula en otro lado.
type CommitSaleResponse struct {
	OrderID        string          `json:"order_id"`
	CorrelationID  string          `json:"correlation_id"`
	COGS           decimal.Decimal `json:"cogs"`
	AlreadyApplied bool            `json:"already_applied"` // reintento con clave ya vista
}

// VoidSaleResponse resultado de anular una venta.
type VoidSaleResponse struct {
	OrderID       string          `json:"order_id"`
	CorrelationID string          `json:"correlation_id"`
	ReversedCOGS  decimal.Decimal `json:"reversed_cogs"`
	Movements     int             `json:"movements"`
}
