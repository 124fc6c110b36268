package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa un SKU de materia prima o insumo (multi-empresa).
// LastCost es el último costo unitario conocido; se usa para ajustes positivos
// y para ventas bajo política de stock negativo cuando no hay lotes abiertos.
// Nunca se elimina físicamente si existen lotes o recetas que lo referencian:
// se desactiva con Active=false.
type InventoryItem struct {
	ID           string
	CompanyID    string
	SKU          string // código único por empresa
	Name         string
	Category     string
	BaseUnit     string          // unidad base de stock (g, ml, unit, ...)
	LastCost     decimal.Decimal // último costo unitario conocido
	ReorderLevel decimal.Decimal // punto de reorden
	ReorderQty   decimal.Decimal // cantidad sugerida de pedido
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
