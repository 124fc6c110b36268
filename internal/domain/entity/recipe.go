package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Condición de consumo de un ingrediente de receta.
const (
	GateUnconditional = "UNCONDITIONAL" // siempre se consume
	GateByModifier    = "MODIFIER"      // solo si el modificador fue elegido
)

// MenuItem representa un ítem vendible del menú. Tracked indica que su venta
// consume inventario vía receta; un ítem Tracked sin receta es un defecto de
// integridad de datos.
type MenuItem struct {
	ID        string
	CompanyID string
	Name      string
	Tracked   bool
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecipeIngredient es una fila de la receta de un ítem de menú: referencia un
// InventoryItem con la cantidad por unidad vendida, el porcentaje de merma de
// preparación y una condición opcional por modificador.
type RecipeIngredient struct {
	ID               string
	MenuItemID       string
	ItemID           string          // InventoryItem consumido
	Quantity         decimal.Decimal // por unidad vendida, en Unit
	Unit             string          // unidad base del ingrediente o convertible
	WastePercent     decimal.Decimal // merma de preparación (5 = 5%)
	Gate             string          // UNCONDITIONAL | MODIFIER
	ModifierOptionID string          // requerido cuando Gate == MODIFIER
	CreatedAt        time.Time
}

// AppliesTo indica si la fila se consume dada la selección de modificadores.
func (ri *RecipeIngredient) AppliesTo(selected map[string]bool) bool {
	if ri.Gate != GateByModifier {
		return true
	}
	return selected[ri.ModifierOptionID]
}
