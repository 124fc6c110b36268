package inventory

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/restops-core/internal/domain"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
	"github.com/tu-usuario/restops-core/internal/domain/uom"
)

// ConsumptionLine es la cantidad a consumir de un ingrediente, ya convertida a
// su unidad base.
type ConsumptionLine struct {
	ItemID   string
	Quantity decimal.Decimal
}

// ResolveConsumption calcula qué ingredientes consume la venta de un ítem de
// menú: por cada fila de receta no condicionada (o cuyo modificador fue
// elegido) aplica
//
//	efectiva = Quantity * qtySold * (1 + WastePercent/100)
//
// convierte a la unidad base del ingrediente y acumula las filas que comparten
// ingrediente (evita partir lotes de más). Pura: no toca persistencia.
//
// Un ítem Tracked sin filas de receta es un defecto de integridad y falla con
// ErrMissingRecipe en vez de omitir el consumo en silencio.
func ResolveConsumption(
	menuItem *entity.MenuItem,
	rows []*entity.RecipeIngredient,
	qtySold decimal.Decimal,
	selected map[string]bool,
	itemsByID map[string]*entity.InventoryItem,
	resolver *uom.Resolver,
) ([]ConsumptionLine, error) {
	if !qtySold.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if len(rows) == 0 {
		if menuItem.Tracked {
			return nil, domain.ErrMissingRecipe
		}
		return nil, nil
	}

	hundred := decimal.NewFromInt(100)
	totals := map[string]decimal.Decimal{}
	order := make([]string, 0, len(rows)) // orden estable de primera aparición

	for _, row := range rows {
		if !row.AppliesTo(selected) {
			continue
		}
		item, ok := itemsByID[row.ItemID]
		if !ok {
			return nil, domain.ErrNotFound
		}
		effective := row.Quantity.Mul(qtySold).
			Mul(decimal.NewFromInt(1).Add(row.WastePercent.Div(hundred)))
		converted, err := resolver.Convert(effective, row.Unit, item.BaseUnit)
		if err != nil {
			return nil, err
		}
		if _, seen := totals[row.ItemID]; !seen {
			order = append(order, row.ItemID)
		}
		totals[row.ItemID] = totals[row.ItemID].Add(converted)
	}

	lines := make([]ConsumptionLine, 0, len(order))
	for _, itemID := range order {
		lines = append(lines, ConsumptionLine{ItemID: itemID, Quantity: totals[itemID]})
	}
	return lines, nil
}
