package inventory_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

const (
	companyID = "co-1"
	userID    = "user-1"
	locBlock  = "sede-centro" // política BLOCK
	locAllow  = "sede-norte"  // política ALLOW
	locOther  = "sede-sur"    // destino de traslados
)

var day1 = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

// seedStore arma una empresa con tres sedes, el mapeo contable default y los
// ítems básicos de cocina.
func seedStore() *store {
	s := newStore()
	s.locations[locBlock] = &entity.Location{ID: locBlock, CompanyID: companyID, Name: "Centro", NegativeStock: entity.NegativeStockBlock}
	s.locations[locAllow] = &entity.Location{ID: locAllow, CompanyID: companyID, Name: "Norte", NegativeStock: entity.NegativeStockAllow}
	s.locations[locOther] = &entity.Location{ID: locOther, CompanyID: companyID, Name: "Sur", NegativeStock: entity.NegativeStockBlock}
	s.mappings[companyID+"|"] = &entity.AccountMapping{
		ID:                    "map-default",
		CompanyID:             companyID,
		InventoryAsset:        "1435",
		COGS:                  "6135",
		WasteExpense:          "5295",
		ShrinkExpense:         "5299",
		GRNI:                  "2335",
		InventoryGain:         "4250",
		InterLocationClearing: "1710",
	}
	s.items["carne"] = &entity.InventoryItem{ID: "carne", CompanyID: companyID, SKU: "CARNE-01", Name: "Carne molida", BaseUnit: "g", LastCost: d("0.05"), Active: true}
	s.items["pan"] = &entity.InventoryItem{ID: "pan", CompanyID: companyID, SKU: "PAN-01", Name: "Pan brioche", BaseUnit: "unit", LastCost: d("800"), Active: true}
	s.items["tomate"] = &entity.InventoryItem{ID: "tomate", CompanyID: companyID, SKU: "TOM-01", Name: "Tomate", BaseUnit: "unit", LastCost: d("100"), Active: true}
	return s
}

// seedBatch inserta un lote abierto directamente en el store.
func seedBatch(s *store, itemID, locationID, qty, unitCost string, receivedAt time.Time) *entity.StockBatch {
	s.batchSeq++
	b := &entity.StockBatch{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		ItemID:     itemID,
		LocationID: locationID,
		Seq:        s.batchSeq,
		Received:   d(qty),
		Remaining:  d(qty),
		UnitCost:   d(unitCost),
		ReceivedAt: receivedAt,
		CreatedAt:  receivedAt,
	}
	s.batches = append(s.batches, b)
	return b
}

// seedRecipe registra un ítem de menú rastreado con su receta.
func seedRecipe(s *store, menuItemID string, rows ...*entity.RecipeIngredient) {
	s.menuItems[menuItemID] = &entity.MenuItem{ID: menuItemID, CompanyID: companyID, Name: menuItemID, Tracked: true, Active: true}
	for _, row := range rows {
		row.MenuItemID = menuItemID
		s.ingredients[menuItemID] = append(s.ingredients[menuItemID], row)
	}
}

// movementsOfType filtra los movimientos del store por tipo.
func movementsOfType(s *store, typ string) []*entity.StockMovement {
	var out []*entity.StockMovement
	for _, m := range s.movements {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}
