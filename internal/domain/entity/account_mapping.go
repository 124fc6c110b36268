package entity

import "time"

// AccountMapping define las cuentas contables de inventario por empresa, con
// posible override por sede (LocationID vacío = default de la empresa).
// Se crea en el onboarding y lo mantiene configuración financiera; no se
// elimina mientras existan movimientos sin contabilizar.
type AccountMapping struct {
	ID                    string
	CompanyID             string
	LocationID            string // vacío = default organizacional
	InventoryAsset        string // activo de inventario
	COGS                  string // costo de ventas
	WasteExpense          string // gasto por merma registrada
	ShrinkExpense         string // gasto por pérdida no explicada (conteos)
	GRNI                  string // mercancía recibida no facturada
	InventoryGain         string // opcional: stock encontrado en conteos
	InterLocationClearing string // opcional: puente entre sedes con activos distintos
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
