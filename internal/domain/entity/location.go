package entity

import "time"

// Política de stock negativo por sede.
const (
	NegativeStockBlock = "BLOCK" // rechaza ventas sin stock suficiente
	NegativeStockAllow = "ALLOW" // permite saldo negativo y lo marca para revisión
)

// Location representa una sede o sucursal donde se almacena inventario
// (cocina, barra, bodega central). El stock y los lotes viven por (ítem, sede).
type Location struct {
	ID            string
	CompanyID     string
	Name          string
	Address       string
	NegativeStock string // BLOCK | ALLOW
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
