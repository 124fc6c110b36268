package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveGoodsRequest body para POST /api/inventory/receipts.
type ReceiveGoodsRequest struct {
	ItemID         string          `json:"item_id" validate:"required"`
	LocationID     string          `json:"location_id" validate:"required"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit,omitempty"` // vacío = unidad base del ítem
	UnitCost       decimal.Decimal `json:"unit_cost"`
	ReceivedAt     *time.Time      `json:"received_at,omitempty"` // vacío = ahora
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	SourceRef      string          `json:"source_ref,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

// ReceiveGoodsResponse devuelve el lote creado.
type ReceiveGoodsResponse struct {
	BatchID       string          `json:"batch_id"`
	CorrelationID string          `json:"correlation_id"`
	TotalCost     decimal.Decimal `json:"total_cost"`
}

// ReceivePORequest body para POST /api/inventory/receipts/po.
// Cada línea valida recibido <= ordenado * (1 + tolerancia configurada).
type ReceivePORequest struct {
	POID       string   `json:"po_id" validate:"required"`
	LocationID string   `json:"location_id" validate:"required"`
	Lines      []POLine `json:"lines" validate:"required,min=1,dive"`
}

// POLine línea de recepción contra orden de compra.
type POLine struct {
	ItemID    string          `json:"item_id" validate:"required"`
	Ordered   decimal.Decimal `json:"ordered"`
	Received  decimal.Decimal `json:"received"`
	Unit      string          `json:"unit,omitempty"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

// WastageRequest body para POST /api/inventory/movements/wastage.
type WastageRequest struct {
	ItemID     string          `json:"item_id" validate:"required"`
	LocationID string          `json:"location_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
	Reason     string          `json:"reason" validate:"required"`
	SourceRef  string          `json:"source_ref,omitempty"`
}

// AdjustmentRequest body para POST /api/inventory/adjustments.
// Delta positivo abre un lote sintético al último costo conocido; negativo
// consume FIFO como una salida.
type AdjustmentRequest struct {
	ItemID     string          `json:"item_id" validate:"required"`
	LocationID string          `json:"location_id" validate:"required"`
	Delta      decimal.Decimal `json:"delta"`
	Reason     string          `json:"reason" validate:"required"`
}

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	ItemID         string          `json:"item_id" validate:"required"`
	FromLocationID string          `json:"from_location_id" validate:"required"`
	ToLocationID   string          `json:"to_location_id" validate:"required"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// StockCountRequest body para POST /api/inventory/stock-counts.
type StockCountRequest struct {
	LocationID string           `json:"location_id" validate:"required"`
	Counts     []StockCountLine `json:"counts" validate:"required,min=1,dive"`
}

// StockCountLine cantidad física contada de un ítem.
type StockCountLine struct {
	ItemID  string          `json:"item_id" validate:"required"`
	Counted decimal.Decimal `json:"counted"`
}

// StockCountVariance diferencia aplicada por un conteo físico.
type StockCountVariance struct {
	ItemID   string          `json:"item_id"`
	Expected decimal.Decimal `json:"expected"`
	Counted  decimal.Decimal `json:"counted"`
	Delta    decimal.Decimal `json:"delta"`
}

// StockCountResponse resultado del conteo: solo los ítems con diferencia.
type StockCountResponse struct {
	CorrelationID string               `json:"correlation_id"`
	Variances     []StockCountVariance `json:"variances"`
}

// ValuationResponse valoración actual del inventario.
type ValuationResponse struct {
	LocationID string          `json:"location_id,omitempty"`
	Total      decimal.Decimal `json:"total"`
	AsOf       time.Time       `json:"as_of"`
}

// Códigos de hallazgo de conciliación.
const (
	FindingLedgerDrift   = "LEDGER_DRIFT"   // diario y lotes no cuadran
	FindingGLMismatch    = "GL_MISMATCH"    // valoración vs saldo contable
	FindingNegativeStock = "NEGATIVE_STOCK" // ventas bajo política ALLOW pendientes de revisar
)

// ReconciliationFinding hallazgo de una conciliación. Nunca se auto-corrige.
type ReconciliationFinding struct {
	Code       string          `json:"code"`
	ItemID     string          `json:"item_id,omitempty"`
	JournalQty decimal.Decimal `json:"journal_qty"`
	BatchQty   decimal.Decimal `json:"batch_qty"`
	Detail     string          `json:"detail,omitempty"`
}

// ReconciliationReport resultado de reproducir el diario contra los lotes
// vivos y el saldo del activo contable. Los hallazgos se reportan para
// investigación manual.
type ReconciliationReport struct {
	LocationID string                  `json:"location_id,omitempty"`
	AsOf       time.Time               `json:"as_of"`
	Valuation  decimal.Decimal         `json:"valuation"`
	GLBalance  decimal.Decimal         `json:"gl_balance"`
	Findings   []ReconciliationFinding `json:"findings"`
	Clean      bool                    `json:"clean"`
}

// RecipeCostResponse costo actual de la receta de un ítem de menú
// (costo de cabeza FIFO por ingrediente, consistente con el costeo de ventas).
type RecipeCostResponse struct {
	MenuItemID string          `json:"menu_item_id"`
	Cost       decimal.Decimal `json:"cost"`
}

// CreateItemRequest body para POST /api/inventory/items.
type CreateItemRequest struct {
	SKU          string          `json:"sku" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	Category     string          `json:"category,omitempty"`
	BaseUnit     string          `json:"base_unit" validate:"required"`
	LastCost     decimal.Decimal `json:"last_cost"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	ReorderQty   decimal.Decimal `json:"reorder_qty"`
}

// ItemDTO representación de lectura de un ítem de inventario.
type ItemDTO struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category,omitempty"`
	BaseUnit     string          `json:"base_unit"`
	LastCost     decimal.Decimal `json:"last_cost"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	ReorderQty   decimal.Decimal `json:"reorder_qty"`
	Active       bool            `json:"active"`
}

// ItemStockResponse remanente vivo de un ítem en una sede (o consolidado).
type ItemStockResponse struct {
	ItemID     string          `json:"item_id"`
	LocationID string          `json:"location_id,omitempty"`
	Remaining  decimal.Decimal `json:"remaining"`
}

// AccountMappingRequest body para PUT /api/valuation/account-mappings.
// location_id vacío configura el default de la empresa.
type AccountMappingRequest struct {
	LocationID            string `json:"location_id,omitempty"`
	InventoryAsset        string `json:"inventory_asset" validate:"required"`
	COGS                  string `json:"cogs" validate:"required"`
	WasteExpense          string `json:"waste_expense" validate:"required"`
	ShrinkExpense         string `json:"shrink_expense" validate:"required"`
	GRNI                  string `json:"grni" validate:"required"`
	InventoryGain         string `json:"inventory_gain,omitempty"`
	InterLocationClearing string `json:"inter_location_clearing,omitempty"`
}

// JournalEntryDTO representación de lectura de un asiento contable.
type JournalEntryDTO struct {
	ID            string           `json:"id"`
	MovementID    string           `json:"movement_id"`
	CorrelationID string           `json:"correlation_id"`
	Memo          string           `json:"memo,omitempty"`
	Lines         []JournalLineDTO `json:"lines"`
	PostedAt      time.Time        `json:"posted_at"`
}

// JournalLineDTO línea de asiento.
type JournalLineDTO struct {
	AccountID string          `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// MovementDTO representación de lectura de un movimiento de stock.
type MovementDTO struct {
	ID            string          `json:"id"`
	ItemID        string          `json:"item_id"`
	LocationID    string          `json:"location_id"`
	BatchID       string          `json:"batch_id,omitempty"`
	CorrelationID string          `json:"correlation_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Reason        string          `json:"reason,omitempty"`
	OrderRef      string          `json:"order_ref,omitempty"`
	NegativeStock bool            `json:"negative_stock,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
