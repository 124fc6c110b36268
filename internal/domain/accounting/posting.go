// Package accounting deriva asientos de partida doble desde movimientos de
// stock confirmados, usando el mapeo de cuentas del tenant. Servicio de
// dominio puro: el caller persiste el asiento en la misma transacción que el
// movimiento.
package accounting

import (
	"github.com/google/uuid"
	"github.com/tu-usuario/restops-core/internal/domain"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
)

// PostMovement construye el asiento balanceado para un movimiento PURCHASE,
// SALE, WASTAGE o ADJUSTMENT. El signo de Quantity decide la dirección: un
// movimiento de reversa (razón REVERSAL, signo opuesto al canónico del tipo)
// produce el asiento con las piernas invertidas.
//
// Falla cerrado con ErrMissingAccountMapping si alguna cuenta requerida está
// vacía: ningún movimiento queda sin contabilizar en silencio.
func PostMovement(m *entity.StockMovement, mapping *entity.AccountMapping) (*entity.JournalEntry, error) {
	amount := m.TotalCost.Abs()

	var debit, credit string
	switch m.Type {
	case entity.MovementTypePurchase:
		// Entrada física antes de factura: activo contra GRNI.
		debit, credit = mapping.InventoryAsset, mapping.GRNI
		if m.Quantity.IsNegative() {
			debit, credit = credit, debit
		}
	case entity.MovementTypeSale:
		debit, credit = mapping.COGS, mapping.InventoryAsset
		if m.Quantity.IsPositive() {
			debit, credit = credit, debit
		}
	case entity.MovementTypeWastage:
		debit, credit = mapping.WasteExpense, mapping.InventoryAsset
		if m.Quantity.IsPositive() {
			debit, credit = credit, debit
		}
	case entity.MovementTypeAdjustment:
		if m.Quantity.IsNegative() {
			// Pérdida no explicada (shrink).
			debit, credit = mapping.ShrinkExpense, mapping.InventoryAsset
		} else {
			// Stock encontrado.
			debit, credit = mapping.InventoryAsset, mapping.InventoryGain
		}
	default:
		return nil, domain.ErrInvalidInput
	}

	if debit == "" || credit == "" {
		return nil, domain.ErrMissingAccountMapping
	}

	return newEntry(m, []entity.JournalLine{
		{AccountID: debit, Debit: amount},
		{AccountID: credit, Credit: amount},
	}), nil
}

// PostTransfer construye el asiento para un traslado entre sedes. Si ambas
// sedes comparten la cuenta de activo de inventario no hay impacto contable a
// nivel de entidad consolidada y devuelve nil; si difieren, mueve el valor vía
// la cuenta puente inter-sedes.
func PostTransfer(out, in *entity.StockMovement, fromMap, toMap *entity.AccountMapping) (*entity.JournalEntry, error) {
	if fromMap.InventoryAsset == "" || toMap.InventoryAsset == "" {
		return nil, domain.ErrMissingAccountMapping
	}
	if fromMap.InventoryAsset == toMap.InventoryAsset {
		return nil, nil
	}
	if fromMap.InterLocationClearing == "" || toMap.InterLocationClearing == "" {
		return nil, domain.ErrMissingAccountMapping
	}

	// Origen: puente contra activo de salida. Destino: activo de entrada
	// contra puente. El puente queda en cero dentro del mismo asiento.
	amount := out.TotalCost.Abs()
	entry := newEntry(out, []entity.JournalLine{
		{AccountID: fromMap.InterLocationClearing, Debit: amount},
		{AccountID: fromMap.InventoryAsset, Credit: amount},
		{AccountID: toMap.InventoryAsset, Debit: amount},
		{AccountID: toMap.InterLocationClearing, Credit: amount},
	})
	entry.Memo = entity.MovementTypeTransferOut + " " + out.ItemID + " -> " + in.LocationID
	return entry, nil
}

func newEntry(m *entity.StockMovement, lines []entity.JournalLine) *entity.JournalEntry {
	return &entity.JournalEntry{
		ID:            uuid.New().String(),
		CompanyID:     m.CompanyID,
		MovementID:    m.ID,
		CorrelationID: m.CorrelationID,
		Memo:          m.Type + " " + m.ItemID,
		Lines:         lines,
		PostedAt:      m.CreatedAt,
	}
}
