package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalLine es una línea de asiento: débito o crédito sobre una cuenta.
type JournalLine struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// JournalEntry es un asiento de partida doble derivado de un movimiento de
// stock. Invariante: la suma de débitos menos créditos de sus líneas es cero.
type JournalEntry struct {
	ID            string
	CompanyID     string
	MovementID    string
	CorrelationID string
	Memo          string
	Lines         []JournalLine
	PostedAt      time.Time
}

// Balanced verifica que débitos y créditos sumen igual.
func (e *JournalEntry) Balanced() bool {
	var debits, credits decimal.Decimal
	for _, l := range e.Lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return debits.Equal(credits)
}
