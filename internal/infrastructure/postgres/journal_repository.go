package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
	"github.com/tu-usuario/restops-core/internal/domain/repository"
)

var _ repository.JournalRepository = (*JournalRepo)(nil)

// JournalRepo implementación de JournalRepository sobre PostgreSQL. El libro
// contable real vive en el módulo financiero; estas tablas son la cola de
// asientos que este motor produce.
type JournalRepo struct {
	q Querier
}

// NewJournalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewJournalRepository(q Querier) *JournalRepo {
	return &JournalRepo{q: q}
}

// Create persiste un asiento con sus líneas en la transacción actual.
func (r *JournalRepo) Create(ctx context.Context, entry *entity.JournalEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO journal_entries (id, company_id, movement_id, correlation_id, memo, posted_at)
		VALUES ($1, $2, $3, $4, $5, now())`
	_, err := r.q.Exec(ctx, query,
		entry.ID, entry.CompanyID, entry.MovementID, entry.CorrelationID, entry.Memo,
	)
	if err != nil {
		return fmt.Errorf("create journal entry: %w", err)
	}
	for i, line := range entry.Lines {
		lineQuery := `
			INSERT INTO journal_lines (id, entry_id, line_no, account_id, debit, credit)
			VALUES ($1, $2, $3, $4, $5, $6)`
		_, err := r.q.Exec(ctx, lineQuery,
			uuid.New().String(), entry.ID, i+1, line.AccountID, line.Debit, line.Credit,
		)
		if err != nil {
			return fmt.Errorf("create journal line: %w", err)
		}
	}
	return nil
}

// ListByCorrelation lista los asientos (con líneas) de una operación.
func (r *JournalRepo) ListByCorrelation(ctx context.Context, correlationID string) ([]*entity.JournalEntry, error) {
	query := `
		SELECT id, company_id, movement_id, correlation_id, memo, posted_at
		FROM journal_entries WHERE correlation_id = $1 ORDER BY posted_at, id`
	rows, err := r.q.Query(ctx, query, correlationID)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}

	var entries []*entity.JournalEntry
	for rows.Next() {
		var e entity.JournalEntry
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.MovementID, &e.CorrelationID, &e.Memo, &e.PostedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, &e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, e := range entries {
		lines, err := r.listLines(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		e.Lines = lines
	}
	return entries, nil
}

// AccountBalance devuelve débitos menos créditos acumulados de una cuenta.
func (r *JournalRepo) AccountBalance(ctx context.Context, companyID, accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit - l.credit), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		WHERE e.company_id = $1 AND l.account_id = $2`
	var balance decimal.Decimal
	if err := r.q.QueryRow(ctx, query, companyID, accountID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("account balance: %w", err)
	}
	return balance, nil
}

func (r *JournalRepo) listLines(ctx context.Context, entryID string) ([]entity.JournalLine, error) {
	query := `
		SELECT account_id, debit, credit FROM journal_lines
		WHERE entry_id = $1 ORDER BY line_no`
	rows, err := r.q.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("list journal lines: %w", err)
	}
	defer rows.Close()

	var lines []entity.JournalLine
	for rows.Next() {
		var l entity.JournalLine
		if err := rows.Scan(&l.AccountID, &l.Debit, &l.Credit); err != nil {
			return nil, fmt.Errorf("scan journal line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
