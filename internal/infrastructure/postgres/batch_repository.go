package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
	"github.com/tu-usuario/restops-core/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id, company_id, item_id, location_id, seq, received, remaining, unit_cost, received_at, expires_at, source_ref, created_at`

// Create persiste un lote nuevo. seq lo asigna la secuencia de la base.
func (r *BatchRepo) Create(ctx context.Context, batch *entity.StockBatch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_batches
			(id, company_id, item_id, location_id, received, remaining, unit_cost, received_at, expires_at, source_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		batch.ID, batch.CompanyID, batch.ItemID, batch.LocationID,
		batch.Received, batch.Remaining, batch.UnitCost,
		batch.ReceivedAt, batch.ExpiresAt, batch.SourceRef,
	).Scan(&batch.Seq)
	if err != nil {
		return fmt.Errorf("create stock batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID. Nil si no existe.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.StockBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM stock_batches WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetForUpdate obtiene un lote bloqueando su fila para la transacción actual.
func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM stock_batches WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// ListOpenForUpdate devuelve los lotes abiertos de un (ítem, sede) en orden
// FIFO, bloqueados. El bloqueo serializa la contención por ítem sin tocar
// lotes de otros ítems.
func (r *BatchRepo) ListOpenForUpdate(ctx context.Context, itemID, locationID string) ([]*entity.StockBatch, error) {
	query := `
		SELECT ` + batchColumns + ` FROM stock_batches
		WHERE item_id = $1 AND location_id = $2 AND remaining > 0
		ORDER BY received_at, seq
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, itemID, locationID)
	if err != nil {
		return nil, fmt.Errorf("list open batches: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// LatestOpen devuelve el lote abierto más reciente. Nil si no hay.
func (r *BatchRepo) LatestOpen(ctx context.Context, itemID, locationID string) (*entity.StockBatch, error) {
	query := `
		SELECT ` + batchColumns + ` FROM stock_batches
		WHERE item_id = $1 AND location_id = $2 AND remaining > 0
		ORDER BY received_at DESC, seq DESC
		LIMIT 1`
	return r.scanOne(r.q.QueryRow(ctx, query, itemID, locationID))
}

// OldestOpen devuelve la cabeza FIFO. Nil si no hay lotes abiertos.
func (r *BatchRepo) OldestOpen(ctx context.Context, itemID, locationID string) (*entity.StockBatch, error) {
	query := `
		SELECT ` + batchColumns + ` FROM stock_batches
		WHERE item_id = $1 AND location_id = $2 AND remaining > 0
		ORDER BY received_at, seq
		LIMIT 1`
	return r.scanOne(r.q.QueryRow(ctx, query, itemID, locationID))
}

// UpdateRemaining fija el remanente de un lote. La base refuerza el invariante
// 0 <= remaining <= received con un CHECK.
func (r *BatchRepo) UpdateRemaining(ctx context.Context, id string, remaining decimal.Decimal) error {
	query := `UPDATE stock_batches SET remaining = $2 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, remaining)
	if err != nil {
		return fmt.Errorf("update batch remaining: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update batch remaining: lote %s no existe", id)
	}
	return nil
}

// RemainingByItem suma el remanente de todos los lotes de un (ítem, sede).
func (r *BatchRepo) RemainingByItem(ctx context.Context, itemID, locationID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(remaining), 0) FROM stock_batches
		WHERE item_id = $1 AND location_id = $2`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, itemID, locationID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum remaining: %w", err)
	}
	return total, nil
}

// RemainingTotals devuelve el remanente por ítem. Sede vacía agrega todas las
// sedes de la empresa.
func (r *BatchRepo) RemainingTotals(ctx context.Context, companyID, locationID string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT item_id, SUM(remaining) FROM stock_batches
		WHERE company_id = $1 AND ($2 = '' OR location_id = $2)
		GROUP BY item_id`
	rows, err := r.q.Query(ctx, query, companyID, locationID)
	if err != nil {
		return nil, fmt.Errorf("remaining totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var itemID string
		var sum decimal.Decimal
		if err := rows.Scan(&itemID, &sum); err != nil {
			return nil, fmt.Errorf("scan remaining total: %w", err)
		}
		totals[itemID] = sum
	}
	return totals, rows.Err()
}

// Valuation devuelve Σ(remanente × costo unitario) de los lotes abiertos.
func (r *BatchRepo) Valuation(ctx context.Context, companyID, locationID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(remaining * unit_cost), 0) FROM stock_batches
		WHERE company_id = $1 AND ($2 = '' OR location_id = $2) AND remaining > 0`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, companyID, locationID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("valuation: %w", err)
	}
	return total, nil
}

func (r *BatchRepo) scanOne(row pgx.Row) (*entity.StockBatch, error) {
	var b entity.StockBatch
	err := row.Scan(
		&b.ID, &b.CompanyID, &b.ItemID, &b.LocationID, &b.Seq,
		&b.Received, &b.Remaining, &b.UnitCost,
		&b.ReceivedAt, &b.ExpiresAt, &b.SourceRef, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan batch: %w", err)
	}
	return &b, nil
}

func (r *BatchRepo) scanMany(rows pgx.Rows) ([]*entity.StockBatch, error) {
	var list []*entity.StockBatch
	for rows.Next() {
		var b entity.StockBatch
		if err := rows.Scan(
			&b.ID, &b.CompanyID, &b.ItemID, &b.LocationID, &b.Seq,
			&b.Received, &b.Remaining, &b.UnitCost,
			&b.ReceivedAt, &b.ExpiresAt, &b.SourceRef, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
