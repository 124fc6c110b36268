package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
	"github.com/tu-usuario/restops-core/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL.
// Append-only: no hay UPDATE ni DELETE sobre stock_movements.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, seq, company_id, item_id, location_id, batch_id, correlation_id, type, quantity, unit_cost, total_cost, reason, order_ref, idempotency_key, negative_stock, created_at, created_by`

// Create inserta un movimiento. La clave de idempotencia vacía se guarda como
// NULL para no chocar con el índice único parcial.
func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	var key *string
	if m.IdempotencyKey != "" {
		key = &m.IdempotencyKey
	}
	var batchID *string
	if m.BatchID != "" {
		batchID = &m.BatchID
	}
	query := `
		INSERT INTO stock_movements
			(id, company_id, item_id, location_id, batch_id, correlation_id, type,
			 quantity, unit_cost, total_cost, reason, order_ref, idempotency_key,
			 negative_stock, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), $15)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.CompanyID, m.ItemID, m.LocationID, batchID, m.CorrelationID, m.Type,
		m.Quantity, m.UnitCost, m.TotalCost, m.Reason, m.OrderRef, key,
		m.NegativeStock, m.CreatedBy,
	).Scan(&m.Seq)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByItem lista los movimientos de un ítem, opcionalmente acotados por
// rango de fechas, del más reciente al más antiguo.
func (r *MovementRepo) ListByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM stock_movements
		WHERE item_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY seq DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, itemID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by item: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListByCorrelation lista los movimientos de una operación en orden de
// inserción.
func (r *MovementRepo) ListByCorrelation(ctx context.Context, correlationID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM stock_movements
		WHERE correlation_id = $1 ORDER BY seq`
	rows, err := r.q.Query(ctx, query, correlationID)
	if err != nil {
		return nil, fmt.Errorf("list movements by correlation: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListByOrderRef lista los movimientos asociados a una orden POS o documento.
func (r *MovementRepo) ListByOrderRef(ctx context.Context, companyID, orderRef string) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM stock_movements
		WHERE company_id = $1 AND order_ref = $2 ORDER BY seq`
	rows, err := r.q.Query(ctx, query, companyID, orderRef)
	if err != nil {
		return nil, fmt.Errorf("list movements by order: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// FindCorrelationByIdempotencyKey devuelve el CorrelationID de una operación
// ya aplicada con esa clave, o "" si no se ha visto.
func (r *MovementRepo) FindCorrelationByIdempotencyKey(ctx context.Context, companyID, key string) (string, error) {
	query := `
		SELECT correlation_id FROM stock_movements
		WHERE company_id = $1 AND idempotency_key = $2
		LIMIT 1`
	var correlationID string
	err := r.q.QueryRow(ctx, query, companyID, key).Scan(&correlationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("find idempotency key: %w", err)
	}
	return correlationID, nil
}

// SumByItem devuelve la suma firmada de cantidades por ítem hasta asOf.
// Excluye los faltantes marcados negative_stock: esas filas nunca tocaron
// lotes y se reportan como hallazgo aparte en la conciliación.
func (r *MovementRepo) SumByItem(ctx context.Context, companyID, locationID string, asOf time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT item_id, SUM(quantity) FROM stock_movements
		WHERE company_id = $1 AND ($2 = '' OR location_id = $2)
		  AND created_at <= $3 AND NOT negative_stock
		GROUP BY item_id`
	rows, err := r.q.Query(ctx, query, companyID, locationID, asOf)
	if err != nil {
		return nil, fmt.Errorf("sum movements by item: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var itemID string
		var sum decimal.Decimal
		if err := rows.Scan(&itemID, &sum); err != nil {
			return nil, fmt.Errorf("scan movement sum: %w", err)
		}
		totals[itemID] = sum
	}
	return totals, rows.Err()
}

func (r *MovementRepo) scanMany(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var batchID, key *string
		if err := rows.Scan(
			&m.ID, &m.Seq, &m.CompanyID, &m.ItemID, &m.LocationID, &batchID,
			&m.CorrelationID, &m.Type, &m.Quantity, &m.UnitCost, &m.TotalCost,
			&m.Reason, &m.OrderRef, &key, &m.NegativeStock, &m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if batchID != nil {
			m.BatchID = *batchID
		}
		if key != nil {
			m.IdempotencyKey = *key
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
