package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
	"github.com/tu-usuario/restops-core/internal/domain/repository"
)

var _ repository.AccountMappingRepository = (*AccountMappingRepo)(nil)

// AccountMappingRepo implementación de AccountMappingRepository sobre
// PostgreSQL.
type AccountMappingRepo struct {
	q Querier
}

// NewAccountMappingRepository construye el adaptador. Pasar pool o tx.
func NewAccountMappingRepository(q Querier) *AccountMappingRepo {
	return &AccountMappingRepo{q: q}
}

const mappingColumns = `id, company_id, location_id, inventory_asset, cogs, waste_expense, shrink_expense, grni, inventory_gain, inter_location_clearing, created_at, updated_at`

// Resolve devuelve el mapeo aplicable: el override de la sede si existe, si no
// el default de la empresa (location_id = ''). Nil si no hay ninguno.
func (r *AccountMappingRepo) Resolve(ctx context.Context, companyID, locationID string) (*entity.AccountMapping, error) {
	query := `
		SELECT ` + mappingColumns + ` FROM account_mappings
		WHERE company_id = $1 AND location_id IN ($2, '')
		ORDER BY location_id DESC
		LIMIT 1`
	var m entity.AccountMapping
	err := r.q.QueryRow(ctx, query, companyID, locationID).Scan(
		&m.ID, &m.CompanyID, &m.LocationID,
		&m.InventoryAsset, &m.COGS, &m.WasteExpense, &m.ShrinkExpense,
		&m.GRNI, &m.InventoryGain, &m.InterLocationClearing,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve account mapping: %w", err)
	}
	return &m, nil
}

// Upsert crea o reemplaza el mapeo de la (empresa, sede).
func (r *AccountMappingRepo) Upsert(ctx context.Context, mapping *entity.AccountMapping) error {
	if mapping.ID == "" {
		mapping.ID = uuid.New().String()
	}
	query := `
		INSERT INTO account_mappings (` + mappingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		ON CONFLICT (company_id, location_id) DO UPDATE SET
			inventory_asset = EXCLUDED.inventory_asset,
			cogs = EXCLUDED.cogs,
			waste_expense = EXCLUDED.waste_expense,
			shrink_expense = EXCLUDED.shrink_expense,
			grni = EXCLUDED.grni,
			inventory_gain = EXCLUDED.inventory_gain,
			inter_location_clearing = EXCLUDED.inter_location_clearing,
			updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		mapping.ID, mapping.CompanyID, mapping.LocationID,
		mapping.InventoryAsset, mapping.COGS, mapping.WasteExpense, mapping.ShrinkExpense,
		mapping.GRNI, mapping.InventoryGain, mapping.InterLocationClearing,
	)
	if err != nil {
		return fmt.Errorf("upsert account mapping: %w", err)
	}
	return nil
}
