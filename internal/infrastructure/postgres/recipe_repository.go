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

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo implementación de RecipeRepository sobre PostgreSQL.
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

// GetMenuItem obtiene un ítem de menú por ID. Nil si no existe.
func (r *RecipeRepo) GetMenuItem(ctx context.Context, id string) (*entity.MenuItem, error) {
	query := `
		SELECT id, company_id, name, tracked, active, created_at, updated_at
		FROM menu_items WHERE id = $1`
	var mi entity.MenuItem
	err := r.q.QueryRow(ctx, query, id).Scan(
		&mi.ID, &mi.CompanyID, &mi.Name, &mi.Tracked, &mi.Active, &mi.CreatedAt, &mi.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return &mi, nil
}

// ListIngredients lista las filas de receta de un ítem de menú en orden de
// inserción estable.
func (r *RecipeRepo) ListIngredients(ctx context.Context, menuItemID string) ([]*entity.RecipeIngredient, error) {
	query := `
		SELECT id, menu_item_id, item_id, quantity, unit, waste_percent, gate, modifier_option_id, created_at
		FROM recipe_ingredients WHERE menu_item_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, menuItemID)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	var list []*entity.RecipeIngredient
	for rows.Next() {
		var ri entity.RecipeIngredient
		if err := rows.Scan(
			&ri.ID, &ri.MenuItemID, &ri.ItemID, &ri.Quantity, &ri.Unit,
			&ri.WastePercent, &ri.Gate, &ri.ModifierOptionID, &ri.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		list = append(list, &ri)
	}
	return list, rows.Err()
}

// CreateMenuItem persiste un ítem de menú.
func (r *RecipeRepo) CreateMenuItem(ctx context.Context, item *entity.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO menu_items (id, company_id, name, tracked, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())`
	_, err := r.q.Exec(ctx, query, item.ID, item.CompanyID, item.Name, item.Tracked, item.Active)
	if err != nil {
		return fmt.Errorf("create menu item: %w", err)
	}
	return nil
}

// CreateIngredient persiste una fila de receta.
func (r *RecipeRepo) CreateIngredient(ctx context.Context, row *entity.RecipeIngredient) error {
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	if row.Gate == "" {
		row.Gate = entity.GateUnconditional
	}
	query := `
		INSERT INTO recipe_ingredients
			(id, menu_item_id, item_id, quantity, unit, waste_percent, gate, modifier_option_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`
	_, err := r.q.Exec(ctx, query,
		row.ID, row.MenuItemID, row.ItemID, row.Quantity, row.Unit,
		row.WastePercent, row.Gate, row.ModifierOptionID,
	)
	if err != nil {
		return fmt.Errorf("create recipe ingredient: %w", err)
	}
	return nil
}
