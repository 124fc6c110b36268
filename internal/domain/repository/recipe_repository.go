package repository

import (
	"context"

	"github.com/tu-usuario/restops-core/internal/domain/entity"
)

// RecipeRepository define el puerto para ítems de menú y sus recetas.
type RecipeRepository interface {
	GetMenuItem(ctx context.Context, id string) (*entity.MenuItem, error)
	ListIngredients(ctx context.Context, menuItemID string) ([]*entity.RecipeIngredient, error)
	CreateMenuItem(ctx context.Context, item *entity.MenuItem) error
	CreateIngredient(ctx context.Context, row *entity.RecipeIngredient) error
}
