package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/restops-core/internal/application/dto"
	"github.com/tu-usuario/restops-core/internal/application/inventory"
	"github.com/tu-usuario/restops-core/internal/domain"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
	"github.com/tu-usuario/restops-core/internal/domain/uom"
)

func newCatalogUC(s *store) *inventory.CatalogUseCase {
	repos := s.repos()
	return inventory.NewCatalogUseCase(repos.Items, repos.Batches, repos.Movements, uom.NewResolver())
}

func TestCreateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("da de alta un SKU activo", func(t *testing.T) {
		s := seedStore()
		uc := newCatalogUC(s)

		item, err := uc.CreateItem(ctx, companyID, dto.CreateItemRequest{
			SKU:          "QUESO-01",
			Name:         "Queso mozarella",
			BaseUnit:     "g",
			LastCost:     d("0.03"),
			ReorderLevel: d("500"),
		})
		require.NoError(t, err)
		assert.True(t, item.Active)
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, "g", s.items[item.ID].BaseUnit)
	})

	t.Run("SKU repetido en la misma empresa falla", func(t *testing.T) {
		s := seedStore()
		uc := newCatalogUC(s)

		_, err := uc.CreateItem(ctx, companyID, dto.CreateItemRequest{
			SKU: "PAN-01", Name: "Otro pan", BaseUnit: "unit",
		})
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})

	t.Run("unidad base desconocida falla", func(t *testing.T) {
		s := seedStore()
		uc := newCatalogUC(s)

		_, err := uc.CreateItem(ctx, companyID, dto.CreateItemRequest{
			SKU: "X-01", Name: "Inválido", BaseUnit: "parsec",
		})
		assert.ErrorIs(t, err, domain.ErrIncompatibleUnits)
	})
}

func TestDeactivateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("desactiva sin eliminar", func(t *testing.T) {
		s := seedStore()
		uc := newCatalogUC(s)

		require.NoError(t, uc.DeactivateItem(ctx, companyID, "pan"))
		assert.False(t, s.items["pan"].Active)
	})

	t.Run("ítem de otra empresa falla", func(t *testing.T) {
		s := seedStore()
		s.items["ajeno"] = &entity.InventoryItem{
			ID: "ajeno", CompanyID: "otra-empresa", SKU: "AJ-01", BaseUnit: "unit", Active: true,
		}
		uc := newCatalogUC(s)

		assert.ErrorIs(t, uc.DeactivateItem(ctx, companyID, "ajeno"), domain.ErrForbidden)
	})
}

func TestItemStock(t *testing.T) {
	ctx := context.Background()
	s := seedStore()
	seedBatch(s, "pan", locBlock, "6", "100", day1)
	seedBatch(s, "pan", locOther, "4", "100", day1)
	uc := newCatalogUC(s)

	t.Run("por sede", func(t *testing.T) {
		resp, err := uc.ItemStock(ctx, companyID, "pan", locBlock)
		require.NoError(t, err)
		assert.True(t, d("6").Equal(resp.Remaining))
	})

	t.Run("ítem inexistente falla", func(t *testing.T) {
		_, err := uc.ItemStock(ctx, companyID, "fantasma", locBlock)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestItemMovements(t *testing.T) {
	ctx := context.Background()
	s := seedStore()
	seedBatch(s, "pan", locBlock, "20", "100", day1)
	adjustUC := newAdjustUC(s)
	_, err := adjustUC.RegisterWastage(ctx, companyID, userID, dto.WastageRequest{
		ItemID: "pan", LocationID: locBlock, Quantity: d("3"), Reason: entity.ReasonDamaged,
	})
	require.NoError(t, err)
	uc := newCatalogUC(s)

	t.Run("devuelve el historial del diario", func(t *testing.T) {
		movs, err := uc.ItemMovements(ctx, companyID, "pan", nil, nil, 0, 0)
		require.NoError(t, err)
		require.Len(t, movs, 1)
		assert.Equal(t, entity.MovementTypeWastage, movs[0].Type)
		assert.True(t, d("-3").Equal(movs[0].Quantity))
		assert.Equal(t, entity.ReasonDamaged, movs[0].Reason)
	})

	t.Run("ítem de otra empresa falla", func(t *testing.T) {
		s.items["ajeno"] = &entity.InventoryItem{
			ID: "ajeno", CompanyID: "otra-empresa", SKU: "AJ-02", BaseUnit: "unit", Active: true,
		}
		_, err := uc.ItemMovements(ctx, companyID, "ajeno", nil, nil, 0, 0)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestReorderReport(t *testing.T) {
	ctx := context.Background()
	s := seedStore()
	// El tomate tiene punto de reorden 12 y solo 10 en stock; el pan no maneja
	// punto de reorden.
	s.items["tomate"].ReorderLevel = d("12")
	seedBatch(s, "tomate", locBlock, "10", "80", day1)
	seedBatch(s, "pan", locBlock, "2", "100", day1)
	uc := newCatalogUC(s)

	report, err := uc.ReorderReport(ctx, companyID, locBlock)
	require.NoError(t, err)
	require.Len(t, report, 1, "solo los ítems con punto de reorden configurado")
	assert.Equal(t, "tomate", report[0].ID)
}
