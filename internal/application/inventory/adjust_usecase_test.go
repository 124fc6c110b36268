package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/restops-core/internal/application/dto"
	"github.com/tu-usuario/restops-core/internal/application/inventory"
	"github.com/tu-usuario/restops-core/internal/domain"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
)

func newAdjustUC(s *store) *inventory.AdjustmentUseCase {
	repos := s.repos()
	return inventory.NewAdjustmentUseCase(&fakeTxRunner{s}, repos.Items, repos.Locations)
}

func TestRegisterWastage(t *testing.T) {
	ctx := context.Background()

	t.Run("consume FIFO y contabiliza gasto por merma", func(t *testing.T) {
		s := seedStore()
		b := seedBatch(s, "tomate", locBlock, "20", "50", day1)
		uc := newAdjustUC(s)

		_, err := uc.RegisterWastage(ctx, companyID, userID, dto.WastageRequest{
			ItemID:     "tomate",
			LocationID: locBlock,
			Quantity:   d("5"),
			Reason:     entity.ReasonExpired,
		})
		require.NoError(t, err)

		assert.True(t, d("15").Equal(b.Remaining))

		movs := movementsOfType(s, entity.MovementTypeWastage)
		require.Len(t, movs, 1)
		assert.True(t, d("-5").Equal(movs[0].Quantity))
		assert.Equal(t, entity.ReasonExpired, movs[0].Reason)

		// Débito 250 al gasto por merma, crédito 250 al activo.
		require.Len(t, s.entries, 1)
		e := s.entries[0]
		assert.True(t, e.Balanced())
		var wasteDebit, assetCredit bool
		for _, l := range e.Lines {
			if l.AccountID == "5295" && d("250").Equal(l.Debit) {
				wasteDebit = true
			}
			if l.AccountID == "1435" && d("250").Equal(l.Credit) {
				assetCredit = true
			}
		}
		assert.True(t, wasteDebit, "debe debitar el gasto por merma")
		assert.True(t, assetCredit, "debe acreditar el activo")
	})

	t.Run("ítem inexistente falla antes de tocar estado", func(t *testing.T) {
		s := seedStore()
		uc := newAdjustUC(s)
		_, err := uc.RegisterWastage(ctx, companyID, userID, dto.WastageRequest{
			ItemID: "fantasma", LocationID: locBlock, Quantity: d("1"), Reason: entity.ReasonDamaged,
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, s.movements)
	})

	t.Run("ítem de otra empresa falla", func(t *testing.T) {
		s := seedStore()
		s.items["ajeno"] = &entity.InventoryItem{
			ID: "ajeno", CompanyID: "otra-empresa", SKU: "AJ-01", BaseUnit: "unit", Active: true,
		}
		uc := newAdjustUC(s)
		_, err := uc.RegisterWastage(ctx, companyID, userID, dto.WastageRequest{
			ItemID: "ajeno", LocationID: locBlock, Quantity: d("1"), Reason: entity.ReasonDamaged,
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("merma sin stock bloquea", func(t *testing.T) {
		s := seedStore()
		uc := newAdjustUC(s)
		_, err := uc.RegisterWastage(ctx, companyID, userID, dto.WastageRequest{
			ItemID: "tomate", LocationID: locBlock, Quantity: d("1"), Reason: entity.ReasonDamaged,
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	})
}

func TestAdjust(t *testing.T) {
	ctx := context.Background()

	t.Run("delta positivo abre lote sintético al último costo", func(t *testing.T) {
		s := seedStore()
		uc := newAdjustUC(s)

		_, err := uc.Adjust(ctx, companyID, userID, dto.AdjustmentRequest{
			ItemID: "tomate", LocationID: locBlock, Delta: d("4"), Reason: "encontrado en nevera",
		})
		require.NoError(t, err)

		require.Len(t, s.batches, 1)
		assert.True(t, d("4").Equal(s.batches[0].Remaining))
		assert.True(t, d("100").Equal(s.batches[0].UnitCost), "usa el último costo conocido del ítem")

		movs := movementsOfType(s, entity.MovementTypeAdjustment)
		require.Len(t, movs, 1)
		assert.True(t, d("4").Equal(movs[0].Quantity))
	})

	t.Run("delta negativo consume FIFO como shrink", func(t *testing.T) {
		s := seedStore()
		b := seedBatch(s, "tomate", locBlock, "10", "80", day1)
		uc := newAdjustUC(s)

		_, err := uc.Adjust(ctx, companyID, userID, dto.AdjustmentRequest{
			ItemID: "tomate", LocationID: locBlock, Delta: d("-3"), Reason: "rotura",
		})
		require.NoError(t, err)
		assert.True(t, d("7").Equal(b.Remaining))

		// El ajuste negativo contabiliza contra el gasto de shrink.
		require.Len(t, s.entries, 1)
		var shrinkDebit bool
		for _, l := range s.entries[0].Lines {
			if l.AccountID == "5299" && d("240").Equal(l.Debit) {
				shrinkDebit = true
			}
		}
		assert.True(t, shrinkDebit)
	})

	t.Run("delta cero falla", func(t *testing.T) {
		s := seedStore()
		uc := newAdjustUC(s)
		_, err := uc.Adjust(ctx, companyID, userID, dto.AdjustmentRequest{
			ItemID: "tomate", LocationID: locBlock, Delta: d("0"), Reason: "nada",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})
}

func TestSubmitCount(t *testing.T) {
	ctx := context.Background()

	t.Run("aplica solo las diferencias contra el remanente vivo", func(t *testing.T) {
		s := seedStore()
		bTom := seedBatch(s, "tomate", locBlock, "10", "80", day1)
		seedBatch(s, "pan", locBlock, "6", "100", day1)
		uc := newAdjustUC(s)

		resp, err := uc.SubmitCount(ctx, companyID, userID, dto.StockCountRequest{
			LocationID: locBlock,
			Counts: []dto.StockCountLine{
				{ItemID: "tomate", Counted: d("8")}, // faltan 2
				{ItemID: "pan", Counted: d("6")},    // cuadra
			},
		})
		require.NoError(t, err)

		require.Len(t, resp.Variances, 1, "los ítems que cuadran no generan ajuste")
		v := resp.Variances[0]
		assert.Equal(t, "tomate", v.ItemID)
		assert.True(t, d("10").Equal(v.Expected))
		assert.True(t, d("-2").Equal(v.Delta))
		assert.True(t, d("8").Equal(bTom.Remaining))

		movs := movementsOfType(s, entity.MovementTypeAdjustment)
		require.Len(t, movs, 1)
		assert.Equal(t, entity.ReasonStocktakeVariance, movs[0].Reason)
	})

	t.Run("sobrante abre lote sintético", func(t *testing.T) {
		s := seedStore()
		seedBatch(s, "tomate", locBlock, "5", "80", day1)
		uc := newAdjustUC(s)

		resp, err := uc.SubmitCount(ctx, companyID, userID, dto.StockCountRequest{
			LocationID: locBlock,
			Counts:     []dto.StockCountLine{{ItemID: "tomate", Counted: d("9")}},
		})
		require.NoError(t, err)
		require.Len(t, resp.Variances, 1)
		assert.True(t, d("4").Equal(resp.Variances[0].Delta))
		assert.Len(t, s.batches, 2, "el sobrante entra como lote nuevo fechado hoy")
	})

	t.Run("conteo negativo falla", func(t *testing.T) {
		s := seedStore()
		uc := newAdjustUC(s)
		_, err := uc.SubmitCount(ctx, companyID, userID, dto.StockCountRequest{
			LocationID: locBlock,
			Counts:     []dto.StockCountLine{{ItemID: "tomate", Counted: d("-1")}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("conserva costo y antigüedad FIFO en destino", func(t *testing.T) {
		s := seedStore()
		old := seedBatch(s, "tomate", locBlock, "10", "80", day1)
		uc := newAdjustUC(s)

		correlationID, err := uc.Transfer(ctx, companyID, userID, dto.TransferRequest{
			ItemID:         "tomate",
			FromLocationID: locBlock,
			ToLocationID:   locOther,
			Quantity:       d("8"),
		})
		require.NoError(t, err)
		require.NotEmpty(t, correlationID)

		assert.True(t, d("2").Equal(old.Remaining))

		require.Len(t, s.batches, 2)
		dest := s.batches[1]
		assert.Equal(t, locOther, dest.LocationID)
		assert.True(t, d("8").Equal(dest.Remaining))
		assert.True(t, d("80").Equal(dest.UnitCost), "el costo viaja con el stock")
		assert.True(t, dest.ReceivedAt.Equal(day1), "la antigüedad FIFO sobrevive el traslado")

		outs := movementsOfType(s, entity.MovementTypeTransferOut)
		ins := movementsOfType(s, entity.MovementTypeTransferIn)
		require.Len(t, outs, 1)
		require.Len(t, ins, 1)
		assert.True(t, outs[0].Quantity.Neg().Equal(ins[0].Quantity))
		assert.Equal(t, correlationID, ins[0].CorrelationID)

		// Mismo activo contable en ambas sedes: sin asiento.
		assert.Empty(t, s.entries)
	})

	t.Run("cruza lotes y abre un lote destino por porción", func(t *testing.T) {
		s := seedStore()
		seedBatch(s, "tomate", locBlock, "5", "80", day1)
		seedBatch(s, "tomate", locBlock, "5", "90", day1.Add(24*time.Hour))
		uc := newAdjustUC(s)

		_, err := uc.Transfer(ctx, companyID, userID, dto.TransferRequest{
			ItemID:         "tomate",
			FromLocationID: locBlock,
			ToLocationID:   locOther,
			Quantity:       d("7"),
		})
		require.NoError(t, err)

		var destBatches []*entity.StockBatch
		for _, b := range s.batches {
			if b.LocationID == locOther {
				destBatches = append(destBatches, b)
			}
		}
		require.Len(t, destBatches, 2)
		assert.True(t, d("5").Equal(destBatches[0].Remaining))
		assert.True(t, d("80").Equal(destBatches[0].UnitCost))
		assert.True(t, d("2").Equal(destBatches[1].Remaining))
		assert.True(t, d("90").Equal(destBatches[1].UnitCost))
	})

	t.Run("sedes con activos distintos generan asiento puente", func(t *testing.T) {
		s := seedStore()
		s.mappings[companyID+"|"+locOther] = &entity.AccountMapping{
			ID: "map-sur", CompanyID: companyID, LocationID: locOther,
			InventoryAsset: "1436", COGS: "6135", WasteExpense: "5295",
			ShrinkExpense: "5299", GRNI: "2335", InventoryGain: "4250",
			InterLocationClearing: "1710",
		}
		seedBatch(s, "tomate", locBlock, "10", "80", day1)
		uc := newAdjustUC(s)

		_, err := uc.Transfer(ctx, companyID, userID, dto.TransferRequest{
			ItemID:         "tomate",
			FromLocationID: locBlock,
			ToLocationID:   locOther,
			Quantity:       d("5"),
		})
		require.NoError(t, err)

		require.Len(t, s.entries, 1)
		assert.True(t, s.entries[0].Balanced())
		require.Len(t, s.entries[0].Lines, 4)
	})

	t.Run("nunca permite saldo negativo, incluso en sede ALLOW", func(t *testing.T) {
		s := seedStore()
		seedBatch(s, "tomate", locAllow, "3", "80", day1)
		uc := newAdjustUC(s)

		_, err := uc.Transfer(ctx, companyID, userID, dto.TransferRequest{
			ItemID:         "tomate",
			FromLocationID: locAllow,
			ToLocationID:   locOther,
			Quantity:       d("5"),
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	})

	t.Run("misma sede origen y destino falla", func(t *testing.T) {
		s := seedStore()
		uc := newAdjustUC(s)
		_, err := uc.Transfer(ctx, companyID, userID, dto.TransferRequest{
			ItemID:         "tomate",
			FromLocationID: locBlock,
			ToLocationID:   locBlock,
			Quantity:       d("1"),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
