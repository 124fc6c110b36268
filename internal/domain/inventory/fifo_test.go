package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/restops-core/internal/domain"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
	"github.com/tu-usuario/restops-core/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func batch(id string, seq int64, remaining, unitCost string, receivedAt time.Time) *entity.StockBatch {
	return &entity.StockBatch{
		ID:         id,
		Seq:        seq,
		Received:   d(remaining),
		Remaining:  d(remaining),
		UnitCost:   d(unitCost),
		ReceivedAt: receivedAt,
	}
}

func TestSelectFIFO(t *testing.T) {
	day1 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	t.Run("parte entre lotes en orden de llegada", func(t *testing.T) {
		// 10 und a 100 del día 1, 10 und a 120 del día 2; vender 15.
		a := batch("a", 1, "10", "100", day1)
		b := batch("b", 2, "10", "120", day2)

		res, err := inventory.SelectFIFO([]*entity.StockBatch{b, a}, d("15"))
		require.NoError(t, err)

		require.Len(t, res.Slices, 2)
		assert.Equal(t, "a", res.Slices[0].Batch.ID)
		assert.True(t, d("10").Equal(res.Slices[0].Quantity))
		assert.Equal(t, "b", res.Slices[1].Batch.ID)
		assert.True(t, d("5").Equal(res.Slices[1].Quantity))
		// 10*100 + 5*120 = 1600
		assert.True(t, d("1600").Equal(res.TotalCost()), "COGS esperado 1600, obtenido %s", res.TotalCost())
		assert.True(t, res.Shortfall.IsZero())
	})

	t.Run("un solo lote alcanza", func(t *testing.T) {
		a := batch("a", 1, "20", "50", day1)
		res, err := inventory.SelectFIFO([]*entity.StockBatch{a}, d("5"))
		require.NoError(t, err)
		require.Len(t, res.Slices, 1)
		assert.True(t, d("5").Equal(res.Slices[0].Quantity))
		assert.True(t, d("250").Equal(res.TotalCost()))
	})

	t.Run("desempata por seq con la misma fecha", func(t *testing.T) {
		a := batch("a", 5, "4", "10", day1)
		b := batch("b", 3, "4", "20", day1)

		res, err := inventory.SelectFIFO([]*entity.StockBatch{a, b}, d("6"))
		require.NoError(t, err)
		require.Len(t, res.Slices, 2)
		assert.Equal(t, "b", res.Slices[0].Batch.ID, "seq menor va primero")
		assert.True(t, d("4").Equal(res.Slices[0].Quantity))
		assert.Equal(t, "a", res.Slices[1].Batch.ID)
		assert.True(t, d("2").Equal(res.Slices[1].Quantity))
	})

	t.Run("ignora lotes agotados", func(t *testing.T) {
		exhausted := batch("viejo", 1, "10", "80", day1)
		exhausted.Remaining = decimal.Zero
		open := batch("nuevo", 2, "10", "90", day2)

		res, err := inventory.SelectFIFO([]*entity.StockBatch{exhausted, open}, d("3"))
		require.NoError(t, err)
		require.Len(t, res.Slices, 1)
		assert.Equal(t, "nuevo", res.Slices[0].Batch.ID)
	})

	t.Run("reporta faltante sin inventarlo", func(t *testing.T) {
		a := batch("a", 1, "4", "100", day1)
		res, err := inventory.SelectFIFO([]*entity.StockBatch{a}, d("10"))
		require.NoError(t, err)
		assert.True(t, d("4").Equal(res.Allocated))
		assert.True(t, d("6").Equal(res.Shortfall))
	})

	t.Run("sin lotes abiertos todo es faltante", func(t *testing.T) {
		res, err := inventory.SelectFIFO(nil, d("3"))
		require.NoError(t, err)
		assert.Empty(t, res.Slices)
		assert.True(t, d("3").Equal(res.Shortfall))
	})

	t.Run("cantidad no positiva falla", func(t *testing.T) {
		_, err := inventory.SelectFIFO(nil, d("0"))
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		_, err = inventory.SelectFIFO(nil, d("-1"))
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})

	t.Run("no muta los lotes", func(t *testing.T) {
		a := batch("a", 1, "10", "100", day1)
		_, err := inventory.SelectFIFO([]*entity.StockBatch{a}, d("7"))
		require.NoError(t, err)
		assert.True(t, d("10").Equal(a.Remaining), "el caller aplica los decrementos, no la selección")
	})

	t.Run("cantidades fraccionarias", func(t *testing.T) {
		a := batch("a", 1, "0.8", "12.50", day1)
		b := batch("b", 2, "2", "13", day2)

		res, err := inventory.SelectFIFO([]*entity.StockBatch{a, b}, d("1.25"))
		require.NoError(t, err)
		require.Len(t, res.Slices, 2)
		assert.True(t, d("0.8").Equal(res.Slices[0].Quantity))
		assert.True(t, d("0.45").Equal(res.Slices[1].Quantity))
		// 0.8*12.50 + 0.45*13 = 10 + 5.85 = 15.85
		assert.True(t, d("15.85").Equal(res.TotalCost()))
	})
}
