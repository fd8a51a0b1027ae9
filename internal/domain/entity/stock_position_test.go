package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Valuacion-api/internal/domain"
	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
)

func position(quantity, reserved int64) *entity.StockPosition {
	p := entity.NewStockPosition("prod", "wh", 0, 0, time.Now())
	p.Quantity = quantity
	p.ReservedQuantity = reserved
	return p
}

func TestStockPosition_Reserve(t *testing.T) {
	p := position(50, 0)

	assert.True(t, p.Reserve(30))
	assert.Equal(t, int64(30), p.ReservedQuantity)

	// solo quedan 20 disponibles
	assert.False(t, p.Reserve(30))
	assert.Equal(t, int64(30), p.ReservedQuantity, "una reserva rechazada no cambia nada")

	assert.True(t, p.Reserve(20))
	assert.Equal(t, int64(0), p.AvailableQuantity())

	assert.False(t, p.Reserve(0))
	assert.False(t, p.Reserve(-1))
}

func TestStockPosition_Release(t *testing.T) {
	p := position(50, 30)

	p.Release(10)
	assert.Equal(t, int64(20), p.ReservedQuantity)

	p.Release(100)
	assert.Equal(t, int64(0), p.ReservedQuantity, "release se limita a lo reservado")

	p.Release(-5)
	assert.Equal(t, int64(0), p.ReservedQuantity)
}

func TestStockPosition_Umbrales(t *testing.T) {
	p := position(10, 0)
	p.MinimumStock = 10
	assert.True(t, p.IsLowStock(), "en el mínimo cuenta como bajo")

	p.Quantity = 11
	assert.False(t, p.IsLowStock())

	assert.False(t, p.IsOverStock(), "sin máximo nunca hay sobre-stock")
	p.MaximumStock = 11
	assert.False(t, p.IsOverStock())
	p.Quantity = 12
	assert.True(t, p.IsOverStock())
}

func TestStockPosition_ApplyValuation(t *testing.T) {
	p := position(30, 0)
	p.ApplyValuation(decimal.RequireFromString("320.005"))
	assert.Equal(t, "320.01", p.TotalValue.StringFixed(2))
	assert.Equal(t, "10.6668", p.UnitCost.StringFixed(4))

	p.Quantity = 0
	p.ApplyValuation(decimal.Zero)
	assert.True(t, p.UnitCost.IsZero())
	assert.True(t, p.TotalValue.IsZero())
}

func TestStockPosition_ClampReservation(t *testing.T) {
	p := position(10, 25)
	p.ClampReservation()
	assert.Equal(t, int64(10), p.ReservedQuantity)

	p = position(10, 5)
	p.ClampReservation()
	assert.Equal(t, int64(5), p.ReservedQuantity)
}

func TestParseValuationMethod(t *testing.T) {
	m, err := entity.ParseValuationMethod(" weighted_average ")
	require.NoError(t, err)
	assert.Equal(t, entity.ValuationWeightedAverage, m)

	m, err = entity.ParseValuationMethod("")
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultValuationMethod, m)

	_, err = entity.ParseValuationMethod("AVCO")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.True(t, entity.ValuationLIFO.UsesLayers())
	assert.False(t, entity.ValuationStandardCost.UsesLayers())
}
