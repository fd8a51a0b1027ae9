package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Valuacion-api/internal/domain"
	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
	"github.com/jhoicas/Valuacion-api/internal/domain/inventory"
)

func layer(id string, remaining int64, cost string) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		ID:                id,
		Direction:         entity.DirectionIN,
		Quantity:          remaining,
		RemainingQuantity: remaining,
		UnitCost:          decimal.RequireFromString(cost),
	}
}

// 100 @ 10 y luego 50 @ 12, en orden de llegada.
func receipts() []*entity.LedgerEntry {
	return []*entity.LedgerEntry{layer("a", 100, "10"), layer("b", 50, "12")}
}

func TestLayerValue(t *testing.T) {
	tests := []struct {
		name     string
		layers   []*entity.LedgerEntry
		quantity int64
		want     string
	}{
		{"fifo todas las capas", receipts(), 150, "1600"},
		{"fifo corta en la primera capa", receipts(), 30, "300"},
		{"lifo corta en la capa nueva", []*entity.LedgerEntry{layer("b", 50, "12"), layer("a", 100, "10")}, 30, "360"},
		{"sin capas", nil, 10, "0"},
		{"cantidad cero", receipts(), 0, "0"},
		{"redondeo a 2 decimales", []*entity.LedgerEntry{layer("c", 3, "1.3333")}, 3, "4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inventory.LayerValue(tt.layers, tt.quantity)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestWeightedAverage(t *testing.T) {
	layers := receipts()

	cost := inventory.WeightedAverageCost(layers)
	assert.Equal(t, "10.6667", cost.StringFixed(4))

	assert.Equal(t, "1600.00", inventory.WeightedAverageValue(layers, 150).StringFixed(2))
	assert.Equal(t, "1280.00", inventory.WeightedAverageValue(layers, 120).StringFixed(2))
}

func TestWeightedAverage_SinRemanente(t *testing.T) {
	empty := []*entity.LedgerEntry{layer("a", 0, "10")}
	assert.True(t, inventory.WeightedAverageCost(empty).IsZero())
	assert.True(t, inventory.WeightedAverageValue(empty, 10).IsZero())
	assert.True(t, inventory.WeightedAverageValue(nil, 0).IsZero())
}

func TestStandardValue(t *testing.T) {
	assert.Equal(t, "1500.00", inventory.StandardValue(150, decimal.NewFromInt(10)).StringFixed(2))
	assert.True(t, inventory.StandardValue(0, decimal.NewFromInt(10)).IsZero())
}

func TestPlanConsumption_RecorreCapasEnOrden(t *testing.T) {
	layers := receipts()

	plan, err := inventory.PlanConsumption(layers, 120)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, "a", plan[0].Layer.ID)
	assert.Equal(t, int64(100), plan[0].Quantity)
	assert.Equal(t, "b", plan[1].Layer.ID)
	assert.Equal(t, int64(20), plan[1].Quantity)

	// el plan no modifica las capas
	assert.Equal(t, int64(100), layers[0].RemainingQuantity)
	assert.Equal(t, int64(50), layers[1].RemainingQuantity)
}

func TestPlanConsumption_SaltaCapasAgotadas(t *testing.T) {
	layers := []*entity.LedgerEntry{layer("a", 0, "10"), layer("b", 5, "12")}
	plan, err := inventory.PlanConsumption(layers, 5)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "b", plan[0].Layer.ID)
}

func TestPlanConsumption_Errores(t *testing.T) {
	_, err := inventory.PlanConsumption(receipts(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = inventory.PlanConsumption(receipts(), -3)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = inventory.PlanConsumption(receipts(), 151)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestTotalCost(t *testing.T) {
	assert.Equal(t, "1280.00", inventory.TotalCost(120, decimal.RequireFromString("10.6667")).StringFixed(2))
	assert.Equal(t, int64(150), inventory.OpenQuantity(receipts()))
}
