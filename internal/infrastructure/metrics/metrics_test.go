package metrics_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
	"github.com/jhoicas/Valuacion-api/internal/infrastructure/metrics"
)

func TestCollectors_MovementRecorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.New(reg)

	c.MovementRecorded(entity.ValuationFIFO, entity.DirectionOUT, 120, 2)
	c.MovementRecorded(entity.ValuationFIFO, entity.DirectionOUT, 30, 1)
	c.MovementRejected(entity.DirectionOUT, "insufficient_stock")

	count, err := testutil.GatherAndCount(reg, "valuation_stock_movements_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			if m.GetCounter() != nil {
				values[f.GetName()] += m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, values["valuation_stock_movements_total"])
	assert.Equal(t, 150.0, values["valuation_stock_moved_units_total"])
	assert.Equal(t, 3.0, values["valuation_ledger_entries_total"])
	assert.Equal(t, 1.0, values["valuation_stock_movements_rejected_total"])
}

func TestCollectors_Middleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.New(reg)

	app := fiber.New()
	app.Use(c.Middleware())
	app.Get("/items/:id", func(ctx *fiber.Ctx) error { return ctx.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/items/42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	count, err := testutil.GatherAndCount(reg, "valuation_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
