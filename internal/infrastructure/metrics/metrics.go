package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/Valuacion-api/internal/application/inventory"
	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
)

const namespace = "valuation"

// Collectors métricas Prometheus de movimientos de stock y de la capa HTTP.
type Collectors struct {
	movements      *prometheus.CounterVec
	movedUnits     *prometheus.CounterVec
	ledgerEntries  *prometheus.CounterVec
	rejected       *prometheus.CounterVec
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

var _ inventory.MovementMetrics = (*Collectors)(nil)

// New crea y registra los colectores en reg (prometheus.DefaultRegisterer en producción,
// un registry propio en tests).
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_movements_total",
			Help:      "Movimientos de stock registrados por método y dirección",
		}, []string{"method", "direction"}),
		movedUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_moved_units_total",
			Help:      "Unidades movidas por método y dirección",
		}, []string{"method", "direction"}),
		ledgerEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_entries_total",
			Help:      "Entradas del ledger escritas por dirección",
		}, []string{"direction"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_movements_rejected_total",
			Help:      "Movimientos rechazados por dirección y motivo",
		}, []string{"direction", "reason"}),
		requestCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total de requests HTTP",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de requests HTTP",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(c.movements, c.movedUnits, c.ledgerEntries, c.rejected, c.requestCounter, c.requestLatency)
	return c
}

// MovementRecorded implementa inventory.MovementMetrics.
func (c *Collectors) MovementRecorded(method entity.ValuationMethod, direction entity.Direction, quantity int64, entries int) {
	c.movements.WithLabelValues(method.String(), string(direction)).Inc()
	c.movedUnits.WithLabelValues(method.String(), string(direction)).Add(float64(quantity))
	c.ledgerEntries.WithLabelValues(string(direction)).Add(float64(entries))
}

// MovementRejected implementa inventory.MovementMetrics.
func (c *Collectors) MovementRejected(direction entity.Direction, reason string) {
	c.rejected.WithLabelValues(string(direction), reason).Inc()
}

// Middleware mide cada request por ruta registrada (no por path) para acotar la cardinalidad.
func (c *Collectors) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := ctx.Route().Path
		c.requestCounter.WithLabelValues(ctx.Method(), route, strconv.Itoa(status)).Inc()
		c.requestLatency.WithLabelValues(ctx.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
