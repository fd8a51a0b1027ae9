package inventory

import (
	"context"

	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
	"github.com/jhoicas/Valuacion-api/internal/domain/repository"
)

// Repositories agrupa los repositorios que usa el motor. Dentro de TxRunner.Run vienen
// atados a la transacción; fuera de ella, al pool (lecturas sin bloqueo).
type Repositories struct {
	Positions  repository.StockPositionRepository
	Ledger     repository.LedgerRepository
	Warehouses repository.WarehouseRepository
	Products   repository.ProductRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: si fn devuelve error no queda ninguna escritura.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}

// EventPublisher publica eventos de umbral de stock a suscriptores independientes
// (notificaciones, compras). Se invoca después del commit.
type EventPublisher interface {
	PublishStockThreshold(ctx context.Context, event StockThresholdEvent) error
}

// MovementMetrics recibe observaciones de los movimientos registrados o rechazados.
type MovementMetrics interface {
	MovementRecorded(method entity.ValuationMethod, direction entity.Direction, quantity int64, entries int)
	MovementRejected(direction entity.Direction, reason string)
}

type noopPublisher struct{}

func (noopPublisher) PublishStockThreshold(context.Context, StockThresholdEvent) error { return nil }

type noopMetrics struct{}

func (noopMetrics) MovementRecorded(entity.ValuationMethod, entity.Direction, int64, int) {}
func (noopMetrics) MovementRejected(entity.Direction, string)                          {}
