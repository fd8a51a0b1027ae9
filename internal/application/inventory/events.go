package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
)

// ThresholdType tipo de umbral cruzado por una posición.
type ThresholdType string

const (
	ThresholdLowStock  ThresholdType = "LOW_STOCK"
	ThresholdOverStock ThresholdType = "OVER_STOCK"
)

// StockThresholdEvent se emite cuando un movimiento deja la posición en o bajo el mínimo
// (salidas) o sobre el máximo (entradas).
type StockThresholdEvent struct {
	EventID      string        `json:"event_id"`
	Type         ThresholdType `json:"type"`
	PositionID   string        `json:"position_id"`
	ProductID    string        `json:"product_id"`
	WarehouseID  string        `json:"warehouse_id"`
	Quantity     int64         `json:"quantity"`
	MinimumStock int64         `json:"minimum_stock"`
	MaximumStock int64         `json:"maximum_stock"`
	OccurredAt   time.Time     `json:"occurred_at"`
}

// thresholdEvents eventos que corresponden al estado de pos tras un movimiento en direction.
func thresholdEvents(pos *entity.StockPosition, direction entity.Direction, now time.Time) []StockThresholdEvent {
	var kind ThresholdType
	switch {
	case direction == entity.DirectionOUT && pos.IsLowStock():
		kind = ThresholdLowStock
	case direction == entity.DirectionIN && pos.IsOverStock():
		kind = ThresholdOverStock
	default:
		return nil
	}
	return []StockThresholdEvent{{
		EventID:      uuid.New().String(),
		Type:         kind,
		PositionID:   pos.ID,
		ProductID:    pos.ProductID,
		WarehouseID:  pos.WarehouseID,
		Quantity:     pos.Quantity,
		MinimumStock: pos.MinimumStock,
		MaximumStock: pos.MaximumStock,
		OccurredAt:   now,
	}}
}
