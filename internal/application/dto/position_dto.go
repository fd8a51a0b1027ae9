package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePositionRequest body para POST /api/stock-positions.
type CreatePositionRequest struct {
	ProductID    string `json:"product_id"`
	WarehouseID  string `json:"warehouse_id"`
	MinimumStock int64  `json:"minimum_stock"`
	MaximumStock int64  `json:"maximum_stock"`
}

// QuantityRequest body para reservar o liberar.
type QuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

// ThresholdsRequest body para PUT /api/stock-positions/:id/thresholds.
type ThresholdsRequest struct {
	MinimumStock int64 `json:"minimum_stock"`
	MaximumStock int64 `json:"maximum_stock"`
}

// PositionResponse estado de una posición de stock.
type PositionResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	WarehouseID       string          `json:"warehouse_id"`
	Quantity          int64           `json:"quantity"`
	ReservedQuantity  int64           `json:"reserved_quantity"`
	AvailableQuantity int64           `json:"available_quantity"`
	MinimumStock      int64           `json:"minimum_stock"`
	MaximumStock      int64           `json:"maximum_stock"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	TotalValue        decimal.Decimal `json:"total_value"`
	LowStock          bool            `json:"low_stock"`
	OverStock         bool            `json:"over_stock"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ReserveResponse resultado de una reserva; Reserved=false si no había disponible suficiente.
type ReserveResponse struct {
	Reserved bool             `json:"reserved"`
	Position PositionResponse `json:"position"`
}
