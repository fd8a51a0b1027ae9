package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento aceptados por POST /api/inventory/movements.
const (
	MovementIn         = "IN"
	MovementOut        = "OUT"
	MovementAdjustment = "ADJUSTMENT"
	MovementTransfer   = "TRANSFER"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// IN/OUT: position_id o product_id + warehouse_id. ADJUSTMENT: quantity con signo.
// TRANSFER: product_id, from_warehouse_id, to_warehouse_id.
type RegisterMovementRequest struct {
	Type            string           `json:"type"`
	PositionID      string           `json:"position_id,omitempty"`
	ProductID       string           `json:"product_id,omitempty"`
	WarehouseID     string           `json:"warehouse_id,omitempty"`
	FromWarehouseID string           `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string           `json:"to_warehouse_id,omitempty"`
	Quantity        int64            `json:"quantity"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	ReferenceType   string           `json:"reference_type,omitempty"`
	ReferenceID     string           `json:"reference_id,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// MovementResponse entradas del ledger creadas por el movimiento y el estado resultante.
type MovementResponse struct {
	Type     string                `json:"type"`
	Entries  []LedgerEntryResponse `json:"entries"`
	Inbound  []LedgerEntryResponse `json:"inbound,omitempty"`
	Position *PositionResponse     `json:"position,omitempty"`
}

// LedgerEntryResponse una fila del ledger de stock.
type LedgerEntryResponse struct {
	ID                string          `json:"id"`
	StockPositionID   string          `json:"stock_position_id"`
	Direction         string          `json:"direction"`
	Quantity          int64           `json:"quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	RemainingQuantity int64           `json:"remaining_quantity"`
	ReferenceType     string          `json:"reference_type,omitempty"`
	ReferenceID       string          `json:"reference_id,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// LedgerListResponse historial paginado de una posición.
type LedgerListResponse struct {
	Items []LedgerEntryResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// ValueResponse valor calculado de una posición, producto, bodega o categoría.
type ValueResponse struct {
	ID    string          `json:"id"`
	Value decimal.Decimal `json:"value"`
}

// PositionValueLine línea del reporte de valuación de una bodega.
type PositionValueLine struct {
	PositionID string          `json:"position_id"`
	ProductID  string          `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	Value      decimal.Decimal `json:"value"`
}

// WarehouseValuationResponse detalle por posición y total de una bodega.
type WarehouseValuationResponse struct {
	WarehouseID     string              `json:"warehouse_id"`
	ValuationMethod string              `json:"valuation_method"`
	Lines           []PositionValueLine `json:"lines"`
	Total           decimal.Decimal     `json:"total"`
}
