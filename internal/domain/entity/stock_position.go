package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Precisión de los campos monetarios.
const (
	UnitCostPlaces = 4
	MoneyPlaces    = 2
)

// StockPosition representa el stock de un producto en una bodega (producto+bodega único).
// Quantity es una caché del ledger: siempre igual a la suma de RemainingQuantity de las
// entradas IN de la posición. Solo se modifica a través de movimientos registrados.
type StockPosition struct {
	ID               string
	ProductID        string
	WarehouseID      string
	Quantity         int64
	ReservedQuantity int64
	MinimumStock     int64
	MaximumStock     int64           // 0 = sin máximo
	UnitCost         decimal.Decimal // costo unitario cacheado (4 decimales)
	TotalValue       decimal.Decimal // valor total cacheado (2 decimales)
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time // retiro lógico; nunca se borra mientras tenga ledger
}

// NewStockPosition construye una posición vacía para el par producto/bodega.
func NewStockPosition(productID, warehouseID string, minimum, maximum int64, now time.Time) *StockPosition {
	return &StockPosition{
		ID:           uuid.New().String(),
		ProductID:    productID,
		WarehouseID:  warehouseID,
		MinimumStock: minimum,
		MaximumStock: maximum,
		UnitCost:     decimal.Zero,
		TotalValue:   decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Reserve aparta cantidad sin reducir el stock físico. Devuelve false y no cambia nada
// si lo disponible (Quantity - ReservedQuantity) no alcanza o la cantidad no es positiva.
func (p *StockPosition) Reserve(quantity int64) bool {
	if quantity <= 0 || p.Quantity-p.ReservedQuantity < quantity {
		return false
	}
	p.ReservedQuantity += quantity
	return true
}

// Release libera reserva; se limita a lo reservado (nunca queda negativa).
func (p *StockPosition) Release(quantity int64) {
	if quantity <= 0 {
		return
	}
	p.ReservedQuantity -= min(quantity, p.ReservedQuantity)
}

// AvailableQuantity cantidad no reservada, nunca negativa.
func (p *StockPosition) AvailableQuantity() int64 {
	return max(0, p.Quantity-p.ReservedQuantity)
}

// IsLowStock true si la cantidad está en o por debajo del mínimo.
func (p *StockPosition) IsLowStock() bool {
	return p.Quantity <= p.MinimumStock
}

// IsOverStock true si hay un máximo configurado y se superó.
func (p *StockPosition) IsOverStock() bool {
	return p.MaximumStock > 0 && p.Quantity > p.MaximumStock
}

// ApplyValuation cachea el valor total y deriva el costo unitario.
func (p *StockPosition) ApplyValuation(total decimal.Decimal) {
	p.TotalValue = total.Round(MoneyPlaces)
	if p.Quantity <= 0 {
		p.UnitCost = decimal.Zero
		return
	}
	p.UnitCost = total.Div(decimal.NewFromInt(p.Quantity)).Round(UnitCostPlaces)
}

// ClampReservation mantiene 0 <= ReservedQuantity <= Quantity tras una salida.
func (p *StockPosition) ClampReservation() {
	if p.ReservedQuantity > p.Quantity {
		p.ReservedQuantity = max(0, p.Quantity)
	}
}

// IsRemoved indica si la posición fue retirada lógicamente.
func (p *StockPosition) IsRemoved() bool {
	return p.DeletedAt != nil
}
