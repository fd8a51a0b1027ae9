package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction sentido de un movimiento del ledger.
type Direction string

const (
	DirectionIN  Direction = "IN"  // entrada: abre una capa de costo
	DirectionOUT Direction = "OUT" // salida: registro cerrado
)

// Reference apunta al documento de negocio que originó el movimiento (orden, recepción,
// devolución...). El motor no interpreta su contenido.
type Reference struct {
	Type string
	ID   string
}

// LedgerEntry una fila del ledger de stock (stock_transactions).
// Inmutable salvo RemainingQuantity en entradas IN, que solo disminuye.
type LedgerEntry struct {
	ID                string
	Sequence          int64 // orden de inserción; clave de orden FIFO/LIFO
	StockPositionID   string
	Direction         Direction
	Quantity          int64
	UnitCost          decimal.Decimal // 4 decimales
	TotalCost         decimal.Decimal // Quantity*UnitCost, 2 decimales
	RemainingQuantity int64           // siempre 0 en OUT
	Reference         *Reference
	Notes             string
	CreatedAt         time.Time
}

// IsOpen true si es una capa IN con cantidad remanente.
func (e *LedgerEntry) IsOpen() bool {
	return e.Direction == DirectionIN && e.RemainingQuantity > 0
}

// RemainingValue valor sin redondear de la parte no consumida de la capa.
func (e *LedgerEntry) RemainingValue() decimal.Decimal {
	return decimal.NewFromInt(e.RemainingQuantity).Mul(e.UnitCost)
}
