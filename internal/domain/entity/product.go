package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-bodega).
// El stock y su valuación se manejan por bodega en StockPosition.
type Product struct {
	ID           string
	CompanyID    string
	CategoryID   string // vacío si no tiene categoría
	SKU          string // código único por empresa
	Name         string
	Description  string
	Price        decimal.Decimal  // precio de venta
	StandardCost *decimal.Decimal // costo estándar; nil si no está definido
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValuationCost costo usado por STANDARD_COST: StandardCost o, si no está definido, Price.
func (p *Product) ValuationCost() decimal.Decimal {
	if p.StandardCost != nil {
		return *p.StandardCost
	}
	return p.Price
}
