package entity

import "time"

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
// ValuationMethod es propiedad de la bodega, no global: un mismo producto puede valorarse
// con métodos distintos en bodegas distintas.
type Warehouse struct {
	ID              string
	CompanyID       string
	Name            string
	Address         string
	ValuationMethod ValuationMethod
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
