package dto

import "time"

// CreateWarehouseRequest entrada para crear una bodega.
// ValuationMethod vacío toma FIFO.
type CreateWarehouseRequest struct {
	Name            string `json:"name"`
	Address         string `json:"address"`
	ValuationMethod string `json:"valuation_method"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"company_id"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	ValuationMethod string    `json:"valuation_method"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
