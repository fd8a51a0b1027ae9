package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrForbidden    = errors.New("acceso denegado")

	// Taxonomía del motor de valuación.
	ErrInvalidQuantity   = errors.New("la cantidad debe ser mayor que cero")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrDuplicatePosition = errors.New("ya existe una posición de stock para el producto en la bodega")

	// ErrOverConsumption indica un bug en el algoritmo de consumo: se intentó dejar
	// la cantidad remanente de una capa por debajo de cero. No es recuperable.
	ErrOverConsumption = errors.New("consumo por encima de la cantidad remanente de la capa")
)
