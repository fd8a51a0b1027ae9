package entity

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Valuacion-api/internal/domain"
)

// ValuationMethod método de valuación de inventario configurado por bodega.
type ValuationMethod string

const (
	ValuationFIFO            ValuationMethod = "FIFO"
	ValuationLIFO            ValuationMethod = "LIFO"
	ValuationWeightedAverage ValuationMethod = "WEIGHTED_AVERAGE"
	ValuationStandardCost    ValuationMethod = "STANDARD_COST"
)

// DefaultValuationMethod método asignado a bodegas nuevas si no se indica otro.
const DefaultValuationMethod = ValuationFIFO

// IsValid indica si el método es uno de los cuatro soportados.
func (m ValuationMethod) IsValid() bool {
	switch m {
	case ValuationFIFO, ValuationLIFO, ValuationWeightedAverage, ValuationStandardCost:
		return true
	default:
		return false
	}
}

// UsesLayers true si el consumo se hace capa por capa (FIFO/LIFO).
func (m ValuationMethod) UsesLayers() bool {
	return m == ValuationFIFO || m == ValuationLIFO
}

func (m ValuationMethod) String() string { return string(m) }

// ParseValuationMethod normaliza (mayúsculas, sin espacios) y valida el método.
// Cadena vacía devuelve DefaultValuationMethod.
func ParseValuationMethod(s string) (ValuationMethod, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return DefaultValuationMethod, nil
	}
	m := ValuationMethod(s)
	if !m.IsValid() {
		return "", fmt.Errorf("%w: método de valuación desconocido %q", domain.ErrInvalidInput, s)
	}
	return m, nil
}
