package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Valuacion-api/internal/domain"
	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
)

// LayerConsumption cantidad a consumir de una capa IN concreta.
type LayerConsumption struct {
	Layer    *entity.LedgerEntry
	Quantity int64
}

// OpenQuantity suma de RemainingQuantity de las capas.
func OpenQuantity(layers []*entity.LedgerEntry) int64 {
	var total int64
	for _, l := range layers {
		total += l.RemainingQuantity
	}
	return total
}

// LayerValue valor de quantity unidades tomadas de las capas en el orden recibido
// (más antiguas primero para FIFO, más nuevas primero para LIFO):
// Σ min(remanente, pendiente) × costo hasta cubrir quantity. Resultado a 2 decimales.
func LayerValue(layers []*entity.LedgerEntry, quantity int64) decimal.Decimal {
	value := decimal.Zero
	need := quantity
	for _, l := range layers {
		if need <= 0 {
			break
		}
		take := min(l.RemainingQuantity, need)
		if take <= 0 {
			continue
		}
		value = value.Add(decimal.NewFromInt(take).Mul(l.UnitCost))
		need -= take
	}
	return value.Round(entity.MoneyPlaces)
}

// WeightedAverageCost costo promedio ponderado sobre las capas abiertas:
// Σ(remanente × costo) / Σ remanente. Sin redondear; cero si no hay remanente.
func WeightedAverageCost(layers []*entity.LedgerEntry) decimal.Decimal {
	qty := OpenQuantity(layers)
	if qty <= 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, l := range layers {
		sum = sum.Add(l.RemainingValue())
	}
	return sum.Div(decimal.NewFromInt(qty))
}

// WeightedAverageValue quantity × costo promedio, a 2 decimales.
// Se calcula sobre el promedio sin redondear para no arrastrar error de los 4 decimales.
func WeightedAverageValue(layers []*entity.LedgerEntry, quantity int64) decimal.Decimal {
	qty := OpenQuantity(layers)
	if qty <= 0 || quantity <= 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, l := range layers {
		sum = sum.Add(l.RemainingValue())
	}
	return sum.Mul(decimal.NewFromInt(quantity)).Div(decimal.NewFromInt(qty)).Round(entity.MoneyPlaces)
}

// StandardValue quantity × costo estándar, a 2 decimales.
func StandardValue(quantity int64, standardCost decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(quantity).Mul(standardCost).Round(entity.MoneyPlaces)
}

// PlanConsumption reparte quantity sobre las capas en el orden recibido. No modifica las capas.
// Devuelve ErrInvalidQuantity si quantity <= 0 y ErrInsufficientStock si el remanente no alcanza.
func PlanConsumption(layers []*entity.LedgerEntry, quantity int64) ([]LayerConsumption, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if OpenQuantity(layers) < quantity {
		return nil, domain.ErrInsufficientStock
	}
	plan := make([]LayerConsumption, 0, len(layers))
	need := quantity
	for _, l := range layers {
		if need == 0 {
			break
		}
		take := min(l.RemainingQuantity, need)
		if take <= 0 {
			continue
		}
		plan = append(plan, LayerConsumption{Layer: l, Quantity: take})
		need -= take
	}
	return plan, nil
}

// TotalCost Quantity×UnitCost redondeado a 2 decimales.
func TotalCost(quantity int64, unitCost decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(quantity).Mul(unitCost).Round(entity.MoneyPlaces)
}
