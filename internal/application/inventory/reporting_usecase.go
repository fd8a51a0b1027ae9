package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
	"github.com/jhoicas/Valuacion-api/internal/domain/repository"
)

// ReportingUseCase totales de valuación por bodega, producto y categoría.
// Sin caché: cada llamada recalcula desde posiciones y ledger, sin bloqueos.
type ReportingUseCase struct {
	engine     *ValuationEngine
	reader     Repositories
	categories repository.CategoryRepository
}

// NewReportingUseCase construye el caso de uso de reportes.
func NewReportingUseCase(engine *ValuationEngine, reader Repositories, categories repository.CategoryRepository) *ReportingUseCase {
	return &ReportingUseCase{engine: engine, reader: reader, categories: categories}
}

// PositionValue valor de una posición dentro de un reporte.
type PositionValue struct {
	Position *entity.StockPosition
	Value    decimal.Decimal
}

// WarehouseValuation detalle por posición y total de una bodega.
type WarehouseValuation struct {
	Warehouse *entity.Warehouse
	Lines     []PositionValue
	Total     decimal.Decimal
}

// WarehouseTotalValue suma del valor de todas las posiciones de la bodega.
func (uc *ReportingUseCase) WarehouseTotalValue(ctx context.Context, warehouseID string) (decimal.Decimal, error) {
	v, err := uc.WarehouseValuation(ctx, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	return v.Total, nil
}

// WarehouseValuation valor de cada posición de la bodega y su total.
func (uc *ReportingUseCase) WarehouseValuation(ctx context.Context, warehouseID string) (*WarehouseValuation, error) {
	wh, err := uc.reader.Warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	positions, err := uc.reader.Positions.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := &WarehouseValuation{Warehouse: wh, Lines: make([]PositionValue, 0, len(positions)), Total: decimal.Zero}
	for _, pos := range positions {
		v, err := uc.engine.valueOf(ctx, uc.reader, wh, pos)
		if err != nil {
			return nil, err
		}
		out.Lines = append(out.Lines, PositionValue{Position: pos, Value: v})
		out.Total = out.Total.Add(v)
	}
	return out, nil
}

// ProductTotalValue suma del valor del producto en todas sus bodegas; cada bodega
// aplica su propio método de valuación.
func (uc *ReportingUseCase) ProductTotalValue(ctx context.Context, productID string) (decimal.Decimal, error) {
	if _, err := uc.reader.Products.GetByID(ctx, productID); err != nil {
		return decimal.Zero, err
	}
	positions, err := uc.reader.Positions.ListByProduct(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, pos := range positions {
		v, err := uc.engine.CalculateStockValue(ctx, pos)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(v)
	}
	return total, nil
}

// CategoryTotalValue suma de ProductTotalValue sobre los productos de la categoría.
func (uc *ReportingUseCase) CategoryTotalValue(ctx context.Context, categoryID string) (decimal.Decimal, error) {
	if _, err := uc.categories.GetByID(ctx, categoryID); err != nil {
		return decimal.Zero, err
	}
	products, err := uc.reader.Products.ListByCategory(ctx, categoryID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range products {
		v, err := uc.ProductTotalValue(ctx, p.ID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(v)
	}
	return total, nil
}
