package http

import (
	"github.com/jhoicas/Valuacion-api/internal/application/dto"
	"github.com/jhoicas/Valuacion-api/internal/application/inventory"
	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
)

func toPositionResponse(p *entity.StockPosition) dto.PositionResponse {
	return dto.PositionResponse{
		ID:                p.ID,
		ProductID:         p.ProductID,
		WarehouseID:       p.WarehouseID,
		Quantity:          p.Quantity,
		ReservedQuantity:  p.ReservedQuantity,
		AvailableQuantity: p.AvailableQuantity(),
		MinimumStock:      p.MinimumStock,
		MaximumStock:      p.MaximumStock,
		UnitCost:          p.UnitCost,
		TotalValue:        p.TotalValue,
		LowStock:          p.IsLowStock(),
		OverStock:         p.IsOverStock(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toLedgerEntryResponse(e *entity.LedgerEntry) dto.LedgerEntryResponse {
	out := dto.LedgerEntryResponse{
		ID:                e.ID,
		StockPositionID:   e.StockPositionID,
		Direction:         string(e.Direction),
		Quantity:          e.Quantity,
		UnitCost:          e.UnitCost,
		TotalCost:         e.TotalCost,
		RemainingQuantity: e.RemainingQuantity,
		Notes:             e.Notes,
		CreatedAt:         e.CreatedAt,
	}
	if e.Reference != nil {
		out.ReferenceType = e.Reference.Type
		out.ReferenceID = e.Reference.ID
	}
	return out
}

func toLedgerEntries(entries []*entity.LedgerEntry) []dto.LedgerEntryResponse {
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toLedgerEntryResponse(e))
	}
	return out
}

func toWarehouseValuationResponse(v *inventory.WarehouseValuation) dto.WarehouseValuationResponse {
	lines := make([]dto.PositionValueLine, 0, len(v.Lines))
	for _, l := range v.Lines {
		lines = append(lines, dto.PositionValueLine{
			PositionID: l.Position.ID,
			ProductID:  l.Position.ProductID,
			Quantity:   l.Position.Quantity,
			Value:      l.Value,
		})
	}
	return dto.WarehouseValuationResponse{
		WarehouseID:     v.Warehouse.ID,
		ValuationMethod: v.Warehouse.ValuationMethod.String(),
		Lines:           lines,
		Total:           v.Total,
	}
}
