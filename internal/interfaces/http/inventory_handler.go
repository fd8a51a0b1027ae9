package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Valuacion-api/internal/application/dto"
	"github.com/jhoicas/Valuacion-api/internal/application/inventory"
	"github.com/jhoicas/Valuacion-api/internal/domain"
	"github.com/jhoicas/Valuacion-api/internal/domain/entity"
	"github.com/jhoicas/Valuacion-api/pkg/logger"
)

// InventoryHandler maneja los movimientos de inventario (protegido).
type InventoryHandler struct {
	engine    *inventory.ValuationEngine
	positions *inventory.StockPositionUseCase
	log       *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(engine *inventory.ValuationEngine, positions *inventory.StockPositionUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{engine: engine, positions: positions, log: log}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "type (IN, OUT, ADJUSTMENT, TRANSFER), position_id o product_id + warehouse_id, quantity, unit_cost (entradas)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	ctx := c.UserContext()
	companyID := GetCompanyID(c)
	ref := referenceOf(in)

	var (
		out *dto.MovementResponse
		err error
	)
	switch strings.ToUpper(in.Type) {
	case dto.MovementIn:
		out, err = h.stockIn(ctx, companyID, in, in.Quantity, in.UnitCost, ref)
	case dto.MovementOut:
		out, err = h.stockOut(ctx, companyID, in, in.Quantity, ref)
	case dto.MovementAdjustment:
		if in.Quantity < 0 {
			out, err = h.stockOut(ctx, companyID, in, -in.Quantity, ref)
		} else {
			out, err = h.stockIn(ctx, companyID, in, in.Quantity, h.adjustmentCost(ctx, in), ref)
		}
	case dto.MovementTransfer:
		out, err = h.transfer(ctx, companyID, in, ref)
	default:
		return badRequest(c, "VALIDATION", "type debe ser IN, OUT, ADJUSTMENT o TRANSFER")
	}
	if err != nil {
		return writeError(c, h.log, err)
	}
	out.Type = strings.ToUpper(in.Type)
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *InventoryHandler) stockIn(ctx context.Context, companyID string, in dto.RegisterMovementRequest, quantity int64, unitCost *decimal.Decimal, ref *entity.Reference) (*dto.MovementResponse, error) {
	if unitCost == nil {
		return nil, errors.Join(domain.ErrInvalidInput, errors.New("unit_cost es requerido en entradas"))
	}
	entry, err := h.engine.RecordStockIn(ctx, inventory.StockInInput{
		CompanyID:   companyID,
		PositionID:  in.PositionID,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    quantity,
		UnitCost:    *unitCost,
		Reference:   ref,
		Notes:       in.Notes,
	})
	if err != nil {
		return nil, err
	}
	return h.response(ctx, []*entity.LedgerEntry{entry}, nil)
}

func (h *InventoryHandler) stockOut(ctx context.Context, companyID string, in dto.RegisterMovementRequest, quantity int64, ref *entity.Reference) (*dto.MovementResponse, error) {
	entries, err := h.engine.RecordStockOut(ctx, inventory.StockOutInput{
		CompanyID:   companyID,
		PositionID:  in.PositionID,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    quantity,
		Reference:   ref,
		Notes:       in.Notes,
	})
	if err != nil {
		return nil, err
	}
	return h.response(ctx, entries, nil)
}

func (h *InventoryHandler) transfer(ctx context.Context, companyID string, in dto.RegisterMovementRequest, ref *entity.Reference) (*dto.MovementResponse, error) {
	res, err := h.engine.Transfer(ctx, inventory.TransferInput{
		CompanyID:       companyID,
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		Reference:       ref,
		Notes:           in.Notes,
	})
	if err != nil {
		return nil, err
	}
	return h.response(ctx, res.Outbound, res.Inbound)
}

// adjustmentCost costo de un ajuste positivo: el enviado o, si falta, el costo unitario
// actual de la posición (cero si aún no existe).
func (h *InventoryHandler) adjustmentCost(ctx context.Context, in dto.RegisterMovementRequest) *decimal.Decimal {
	if in.UnitCost != nil {
		return in.UnitCost
	}
	cost := decimal.Zero
	var (
		pos *entity.StockPosition
		err error
	)
	if in.PositionID != "" {
		pos, err = h.positions.Get(ctx, in.PositionID)
	} else {
		pos, err = h.positions.Find(ctx, in.ProductID, in.WarehouseID)
	}
	if err == nil {
		cost = pos.UnitCost
	}
	return &cost
}

// response arma la respuesta con el estado de la posición tras el movimiento.
func (h *InventoryHandler) response(ctx context.Context, entries, inbound []*entity.LedgerEntry) (*dto.MovementResponse, error) {
	out := &dto.MovementResponse{Entries: toLedgerEntries(entries)}
	if len(inbound) > 0 {
		out.Inbound = toLedgerEntries(inbound)
	}
	if len(entries) > 0 {
		pos, err := h.positions.Get(ctx, entries[0].StockPositionID)
		if err != nil {
			return nil, err
		}
		p := toPositionResponse(pos)
		out.Position = &p
	}
	return out, nil
}

func referenceOf(in dto.RegisterMovementRequest) *entity.Reference {
	if in.ReferenceType == "" && in.ReferenceID == "" {
		return nil
	}
	return &entity.Reference{Type: in.ReferenceType, ID: in.ReferenceID}
}
